//go:build !mips && !mipsle

// Package usbhost provides an alternate Host Interface transport for an
// accelerator attached over USB instead of exposed through MMIO. It
// mirrors internal/driver/device/usb_device.go's role in the teacher
// project: a second transport for the same underlying device, claimed by
// vendor/product ID, used instead of (not in addition to) the in-process
// MMIO path.
//
// Like the rest of the Host Interface, this transport assumes a single
// client session and performs the same clipping and single-shot-read
// rules as host.Session (spec sections 4.3 and 5); it differs only in how
// bytes reach the peripheral.
package usbhost

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gousb"

	"sha256hw/internal/regs"
)

// Vendor/product ID for the accelerator's USB descriptor.
const (
	VendorID  = gousb.ID(0xfeed)
	ProductID = gousb.ID(0xcafe)

	// Endpoints follow the bulk in/out convention used by the teacher's
	// USB transport for the same class of device.
	endpointOut = 0x01
	endpointIn  = 0x81

	readTimeout = 2 * time.Second
)

// Device is a USB-attached accelerator session.
type Device struct {
	ctx    *gousb.Context
	dev    *gousb.Device
	config *gousb.Config
	intf   *gousb.Interface
	epOut  *gousb.OutEndpoint
	epIn   *gousb.InEndpoint

	cursor int
}

// Open claims the first accelerator found on the USB bus.
func Open() (*Device, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(VendorID, ProductID)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("usbhost: open device: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("usbhost: no accelerator found for vid=%s pid=%s", VendorID, ProductID)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbhost: claim config: %w", err)
	}
	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbhost: claim interface: %w", err)
	}
	epOut, err := intf.OutEndpoint(endpointOut)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbhost: out endpoint: %w", err)
	}
	epIn, err := intf.InEndpoint(endpointIn)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbhost: in endpoint: %w", err)
	}

	return &Device{
		ctx:    ctx,
		dev:    dev,
		config: cfg,
		intf:   intf,
		epOut:  epOut,
		epIn:   epIn,
	}, nil
}

// Close releases the USB interface, configuration, device and context.
func (d *Device) Close() error {
	d.intf.Close()
	d.config.Close()
	err := d.dev.Close()
	d.ctx.Close()
	return err
}

// Write streams up to 1024 bytes of message payload to the device's bulk
// OUT endpoint, clipped the same way host.Session clips to the input
// window (spec section 4.3).
func (d *Device) Write(buf []byte) (int, error) {
	n := len(buf)
	if n > regs.InputSize {
		n = regs.InputSize
	}
	if remaining := regs.InputSize - d.cursor; n > remaining {
		n = remaining
	}

	written, err := d.epOut.Write(buf[:n])
	if err != nil {
		return 0, fmt.Errorf("usbhost: write: %w", err)
	}
	d.cursor += written
	return written, nil
}

// StartHash signals the device to run the Digest Engine over whatever has
// been streamed so far by writing the start command to the bulk OUT
// endpoint. It returns as soon as that write completes; it does not wait
// for the digest, and ctx is not used. Waiting for the digest happens in
// Read, bounded by readTimeout.
func (d *Device) StartHash(ctx context.Context) error {
	startCmd := []byte{byte(regs.CtrlStartHash)}
	if _, err := d.epOut.Write(startCmd); err != nil {
		return fmt.Errorf("usbhost: start command: %w", err)
	}
	return nil
}

// Read reads up to 32 bytes of digest from the bulk IN endpoint.
func (d *Device) Read(buf []byte) (int, error) {
	n := len(buf)
	if n > regs.OutputSize {
		n = regs.OutputSize
	}

	ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
	defer cancel()

	read, err := d.epIn.ReadContext(ctx, buf[:n])
	if err != nil {
		return 0, fmt.Errorf("usbhost: read: %w", err)
	}
	d.cursor = read
	return read, nil
}

// Available reports whether an accelerator is present on the USB bus,
// without claiming it.
func Available() bool {
	ctx := gousb.NewContext()
	defer ctx.Close()

	dev, err := ctx.OpenDeviceWithVIDPID(VendorID, ProductID)
	if err != nil || dev == nil {
		return false
	}
	dev.Close()
	return true
}
