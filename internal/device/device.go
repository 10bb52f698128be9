// Package device implements the memory-mapped SHA-256 accelerator's
// register-mapped peripheral state machine (spec section 4.2): a 4 KiB
// MMIO window exposing identification, control, status, input and output
// registers, backed by the pure SHA-256 transform in package engine.
package device

import (
	"log"
	"sync"
	"time"

	"sha256hw/internal/engine"
	"sha256hw/internal/regs"
	"sha256hw/internal/trace"
)

// Device is one instance of the accelerator peripheral. The zero value is
// not usable; construct with New.
type Device struct {
	mu sync.Mutex

	control uint32
	status  uint32
	input   [regs.InputSize]byte
	output  [regs.OutputSize]byte

	stats   Stats
	counter *trace.Counter
}

// Stats holds operational counters that are not part of the MMIO register
// map (spec section 8 does not require them to be observable on the bus);
// they exist purely for the monitor/CLI tooling built on top of the device.
type Stats struct {
	TotalAccesses      uint64
	GuestErrors        uint64
	HashesComputed     uint64
	LastStartLatencyNs int64
}

// New creates a Device with all state zero-initialized, matching the
// post-reset invariants of spec section 3.
func New() *Device {
	return &Device{counter: trace.NewCounter()}
}

// Close releases resources backing the device's guest-error tracer.
func (d *Device) Close() error {
	return d.counter.Close()
}

// Stats returns a snapshot of the device's operational counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Read performs an MMIO read of size bytes (1, 2 or 4) at address addr
// within the device's 4 KiB window. Out-of-window reads, invalid sizes and
// unknown addresses return the guest-error sentinel truncated to size and
// leave all state untouched (spec section 4.2).
func (d *Device) Read(addr uint32, size int) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.TotalAccesses++

	if !validSize(size) {
		return d.guestError(size)
	}

	switch {
	case addr == regs.IDReg:
		return truncate(regs.DeviceID, size)

	case addr == regs.CtrlReg:
		return truncate(d.control, size)

	case addr == regs.StatusReg:
		return truncate(d.status, size)

	case inWindow(addr, size, regs.InputReg, regs.InputEnd):
		return readLE(d.input[:], addr-regs.InputReg, size)

	case inWindow(addr, size, regs.OutputReg, regs.OutputEnd):
		return readLE(d.output[:], addr-regs.OutputReg, size)

	default:
		return d.guestError(size)
	}
}

// Write performs an MMIO write of size bytes (1, 2 or 4) at address addr.
// A write of 1 to CTRL_REG runs the Digest Engine synchronously; a write
// of 0 resets the input and output windows. Writes to the input window are
// byte-granular stores; a wider write decomposes into a little-endian
// byte fan (spec section 9, "Multi-byte writes to the input window").
// Any other address is a guest error: logged, ignored, no state change.
func (d *Device) Write(addr uint32, size int, data uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats.TotalAccesses++

	if !validSize(size) {
		d.guestError(size)
		return
	}

	switch {
	case addr == regs.CtrlReg:
		d.writeCtrl(truncate(data, size))

	case inWindow(addr, size, regs.InputReg, regs.InputEnd):
		writeLE(d.input[:], addr-regs.InputReg, size, data)

	default:
		d.guestError(size)
	}
}

func (d *Device) writeCtrl(data uint32) {
	d.control = data

	switch data {
	case regs.CtrlStartHash:
		start := time.Now()
		sum := engine.Sum(engine.EffectiveInput(d.input[:]))
		d.stats.LastStartLatencyNs = time.Since(start).Nanoseconds()
		d.output = sum
		d.status = regs.StatusReady
		d.stats.HashesComputed++

	case regs.CtrlReset:
		d.input = [regs.InputSize]byte{}
		d.output = [regs.OutputSize]byte{}
		d.status = regs.StatusIdle

	default:
		// Any other value updates control only; no other side effect.
	}
}

// guestError logs an invalid MMIO access and returns the sentinel
// truncated to size. Must be called with d.mu held.
func (d *Device) guestError(size int) uint32 {
	d.stats.GuestErrors++
	d.counter.Record()
	log.Printf("device: guest access error (size=%d)", size)
	return truncate(regs.GuestErrorSentinel, size)
}

func validSize(size int) bool {
	return size == 1 || size == 2 || size == 4
}

// inWindow reports whether [addr, addr+size) lies entirely within
// [start, end).
func inWindow(addr uint32, size int, start, end uint32) bool {
	if addr < start || addr >= end {
		return false
	}
	return addr+uint32(size) <= end
}

func readLE(buf []byte, offset uint32, size int) uint32 {
	var v uint32
	for i := 0; i < size; i++ {
		v |= uint32(buf[int(offset)+i]) << (8 * uint(i))
	}
	return v
}

func writeLE(buf []byte, offset uint32, size int, data uint32) {
	for i := 0; i < size; i++ {
		buf[int(offset)+i] = byte(data >> (8 * uint(i)))
	}
}

func truncate(v uint32, size int) uint32 {
	switch size {
	case 1:
		return v & 0xFF
	case 2:
		return v & 0xFFFF
	default:
		return v
	}
}
