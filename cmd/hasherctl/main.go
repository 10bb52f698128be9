// sha256hw: memory-mapped SHA-256 accelerator simulator
// Copyright (C) 2026  Guillermo Perry
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Command hasherctl is a client of the Host Interface (spec section 6,
// "character-device surface"): it opens a session, streams a message into
// the input window, triggers the hash, and prints the resulting digest.
// By default it talks to an in-process simulated device; with -usb, or
// when HASHER_USB_ENABLED is set, it instead drives a real accelerator
// attached over USB (internal/usbhost), exactly as the teacher's CLI could
// be pointed at either its kernel device or its USB transport.
//
// Exit codes follow the spec's example-program contract: 0 on success, -1
// on any failed step.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"

	"sha256hw/internal/config"
	"sha256hw/internal/device"
	"sha256hw/internal/host"
	"sha256hw/internal/regs"
	"sha256hw/internal/usbhost"
)

func main() {
	message := flag.String("message", "", "message to hash (mutually exclusive with -stdin)")
	fromStdin := flag.Bool("stdin", false, "read the message from stdin instead of -message")
	reset := flag.Bool("reset", false, "reset the device after hashing and print status")
	copyToClipboard := flag.Bool("copy", false, "copy the resulting digest to the clipboard")
	useUSB := flag.Bool("usb", false, "drive a USB-attached accelerator instead of the in-process device (overrides HASHER_USB_ENABLED)")
	flag.Parse()

	cfg, err := config.LoadHostConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hasherctl: load config:", err)
		os.Exit(-1)
	}

	var payload []byte
	switch {
	case *fromStdin:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hasherctl:", err)
			os.Exit(-1)
		}
		payload = data
	default:
		payload = []byte(*message)
	}

	if cfg.USBEnabled || *useUSB {
		err = runUSB(payload, *copyToClipboard)
	} else {
		err = run(payload, *reset, *copyToClipboard)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "hasherctl:", err)
		os.Exit(-1)
	}
}

func run(payload []byte, doReset, copyOut bool) error {
	dev := device.New()
	defer dev.Close()

	session, err := host.Open(dev)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer session.Close()

	id, err := session.Control(regs.GetID)
	if err != nil {
		return fmt.Errorf("control GET_ID: %w", err)
	}
	if id != regs.DeviceID {
		return fmt.Errorf("unexpected device id %#x", id)
	}

	if _, err := session.Write(payload); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if _, err := session.Control(regs.StartHash); err != nil {
		return fmt.Errorf("control START_HASH: %w", err)
	}

	digest := make([]byte, regs.OutputSize)
	if _, err := session.Read(digest); err != nil {
		return fmt.Errorf("read: %w", err)
	}

	printDigest(digest, copyOut)

	if doReset {
		if _, err := session.Control(regs.Reset); err != nil {
			return fmt.Errorf("control RESET: %w", err)
		}
		status, err := session.Control(regs.GetStatus)
		if err != nil {
			return fmt.Errorf("control GET_STATUS: %w", err)
		}
		fmt.Printf("status after reset: %d\n", status)
	}

	return nil
}

// runUSB drives the same write → start → read sequence as run, but over a
// real accelerator claimed on the USB bus instead of the in-process device.
// The USB transport has no GET_ID/GET_STATUS/RESET controls (see
// internal/usbhost), so -reset has no effect here.
func runUSB(payload []byte, copyOut bool) error {
	dev, err := usbhost.Open()
	if err != nil {
		return fmt.Errorf("usb open: %w", err)
	}
	defer dev.Close()

	if _, err := dev.Write(payload); err != nil {
		return fmt.Errorf("usb write: %w", err)
	}
	if err := dev.StartHash(context.Background()); err != nil {
		return fmt.Errorf("usb start: %w", err)
	}

	digest := make([]byte, regs.OutputSize)
	if _, err := dev.Read(digest); err != nil {
		return fmt.Errorf("usb read: %w", err)
	}

	printDigest(digest, copyOut)
	return nil
}

func printDigest(digest []byte, copyOut bool) {
	hexDigest := hex.EncodeToString(digest)
	fmt.Println(hexDigest)

	if copyOut {
		if err := clipboard.WriteAll(hexDigest); err != nil {
			fmt.Fprintln(os.Stderr, "hasherctl: clipboard unavailable:", err)
		}
	}
}
