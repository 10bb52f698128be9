// sha256hw: memory-mapped SHA-256 accelerator simulator
// Copyright (C) 2026  Guillermo Perry
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sha256hw/internal/config"
	"sha256hw/internal/device"
)

func main() {
	cfg, err := config.LoadHostConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "hashermon: load config:", err)
		os.Exit(-1)
	}

	dev := device.New()
	defer dev.Close()

	interval := time.Duration(cfg.MonitorInterval) * time.Millisecond
	m := NewModel(dev, interval)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "hashermon:", err)
		os.Exit(-1)
	}
}
