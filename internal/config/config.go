// Package config loads operator-facing settings for the accelerator's
// host-side tooling (cmd/hasherd, cmd/hashermon, cmd/hasherctl). It follows
// the teacher project's own config package: a .env file in the project
// root, overridden by environment variables, with no third-party config
// library involved (the retrieved corpus carries none).
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// HostConfig holds settings for the host-side tooling around the device.
type HostConfig struct {
	// ListenAddr is the address cmd/hasherd binds its HTTP API to.
	ListenAddr string
	// MonitorInterval is how often cmd/hashermon polls device registers.
	MonitorInterval int // milliseconds
	// USBEnabled selects the usbhost transport instead of the in-process
	// MMIO device when set.
	USBEnabled bool
}

var (
	hostConfig   *HostConfig
	configLoaded bool
)

// DefaultHostConfig returns the settings used when no .env file or
// environment variable overrides them.
func DefaultHostConfig() *HostConfig {
	return &HostConfig{
		ListenAddr:      ":8080",
		MonitorInterval: 250,
		USBEnabled:      false,
	}
}

// LoadHostConfig loads settings from a .env file in the project root, then
// applies environment variable overrides. The result is cached for the
// life of the process.
func LoadHostConfig() (*HostConfig, error) {
	if hostConfig != nil && configLoaded {
		return hostConfig, nil
	}

	cfg := DefaultHostConfig()

	projectRoot := findProjectRoot()
	envPath := filepath.Join(projectRoot, ".env")
	if data, err := os.ReadFile(envPath); err == nil {
		parseEnvFile(string(data), cfg)
	}

	if addr := os.Getenv("HASHER_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if interval := os.Getenv("HASHER_MONITOR_INTERVAL_MS"); interval != "" {
		if v, err := strconv.Atoi(interval); err == nil {
			cfg.MonitorInterval = v
		}
	}
	if usb := os.Getenv("HASHER_USB_ENABLED"); usb != "" {
		cfg.USBEnabled = usb == "1" || strings.EqualFold(usb, "true")
	}

	hostConfig = cfg
	configLoaded = true
	return cfg, nil
}

func parseEnvFile(content string, cfg *HostConfig) {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "HASHER_LISTEN_ADDR":
			cfg.ListenAddr = value
		case "HASHER_MONITOR_INTERVAL_MS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.MonitorInterval = v
			}
		case "HASHER_USB_ENABLED":
			cfg.USBEnabled = value == "1" || strings.EqualFold(value, "true")
		}
	}
}

func findProjectRoot() string {
	cwd, _ := os.Getwd()
	if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
		return cwd
	}
	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return cwd
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return cwd
		}
		cwd = parent
	}
}
