package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"sha256hw/internal/device"
	"sha256hw/internal/regs"
)

func TestModelRefreshReflectsDeviceState(t *testing.T) {
	dev := device.New()
	defer dev.Close()

	dev.Write(regs.InputReg, 1, 'h')
	dev.Write(regs.InputReg+1, 1, 'i')
	dev.Write(regs.CtrlReg, 4, regs.CtrlStartHash)

	m := NewModel(dev, 10*time.Millisecond)
	m.refresh()

	assert.Equal(t, regs.DeviceID, m.id)
	assert.Equal(t, regs.StatusReady, m.status)
	assert.NotEmpty(t, m.digest)
	assert.Equal(t, uint64(1), m.stats.HashesComputed)
}

func TestModelViewContainsStatus(t *testing.T) {
	dev := device.New()
	defer dev.Close()

	m := NewModel(dev, 10*time.Millisecond)
	m.refresh()

	assert.Contains(t, m.View(), "IDLE")
	assert.Contains(t, m.View(), "device id:")
}

func TestModelQuitsOnQ(t *testing.T) {
	dev := device.New()
	defer dev.Close()

	m := NewModel(dev, 10*time.Millisecond)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
}
