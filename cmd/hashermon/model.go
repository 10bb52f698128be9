// Package main implements hashermon, a bubbletea dashboard that polls a
// Device's registers and the host's CPU/mem usage and renders them live,
// in the spirit of the teacher project's internal/cli/ui bubbletea model
// (NewModel/Update/View) and its gopsutil-backed status panels.
package main

import (
	"encoding/hex"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sha256hw/internal/device"
	"sha256hw/internal/metrics"
	"sha256hw/internal/regs"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	readyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	digestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

type tickMsg time.Time

// model is the bubbletea Model for hashermon.
type model struct {
	dev      *device.Device
	interval time.Duration

	id          uint32
	status      uint32
	digest      string
	stats       device.Stats
	host        metrics.Host
	pollsServed int
}

// NewModel creates a hashermon model polling dev every interval.
func NewModel(dev *device.Device, interval time.Duration) model {
	return model{dev: dev, interval: interval}
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		m.refresh()
		return m, m.tick()
	}
	return m, nil
}

func (m *model) refresh() {
	m.id = m.dev.Read(regs.IDReg, 4)
	m.status = m.dev.Read(regs.StatusReg, 4)
	m.stats = m.dev.Stats()
	m.host = metrics.Sample()
	m.pollsServed++

	out := make([]byte, regs.OutputSize)
	for i := range out {
		out[i] = byte(m.dev.Read(regs.OutputReg+uint32(i), 1))
	}
	m.digest = hex.EncodeToString(out)
}

func (m model) View() string {
	statusLine := idleStyle.Render("IDLE")
	if m.status == regs.StatusReady {
		statusLine = readyStyle.Render("READY")
	}

	errLine := ""
	if m.stats.GuestErrors > 0 {
		errLine = errorStyle.Render(fmt.Sprintf("guest errors: %d", m.stats.GuestErrors))
	}

	return fmt.Sprintf(
		"%s\n\n%s %#08x\n%s %s\n%s %s\n\n%s\n  hashes computed:    %d\n  total accesses:     %d\n  last start latency: %s\n  %s\n\n%s\n  cpu: %.1f%%   mem: %.1f%%\n\n%s\n",
		titleStyle.Render("sha256hw — accelerator monitor"),
		labelStyle.Render("device id:"), m.id,
		labelStyle.Render("status:  "), statusLine,
		labelStyle.Render("digest:  "), digestStyle.Render(m.digest),
		labelStyle.Render("device stats:"),
		m.stats.HashesComputed,
		m.stats.TotalAccesses,
		time.Duration(m.stats.LastStartLatencyNs),
		errLine,
		labelStyle.Render("host:"),
		m.host.CPUPercent, m.host.MemUsedPct,
		labelStyle.Render("press q to quit"),
	)
}
