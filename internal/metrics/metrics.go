// Package metrics reports host (not device) resource usage for display
// alongside device status in the monitor dashboard, mirroring the
// teacher CLI's use of gopsutil in internal/cli/ui/ui.go to show CPU/mem
// panels next to device activity.
package metrics

import (
	psutilcpu "github.com/shirou/gopsutil/v3/cpu"
	psutilmem "github.com/shirou/gopsutil/v3/mem"
)

// Host is a snapshot of host resource usage.
type Host struct {
	CPUPercent float64
	MemUsedPct float64
}

// Sample takes a best-effort snapshot of host CPU and memory usage. Errors
// from the underlying gopsutil calls are swallowed and reported as zero
// values: this is a display-only convenience, never a correctness path.
func Sample() Host {
	var h Host

	if pcts, err := psutilcpu.Percent(0, false); err == nil && len(pcts) > 0 {
		h.CPUPercent = pcts[0]
	}
	if vm, err := psutilmem.VirtualMemory(); err == nil {
		h.MemUsedPct = vm.UsedPercent
	}
	return h
}
