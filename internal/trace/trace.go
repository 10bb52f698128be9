// Package trace counts guest-access errors (invalid MMIO addresses, bad
// access sizes) raised by the device model, backed by an eBPF map when the
// host allows it.
//
// This mirrors the teacher driver's own eBPF integration in
// internal/driver/device/eBPF_driver.go: that code loads a BpfObjects stub
// unconditionally rather than failing when a compiled object file isn't
// available, so that a missing kernel feature degrades silently instead of
// aborting the caller. We follow the same posture: if the map can't be
// created (no CAP_BPF, non-Linux host, locked-down kernel), the Counter
// keeps counting in-process and simply never backs it with a kernel map.
package trace

import (
	"log"
	"sync/atomic"

	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/rlimit"
)

// Counter tracks guest-access errors for one device instance.
type Counter struct {
	count   atomic.Uint64
	bpfMap  *ebpf.Map
	enabled bool
}

// NewCounter creates a guest-error counter. It always succeeds: when the
// eBPF map cannot be created, tracing falls back to a plain in-process
// counter and enabled reports false.
func NewCounter() *Counter {
	c := &Counter{}

	if err := rlimit.RemoveMemlock(); err != nil {
		log.Printf("trace: eBPF unavailable, using in-process counter: %v", err)
		return c
	}

	m, err := ebpf.NewMap(&ebpf.MapSpec{
		Name:       "guest_error_count",
		Type:       ebpf.Array,
		KeySize:    4,
		ValueSize:  8,
		MaxEntries: 1,
	})
	if err != nil {
		log.Printf("trace: eBPF map unavailable, using in-process counter: %v", err)
		return c
	}

	c.bpfMap = m
	c.enabled = true
	return c
}

// Enabled reports whether the counter is backed by a live eBPF map, as
// opposed to the in-process fallback.
func (c *Counter) Enabled() bool { return c.enabled }

// Record increments the guest-error count.
func (c *Counter) Record() {
	n := c.count.Add(1)

	if c.bpfMap == nil {
		return
	}
	var key uint32
	if err := c.bpfMap.Update(&key, &n, ebpf.UpdateAny); err != nil {
		// The in-process counter already advanced; a map write failure is
		// not reported to the caller, matching the device's own policy
		// that guest-access errors are logged, never surfaced as errors.
		log.Printf("trace: eBPF map update failed: %v", err)
	}
}

// Count returns the number of guest-access errors recorded so far.
func (c *Counter) Count() uint64 { return c.count.Load() }

// Close releases the underlying eBPF map, if any.
func (c *Counter) Close() error {
	if c.bpfMap == nil {
		return nil
	}
	return c.bpfMap.Close()
}
