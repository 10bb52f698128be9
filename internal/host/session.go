// Package host implements the Host Interface (spec section 4.3): the
// translator between a byte-stream client session (open/read/write/control)
// and the Device Model's MMIO register semantics.
package host

import (
	"sync"

	"sha256hw/internal/device"
	"sha256hw/internal/regs"
)

// Session is one open client session: a non-owning reference to a Device
// plus the read/write cursor used to place successive stream bytes. A
// Session must not be shared across goroutines unless created with
// OpenGuarded.
type Session struct {
	dev    *device.Device
	cursor int
	guard  *sync.Mutex // nil unless created via OpenGuarded
}

// Open acquires a session bound to dev. Matching spec section 5's
// single-client assumption, the returned Session performs no locking of
// its own.
func Open(dev *device.Device) (*Session, error) {
	if dev == nil {
		return nil, ErrDeviceUnavailable
	}
	return &Session{dev: dev}, nil
}

// OpenGuarded acquires a session whose Lock and Unlock use guard, so that
// callers can serialize the write → START_HASH → read sequence; Write, Read
// and Control do not take the guard themselves. It suits callers (such as cmd/hasherd) that may
// see concurrent clients (spec section 5, "an implementation that wants
// multi-session safety should serialize sessions with a single mutex
// covering the four-op sequence").
func OpenGuarded(dev *device.Device, guard *sync.Mutex) (*Session, error) {
	s, err := Open(dev)
	if err != nil {
		return nil, err
	}
	s.guard = guard
	return s, nil
}

// Lock acquires the session's shared guard, if any. Callers that need to
// perform write → START_HASH → read as one atomic sequence should Lock
// before the first step and defer Unlock. A no-op on unguarded sessions.
func (s *Session) Lock() {
	if s.guard != nil {
		s.guard.Lock()
	}
}

// Unlock releases the session's shared guard, if any.
func (s *Session) Unlock() {
	if s.guard != nil {
		s.guard.Unlock()
	}
}

// Write streams up to 1024 bytes into the input window at the session
// cursor, clipping n to whatever fits in the remaining window, and
// advances the cursor by the number of bytes written.
func (s *Session) Write(buf []byte) (int, error) {
	if buf == nil {
		return 0, ErrBadUserspace
	}

	n := len(buf)
	if n > regs.InputSize {
		n = regs.InputSize
	}
	if remaining := regs.InputSize - s.cursor; n > remaining {
		n = remaining
	}

	for i := 0; i < n; i++ {
		s.dev.Write(regs.InputReg+uint32(s.cursor+i), 1, uint32(buf[i]))
	}
	s.cursor += n
	return n, nil
}

// Read streams up to 32 bytes out of the output window starting at
// offset 0 — a single-shot digest read per open, per spec section 4.3.
// The cursor is reset to 0 at the start of every read and then set to n
// on return.
func (s *Session) Read(buf []byte) (int, error) {
	if buf == nil {
		return 0, ErrBadUserspace
	}

	n := len(buf)
	if n > regs.OutputSize {
		n = regs.OutputSize
	}

	s.cursor = 0
	for i := 0; i < n; i++ {
		buf[i] = byte(s.dev.Read(regs.OutputReg+uint32(i), 1))
	}
	s.cursor = n
	return n, nil
}

// Control issues one of the four defined control commands. GetID and
// GetStatus return the read register value; StartHash and Reset return 0
// on success. Any other command fails with ErrUnknownControl.
func (s *Session) Control(cmd regs.ControlCommand) (uint32, error) {
	switch cmd {
	case regs.GetID:
		return s.dev.Read(regs.IDReg, 4), nil

	case regs.GetStatus:
		return s.dev.Read(regs.StatusReg, 4), nil

	case regs.StartHash:
		s.dev.Write(regs.CtrlReg, 4, regs.CtrlStartHash)
		return 0, nil

	case regs.Reset:
		s.dev.Write(regs.CtrlReg, 4, regs.CtrlReset)
		s.cursor = 0
		return 0, nil

	default:
		return 0, ErrUnknownControl
	}
}

// Close releases the session. It has no device-side effect.
func (s *Session) Close() error {
	s.dev = nil
	return nil
}
