package host

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"sha256hw/internal/device"
	"sha256hw/internal/regs"
)

func newSession(t *testing.T) (*Session, *device.Device) {
	t.Helper()
	dev := device.New()
	t.Cleanup(func() { dev.Close() })
	s, err := Open(dev)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s, dev
}

func TestOpenGetID(t *testing.T) {
	s, _ := newSession(t)
	id, err := s.Control(regs.GetID)
	if err != nil {
		t.Fatalf("Control(GetID): %v", err)
	}
	if id != regs.DeviceID {
		t.Fatalf("id = %#x, want %#x", id, regs.DeviceID)
	}
}

func TestWriteHashRead_Hello(t *testing.T) {
	s, _ := newSession(t)

	n, err := s.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write = (%d, %v), want (5, nil)", n, err)
	}
	if _, err := s.Control(regs.StartHash); err != nil {
		t.Fatalf("Control(StartHash): %v", err)
	}

	out := make([]byte, regs.OutputSize)
	n, err = s.Read(out)
	if err != nil || n != regs.OutputSize {
		t.Fatalf("Read = (%d, %v)", n, err)
	}

	want, _ := hex.DecodeString("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")
	if !bytes.Equal(out, want) {
		t.Fatalf("digest = %x, want %x", out, want)
	}
}

func TestWriteHashRead_Empty(t *testing.T) {
	s, _ := newSession(t)

	if _, err := s.Control(regs.StartHash); err != nil {
		t.Fatalf("Control(StartHash): %v", err)
	}
	out := make([]byte, regs.OutputSize)
	if _, err := s.Read(out); err != nil {
		t.Fatalf("Read: %v", err)
	}

	want := sha256.Sum256(nil)
	if !bytes.Equal(out, want[:]) {
		t.Fatalf("digest = %x, want %x", out, want[:])
	}
}

func TestResetThenGetStatusAndReadZeroes(t *testing.T) {
	s, _ := newSession(t)

	s.Write([]byte("x"))
	s.Control(regs.StartHash)
	if _, err := s.Control(regs.Reset); err != nil {
		t.Fatalf("Control(Reset): %v", err)
	}

	status, err := s.Control(regs.GetStatus)
	if err != nil || status != regs.StatusIdle {
		t.Fatalf("status = (%d, %v), want (0, nil)", status, err)
	}

	out := make([]byte, regs.OutputSize)
	s.Read(out)
	for _, b := range out {
		if b != 0 {
			t.Fatalf("output not cleared after reset: %x", out)
		}
	}
}

func TestUnknownControlCommand(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.Control(regs.ControlCommand(0xDEADBEEF))
	if err != ErrUnknownControl {
		t.Fatalf("err = %v, want ErrUnknownControl", err)
	}
}

func TestWriteClipsAtWindowBoundary(t *testing.T) {
	s, _ := newSession(t)

	big := bytes.Repeat([]byte("a"), 2000)
	n, err := s.Write(big)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != regs.InputSize {
		t.Fatalf("Write returned %d, want %d", n, regs.InputSize)
	}
}

func TestNilBufferIsBadUserspace(t *testing.T) {
	s, _ := newSession(t)
	if _, err := s.Write(nil); err != ErrBadUserspace {
		t.Fatalf("Write(nil) err = %v, want ErrBadUserspace", err)
	}
	if _, err := s.Read(nil); err != ErrBadUserspace {
		t.Fatalf("Read(nil) err = %v, want ErrBadUserspace", err)
	}
}

func TestOpenNilDeviceIsUnavailable(t *testing.T) {
	if _, err := Open(nil); err != ErrDeviceUnavailable {
		t.Fatalf("Open(nil) err = %v, want ErrDeviceUnavailable", err)
	}
}
