package device

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"sha256hw/internal/regs"
)

func writeString(t *testing.T, d *Device, s string) {
	t.Helper()
	for i := 0; i < len(s); i++ {
		d.Write(regs.InputReg+uint32(i), 1, uint32(s[i]))
	}
}

func readOutput(d *Device) []byte {
	out := make([]byte, regs.OutputSize)
	for i := range out {
		out[i] = byte(d.Read(regs.OutputReg+uint32(i), 1))
	}
	return out
}

func TestIDAlwaysConstant(t *testing.T) {
	d := New()
	defer d.Close()
	if got := d.Read(regs.IDReg, 4); got != regs.DeviceID {
		t.Fatalf("ID_REG = %#x, want %#x", got, regs.DeviceID)
	}
}

func TestResetInvariants(t *testing.T) {
	d := New()
	defer d.Close()

	writeString(t, d, "not empty")
	d.Write(regs.CtrlReg, 4, regs.CtrlStartHash)
	d.Write(regs.CtrlReg, 4, regs.CtrlReset)

	if got := d.Read(regs.StatusReg, 4); got != regs.StatusIdle {
		t.Fatalf("STATUS_REG after reset = %d, want 0", got)
	}
	for i := 0; i < regs.InputSize; i++ {
		if v := d.Read(regs.InputReg+uint32(i), 1); v != 0 {
			t.Fatalf("input_buffer[%d] = %d after reset, want 0", i, v)
		}
	}
	out := readOutput(d)
	for i, b := range out {
		if b != 0 {
			t.Fatalf("output_buffer[%d] = %d after reset, want 0", i, b)
		}
	}
	if got := d.Read(regs.IDReg, 4); got != regs.DeviceID {
		t.Fatalf("ID_REG = %#x, want %#x", got, regs.DeviceID)
	}
}

func TestHashMatchesStdlib(t *testing.T) {
	d := New()
	defer d.Close()

	writeString(t, d, "hello")
	d.Write(regs.CtrlReg, 4, regs.CtrlStartHash)

	want := sha256.Sum256([]byte("hello"))
	got := readOutput(d)
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("output = %x, want %x", got, want)
	}
	if status := d.Read(regs.StatusReg, 4); status != regs.StatusReady {
		t.Fatalf("STATUS_REG = %d, want 1", status)
	}
}

func TestStartHashRecordsLatency(t *testing.T) {
	d := New()
	defer d.Close()

	if got := d.Stats().LastStartLatencyNs; got != 0 {
		t.Fatalf("LastStartLatencyNs before any START_HASH = %d, want 0", got)
	}

	writeString(t, d, "hello")
	d.Write(regs.CtrlReg, 4, regs.CtrlStartHash)

	if got := d.Stats().LastStartLatencyNs; got <= 0 {
		t.Fatalf("LastStartLatencyNs after START_HASH = %d, want > 0", got)
	}
}

func TestEmptyInputHashesEmptyString(t *testing.T) {
	d := New()
	defer d.Close()

	d.Write(regs.CtrlReg, 4, regs.CtrlStartHash)

	want := sha256.Sum256(nil)
	got := readOutput(d)
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("output = %x, want %x", got, want)
	}
}

func TestThousandAs(t *testing.T) {
	d := New()
	defer d.Close()

	msg := bytes.Repeat([]byte("a"), 1000)
	for i, b := range msg {
		d.Write(regs.InputReg+uint32(i), 1, uint32(b))
	}
	d.Write(regs.CtrlReg, 4, regs.CtrlStartHash)

	want := sha256.Sum256(msg)
	got := readOutput(d)
	if !bytes.Equal(got, want[:]) {
		t.Fatalf("output = %x, want %x", got, want)
	}
}

func TestIdempotentStart(t *testing.T) {
	d := New()
	defer d.Close()

	writeString(t, d, "x")
	d.Write(regs.CtrlReg, 4, regs.CtrlStartHash)
	first := readOutput(d)
	d.Write(regs.CtrlReg, 4, regs.CtrlStartHash)
	second := readOutput(d)

	if !bytes.Equal(first, second) {
		t.Fatalf("output changed across repeated START_HASH: %x != %x", first, second)
	}
}

func TestResetAfterHashClearsEverything(t *testing.T) {
	d := New()
	defer d.Close()

	writeString(t, d, "x")
	d.Write(regs.CtrlReg, 4, regs.CtrlStartHash)
	d.Write(regs.CtrlReg, 4, regs.CtrlReset)

	if status := d.Read(regs.StatusReg, 4); status != regs.StatusIdle {
		t.Fatalf("STATUS_REG = %d, want 0", status)
	}
	out := readOutput(d)
	for _, b := range out {
		if b != 0 {
			t.Fatalf("output not cleared after reset: %x", out)
		}
	}
}

func TestOutOfRangeReadReturnsSentinel(t *testing.T) {
	d := New()
	defer d.Close()

	got := d.Read(0xFF0, 4)
	if got != regs.GuestErrorSentinel {
		t.Fatalf("out-of-range read = %#x, want %#x", got, regs.GuestErrorSentinel)
	}

	got1 := d.Read(0xFF0, 1)
	if got1 != (regs.GuestErrorSentinel & 0xFF) {
		t.Fatalf("out-of-range 1-byte read = %#x, want %#x", got1, regs.GuestErrorSentinel&0xFF)
	}

	stats := d.Stats()
	if stats.GuestErrors != 2 {
		t.Fatalf("GuestErrors = %d, want 2", stats.GuestErrors)
	}
}

func TestInvalidSizeReturnsSentinel(t *testing.T) {
	d := New()
	defer d.Close()
	got := d.Read(regs.IDReg, 3)
	if got != regs.GuestErrorSentinel {
		t.Fatalf("invalid-size read = %#x, want %#x", got, regs.GuestErrorSentinel)
	}
}

func TestMultiByteInputWriteFansOutLittleEndian(t *testing.T) {
	d := New()
	defer d.Close()

	d.Write(regs.InputReg, 4, 0x64636261) // "abcd" little-endian
	for i, want := range []byte{'a', 'b', 'c', 'd'} {
		if got := d.Read(regs.InputReg+uint32(i), 1); byte(got) != want {
			t.Fatalf("input_buffer[%d] = %q, want %q", i, byte(got), want)
		}
	}
}

func TestWriteOutsideInputWindowIsGuestError(t *testing.T) {
	d := New()
	defer d.Close()

	before := d.Read(regs.StatusReg, 4)
	d.Write(0x0004, 4, 0xFFFFFFFF) // unmapped address between ID and CTRL
	after := d.Read(regs.StatusReg, 4)

	if before != after {
		t.Fatalf("unmapped write changed device state: %d -> %d", before, after)
	}
	if d.Stats().GuestErrors == 0 {
		t.Fatal("expected a guest error to be recorded")
	}
}
