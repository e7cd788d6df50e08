package emu

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mc6809/hw"
)

// testConfig maps 4K of RAM at $0000 and 4K of ROM at $F000.
func testConfig() Config {
	return Config{
		CPU:    CPUConfig{ClockHz: 1_000_000},
		Timing: TimingConfig{SliceMS: 10},
		Memory: []MemoryConfig{
			{Name: "ram", Start: 0x0000, Size: 0x1000},
			{Name: "rom", Start: 0xF000, Size: 0x1000, ReadOnly: true},
		},
	}
}

// rom builds a ROM image for testConfig, with prog at $F000 and the given
// vectors (address -> target).
func rom(vectors map[uint16]uint16, prog ...uint8) []byte {
	img := make([]byte, 0x1000)
	copy(img, prog)
	for vec, addr := range vectors {
		img[vec-0xF000] = uint8(addr >> 8)
		img[vec-0xF000+1] = uint8(addr)
	}
	return img
}

// newTestMachine returns a machine built from testConfig running img. Any
// CPU fault fails the test.
func newTestMachine(t *testing.T, img []byte) *Machine {
	t.Helper()

	m, err := NewMachine(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.LoadImage("rom", img); err != nil {
		t.Fatal(err)
	}
	m.CPU().SetFaultHandler(func(f hw.Fault) {
		t.Helper()
		t.Errorf("unexpected fault: %v", f)
	})
	m.Reset()
	return m
}

func wantState(t *testing.T, m *Machine, want hw.State) {
	t.Helper()

	if diff := cmp.Diff(want, m.CPU().State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}
