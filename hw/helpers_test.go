package hw

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ram is a flat 64K bus.
type ram [0x10000]uint8

func (m *ram) Read8(addr uint16) uint8       { return m[addr] }
func (m *ram) Write8(addr uint16, val uint8) { m[addr] = val }

func (m *ram) load(addr uint16, data ...uint8) {
	for i, b := range data {
		m[addr+uint16(i)] = b
	}
}

func (m *ram) setVector(vec, addr uint16) {
	m[vec] = uint8(addr >> 8)
	m[vec+1] = uint8(addr)
}

// newTestCPU returns a reset CPU with prog loaded at org and the reset
// vector pointing to it. Any fault fails the test.
func newTestCPU(t *testing.T, org uint16, prog ...uint8) (*CPU, *ram) {
	t.Helper()

	mem := new(ram)
	mem.load(org, prog...)
	mem.setVector(ResetVector, org)

	cpu := NewCPU(mem)
	cpu.SetFaultHandler(func(f Fault) {
		t.Helper()
		t.Errorf("unexpected fault: %v", f)
	})
	cpu.Reset()
	return cpu, mem
}

// collectFaults replaces the CPU fault handler with one appending to the
// returned slice.
func collectFaults(cpu *CPU) *[]Fault {
	faults := new([]Fault)
	cpu.SetFaultHandler(func(f Fault) {
		*faults = append(*faults, f)
	})
	return faults
}

func wantState(t *testing.T, cpu *CPU, want State) {
	t.Helper()

	if diff := cmp.Diff(want, cpu.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func wantCycles(t *testing.T, got, want int) {
	t.Helper()

	if got != want {
		t.Errorf("got %d cycles, want %d", got, want)
	}
}

func wantMem8(t *testing.T, mem *ram, addr uint16, want uint8) {
	t.Helper()

	if got := mem[addr]; got != want {
		t.Errorf("$%04X = %02X want %02X", addr, got, want)
	}
}
