package hw

import "testing"

func TestCwaiThenIRQ(t *testing.T) {
	cpu, mem := newTestCPU(t, 0x1000, 0x3C, 0xEF) // CWAI #$EF
	mem.setVector(IRQVector, 0x3000)
	cpu.S = 0x8000

	wantCycles(t, cpu.Step(false, false), 4+12)
	if cpu.Wait != CwaiWait {
		t.Fatalf("wait state = %v, want CwaiWait", cpu.Wait)
	}
	if cpu.S != 0x8000-12 {
		t.Fatalf("S = %04X, want %04X", cpu.S, 0x8000-12)
	}
	if !cpu.CC.hasFlag(Entire) || cpu.CC.hasFlag(IRQMask) {
		t.Fatalf("CC = %s after CWAI", cpu.CC)
	}

	// waiting
	wantCycles(t, cpu.Step(false, false), 1)
	if cpu.PC != 0x1002 {
		t.Fatalf("PC moved while waiting: %04X", cpu.PC)
	}

	sp := cpu.S
	wantCycles(t, cpu.Step(true, false), 7)
	if cpu.S != sp {
		t.Errorf("S = %04X, want %04X (no second push)", cpu.S, sp)
	}
	if !cpu.CC.hasFlag(IRQMask) {
		t.Errorf("IRQ mask not set, CC=%s", cpu.CC)
	}
	if cpu.PC != 0x3000 {
		t.Errorf("PC = %04X, want 3000", cpu.PC)
	}
	if cpu.Wait != Normal {
		t.Errorf("wait state = %v, want Normal", cpu.Wait)
	}
}

func TestIRQ(t *testing.T) {
	cpu, mem := newTestCPU(t, 0x1000, 0x12, 0x12) // NOP; NOP
	mem.setVector(IRQVector, 0x3000)
	mem.load(0x3000, 0x3B) // RTI
	cpu.S = 0x8000

	// masked after reset
	wantCycles(t, cpu.Step(true, false), 2)
	if cpu.PC != 0x1001 {
		t.Fatalf("PC = %04X, masked IRQ was serviced", cpu.PC)
	}

	cpu.CC = 0
	wantCycles(t, cpu.Step(true, false), 7+12)
	if cpu.PC != 0x3000 || cpu.S != 0x8000-12 {
		t.Fatalf("PC=%04X S=%04X", cpu.PC, cpu.S)
	}
	if cpu.CC != Entire|IRQMask {
		t.Errorf("CC = %s, want %s", cpu.CC, Entire|IRQMask)
	}
	wantMem8(t, mem, cpu.S, uint8(Entire))

	// RTI pulls the whole frame back.
	wantCycles(t, cpu.Step(false, false), 15)
	if cpu.PC != 0x1001 || cpu.S != 0x8000 {
		t.Errorf("after RTI: PC=%04X S=%04X", cpu.PC, cpu.S)
	}
	if cpu.CC != Entire {
		t.Errorf("after RTI: CC=%s", cpu.CC)
	}
}

func TestFIRQ(t *testing.T) {
	cpu, mem := newTestCPU(t, 0x1000, 0x12)
	mem.setVector(FIRQVector, 0x4000)
	mem.setVector(IRQVector, 0x3000)
	mem.load(0x4000, 0x3B) // RTI
	cpu.S = 0x8000
	cpu.CC = Entire | Carry

	// FIRQ has priority over IRQ.
	wantCycles(t, cpu.Step(true, true), 7+3)
	if cpu.PC != 0x4000 || cpu.S != 0x8000-3 {
		t.Fatalf("PC=%04X S=%04X", cpu.PC, cpu.S)
	}
	if cpu.CC != IRQMask|FIRQMask|Carry {
		t.Errorf("CC = %s", cpu.CC)
	}
	wantMem8(t, mem, 0x7FFD, uint8(Carry))
	wantMem8(t, mem, 0x7FFE, 0x10)
	wantMem8(t, mem, 0x7FFF, 0x00)

	wantCycles(t, cpu.Step(false, false), 6)
	if cpu.PC != 0x1000 || cpu.S != 0x8000 || cpu.CC != Carry {
		t.Errorf("after RTI: PC=%04X S=%04X CC=%s", cpu.PC, cpu.S, cpu.CC)
	}
}

func TestFIRQMaskedLetsIRQThrough(t *testing.T) {
	cpu, mem := newTestCPU(t, 0x1000, 0x12)
	mem.setVector(IRQVector, 0x3000)
	cpu.S = 0x8000
	cpu.CC = FIRQMask

	wantCycles(t, cpu.Step(true, true), 7+12)
	if cpu.PC != 0x3000 {
		t.Errorf("PC = %04X, want 3000", cpu.PC)
	}
}

func TestSync(t *testing.T) {
	cpu, mem := newTestCPU(t, 0x1000,
		0x13, // SYNC
		0x12, // NOP
		0x13, // SYNC
	)
	mem.setVector(FIRQVector, 0x4000)

	wantCycles(t, cpu.Step(false, false), 2)
	if cpu.Wait != SyncWait {
		t.Fatalf("wait state = %v", cpu.Wait)
	}
	for range 3 {
		wantCycles(t, cpu.Step(false, false), 1)
	}

	// Masked interrupt: wakes up and executes the next instruction.
	wantCycles(t, cpu.Step(true, false), 2)
	if cpu.Wait != Normal || cpu.PC != 0x1002 {
		t.Fatalf("after wake: wait=%v PC=%04X", cpu.Wait, cpu.PC)
	}

	wantCycles(t, cpu.Step(false, false), 2)
	if cpu.Wait != SyncWait {
		t.Fatalf("wait state = %v", cpu.Wait)
	}

	// Unmasked interrupt: serviced.
	cpu.S = 0x8000
	cpu.CC = 0
	wantCycles(t, cpu.Step(false, true), 10)
	if cpu.Wait != Normal || cpu.PC != 0x4000 {
		t.Errorf("after FIRQ: wait=%v PC=%04X", cpu.Wait, cpu.PC)
	}
}

func TestSoftwareInterrupts(t *testing.T) {
	tests := []struct {
		name     string
		prog     []uint8
		vector   uint16
		cycles   int
		wantMask CC
	}{
		{"swi", []uint8{0x3F}, SWIVector, 19, IRQMask | FIRQMask},
		{"swi2", []uint8{0x10, 0x3F}, SWI2Vector, 20, 0},
		{"swi3", []uint8{0x11, 0x3F}, SWI3Vector, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu, mem := newTestCPU(t, 0x1000, tt.prog...)
			mem.setVector(tt.vector, 0x5000)
			cpu.S = 0x8000
			cpu.CC = 0

			wantCycles(t, cpu.Step(false, false), tt.cycles)
			if cpu.PC != 0x5000 || cpu.S != 0x8000-12 {
				t.Fatalf("PC=%04X S=%04X", cpu.PC, cpu.S)
			}
			if cpu.CC != Entire|tt.wantMask {
				t.Errorf("CC = %s, want %s", cpu.CC, Entire|tt.wantMask)
			}
			// stacked CC has E set, not the masks.
			wantMem8(t, mem, cpu.S, uint8(Entire))
			// stacked PC points after the instruction.
			pc := 0x1000 + uint16(len(tt.prog))
			wantMem8(t, mem, 0x7FFE, uint8(pc>>8))
			wantMem8(t, mem, 0x7FFF, uint8(pc))
		})
	}
}

func TestCyclesCounter(t *testing.T) {
	cpu, _ := newTestCPU(t, 0x1000, 0x12, 0x13) // NOP; SYNC
	cpu.Step(false, false)
	cpu.Step(false, false)
	cpu.Step(false, false)

	if cpu.Cycles != 2+2+1 {
		t.Errorf("Cycles = %d, want 5", cpu.Cycles)
	}
}
