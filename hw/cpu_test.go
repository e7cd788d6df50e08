package hw

import (
	"testing"
)

func TestResetIdempotent(t *testing.T) {
	cpu, mem := newTestCPU(t, 0xC000)
	mem.setVector(ResetVector, 0x1234)

	cpu.A, cpu.B, cpu.X, cpu.U, cpu.S = 1, 2, 3, 4, 5
	cpu.Wait = CwaiWait

	cpu.Reset()
	first := cpu.State()
	cpu.Reset()
	second := cpu.State()

	want := State{PC: 0x1234, CC: IRQMask | FIRQMask, Wait: Normal}
	wantState(t, cpu, want)
	if first != second {
		t.Errorf("reset not idempotent: %+v != %+v", first, second)
	}
}

func TestResetDoesNotWrite(t *testing.T) {
	writes := 0
	bus := BusFuncs{
		Read:  func(addr uint16) uint8 { return 0xAA },
		Write: func(addr uint16, val uint8) { writes++ },
	}
	cpu := NewCPU(bus)
	cpu.Reset()

	if cpu.PC != 0xAAAA {
		t.Errorf("PC = %04X, want AAAA", cpu.PC)
	}
	if writes != 0 {
		t.Errorf("reset performed %d bus writes", writes)
	}
}

func TestNegA(t *testing.T) {
	cpu, _ := newTestCPU(t, 0x1000, 0x40) // NEGA
	cpu.A = 0x01
	cpu.CC = 0

	wantCycles(t, cpu.Step(false, false), 2)

	if cpu.A != 0xFF {
		t.Errorf("A = %02X, want FF", cpu.A)
	}
	for _, f := range []struct {
		flag CC
		want bool
	}{{Negative, true}, {Zero, false}, {Carry, true}, {Overflow, false}} {
		if got := cpu.CC.hasFlag(f.flag); got != f.want {
			t.Errorf("flag %s = %t, want %t (CC=%s)", f.flag, got, f.want, cpu.CC)
		}
	}
}

func TestDecimalAdjust(t *testing.T) {
	cpu, _ := newTestCPU(t, 0x1000,
		0x86, 0x09, // LDA #$09
		0x8B, 0x01, // ADDA #$01
		0x19, // DAA
	)

	total := 0
	for range 3 {
		total += cpu.Step(false, false)
	}

	if cpu.A != 0x10 {
		t.Errorf("A = %02X, want 10", cpu.A)
	}
	if cpu.CC.hasFlag(Carry) {
		t.Errorf("C set after DAA, CC=%s", cpu.CC)
	}
	wantCycles(t, total, 2+2+2)
}

func TestLongBranch(t *testing.T) {
	prog := []uint8{0x10, 0x27, 0x00, 0x10} // LBEQ +$10

	t.Run("taken", func(t *testing.T) {
		cpu, _ := newTestCPU(t, 0x0FFE, prog...)
		cpu.CC = Zero

		wantCycles(t, cpu.Step(false, false), 6)
		if cpu.PC != 0x1012 {
			t.Errorf("PC = %04X, want 1012", cpu.PC)
		}
	})
	t.Run("not taken", func(t *testing.T) {
		cpu, _ := newTestCPU(t, 0x0FFE, prog...)
		cpu.CC = 0

		wantCycles(t, cpu.Step(false, false), 5)
		if cpu.PC != 0x1002 {
			t.Errorf("PC = %04X, want 1002", cpu.PC)
		}
	})
	t.Run("lbra", func(t *testing.T) {
		cpu, _ := newTestCPU(t, 0x1000, 0x16, 0xFF, 0xFD) // LBRA -3
		wantCycles(t, cpu.Step(false, false), 5)
		if cpu.PC != 0x1000 {
			t.Errorf("PC = %04X, want 1000", cpu.PC)
		}
	})
}

func TestShortBranch(t *testing.T) {
	tests := []struct {
		name   string
		prog   []uint8
		cc     CC
		wantPC uint16
	}{
		{"bra back", []uint8{0x20, 0xFE}, 0, 0x1000},
		{"brn", []uint8{0x21, 0x10}, 0, 0x1002},
		{"bne taken", []uint8{0x26, 0x10}, 0, 0x1012},
		{"bne not taken", []uint8{0x26, 0x10}, Zero, 0x1002},
		{"bgt taken", []uint8{0x2E, 0x04}, Negative | Overflow, 0x1006},
		{"ble taken", []uint8{0x2F, 0x80}, Negative, 0x0F82},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpu, _ := newTestCPU(t, 0x1000, tt.prog...)
			cpu.CC = tt.cc

			wantCycles(t, cpu.Step(false, false), 3)
			if cpu.PC != tt.wantPC {
				t.Errorf("PC = %04X, want %04X", cpu.PC, tt.wantPC)
			}
		})
	}
}

func TestSubroutines(t *testing.T) {
	cpu, mem := newTestCPU(t, 0x1000,
		0xBD, 0x20, 0x00, // JSR $2000
		0x8D, 0x02, // BSR +2
	)
	mem.load(0x2000, 0x39) // RTS
	mem.load(0x1007, 0x39) // RTS
	cpu.S = 0x8000

	wantCycles(t, cpu.Step(false, false), 8)
	if cpu.PC != 0x2000 || cpu.S != 0x7FFE {
		t.Fatalf("after JSR: PC=%04X S=%04X", cpu.PC, cpu.S)
	}
	wantMem8(t, mem, 0x7FFE, 0x10)
	wantMem8(t, mem, 0x7FFF, 0x03)

	wantCycles(t, cpu.Step(false, false), 5)
	if cpu.PC != 0x1003 || cpu.S != 0x8000 {
		t.Fatalf("after RTS: PC=%04X S=%04X", cpu.PC, cpu.S)
	}

	wantCycles(t, cpu.Step(false, false), 7)
	if cpu.PC != 0x1007 {
		t.Fatalf("after BSR: PC=%04X", cpu.PC)
	}
	wantCycles(t, cpu.Step(false, false), 5)
	if cpu.PC != 0x1005 {
		t.Fatalf("after RTS: PC=%04X", cpu.PC)
	}
}

func TestPushPullRoundTrip(t *testing.T) {
	regs := State{
		PC: 0x1234, U: 0x5678, X: 0x9ABC, Y: 0xDEF0,
		DP: 0x11, B: 0x22, A: 0x33, CC: 0x44,
	}

	for mask := range 256 {
		cpu, _ := newTestCPU(t, 0x1000)
		cpu.SetState(regs)
		cpu.S = 0x8000

		npush := cpu.pushRegs(uint8(mask), &cpu.S, cpu.U)

		// clobber everything that was pushed.
		cpu.PC, cpu.U, cpu.X, cpu.Y = 0, 0, 0, 0
		cpu.DP, cpu.B, cpu.A, cpu.CC = 0, 0, 0, 0

		npull := cpu.pullRegs(uint8(mask), &cpu.S, &cpu.U)

		if cpu.S != 0x8000 {
			t.Errorf("mask %02X: S = %04X after pull", mask, cpu.S)
		}
		if npush != npull {
			t.Errorf("mask %02X: push took %d cycles, pull %d", mask, npush, npull)
		}

		got := cpu.State()
		check := func(bit uint8, name string, got, want uint16) {
			if uint8(mask)&bit != 0 && got != want {
				t.Errorf("mask %02X: %s = %04X, want %04X", mask, name, got, want)
			}
		}
		check(pshPC, "PC", got.PC, regs.PC)
		check(pshOther, "U", got.U, regs.U)
		check(pshY, "Y", got.Y, regs.Y)
		check(pshX, "X", got.X, regs.X)
		check(pshDP, "DP", uint16(got.DP), uint16(regs.DP))
		check(pshB, "B", uint16(got.B), uint16(regs.B))
		check(pshA, "A", uint16(got.A), uint16(regs.A))
		check(pshCC, "CC", uint16(got.CC), uint16(regs.CC))
	}
}

func TestPushOrder(t *testing.T) {
	cpu, mem := newTestCPU(t, 0x1000,
		0x34, 0xFF, // PSHS all
		0x36, 0x06, // PSHU A,B
	)
	cpu.SetState(State{
		PC: 0x1000, U: 0x4000, S: 0x8000, X: 0x1111, Y: 0x2222,
		DP: 0xDD, B: 0xBB, A: 0xAA, CC: 0x0C,
	})

	wantCycles(t, cpu.Step(false, false), 5+12)
	if cpu.S != 0x8000-12 {
		t.Fatalf("S = %04X", cpu.S)
	}
	want := []uint8{0x0C, 0xAA, 0xBB, 0xDD, 0x11, 0x11, 0x22, 0x22, 0x40, 0x00, 0x10, 0x02}
	for i, b := range want {
		wantMem8(t, mem, cpu.S+uint16(i), b)
	}

	wantCycles(t, cpu.Step(false, false), 5+2)
	if cpu.U != 0x3FFE {
		t.Fatalf("U = %04X", cpu.U)
	}
	wantMem8(t, mem, 0x3FFE, 0xAA)
	wantMem8(t, mem, 0x3FFF, 0xBB)
}

func TestDRegister(t *testing.T) {
	cpu, _ := newTestCPU(t, 0x1000,
		0xCC, 0x12, 0x34, // LDD #$1234
		0x4C,       // INCA
		0x1D,       // SEX
		0x86, 0x0C, // LDA #$0C
		0xC6, 0x10, // LDB #$10
		0x3D,       // MUL
		0xC3, 0x00, 0x40, // ADDD #$0040
		0x1E, 0x89, // EXG A,B
	)

	for i := range 7 {
		cpu.Step(false, false)
		if d := cpu.D(); d != uint16(cpu.A)<<8|uint16(cpu.B) {
			t.Fatalf("step %d: D=%04X A=%02X B=%02X", i, d, cpu.A, cpu.B)
		}
		switch i {
		case 0:
			if cpu.D() != 0x1234 {
				t.Errorf("LDD: D=%04X", cpu.D())
			}
		case 2:
			if cpu.D() != 0x0034 {
				t.Errorf("SEX: D=%04X", cpu.D())
			}
		case 5:
			if cpu.D() != 0x00C0 {
				t.Errorf("MUL: D=%04X", cpu.D())
			}
		case 6:
			if cpu.D() != 0x0100 {
				t.Errorf("ADDD: D=%04X", cpu.D())
			}
		}
	}
	cpu.Step(false, false)
	if cpu.D() != 0x0001 {
		t.Errorf("EXG A,B: D=%04X", cpu.D())
	}
}

func TestExgTfr(t *testing.T) {
	tests := []struct {
		name   string
		post   uint8
		exg    bool
		before State
		after  State
	}{
		{
			name:   "tfr x,y",
			post:   0x12,
			before: State{X: 0x1234},
			after:  State{X: 0x1234, Y: 0x1234},
		},
		{
			name:   "tfr a,x",
			post:   0x81,
			before: State{A: 0x42},
			after:  State{A: 0x42, X: 0xFF42},
		},
		{
			name:   "tfr x,b",
			post:   0x19,
			before: State{X: 0xBEEF},
			after:  State{X: 0xBEEF, B: 0xEF},
		},
		{
			name:   "tfr a,cc",
			post:   0x8A,
			before: State{A: 0x55},
			after:  State{A: 0x55, CC: 0x55},
		},
		{
			name:   "exg d,u",
			post:   0x03,
			exg:    true,
			before: State{A: 0x12, B: 0x34, U: 0xABCD},
			after:  State{A: 0xAB, B: 0xCD, U: 0x1234},
		},
		{
			name:   "exg dp,a",
			post:   0xB8,
			exg:    true,
			before: State{A: 0x12, DP: 0xC8},
			after:  State{A: 0xC8, DP: 0x12},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := uint8(0x1F)
			cycles := 6
			if tt.exg {
				op, cycles = 0x1E, 8
			}
			cpu, _ := newTestCPU(t, 0x1000, op, tt.post)
			cpu.SetState(tt.before)
			cpu.PC = 0x1000

			wantCycles(t, cpu.Step(false, false), cycles)

			want := tt.after
			want.PC = 0x1002
			wantState(t, cpu, want)
		})
	}
}

func TestExgTfrIllegalRegister(t *testing.T) {
	cpu, _ := newTestCPU(t, 0x1000, 0x1F, 0x61) // TFR ?,X
	faults := collectFaults(cpu)
	cpu.X = 0x1234

	wantCycles(t, cpu.Step(false, false), 6)
	if cpu.X != 0xFFFF {
		t.Errorf("X = %04X, want FFFF", cpu.X)
	}
	want := []Fault{{Kind: IllegalRegister, Code: 0x6, PC: 0x1000}}
	if len(*faults) != 1 || (*faults)[0] != want[0] {
		t.Errorf("faults = %+v, want %+v", *faults, want)
	}

	cpu.PC = 0x1000
	cpu.X = 0x1234
	*faults = nil
	cpu.Bus.Write8(0x1001, 0x1C) // TFR X,?
	cpu.Step(false, false)
	if cpu.X != 0x1234 {
		t.Errorf("X = %04X, want 1234", cpu.X)
	}
	if len(*faults) != 1 || (*faults)[0].Code != 0xC {
		t.Errorf("faults = %+v", *faults)
	}
}

func TestLoadStore(t *testing.T) {
	cpu, mem := newTestCPU(t, 0x1000,
		0x86, 0x80, // LDA #$80
		0x97, 0x10, // STA <$10
		0x1F, 0x8B, // TFR A,DP
		0xD6, 0x10, // LDB <$10 (DP=$80)
		0x10, 0x8E, 0x30, 0x00, // LDY #$3000
		0x10, 0xAF, 0xA4, // STY ,Y
		0xFE, 0x30, 0x00, // LDU $3000
		0x4F, // CLRA
		0xB7, 0x80, 0x10, // STA $8010
	)
	mem.load(0x8010, 0x7F)

	steps := []struct {
		cycles int
		check  func() bool
	}{
		{2, func() bool { return cpu.A == 0x80 && cpu.CC.hasFlag(Negative) }},
		{4, func() bool { return mem[0x0010] == 0x80 }},
		{6, func() bool { return cpu.DP == 0x80 }},
		{4, func() bool { return cpu.B == 0x7F && !cpu.CC.hasFlag(Negative) }},
		{4, func() bool { return cpu.Y == 0x3000 }},
		{6, func() bool { return mem[0x3000] == 0x30 && mem[0x3001] == 0x00 }},
		{6, func() bool { return cpu.U == 0x3000 }},
		{2, func() bool { return cpu.A == 0 && cpu.CC.hasFlag(Zero) }},
		{5, func() bool { return mem[0x8010] == 0 }},
	}
	for i, st := range steps {
		pc := cpu.PC
		wantCycles(t, cpu.Step(false, false), st.cycles)
		if !st.check() {
			t.Errorf("step %d (pc=%04X): unexpected state %+v", i, pc, cpu.State())
		}
	}
}

func TestRMWMemory(t *testing.T) {
	cpu, mem := newTestCPU(t, 0x1000,
		0x0C, 0x20, // INC <$20
		0x7A, 0x20, 0x21, // DEC $2021
		0x8E, 0x20, 0x20, // LDX #$2020
		0x68, 0x02, // ASL 2,X
		0x6D, 0x84, // TST ,X
		0x0F, 0x21, // CLR <$21
	)
	cpu.DP = 0x20
	mem.load(0x2020, 0x7F, 0x01, 0x41)

	wantCycles(t, cpu.Step(false, false), 6)
	wantMem8(t, mem, 0x2020, 0x80)
	wantCycles(t, cpu.Step(false, false), 7)
	wantMem8(t, mem, 0x2021, 0x00)
	cpu.Step(false, false)
	wantCycles(t, cpu.Step(false, false), 6+1)
	wantMem8(t, mem, 0x2022, 0x82)
	wantCycles(t, cpu.Step(false, false), 6)
	if !cpu.CC.hasFlag(Negative) {
		t.Errorf("TST: CC=%s", cpu.CC)
	}
	wantMem8(t, mem, 0x2020, 0x80)
	mem[0x2021] = 0x55
	wantCycles(t, cpu.Step(false, false), 6)
	wantMem8(t, mem, 0x2021, 0x00)
}

func TestCompare16(t *testing.T) {
	cpu, _ := newTestCPU(t, 0x1000,
		0x8C, 0x12, 0x34, // CMPX #$1234
		0x10, 0x83, 0x00, 0x01, // CMPD #$0001
		0x11, 0x8C, 0x80, 0x00, // CMPS #$8000
	)
	cpu.X = 0x1234
	cpu.S = 0x7FFF

	wantCycles(t, cpu.Step(false, false), 4)
	if !cpu.CC.hasFlag(Zero) {
		t.Errorf("CMPX: CC=%s", cpu.CC)
	}
	wantCycles(t, cpu.Step(false, false), 5)
	if !cpu.CC.hasFlag(Carry) || !cpu.CC.hasFlag(Negative) {
		t.Errorf("CMPD: CC=%s", cpu.CC)
	}
	wantCycles(t, cpu.Step(false, false), 5)
	if !cpu.CC.hasFlag(Carry) || !cpu.CC.hasFlag(Overflow) {
		t.Errorf("CMPS: CC=%s", cpu.CC)
	}
	if cpu.X != 0x1234 || cpu.D() != 0 || cpu.S != 0x7FFF {
		t.Errorf("compare modified registers: %+v", cpu.State())
	}
}

func TestLea(t *testing.T) {
	cpu, _ := newTestCPU(t, 0x1000,
		0x30, 0x1F, // LEAX -1,X
		0x31, 0x8B, // LEAY D,X
		0x32, 0x62, // LEAS 2,S
		0x33, 0xC8, 0xF0, // LEAU -16,U
	)
	cpu.X = 1
	cpu.SetD(0x0100)
	cpu.S = 0x8000
	cpu.U = 0x0010
	cpu.CC = 0

	wantCycles(t, cpu.Step(false, false), 5)
	if cpu.X != 0 || !cpu.CC.hasFlag(Zero) {
		t.Errorf("LEAX: X=%04X CC=%s", cpu.X, cpu.CC)
	}
	wantCycles(t, cpu.Step(false, false), 8)
	if cpu.Y != 0x0100 || cpu.CC.hasFlag(Zero) {
		t.Errorf("LEAY: Y=%04X CC=%s", cpu.Y, cpu.CC)
	}
	wantCycles(t, cpu.Step(false, false), 5)
	if cpu.S != 0x8002 {
		t.Errorf("LEAS: S=%04X", cpu.S)
	}
	cpu.CC = 0
	wantCycles(t, cpu.Step(false, false), 5)
	if cpu.U != 0 || cpu.CC != 0 {
		t.Errorf("LEAU: U=%04X CC=%s", cpu.U, cpu.CC)
	}
}

func TestMiscInherent(t *testing.T) {
	cpu, _ := newTestCPU(t, 0x1000,
		0x3A,       // ABX
		0x1A, 0x0F, // ORCC #$0F
		0x1C, 0xF0, // ANDCC #$F0
		0x12, // NOP
	)
	cpu.X = 0x10FF
	cpu.B = 0x81
	cpu.CC = 0

	wantCycles(t, cpu.Step(false, false), 3)
	if cpu.X != 0x1180 {
		t.Errorf("ABX: X=%04X", cpu.X)
	}
	wantCycles(t, cpu.Step(false, false), 3)
	if cpu.CC != 0x0F {
		t.Errorf("ORCC: CC=%s", cpu.CC)
	}
	wantCycles(t, cpu.Step(false, false), 3)
	if cpu.CC != 0 {
		t.Errorf("ANDCC: CC=%s", cpu.CC)
	}
	wantCycles(t, cpu.Step(false, false), 2)
}
