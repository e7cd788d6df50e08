package hw

import "testing"

type unaryTest struct {
	in     uint8
	cc     CC
	want   uint8
	wantCC CC
}

func testUnary(t *testing.T, name string, fn func(CC, uint8) (uint8, CC), tests []unaryTest) {
	t.Helper()

	for _, tt := range tests {
		got, gotCC := fn(tt.cc, tt.in)
		if got != tt.want || gotCC != tt.wantCC {
			t.Errorf("%s(%02X, %s) = %02X, %s; want %02X, %s",
				name, tt.in, tt.cc, got, gotCC, tt.want, tt.wantCC)
		}
	}
}

func TestNeg(t *testing.T) {
	testUnary(t, "neg", neg, []unaryTest{
		{in: 0x01, want: 0xff, wantCC: Negative | Carry},
		{in: 0x00, want: 0x00, wantCC: Zero | HalfCarry},
		{in: 0x80, want: 0x80, wantCC: Negative | Overflow | Carry | HalfCarry},
		{in: 0xff, cc: Entire | IRQMask | HalfCarry, want: 0x01, wantCC: Entire | IRQMask | Carry},
	})
}

func TestCom(t *testing.T) {
	testUnary(t, "com", com, []unaryTest{
		{in: 0x00, cc: Overflow, want: 0xff, wantCC: Negative | Carry},
		{in: 0xff, want: 0x00, wantCC: Zero | Carry},
		{in: 0x55, want: 0xaa, wantCC: Negative | Carry},
	})
}

func TestShifts(t *testing.T) {
	testUnary(t, "lsr", lsr, []unaryTest{
		{in: 0x01, cc: Negative, want: 0x00, wantCC: Zero | Carry},
		{in: 0x80, want: 0x40, wantCC: 0},
	})
	testUnary(t, "ror", ror, []unaryTest{
		{in: 0x01, cc: Carry, want: 0x80, wantCC: Negative | Carry},
		{in: 0x02, want: 0x01, wantCC: 0},
		{in: 0x01, want: 0x00, wantCC: Zero | Carry},
	})
	testUnary(t, "asr", asr, []unaryTest{
		{in: 0x81, want: 0xc0, wantCC: Negative | Carry},
		{in: 0x40, want: 0x20, wantCC: 0},
	})
	testUnary(t, "asl", asl, []unaryTest{
		{in: 0x80, want: 0x00, wantCC: Zero | Overflow | Carry},
		{in: 0x40, want: 0x80, wantCC: Negative | Overflow},
		{in: 0x08, want: 0x10, wantCC: HalfCarry},
	})
	testUnary(t, "rol", rol, []unaryTest{
		{in: 0x80, cc: Carry, want: 0x01, wantCC: Overflow | Carry},
		{in: 0x01, want: 0x02, wantCC: 0},
	})
}

func TestIncDec(t *testing.T) {
	testUnary(t, "inc", inc, []unaryTest{
		{in: 0x7f, cc: Carry, want: 0x80, wantCC: Negative | Overflow | Carry},
		{in: 0xff, want: 0x00, wantCC: Zero},
	})
	testUnary(t, "dec", dec, []unaryTest{
		{in: 0x80, want: 0x7f, wantCC: Overflow},
		{in: 0x01, cc: Carry, want: 0x00, wantCC: Zero | Carry},
		{in: 0x00, want: 0xff, wantCC: Negative},
	})
}

func TestClrTst(t *testing.T) {
	r, cc := clr(Negative | Overflow | Carry | HalfCarry)
	if r != 0 || cc != Zero|HalfCarry {
		t.Errorf("clr = %02X, %s", r, cc)
	}

	if cc := tst8(Overflow|Carry, 0x80); cc != Negative|Carry {
		t.Errorf("tst8(80) = %s", cc)
	}
	if cc := tst16(Overflow, 0x8000); cc != Negative {
		t.Errorf("tst16(8000) = %s", cc)
	}
	if cc := tst16(0, 0x0000); cc != Zero {
		t.Errorf("tst16(0000) = %s", cc)
	}
	if cc := tst16(0, 0x0080); cc != 0 {
		t.Errorf("tst16(0080) = %s", cc)
	}
}

type binaryTest struct {
	a, b   uint8
	cc     CC
	want   uint8
	wantCC CC
}

func testBinary(t *testing.T, name string, fn func(CC, uint8, uint8) (uint8, CC), tests []binaryTest) {
	t.Helper()

	for _, tt := range tests {
		got, gotCC := fn(tt.cc, tt.a, tt.b)
		if got != tt.want || gotCC != tt.wantCC {
			t.Errorf("%s(%02X, %02X, %s) = %02X, %s; want %02X, %s",
				name, tt.a, tt.b, tt.cc, got, gotCC, tt.want, tt.wantCC)
		}
	}
}

func TestAddSub(t *testing.T) {
	testBinary(t, "add", add, []binaryTest{
		{a: 0x09, b: 0x01, want: 0x0a, wantCC: 0},
		{a: 0x09, b: 0x09, want: 0x12, wantCC: HalfCarry},
		{a: 0x7f, b: 0x01, want: 0x80, wantCC: Negative | Overflow | HalfCarry},
		{a: 0xff, b: 0x01, want: 0x00, wantCC: Zero | Carry | HalfCarry},
	})
	testBinary(t, "adc", adc, []binaryTest{
		{a: 0x10, b: 0x20, cc: Carry, want: 0x31, wantCC: 0},
		{a: 0xff, b: 0x00, cc: Carry, want: 0x00, wantCC: Zero | Carry | HalfCarry},
	})
	testBinary(t, "sub", sub, []binaryTest{
		{a: 0x05, b: 0x05, want: 0x00, wantCC: Zero | HalfCarry},
		{a: 0x00, b: 0x01, want: 0xff, wantCC: Negative | Carry},
		{a: 0x80, b: 0x01, want: 0x7f, wantCC: Overflow},
	})
	testBinary(t, "sbc", sbc, []binaryTest{
		{a: 0x05, b: 0x04, cc: Carry, want: 0x00, wantCC: Zero | HalfCarry},
		{a: 0x05, b: 0x04, want: 0x01, wantCC: HalfCarry},
	})
}

func TestLogical(t *testing.T) {
	testBinary(t, "and", and, []binaryTest{
		{a: 0xf0, b: 0x0f, cc: Overflow | Carry, want: 0x00, wantCC: Zero | Carry},
		{a: 0xf0, b: 0x80, want: 0x80, wantCC: Negative},
	})
	testBinary(t, "or", or, []binaryTest{
		{a: 0xf0, b: 0x0f, want: 0xff, wantCC: Negative},
	})
	testBinary(t, "eor", eor, []binaryTest{
		{a: 0xff, b: 0xff, want: 0x00, wantCC: Zero},
	})
}

func TestAddSub16(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(CC, uint16, uint16) (uint16, CC)
		a, b   uint16
		want   uint16
		wantCC CC
	}{
		{"add16", add16, 0x1234, 0x1111, 0x2345, 0},
		{"add16", add16, 0xffff, 0x0001, 0x0000, Zero | Carry},
		{"add16", add16, 0x7fff, 0x0001, 0x8000, Negative | Overflow},
		{"sub16", sub16, 0x1000, 0x1000, 0x0000, Zero},
		{"sub16", sub16, 0x0000, 0x0001, 0xffff, Negative | Carry},
		{"sub16", sub16, 0x8000, 0x0001, 0x7fff, Overflow},
	}
	for _, tt := range tests {
		got, gotCC := tt.fn(0, tt.a, tt.b)
		if got != tt.want || gotCC != tt.wantCC {
			t.Errorf("%s(%04X, %04X) = %04X, %s; want %04X, %s",
				tt.name, tt.a, tt.b, got, gotCC, tt.want, tt.wantCC)
		}
	}
}

func TestMulSex(t *testing.T) {
	r, cc := mul(0, 0x0c, 0x10)
	if r != 0x00c0 || cc != Carry {
		t.Errorf("mul(0C, 10) = %04X, %s", r, cc)
	}
	r, cc = mul(Carry, 0x00, 0x10)
	if r != 0 || cc != Zero {
		t.Errorf("mul(00, 10) = %04X, %s", r, cc)
	}

	r, cc = sex(0, 0x80)
	if r != 0xff80 || cc != Negative {
		t.Errorf("sex(80) = %04X, %s", r, cc)
	}
	r, cc = sex(Negative, 0x00)
	if r != 0 || cc != Zero {
		t.Errorf("sex(00) = %04X, %s", r, cc)
	}
}

func TestDaa(t *testing.T) {
	testUnary(t, "daa", daa, []unaryTest{
		{in: 0x0a, want: 0x10, wantCC: 0},
		{in: 0x12, cc: HalfCarry, want: 0x18, wantCC: HalfCarry},
		{in: 0x9a, want: 0x00, wantCC: Zero | Carry},
		{in: 0x20, cc: Carry, want: 0x80, wantCC: Negative | Carry}, // incoming carry is kept
		{in: 0x45, cc: Overflow, want: 0x45, wantCC: 0},
	})
}
