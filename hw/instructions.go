package hw

// Instruction semantics. Each function takes its operands and the current
// condition codes and returns the result together with the updated
// condition codes; none of them touch the CPU or the bus.

func neg(cc CC, d uint8) (uint8, CC) {
	i0, i1 := uint16(0), ^uint16(d)
	r := i0 + i1 + 1

	cc.set(HalfCarry, halfCarry(i0, i1, r))
	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Overflow, overflow(i0, i1, r))
	cc.set(Carry, carry(i0, i1, r, true))
	return uint8(r), cc
}

func com(cc CC, d uint8) (uint8, CC) {
	r := uint16(^d)

	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.clearFlags(Overflow)
	cc.setFlags(Carry)
	return uint8(r), cc
}

func lsr(cc CC, d uint8) (uint8, CC) {
	r := uint16(d >> 1)

	cc.clearFlags(Negative)
	cc.set(Zero, zero8(r))
	cc.set(Carry, d&1)
	return uint8(r), cc
}

func ror(cc CC, d uint8) (uint8, CC) {
	r := uint16(d>>1) | uint16(cc.bit(Carry))<<7

	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Carry, d&1)
	return uint8(r), cc
}

func asr(cc CC, d uint8) (uint8, CC) {
	r := uint16(d>>1) | uint16(d&0x80)

	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Carry, d&1)
	return uint8(r), cc
}

func asl(cc CC, d uint8) (uint8, CC) {
	i0, i1 := uint16(d), uint16(d)
	r := i0 + i1

	cc.set(HalfCarry, halfCarry(i0, i1, r))
	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Overflow, overflow(i0, i1, r))
	cc.set(Carry, carry(i0, i1, r, false))
	return uint8(r), cc
}

func rol(cc CC, d uint8) (uint8, CC) {
	i0, i1 := uint16(d), uint16(d)
	r := i0 + i1 + uint16(cc.bit(Carry))

	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Overflow, overflow(i0, i1, r))
	cc.set(Carry, carry(i0, i1, r, false))
	return uint8(r), cc
}

func dec(cc CC, d uint8) (uint8, CC) {
	i0, i1 := uint16(d), uint16(0xff)
	r := i0 + i1

	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Overflow, overflow(i0, i1, r))
	return uint8(r), cc
}

func inc(cc CC, d uint8) (uint8, CC) {
	i0, i1 := uint16(d), uint16(1)
	r := i0 + i1

	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Overflow, overflow(i0, i1, r))
	return uint8(r), cc
}

func tst8(cc CC, d uint8) CC {
	cc.set(Negative, negative(uint16(d)))
	cc.set(Zero, zero8(uint16(d)))
	cc.clearFlags(Overflow)
	return cc
}

func tst16(cc CC, d uint16) CC {
	cc.set(Negative, negative(d>>8))
	cc.set(Zero, zero16(d))
	cc.clearFlags(Overflow)
	return cc
}

func clr(cc CC) (uint8, CC) {
	cc.clearFlags(Negative | Overflow | Carry)
	cc.setFlags(Zero)
	return 0, cc
}

// sub is used by SUB and CMP.
func sub(cc CC, a, b uint8) (uint8, CC) {
	i0, i1 := uint16(a), ^uint16(b)
	r := i0 + i1 + 1

	cc.set(HalfCarry, halfCarry(i0, i1, r))
	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Overflow, overflow(i0, i1, r))
	cc.set(Carry, carry(i0, i1, r, true))
	return uint8(r), cc
}

func sbc(cc CC, a, b uint8) (uint8, CC) {
	i0, i1 := uint16(a), ^uint16(b)
	r := i0 + i1 + uint16(1-cc.bit(Carry))

	cc.set(HalfCarry, halfCarry(i0, i1, r))
	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Overflow, overflow(i0, i1, r))
	cc.set(Carry, carry(i0, i1, r, true))
	return uint8(r), cc
}

func add(cc CC, a, b uint8) (uint8, CC) {
	i0, i1 := uint16(a), uint16(b)
	r := i0 + i1

	cc.set(HalfCarry, halfCarry(i0, i1, r))
	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Overflow, overflow(i0, i1, r))
	cc.set(Carry, carry(i0, i1, r, false))
	return uint8(r), cc
}

func adc(cc CC, a, b uint8) (uint8, CC) {
	i0, i1 := uint16(a), uint16(b)
	r := i0 + i1 + uint16(cc.bit(Carry))

	cc.set(HalfCarry, halfCarry(i0, i1, r))
	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.set(Overflow, overflow(i0, i1, r))
	cc.set(Carry, carry(i0, i1, r, false))
	return uint8(r), cc
}

// and is used by AND and BIT.
func and(cc CC, a, b uint8) (uint8, CC) {
	r := a & b
	return r, tst8(cc, r)
}

func or(cc CC, a, b uint8) (uint8, CC) {
	r := a | b
	return r, tst8(cc, r)
}

func eor(cc CC, a, b uint8) (uint8, CC) {
	r := a ^ b
	return r, tst8(cc, r)
}

// 16-bit arithmetic derives its flags from the high bytes.

func add16(cc CC, a, b uint16) (uint16, CC) {
	i0, i1 := a, b
	r := i0 + i1

	cc.set(Negative, negative(r>>8))
	cc.set(Zero, zero16(r))
	cc.set(Overflow, overflow(i0>>8, i1>>8, r>>8))
	cc.set(Carry, carry(i0>>8, i1>>8, r>>8, false))
	return r, cc
}

// sub16 is used by SUBD and all 16-bit compares.
func sub16(cc CC, a, b uint16) (uint16, CC) {
	i0, i1 := a, ^b
	r := i0 + i1 + 1

	cc.set(Negative, negative(r>>8))
	cc.set(Zero, zero16(r))
	cc.set(Overflow, overflow(i0>>8, i1>>8, r>>8))
	cc.set(Carry, carry(i0>>8, i1>>8, r>>8, true))
	return r, cc
}

func mul(cc CC, a, b uint8) (uint16, CC) {
	r := uint16(a) * uint16(b)

	cc.set(Zero, zero16(r))
	cc.set(Carry, uint8(r>>7)&1)
	return r, cc
}

// sex sign-extends B into D.
func sex(cc CC, b uint8) (uint16, CC) {
	r := signExtend(b)

	cc.set(Negative, negative(r>>8))
	cc.set(Zero, zero16(r))
	return r, cc
}

// daa applies the decimal adjustment to A after a BCD addition. The carry
// is sticky: it stays set if it was set before the adjustment.
func daa(cc CC, a uint8) (uint8, CC) {
	lsn, msn := a&0x0f, a&0xf0

	var corr uint16
	if lsn > 0x09 || cc.hasFlag(HalfCarry) {
		corr |= 0x06
	}
	if msn > 0x80 && lsn > 0x09 {
		corr |= 0x60
	}
	if msn > 0x90 || cc.hasFlag(Carry) {
		corr |= 0x60
	}

	i0 := uint16(a)
	r := i0 + corr

	cc.set(Negative, negative(r))
	cc.set(Zero, zero8(r))
	cc.clearFlags(Overflow)
	cc.set(Carry, cc.bit(Carry)|carry(i0, corr, r, false))
	return uint8(r), cc
}
