package hw

// Flag primitives. All of them work on the raw, untruncated result of an
// addition of two operands. Subtractions are performed as additions of the
// one's complement of the subtrahend plus one (or plus the inverted carry for
// SBC), so the same primitives apply.

// carry returns the carry out of bit 7 of i0+i1 == r. For subtractions the
// 6809 reports a borrow, which is the inverse of the adder carry.
func carry(i0, i1, r uint16, sub bool) uint8 {
	flag := (i0 | i1) &^ r // one input is 1 and output is 0
	flag |= i0 & i1        // both inputs are 1
	c := uint8(flag>>7) & 1
	if sub {
		c ^= 1
	}
	return c
}

// halfCarry returns the carry out of bit 3.
func halfCarry(i0, i1, r uint16) uint8 {
	return carry(i0<<4, i1<<4, r<<4, false)
}

func negative(r uint16) uint8 {
	return uint8(r>>7) & 1
}

func zero8(r uint16) uint8 {
	if r&0xff == 0 {
		return 1
	}
	return 0
}

func zero16(r uint16) uint8 {
	if r == 0 {
		return 1
	}
	return 0
}

// overflow is set when both inputs have the same sign and the result sign
// differs from it.
func overflow(i0, i1, r uint16) uint8 {
	flag := ^(i0 ^ i1)
	flag &= i0 ^ r
	return uint8(flag>>7) & 1
}

func signExtend(v uint8) uint16 {
	return uint16(int16(int8(v)))
}
