package hw

// CC is the 6809 condition code register.
type CC uint8

const (
	Carry CC = 1 << iota
	Overflow
	Zero
	Negative
	IRQMask
	HalfCarry
	FIRQMask
	Entire
)

func (cc CC) String() string {
	const bits = "efhinzvcEFHINZVC"

	s := make([]byte, 8)
	for i := range 8 {
		ibit := (uint8(cc) & (1 << (7 - i))) >> (7 - i)
		s[i] = bits[i+int(8*ibit)]
	}
	return string(s)
}

func (cc *CC) setFlags(flags CC) {
	*cc |= flags
}

func (cc *CC) clearFlags(flags CC) {
	*cc &^= flags
}

func (cc CC) hasFlag(flag CC) bool {
	return cc&flag == flag
}

// set sets flag if v is 1 and clears it if v is 0.
func (cc *CC) set(flag CC, v uint8) {
	*cc &^= flag
	if v != 0 {
		*cc |= flag
	}
}

func (cc CC) bit(flag CC) uint8 {
	if cc&flag != 0 {
		return 1
	}
	return 0
}

// cond evaluates the branch condition encoded in the low nibble of a
// branch opcode (0x20..0x2F, same on page 1).
func (cc CC) cond(nibble uint8) bool {
	c, v, z, n := cc.bit(Carry), cc.bit(Overflow), cc.bit(Zero), cc.bit(Negative)

	var test uint8
	switch nibble >> 1 {
	case 0: // BRA/BRN
		test = 0
	case 1: // BHI/BLS
		test = c | z
	case 2: // BCC/BCS
		test = c
	case 3: // BNE/BEQ
		test = z
	case 4: // BVC/BVS
		test = v
	case 5: // BPL/BMI
		test = n
	case 6: // BGE/BLT
		test = n ^ v
	case 7: // BGT/BLE
		test = z | (n ^ v)
	}

	// Even opcodes branch when the test is false, odd ones when it's true.
	return test == nibble&1
}
