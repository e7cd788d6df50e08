package hw

import "fmt"

type mode uint8

const (
	inherent mode = iota
	immediate
	direct
	indexed
	extended
	relative  // 8-bit signed offset
	lrelative // 16-bit offset
)

func (m mode) String() string {
	switch m {
	case inherent:
		return "inh"
	case immediate:
		return "imm"
	case direct:
		return "dir"
	case indexed:
		return "idx"
	case extended:
		return "ext"
	case relative:
		return "rel"
	case lrelative:
		return "lrel"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// direct: DP supplies the high byte, the operand byte the low one.
func (c *CPU) eaDirect() uint16 {
	return uint16(c.DP)<<8 | uint16(c.fetch8())
}

func (c *CPU) eaExtended() uint16 {
	return c.fetch16()
}

// indexReg returns the index register selected by bits 6-5 of a postbyte.
func (c *CPU) indexReg(post uint8) *uint16 {
	switch (post >> 5) & 3 {
	case 0:
		return &c.X
	case 1:
		return &c.Y
	case 2:
		return &c.U
	}
	return &c.S
}

// eaIndexed decodes an indexed postbyte and its trailing offset bytes,
// returning the effective address and the extra cycles of the addressing
// form. Auto increment/decrement forms update the index register.
func (c *CPU) eaIndexed() (uint16, int) {
	post := c.fetch8()
	r := c.indexReg(post)

	// 5-bit signed offset, no indirection.
	if post&0x80 == 0 {
		off := uint16(post & 0x1f)
		if off&0x10 != 0 {
			off |= 0xffe0
		}
		return *r + off, 1
	}

	var (
		ea     uint16
		cycles int
	)
	switch post & 0x1f {
	case 0x00, 0x01: // ,R+ / ,R++
		ea = *r
		*r += 1 + uint16(post&1)
		cycles = 2 + int(post&1)
	case 0x10, 0x11: // [,R+] / [,R++]
		ea = c.read16(*r)
		*r += 1 + uint16(post&1)
		cycles = 5 + int(post&1)
	case 0x02, 0x03: // ,-R / ,--R
		*r -= 1 + uint16(post&1)
		ea = *r
		cycles = 2 + int(post&1)
	case 0x12, 0x13: // [,-R] / [,--R]
		*r -= 1 + uint16(post&1)
		ea = c.read16(*r)
		cycles = 5 + int(post&1)
	case 0x04: // ,R
		ea = *r
	case 0x14: // [,R]
		ea = c.read16(*r)
		cycles = 3
	case 0x05: // B,R
		ea = *r + signExtend(c.B)
		cycles = 1
	case 0x15: // [B,R]
		ea = c.read16(*r + signExtend(c.B))
		cycles = 4
	case 0x06: // A,R
		ea = *r + signExtend(c.A)
		cycles = 1
	case 0x16: // [A,R]
		ea = c.read16(*r + signExtend(c.A))
		cycles = 4
	case 0x08: // n8,R
		ea = *r + signExtend(c.fetch8())
		cycles = 1
	case 0x18: // [n8,R]
		ea = c.read16(*r + signExtend(c.fetch8()))
		cycles = 4
	case 0x09: // n16,R
		ea = *r + c.fetch16()
		cycles = 4
	case 0x19: // [n16,R]
		ea = c.read16(*r + c.fetch16())
		cycles = 7
	case 0x0b: // D,R
		ea = *r + c.D()
		cycles = 4
	case 0x1b: // [D,R]
		ea = c.read16(*r + c.D())
		cycles = 7
	case 0x0c: // n8,PC
		off := signExtend(c.fetch8())
		ea = c.PC + off
		cycles = 1
	case 0x1c: // [n8,PC]
		off := signExtend(c.fetch8())
		ea = c.read16(c.PC + off)
		cycles = 4
	case 0x0d: // n16,PC
		off := c.fetch16()
		ea = c.PC + off
		cycles = 5
	case 0x1d: // [n16,PC]
		off := c.fetch16()
		ea = c.read16(c.PC + off)
		cycles = 8
	case 0x1f: // [n16]
		if post != 0x9f {
			c.fault(IllegalPostbyte, c.opPage, post, c.opPC)
			return 0, 0
		}
		ea = c.read16(c.fetch16())
		cycles = 5
	default:
		c.fault(IllegalPostbyte, c.opPage, post, c.opPC)
		return 0, 0
	}
	return ea, cycles
}
