package hw

import "fmt"

// execute fetches the next instruction, prebyte included, and runs it.
// It returns the total number of cycles taken.
func (c *CPU) execute() int {
	c.opPC = c.PC
	c.opPage = 0

	code := c.fetch8()
	d := &page0[code]
	switch d.op {
	case opPage1:
		c.opPage = 0x10
		code = c.fetch8()
		d = &page1[code]
	case opPage2:
		c.opPage = 0x11
		code = c.fetch8()
		d = &page2[code]
	}

	if !d.defined() {
		c.fault(UndefinedOpcode, c.opPage, code, c.opPC)
		return 0
	}

	if c.tracer != nil {
		c.tracer.write(c.traceState(code, d))
	}

	return int(d.cycles) + c.exec(d, code)
}

// exec runs the semantic of d and returns the cycles it takes on top of the
// base count of the table.
func (c *CPU) exec(d *opdef, code uint8) int {
	switch d.op {
	case opNEG, opCOM, opLSR, opROR, opASR, opASL, opROL, opDEC, opINC, opTST, opCLR:
		return c.rmw(d)

	case opSUB, opCMP, opSBC, opAND, opBIT, opLD, opST, opEOR, opADC, opOR, opADD:
		return c.alu8(d)

	case opSUB16, opADD16, opCMP16, opLD16, opST16:
		return c.alu16(d)

	case opBcc:
		off := signExtend(c.fetch8())
		if c.CC.cond(code & 0x0f) {
			c.PC += off
		}
	case opLBcc:
		off := c.fetch16()
		if c.CC.cond(code & 0x0f) {
			c.PC += off
			return 1
		}
	case opLBRA:
		off := c.fetch16()
		c.PC += off
	case opBSR:
		off := signExtend(c.fetch8())
		c.push16(&c.S, c.PC)
		c.PC += off
	case opLBSR:
		off := c.fetch16()
		c.push16(&c.S, c.PC)
		c.PC += off
	case opJMP:
		ea, extra := c.ea(d.mode)
		c.PC = ea
		return extra
	case opJSR:
		ea, extra := c.ea(d.mode)
		c.push16(&c.S, c.PC)
		c.PC = ea
		return extra
	case opRTS:
		c.PC = c.pull16(&c.S)

	case opPSHS:
		mask := c.fetch8()
		return c.pushRegs(mask, &c.S, c.U)
	case opPULS:
		mask := c.fetch8()
		return c.pullRegs(mask, &c.S, &c.U)
	case opPSHU:
		mask := c.fetch8()
		return c.pushRegs(mask, &c.U, c.S)
	case opPULU:
		mask := c.fetch8()
		return c.pullRegs(mask, &c.U, &c.S)

	case opEXG:
		post := c.fetch8()
		tmp := c.readReg(post & 0x0f)
		c.writeReg(post&0x0f, c.readReg(post>>4))
		c.writeReg(post>>4, tmp)
	case opTFR:
		post := c.fetch8()
		c.writeReg(post&0x0f, c.readReg(post>>4))

	case opLEA:
		ea, extra := c.eaIndexed()
		switch d.reg {
		case regX:
			c.X = ea
			c.CC.set(Zero, zero16(ea))
		case regY:
			c.Y = ea
			c.CC.set(Zero, zero16(ea))
		case regU:
			c.U = ea
		case regS:
			c.S = ea
		}
		return extra

	case opABX:
		c.X += uint16(c.B)
	case opMUL:
		var r uint16
		r, c.CC = mul(c.CC, c.A, c.B)
		c.SetD(r)
	case opSEX:
		var r uint16
		r, c.CC = sex(c.CC, c.B)
		c.SetD(r)
	case opDAA:
		c.A, c.CC = daa(c.CC, c.A)
	case opNOP:
	case opORCC:
		c.CC |= CC(c.fetch8())
	case opANDCC:
		c.CC &= CC(c.fetch8())

	case opSWI:
		c.CC.setFlags(Entire)
		n := c.pushRegs(pshAll, &c.S, c.U)
		c.CC.setFlags(IRQMask | FIRQMask)
		c.PC = c.read16(SWIVector)
		return n
	case opSWI2:
		c.CC.setFlags(Entire)
		n := c.pushRegs(pshAll, &c.S, c.U)
		c.PC = c.read16(SWI2Vector)
		return n
	case opSWI3:
		c.CC.setFlags(Entire)
		n := c.pushRegs(pshAll, &c.S, c.U)
		c.PC = c.read16(SWI3Vector)
		return n
	case opRTI:
		// The pulled CC tells how much of the frame was stacked.
		n := c.pullRegs(pshCC, &c.S, &c.U)
		if c.CC.hasFlag(Entire) {
			n += c.pullRegs(pshAll&^pshCC, &c.S, &c.U)
		} else {
			n += c.pullRegs(pshPC, &c.S, &c.U)
		}
		return n
	case opCWAI:
		c.CC &= CC(c.fetch8())
		c.CC.setFlags(Entire)
		n := c.pushRegs(pshAll, &c.S, c.U)
		c.Wait = CwaiWait
		return n
	case opSYNC:
		c.Wait = SyncWait

	default:
		panic(fmt.Sprintf("unhandled opcode %02X %02X (%s)", c.opPage, code, d.name))
	}
	return 0
}

// ea resolves the effective address of a memory operand.
func (c *CPU) ea(m mode) (uint16, int) {
	switch m {
	case direct:
		return c.eaDirect(), 0
	case extended:
		return c.eaExtended(), 0
	case indexed:
		return c.eaIndexed()
	}
	panic(fmt.Sprintf("no effective address for %v mode", m))
}

// read-modify-write instructions on A, B or memory.
func (c *CPU) rmw(d *opdef) int {
	var (
		val   uint8
		ea    uint16
		extra int
	)
	switch d.reg {
	case regA:
		val = c.A
	case regB:
		val = c.B
	default:
		ea, extra = c.ea(d.mode)
		if d.op != opCLR {
			val = c.read8(ea)
		}
	}

	var r uint8
	switch d.op {
	case opNEG:
		r, c.CC = neg(c.CC, val)
	case opCOM:
		r, c.CC = com(c.CC, val)
	case opLSR:
		r, c.CC = lsr(c.CC, val)
	case opROR:
		r, c.CC = ror(c.CC, val)
	case opASR:
		r, c.CC = asr(c.CC, val)
	case opASL:
		r, c.CC = asl(c.CC, val)
	case opROL:
		r, c.CC = rol(c.CC, val)
	case opDEC:
		r, c.CC = dec(c.CC, val)
	case opINC:
		r, c.CC = inc(c.CC, val)
	case opCLR:
		r, c.CC = clr(c.CC)
	case opTST:
		c.CC = tst8(c.CC, val)
		return extra
	}

	switch d.reg {
	case regA:
		c.A = r
	case regB:
		c.B = r
	default:
		c.write8(ea, r)
	}
	return extra
}

// 8-bit accumulator instructions.
func (c *CPU) alu8(d *opdef) int {
	acc := &c.A
	if d.reg == regB {
		acc = &c.B
	}

	if d.op == opST {
		ea, extra := c.ea(d.mode)
		c.write8(ea, *acc)
		c.CC = tst8(c.CC, *acc)
		return extra
	}

	var (
		val   uint8
		extra int
	)
	if d.mode == immediate {
		val = c.fetch8()
	} else {
		var ea uint16
		ea, extra = c.ea(d.mode)
		val = c.read8(ea)
	}

	switch d.op {
	case opSUB:
		*acc, c.CC = sub(c.CC, *acc, val)
	case opCMP:
		_, c.CC = sub(c.CC, *acc, val)
	case opSBC:
		*acc, c.CC = sbc(c.CC, *acc, val)
	case opAND:
		*acc, c.CC = and(c.CC, *acc, val)
	case opBIT:
		_, c.CC = and(c.CC, *acc, val)
	case opLD:
		*acc = val
		c.CC = tst8(c.CC, val)
	case opEOR:
		*acc, c.CC = eor(c.CC, *acc, val)
	case opADC:
		*acc, c.CC = adc(c.CC, *acc, val)
	case opOR:
		*acc, c.CC = or(c.CC, *acc, val)
	case opADD:
		*acc, c.CC = add(c.CC, *acc, val)
	}
	return extra
}

// 16-bit register instructions.
func (c *CPU) alu16(d *opdef) int {
	if d.op == opST16 {
		ea, extra := c.ea(d.mode)
		val := c.reg16(d.reg)
		c.write16(ea, val)
		c.CC = tst16(c.CC, val)
		return extra
	}

	var (
		val   uint16
		extra int
	)
	if d.mode == immediate {
		val = c.fetch16()
	} else {
		var ea uint16
		ea, extra = c.ea(d.mode)
		val = c.read16(ea)
	}

	switch d.op {
	case opSUB16:
		var r uint16
		r, c.CC = sub16(c.CC, c.reg16(d.reg), val)
		c.setReg16(d.reg, r)
	case opADD16:
		var r uint16
		r, c.CC = add16(c.CC, c.reg16(d.reg), val)
		c.setReg16(d.reg, r)
	case opCMP16:
		_, c.CC = sub16(c.CC, c.reg16(d.reg), val)
	case opLD16:
		c.setReg16(d.reg, val)
		c.CC = tst16(c.CC, val)
	}
	return extra
}

func (c *CPU) reg16(r reg) uint16 {
	switch r {
	case regD:
		return c.D()
	case regX:
		return c.X
	case regY:
		return c.Y
	case regU:
		return c.U
	case regS:
		return c.S
	}
	panic(fmt.Sprintf("not a 16-bit register: %d", r))
}

func (c *CPU) setReg16(r reg, val uint16) {
	switch r {
	case regD:
		c.SetD(val)
	case regX:
		c.X = val
	case regY:
		c.Y = val
	case regU:
		c.U = val
	case regS:
		c.S = val
	default:
		panic(fmt.Sprintf("not a 16-bit register: %d", r))
	}
}

// readReg reads a register selected by an EXG/TFR code. 8-bit registers
// read with their high byte set.
func (c *CPU) readReg(code uint8) uint16 {
	switch code {
	case 0x0:
		return c.D()
	case 0x1:
		return c.X
	case 0x2:
		return c.Y
	case 0x3:
		return c.U
	case 0x4:
		return c.S
	case 0x5:
		return c.PC
	case 0x8:
		return 0xff00 | uint16(c.A)
	case 0x9:
		return 0xff00 | uint16(c.B)
	case 0xa:
		return 0xff00 | uint16(c.CC)
	case 0xb:
		return 0xff00 | uint16(c.DP)
	}
	c.fault(IllegalRegister, c.opPage, code, c.opPC)
	return 0xffff
}

func (c *CPU) writeReg(code uint8, val uint16) {
	switch code {
	case 0x0:
		c.SetD(val)
	case 0x1:
		c.X = val
	case 0x2:
		c.Y = val
	case 0x3:
		c.U = val
	case 0x4:
		c.S = val
	case 0x5:
		c.PC = val
	case 0x8:
		c.A = uint8(val)
	case 0x9:
		c.B = uint8(val)
	case 0xa:
		c.CC = CC(val)
	case 0xb:
		c.DP = uint8(val)
	default:
		c.fault(IllegalRegister, c.opPage, code, c.opPC)
	}
}
