package hw

// Step runs the CPU for one instruction, or services one interrupt, and
// returns the number of cycles it took. irq and firq are the levels of the
// interrupt lines for this step.
//
// FIRQ has priority over IRQ. A masked interrupt line still ends a SYNC
// wait, in which case execution resumes with the next instruction. When an
// interrupt is taken while in CWAI, the frame stacked by CWAI is used as is.
// While waiting, Step consumes a single cycle.
//
// Servicing an interrupt costs 7 cycles plus one per stacked byte: 10 for
// FIRQ, 19 for IRQ, and 7 for either when the frame was stacked by CWAI.
func (c *CPU) Step(irq, firq bool) int {
	cycles := c.step(irq, firq)
	c.Cycles += int64(cycles)
	return cycles
}

func (c *CPU) step(irq, firq bool) int {
	switch {
	case firq && !c.CC.hasFlag(FIRQMask):
		cycles := 7
		if c.Wait != CwaiWait {
			c.CC.clearFlags(Entire)
			cycles += c.pushRegs(pshFast, &c.S, c.U)
		}
		c.CC.setFlags(IRQMask | FIRQMask)
		c.PC = c.read16(FIRQVector)
		c.Wait = Normal
		return cycles

	case firq && c.Wait == SyncWait:
		c.Wait = Normal
	}

	switch {
	case irq && !c.CC.hasFlag(IRQMask):
		cycles := 7
		if c.Wait != CwaiWait {
			c.CC.setFlags(Entire)
			cycles += c.pushRegs(pshAll, &c.S, c.U)
		}
		c.CC.setFlags(IRQMask)
		c.PC = c.read16(IRQVector)
		c.Wait = Normal
		return cycles

	case irq && c.Wait == SyncWait:
		c.Wait = Normal
	}

	if c.Wait != Normal {
		return 1
	}
	return c.execute()
}
