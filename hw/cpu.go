package hw

import (
	"io"
)

// Locations reserved for vector pointers.
const (
	SWI3Vector  = uint16(0xFFF2)
	SWI2Vector  = uint16(0xFFF4)
	FIRQVector  = uint16(0xFFF6)
	IRQVector   = uint16(0xFFF8)
	SWIVector   = uint16(0xFFFA)
	NMIVector   = uint16(0xFFFC) // not emulated
	ResetVector = uint16(0xFFFE)
)

// Bus is the host memory bus seen by the CPU. Every memory access of an
// instruction goes through it, one byte at a time.
type Bus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// BusFuncs adapts a pair of plain callbacks to the Bus interface.
type BusFuncs struct {
	Read  func(addr uint16) uint8
	Write func(addr uint16, val uint8)
}

func (b BusFuncs) Read8(addr uint16) uint8       { return b.Read(addr) }
func (b BusFuncs) Write8(addr uint16, val uint8) { b.Write(addr, val) }

type CPU struct {
	Bus Bus

	// cpu registers
	A, B, DP       uint8
	CC             CC
	X, Y, U, S, PC uint16

	Wait WaitState

	// Cycles elapsed since creation, as returned by Step.
	Cycles int64

	faults FaultHandler

	// instruction being executed, for fault reports.
	opPC   uint16
	opPage uint8

	// Non-nil when execution tracing is enabled.
	tracer *tracer
}

// NewCPU creates a CPU wired to bus. The CPU must be Reset before stepping.
func NewCPU(bus Bus) *CPU {
	return &CPU{
		Bus:    bus,
		faults: logFault,
	}
}

// Reset puts the CPU in its power-up state and loads PC from the reset vector.
func (c *CPU) Reset() {
	c.A, c.B, c.DP = 0, 0, 0
	c.X, c.Y, c.U, c.S = 0, 0, 0, 0
	c.CC = IRQMask | FIRQMask
	c.Wait = Normal
	c.PC = c.read16(ResetVector)
}

// D returns the 16-bit accumulator, made of A (high) and B (low).
func (c *CPU) D() uint16 {
	return uint16(c.A)<<8 | uint16(c.B)
}

func (c *CPU) SetD(val uint16) {
	c.A = uint8(val >> 8)
	c.B = uint8(val)
}

// SetFaultHandler installs the function receiving decode and register
// selector faults. A nil handler restores the default, which logs them.
func (c *CPU) SetFaultHandler(h FaultHandler) {
	if h == nil {
		h = logFault
	}
	c.faults = h
}

func (c *CPU) fault(kind FaultKind, page, code uint8, pc uint16) {
	c.faults(Fault{Kind: kind, Page: page, Code: code, PC: pc})
}

/* bus access */

func (c *CPU) read8(addr uint16) uint8 {
	return c.Bus.Read8(addr)
}

func (c *CPU) write8(addr uint16, val uint8) {
	c.Bus.Write8(addr, val)
}

// 16-bit quantities are stored big-endian.
func (c *CPU) read16(addr uint16) uint16 {
	hi := c.read8(addr)
	lo := c.read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) write16(addr uint16, val uint16) {
	c.write8(addr, uint8(val>>8))
	c.write8(addr+1, uint8(val))
}

func (c *CPU) fetch8() uint8 {
	val := c.read8(c.PC)
	c.PC++
	return val
}

func (c *CPU) fetch16() uint16 {
	val := c.read16(c.PC)
	c.PC += 2
	return val
}

/* stack operations */

func (c *CPU) push8(sp *uint16, val uint8) {
	*sp--
	c.write8(*sp, val)
}

func (c *CPU) pull8(sp *uint16) uint8 {
	val := c.read8(*sp)
	*sp++
	return val
}

// push16 leaves the word big-endian in memory, low byte at the higher address.
func (c *CPU) push16(sp *uint16, val uint16) {
	c.push8(sp, uint8(val))
	c.push8(sp, uint8(val>>8))
}

func (c *CPU) pull16(sp *uint16) uint16 {
	hi := c.pull8(sp)
	lo := c.pull8(sp)
	return uint16(hi)<<8 | uint16(lo)
}

// Register masks for PSH/PUL postbytes.
const (
	pshCC uint8 = 1 << iota
	pshA
	pshB
	pshDP
	pshX
	pshY
	pshOther // U for S-stack ops, S for U-stack ops
	pshPC

	pshAll  = 0xFF
	pshFast = pshPC | pshCC // FIRQ frame
)

// pushRegs pushes the registers selected by mask on the stack pointed by sp,
// other being the opposite stack pointer. It returns the number of cycles
// taken by the transfers.
func (c *CPU) pushRegs(mask uint8, sp *uint16, other uint16) int {
	cycles := 0
	if mask&pshPC != 0 {
		c.push16(sp, c.PC)
		cycles += 2
	}
	if mask&pshOther != 0 {
		c.push16(sp, other)
		cycles += 2
	}
	if mask&pshY != 0 {
		c.push16(sp, c.Y)
		cycles += 2
	}
	if mask&pshX != 0 {
		c.push16(sp, c.X)
		cycles += 2
	}
	if mask&pshDP != 0 {
		c.push8(sp, c.DP)
		cycles++
	}
	if mask&pshB != 0 {
		c.push8(sp, c.B)
		cycles++
	}
	if mask&pshA != 0 {
		c.push8(sp, c.A)
		cycles++
	}
	if mask&pshCC != 0 {
		c.push8(sp, uint8(c.CC))
		cycles++
	}
	return cycles
}

// pullRegs is the reverse of pushRegs, other receives the value pulled for
// the opposite stack pointer.
func (c *CPU) pullRegs(mask uint8, sp, other *uint16) int {
	cycles := 0
	if mask&pshCC != 0 {
		c.CC = CC(c.pull8(sp))
		cycles++
	}
	if mask&pshA != 0 {
		c.A = c.pull8(sp)
		cycles++
	}
	if mask&pshB != 0 {
		c.B = c.pull8(sp)
		cycles++
	}
	if mask&pshDP != 0 {
		c.DP = c.pull8(sp)
		cycles++
	}
	if mask&pshX != 0 {
		c.X = c.pull16(sp)
		cycles += 2
	}
	if mask&pshY != 0 {
		c.Y = c.pull16(sp)
		cycles += 2
	}
	if mask&pshOther != 0 {
		*other = c.pull16(sp)
		cycles += 2
	}
	if mask&pshPC != 0 {
		c.PC = c.pull16(sp)
		cycles += 2
	}
	return cycles
}

/* tracing */

// SetTraceOutput enables the execution trace, one line per instruction, to w.
// A nil writer disables it.
func (c *CPU) SetTraceOutput(w io.Writer) {
	t := c.traceConfig()
	t.w = w
	c.setTracer(t)
}

// TraceFunc receives the address, the opcode bytes (prebyte included) and
// the mnemonic of every instruction about to execute.
type TraceFunc func(pc uint16, opcode []byte, name string)

// SetTraceFunc installs fn as a trace hook, called before the trace line is
// written. A nil fn removes it.
func (c *CPU) SetTraceFunc(fn TraceFunc) {
	t := c.traceConfig()
	t.fn = fn
	c.setTracer(t)
}

func (c *CPU) traceConfig() tracer {
	if c.tracer == nil {
		return tracer{}
	}
	return *c.tracer
}

func (c *CPU) setTracer(t tracer) {
	if t.w == nil && t.fn == nil {
		c.tracer = nil
		return
	}
	c.tracer = &t
}
