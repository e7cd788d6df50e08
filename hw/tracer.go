package hw

import (
	"fmt"
	"io"
)

// cpuState stores the CPU state for the execution trace, captured after
// the opcode has been fetched and before it executes.
type cpuState struct {
	PC     uint16 // address of the instruction
	Opcode []byte // prebyte and opcode
	Name   string

	A, B, DP   uint8
	X, Y, U, S uint16
	CC         CC

	Clock int64
}

func (c *CPU) traceState(code uint8, d *opdef) cpuState {
	st := cpuState{
		PC:    c.opPC,
		Name:  d.name,
		A:     c.A,
		B:     c.B,
		DP:    c.DP,
		X:     c.X,
		Y:     c.Y,
		U:     c.U,
		S:     c.S,
		CC:    c.CC,
		Clock: c.Cycles,
	}
	if c.opPage != 0 {
		st.Opcode = []byte{c.opPage, code}
	} else {
		st.Opcode = []byte{code}
	}
	return st
}

type tracer struct {
	w  io.Writer
	fn TraceFunc
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

func appendHex8(buf []byte, name string, v uint8) []byte {
	buf = append(buf, name...)
	buf = append(buf, ':', 0, 0, ' ')
	hexEncode(buf[len(buf)-3:], v)
	return buf
}

func appendHex16(buf []byte, name string, v uint16) []byte {
	buf = append(buf, name...)
	buf = append(buf, ':', 0, 0, 0, 0, ' ')
	hexEncode(buf[len(buf)-5:], byte(v>>8))
	hexEncode(buf[len(buf)-3:], byte(v))
	return buf
}

// write the execution trace for the instruction about to execute.
func (t *tracer) write(state cpuState) {
	if t.fn != nil {
		t.fn(state.PC, state.Opcode, state.Name)
	}
	if t.w == nil {
		return
	}

	const (
		opcodeCol = 6
		nameCol   = 13
		regsCol   = 20
	)
	buf := make([]byte, regsCol, 96)
	for i := range buf {
		buf[i] = ' '
	}

	hexEncode(buf[0:], byte(state.PC>>8))
	hexEncode(buf[2:], byte(state.PC))

	off := opcodeCol
	for _, b := range state.Opcode {
		hexEncode(buf[off:], b)
		off += 3
	}

	copy(buf[nameCol:regsCol-1], state.Name)

	buf = appendHex8(buf, "A", state.A)
	buf = appendHex8(buf, "B", state.B)
	buf = appendHex16(buf, "X", state.X)
	buf = appendHex16(buf, "Y", state.Y)
	buf = appendHex16(buf, "U", state.U)
	buf = appendHex16(buf, "S", state.S)
	buf = appendHex8(buf, "DP", state.DP)

	buf = fmt.Appendf(buf, "CC:%s CYC:%d\n", state.CC, state.Clock)
	t.w.Write(buf)
}
