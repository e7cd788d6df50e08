// Package remote serves 6809 CPU cores over the network. Every client gets
// its own CPU whose memory bus lives on the client: each bus access made
// by an instruction is sent to the client as an event, which the client
// must answer before the instruction can go on.
//
// Messages start with an opbyte. Words are big-endian.
package remote

import (
	"encoding/binary"
	"fmt"

	"mc6809/emu/log"
	"mc6809/hw"
)

var modRemote = log.NewModule("remote")

type opbyte uint8

const (
	// 0x - Responses. Every response to a command or an event starts with
	// one of these.
	opAck  opbyte = 0x00 // acknowledged, followed by the payload if any
	opFail opbyte = 0x01 // failed

	// 1x - General commands
	opBye      opbyte = 0x10 // close the connection, no response
	opTraceOn  opbyte = 0x11 // enable trace events
	opTraceOff opbyte = 0x12 // disable trace events
	opReset    opbyte = 0x1e // reset the CPU
	opStep     opbyte = 0x1f // + lines byte. ack payload: cycles word

	// 2x, 30, 31 - Register write/read pairs, see Reg.
	opWriteA opbyte = 0x20

	opReadWait opbyte = 0x32 // ack payload: wait state byte

	// 8x - Server events, sent while a command executes. The client answers
	// them with a response.
	opEventReadBus  opbyte = 0x80 // + addr word. ack payload: data byte
	opEventWriteBus opbyte = 0x81 // + addr word, data byte
	opEventTrace    opbyte = 0x82 // + pc word, opcode word, mnemonic string
)

// Bits of the lines byte of the step command.
const (
	LineIRQ  = 1 << 0
	LineFIRQ = 1 << 1
)

// Reg identifies a CPU register in register commands.
type Reg uint8

const (
	RegA Reg = iota
	RegB
	RegDP
	RegCC
	RegX
	RegY
	RegU
	RegS
	RegPC

	numRegs
)

var regNames = [numRegs]string{"A", "B", "DP", "CC", "X", "Y", "U", "S", "PC"}

func (r Reg) String() string {
	if r < numRegs {
		return regNames[r]
	}
	return fmt.Sprintf("Reg(%d)", uint8(r))
}

// Wide reports whether r is a 16-bit register, transferred as a word.
func (r Reg) Wide() bool { return r >= RegX }

func (r Reg) writeOp() opbyte { return opWriteA + 2*opbyte(r) }
func (r Reg) readOp() opbyte  { return opWriteA + 2*opbyte(r) + 1 }

// regFromOp decodes a register command opbyte.
func regFromOp(op opbyte) (r Reg, write, ok bool) {
	if op < opWriteA || op >= opWriteA+2*opbyte(numRegs) {
		return 0, false, false
	}
	off := op - opWriteA
	return Reg(off / 2), off%2 == 0, true
}

func getReg(c *hw.CPU, r Reg) uint16 {
	switch r {
	case RegA:
		return uint16(c.A)
	case RegB:
		return uint16(c.B)
	case RegDP:
		return uint16(c.DP)
	case RegCC:
		return uint16(c.CC)
	case RegX:
		return c.X
	case RegY:
		return c.Y
	case RegU:
		return c.U
	case RegS:
		return c.S
	case RegPC:
		return c.PC
	}
	panic(fmt.Sprintf("unknown register %v", r))
}

func setReg(c *hw.CPU, r Reg, val uint16) {
	switch r {
	case RegA:
		c.A = uint8(val)
	case RegB:
		c.B = uint8(val)
	case RegDP:
		c.DP = uint8(val)
	case RegCC:
		c.CC = hw.CC(val)
	case RegX:
		c.X = val
	case RegY:
		c.Y = val
	case RegU:
		c.U = val
	case RegS:
		c.S = val
	case RegPC:
		c.PC = val
	default:
		panic(fmt.Sprintf("unknown register %v", r))
	}
}

type sendBuf struct {
	buf  []uint8
	dest []uint8
}

func newMessage(typ opbyte, restLen int) sendBuf {
	buf := make([]uint8, restLen+1)
	buf[0] = uint8(typ)
	return sendBuf{buf: buf, dest: buf[1:]}
}

func newAckResponse(restLen int) sendBuf { return newMessage(opAck, restLen) }
func newFailResponse() sendBuf           { return newMessage(opFail, 0) }

func (b *sendBuf) appendB(v uint8) {
	b.dest[0] = v
	b.dest = b.dest[1:]
}

func (b *sendBuf) appendW(v uint16) {
	binary.BigEndian.PutUint16(b.dest[0:2], v)
	b.dest = b.dest[2:]
}

// appendS appends a string, prefixed by its length byte.
func (b *sendBuf) appendS(s string) {
	if len(s) > 255 {
		panic("string cannot be sent because it's too long (max: 255 bytes)")
	}
	b.appendB(byte(len(s)))
	b.dest = b.dest[copy(b.dest, s):]
}

// bytes returns the message, which must have been completely filled.
func (b *sendBuf) bytes() []byte {
	if len(b.dest) != 0 {
		panic("too many bytes were allocated")
	}
	return b.buf
}
