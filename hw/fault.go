package hw

import (
	"fmt"

	"mc6809/emu/log"
)

type FaultKind uint8

const (
	UndefinedOpcode FaultKind = iota // no entry in the opcode table
	IllegalPostbyte                  // invalid indexed addressing postbyte
	IllegalRegister                  // invalid EXG/TFR register code
)

// Fault describes an undefined encoding met while executing. Faults never
// stop the CPU: the offending instruction or operand has no effect and the
// fault is handed to the CPU FaultHandler.
type Fault struct {
	Kind FaultKind
	Page uint8  // 0, or the 0x10/0x11 prebyte
	Code uint8  // opcode, postbyte or register code
	PC   uint16 // address of the instruction
}

func (f Fault) Error() string {
	switch f.Kind {
	case UndefinedOpcode:
		if f.Page != 0 {
			return fmt.Sprintf("undefined opcode %02X %02X at %04X", f.Page, f.Code, f.PC)
		}
		return fmt.Sprintf("undefined opcode %02X at %04X", f.Code, f.PC)
	case IllegalPostbyte:
		return fmt.Sprintf("illegal indexed postbyte %02X at %04X", f.Code, f.PC)
	}
	return fmt.Sprintf("illegal register code %X at %04X", f.Code, f.PC)
}

// A FaultHandler receives faults synchronously, from within Step.
type FaultHandler func(Fault)

func logFault(f Fault) {
	log.ModCPU.WarnZ("fault").
		Stringer("kind", f.Kind).
		Hex8("page", f.Page).
		Hex8("code", f.Code).
		Hex16("pc", f.PC).
		End()
}
