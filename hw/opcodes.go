package hw

// semantic identifies what an opcode does, independently of its addressing
// mode and operand register.
type semantic uint8

const (
	opNone semantic = iota

	// read-modify-write, on A, B or memory
	opNEG
	opCOM
	opLSR
	opROR
	opASR
	opASL
	opROL
	opDEC
	opINC
	opTST
	opCLR

	// 8-bit register/memory
	opSUB
	opCMP
	opSBC
	opAND
	opBIT
	opLD
	opST
	opEOR
	opADC
	opOR
	opADD

	// 16-bit register/memory
	opSUB16
	opADD16
	opCMP16
	opLD16
	opST16

	// flow control
	opBcc
	opLBcc
	opLBRA
	opBSR
	opLBSR
	opJMP
	opJSR
	opRTS

	// stacks and registers
	opPSHS
	opPULS
	opPSHU
	opPULU
	opEXG
	opTFR
	opLEA
	opABX
	opMUL
	opSEX
	opDAA
	opNOP
	opORCC
	opANDCC

	// interrupts
	opSWI
	opSWI2
	opSWI3
	opRTI
	opCWAI
	opSYNC

	// prebytes
	opPage1
	opPage2
)

// reg is the register operand of an opcode.
type reg uint8

const (
	regNone reg = iota
	regA
	regB
	regD
	regX
	regY
	regU
	regS
)

// opdef describes one opcode. cycles is the base count, to which the
// indexed addressing extra, stack transfers and taken long branches add.
type opdef struct {
	name   string
	op     semantic
	mode   mode
	reg    reg
	cycles uint8
}

func (d *opdef) defined() bool { return d.op != opNone }

// Opcode tables, indexed by opcode. page1 and page2 hold the opcodes
// following the 0x10 and 0x11 prebytes. Read-only after init.
var (
	page0 = buildPage0()
	page1 = buildPage1()
	page2 = buildPage2()
)

// Mnemonic returns the mnemonic of an opcode, page being 0 or one of the
// 0x10/0x11 prebytes. Undefined opcodes return an empty string.
func Mnemonic(page, opcode uint8) string {
	var tbl *[256]opdef
	switch page {
	case 0:
		tbl = &page0
	case 0x10:
		tbl = &page1
	case 0x11:
		tbl = &page2
	default:
		return ""
	}
	return tbl[opcode].name
}

var rmwOps = []struct {
	lo   uint8
	name string
	op   semantic
}{
	{0x0, "NEG", opNEG},
	{0x3, "COM", opCOM},
	{0x4, "LSR", opLSR},
	{0x6, "ROR", opROR},
	{0x7, "ASR", opASR},
	{0x8, "ASL", opASL},
	{0x9, "ROL", opROL},
	{0xA, "DEC", opDEC},
	{0xC, "INC", opINC},
	{0xD, "TST", opTST},
	{0xF, "CLR", opCLR},
}

var aluOps = []struct {
	lo   uint8
	name string
	op   semantic
}{
	{0x0, "SUB", opSUB},
	{0x1, "CMP", opCMP},
	{0x2, "SBC", opSBC},
	{0x4, "AND", opAND},
	{0x5, "BIT", opBIT},
	{0x6, "LD", opLD},
	{0x7, "ST", opST},
	{0x8, "EOR", opEOR},
	{0x9, "ADC", opADC},
	{0xA, "OR", opOR},
	{0xB, "ADD", opADD},
}

var branchNames = [16]string{
	"BRA", "BRN", "BHI", "BLS", "BCC", "BCS", "BNE", "BEQ",
	"BVC", "BVS", "BPL", "BMI", "BGE", "BLT", "BGT", "BLE",
}

// modes of the 4 columns of the 0x80-0xFF area, with their row offset.
var memModes = [4]struct {
	off  uint8
	mode mode
}{
	{0x00, immediate},
	{0x10, direct},
	{0x20, indexed},
	{0x30, extended},
}

// defModes fills the 4 addressing modes of an operation starting at
// opcode base. cyc holds the immediate, direct, indexed and extended base
// cycles; a zero entry leaves the opcode undefined.
func defModes(tbl *[256]opdef, base uint8, name string, op semantic, r reg, cyc [4]uint8) {
	for i, m := range memModes {
		if cyc[i] == 0 {
			continue
		}
		tbl[base+m.off] = opdef{name, op, m.mode, r, cyc[i]}
	}
}

func buildPage0() (tbl [256]opdef) {
	for _, o := range rmwOps {
		tbl[0x00|o.lo] = opdef{o.name, o.op, direct, regNone, 6}
		tbl[0x40|o.lo] = opdef{o.name + "A", o.op, inherent, regA, 2}
		tbl[0x50|o.lo] = opdef{o.name + "B", o.op, inherent, regB, 2}
		tbl[0x60|o.lo] = opdef{o.name, o.op, indexed, regNone, 6}
		tbl[0x70|o.lo] = opdef{o.name, o.op, extended, regNone, 7}
	}
	tbl[0x0E] = opdef{"JMP", opJMP, direct, regNone, 3}
	tbl[0x6E] = opdef{"JMP", opJMP, indexed, regNone, 3}
	tbl[0x7E] = opdef{"JMP", opJMP, extended, regNone, 4}

	tbl[0x10] = opdef{"PAGE1", opPage1, inherent, regNone, 0}
	tbl[0x11] = opdef{"PAGE2", opPage2, inherent, regNone, 0}
	tbl[0x12] = opdef{"NOP", opNOP, inherent, regNone, 2}
	tbl[0x13] = opdef{"SYNC", opSYNC, inherent, regNone, 2}
	tbl[0x16] = opdef{"LBRA", opLBRA, lrelative, regNone, 5}
	tbl[0x17] = opdef{"LBSR", opLBSR, lrelative, regNone, 9}
	tbl[0x19] = opdef{"DAA", opDAA, inherent, regA, 2}
	tbl[0x1A] = opdef{"ORCC", opORCC, immediate, regNone, 3}
	tbl[0x1C] = opdef{"ANDCC", opANDCC, immediate, regNone, 3}
	tbl[0x1D] = opdef{"SEX", opSEX, inherent, regD, 2}
	tbl[0x1E] = opdef{"EXG", opEXG, immediate, regNone, 8}
	tbl[0x1F] = opdef{"TFR", opTFR, immediate, regNone, 6}

	for i, name := range branchNames {
		tbl[0x20+i] = opdef{name, opBcc, relative, regNone, 3}
	}

	tbl[0x30] = opdef{"LEAX", opLEA, indexed, regX, 4}
	tbl[0x31] = opdef{"LEAY", opLEA, indexed, regY, 4}
	tbl[0x32] = opdef{"LEAS", opLEA, indexed, regS, 4}
	tbl[0x33] = opdef{"LEAU", opLEA, indexed, regU, 4}
	tbl[0x34] = opdef{"PSHS", opPSHS, immediate, regNone, 5}
	tbl[0x35] = opdef{"PULS", opPULS, immediate, regNone, 5}
	tbl[0x36] = opdef{"PSHU", opPSHU, immediate, regNone, 5}
	tbl[0x37] = opdef{"PULU", opPULU, immediate, regNone, 5}
	tbl[0x39] = opdef{"RTS", opRTS, inherent, regNone, 5}
	tbl[0x3A] = opdef{"ABX", opABX, inherent, regX, 3}
	tbl[0x3B] = opdef{"RTI", opRTI, inherent, regNone, 3}
	tbl[0x3C] = opdef{"CWAI", opCWAI, immediate, regNone, 4}
	tbl[0x3D] = opdef{"MUL", opMUL, inherent, regD, 11}
	tbl[0x3F] = opdef{"SWI", opSWI, inherent, regNone, 7}

	for _, acc := range []struct {
		base uint8
		r    reg
		sfx  string
	}{{0x80, regA, "A"}, {0xC0, regB, "B"}} {
		for _, o := range aluOps {
			cyc := [4]uint8{2, 4, 4, 5}
			if o.op == opST {
				cyc[0] = 0
			}
			defModes(&tbl, acc.base|o.lo, o.name+acc.sfx, o.op, acc.r, cyc)
		}
	}

	defModes(&tbl, 0x83, "SUBD", opSUB16, regD, [4]uint8{4, 6, 6, 7})
	defModes(&tbl, 0x8C, "CMPX", opCMP16, regX, [4]uint8{4, 6, 6, 7})
	defModes(&tbl, 0x8E, "LDX", opLD16, regX, [4]uint8{3, 5, 5, 6})
	defModes(&tbl, 0x8F, "STX", opST16, regX, [4]uint8{0, 5, 5, 6})
	defModes(&tbl, 0xC3, "ADDD", opADD16, regD, [4]uint8{4, 6, 6, 7})
	defModes(&tbl, 0xCC, "LDD", opLD16, regD, [4]uint8{3, 5, 5, 6})
	defModes(&tbl, 0xCD, "STD", opST16, regD, [4]uint8{0, 5, 5, 6})
	defModes(&tbl, 0xCE, "LDU", opLD16, regU, [4]uint8{3, 5, 5, 6})
	defModes(&tbl, 0xCF, "STU", opST16, regU, [4]uint8{0, 5, 5, 6})

	tbl[0x8D] = opdef{"BSR", opBSR, relative, regNone, 7}
	defModes(&tbl, 0x8D, "JSR", opJSR, regNone, [4]uint8{0, 7, 7, 8})
	return tbl
}

func buildPage1() (tbl [256]opdef) {
	for i, name := range branchNames {
		tbl[0x20+i] = opdef{"L" + name, opLBcc, lrelative, regNone, 5}
	}
	tbl[0x3F] = opdef{"SWI2", opSWI2, inherent, regNone, 8}

	defModes(&tbl, 0x83, "CMPD", opCMP16, regD, [4]uint8{5, 7, 7, 8})
	defModes(&tbl, 0x8C, "CMPY", opCMP16, regY, [4]uint8{5, 7, 7, 8})
	defModes(&tbl, 0x8E, "LDY", opLD16, regY, [4]uint8{4, 6, 6, 7})
	defModes(&tbl, 0x8F, "STY", opST16, regY, [4]uint8{0, 6, 6, 7})
	defModes(&tbl, 0xCE, "LDS", opLD16, regS, [4]uint8{4, 6, 6, 7})
	defModes(&tbl, 0xCF, "STS", opST16, regS, [4]uint8{0, 6, 6, 7})
	return tbl
}

func buildPage2() (tbl [256]opdef) {
	tbl[0x3F] = opdef{"SWI3", opSWI3, inherent, regNone, 8}

	defModes(&tbl, 0x83, "CMPU", opCMP16, regU, [4]uint8{5, 7, 7, 8})
	defModes(&tbl, 0x8C, "CMPS", opCMP16, regS, [4]uint8{5, 7, 7, 8})
	return tbl
}
