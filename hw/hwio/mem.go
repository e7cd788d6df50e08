package hwio

import "mc6809/emu/log"

// mem is the main structure used for linear memory access.
//
// We use this structure by pointer rather than by value because it is stored as
// BankIO interface within Table, and checking if a concrete pointer type is
// behind the interface is faster than checking a non-pointer type.
type mem struct {
	buf  []byte
	base uint16
	mask uint16
	wcb  func(uint16, uint8)
	ro   MemFlags
}

func newMem(buf []byte, base uint16, wcb func(uint16, uint8), roflag MemFlags) *mem {
	if len(buf) == 0 || len(buf)&(len(buf)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		buf:  buf,
		base: base,
		mask: uint16(len(buf) - 1),
		wcb:  wcb,
		ro:   roflag,
	}
}

func (m *mem) Read8(addr uint16) uint8 {
	return m.buf[(addr-m.base)&m.mask]
}

// Write8CheckRO writes val unless the memory is read-only, in which case it
// reports false. Writes silently dropped by MemFlagNoROLog report true.
func (m *mem) Write8CheckRO(addr uint16, val uint8) bool {
	if m.ro == 0 {
		if m.wcb != nil {
			m.wcb(addr, val)
			return true
		}
		m.buf[(addr-m.base)&m.mask] = val
		return true
	}
	return m.ro&MemFlagNoROLog != 0
}

func (m *mem) Write8(addr uint16, val uint8) {
	if m.wcb != nil {
		m.wcb(addr, val)
		return
	}

	switch {
	case m.ro == MemFlagReadWrite:
		m.buf[(addr-m.base)&m.mask] = val
	case m.ro&MemFlagNoROLog != 0:
		return
	default:
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			Hex8("val", val).
			Hex16("addr", addr).
			End()
	}
}

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Linear memory area that can be mapped into a Table.
//
// NOTE: this structure does not directly implement the BankIO interface. Clients
// must call the BankIO8 method to create the adaptor that implements memory
// access depending on the memory bank configuration.
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer, its size must be a power of 2
	VSize   int                 // virtual size of the memory (can be bigger than physical size)
	Flags   MemFlags            // flags determining how the memory can be accessed
	WriteCb func(uint16, uint8) // optional write callback (if set, the callback is called instead of writing)
}

// BankIO8 returns the adaptor of the memory area once mapped at base.
func (m *Mem) BankIO8(base uint16) BankIO8 {
	return newMem(m.Data, base, m.WriteCb, m.Flags)
}
