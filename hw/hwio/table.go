package hwio

import (
	"fmt"
	"slices"

	"mc6809/emu/log"
)

// log unmapped accesses (useful for debugging but verbose since programs
// commonly probe unpopulated areas)
const logUnmapped = false

type BankIO8 interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// mapping is a device mapped over the inclusive range [begin, end].
type mapping struct {
	begin, end uint16
	io         BankIO8
}

// Table is an address space made of non overlapping mapped ranges. Reads
// from unmapped addresses return 0 and writes to them are dropped.
type Table struct {
	Name string

	// sorted by begin address
	ranges []mapping
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

// Reset unmaps everything.
func (t *Table) Reset() {
	t.ranges = t.ranges[:0]
}

func (t *Table) mapBus8(addr uint16, size int, io BankIO8) {
	if size <= 0 {
		panic(fmt.Errorf("hwio: mapping empty range at %04X on %s", addr, t.Name))
	}
	if int(addr)+size > 0x10000 {
		panic(fmt.Errorf("hwio: range %04X+%X wraps around on %s", addr, size, t.Name))
	}
	end := addr + uint16(size-1)

	i, _ := slices.BinarySearchFunc(t.ranges, addr, func(m mapping, a uint16) int {
		return int(m.begin) - int(a)
	})
	if i > 0 && t.ranges[i-1].end >= addr {
		panic(fmt.Errorf("hwio: %04X-%04X overlaps %04X-%04X on %s", addr, end, t.ranges[i-1].begin, t.ranges[i-1].end, t.Name))
	}
	if i < len(t.ranges) && t.ranges[i].begin <= end {
		panic(fmt.Errorf("hwio: %04X-%04X overlaps %04X-%04X on %s", addr, end, t.ranges[i].begin, t.ranges[i].end, t.Name))
	}
	t.ranges = slices.Insert(t.ranges, i, mapping{begin: addr, end: end, io: io})
}

// MapMem maps mem at addr, over its virtual size.
func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Int("size", mem.VSize).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, mem.VSize, mem.BankIO8(addr))
}

// MapDevice maps dev over [addr, addr+dev.Size).
func (t *Table) MapDevice(addr uint16, dev *Device) {
	log.ModHwIo.DebugZ("mapping device").
		Hex16("addr", addr).
		Int("size", dev.Size).
		Int("regs", dev.regs()).
		String("dev", dev.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, dev.Size, devWindow{dev: dev, base: addr, regs: uint16(dev.regs())})
}

func (t *Table) search(addr uint16) BankIO8 {
	i, found := slices.BinarySearchFunc(t.ranges, addr, func(m mapping, a uint16) int {
		return int(m.begin) - int(a)
	})
	if found {
		return t.ranges[i].io
	}
	if i > 0 && t.ranges[i-1].end >= addr {
		return t.ranges[i-1].io
	}
	return nil
}

// Read8 searches in the table for the device mapped at the given address and
// forward the read to it.
func (t *Table) Read8(addr uint16) uint8 {
	io := t.search(addr)
	if io == nil {
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Read8").
				String("name", t.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	}
	return io.Read8(addr)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.search(addr)
	if io == nil {
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write8").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	if mem, ok := io.(*mem); ok {
		// NOTE: the CheckRO form keeps the read-write path free of the
		// logging code.
		if !mem.Write8CheckRO(addr, val) {
			log.ModHwIo.ErrorZ("Write8 to read-only address").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	io.Write8(addr, val)
}
