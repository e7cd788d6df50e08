package hwio

// Device is a memory mapped peripheral. Its Regs registers repeat over the
// Size bytes of the window it is mapped on, and the callbacks receive the
// register number. A nil callback reads 0 and drops writes, so callbacks
// can be attached after the device has been mapped.
type Device struct {
	Name string
	Size int // size of the mapped window
	Regs int // number of registers, 0 means Size

	ReadCb  func(reg uint16) uint8
	WriteCb func(reg uint16, val uint8)
}

func (d *Device) regs() int {
	if d.Regs <= 0 || d.Regs > d.Size {
		return d.Size
	}
	return d.Regs
}

// devWindow is a Device seen from the bus at its mapped address.
type devWindow struct {
	dev  *Device
	base uint16
	regs uint16
}

func (w devWindow) reg(addr uint16) uint16 {
	off := addr - w.base
	if w.regs == 0 {
		return off
	}
	return off % w.regs
}

func (w devWindow) Read8(addr uint16) uint8 {
	if w.dev.ReadCb == nil {
		return 0
	}
	return w.dev.ReadCb(w.reg(addr))
}

func (w devWindow) Write8(addr uint16, val uint8) {
	if w.dev.WriteCb == nil {
		return
	}
	w.dev.WriteCb(w.reg(addr), val)
}
