package emu

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"mc6809/emu/log"
	"mc6809/hw"
	"mc6809/hw/hwio"
	"mc6809/hw/snapshot"
)

// region is a configured memory region, once mapped.
type region struct {
	cfg MemoryConfig
	mem hwio.Mem
}

// Machine is a 6809 CPU connected to a memory map. The interrupt lines can
// be driven from any goroutine, everything else must be called from the
// goroutine running the machine.
type Machine struct {
	cfg     Config
	bus     *hwio.Table
	cpu     *hw.CPU
	regions []*region
	devices []*hwio.Device

	irq, firq atomic.Bool

	// cycles run past the last RunCycles budget
	credit int64
}

// NewMachine builds the machine described by cfg, loads the region images
// and resets the CPU.
func NewMachine(cfg Config) (*Machine, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	for _, name := range cfg.Log.Modules {
		mod, _ := log.ModuleByName(name)
		log.EnableDebugModules(mod.Mask())
	}

	m := &Machine{
		cfg: cfg,
		bus: hwio.NewTable("cpu"),
	}
	for _, mc := range cfg.Memory {
		rgn := &region{cfg: mc}
		rgn.mem = hwio.Mem{
			Name:  mc.Name,
			Data:  make([]byte, mc.Size),
			VSize: mc.vsize(),
		}
		if mc.ReadOnly {
			rgn.mem.Flags = hwio.MemFlag8ReadOnly
		}
		if mc.File != "" {
			buf, err := os.ReadFile(mc.File)
			if err != nil {
				return nil, fmt.Errorf("memory region %q: %w", mc.Name, err)
			}
			if err := rgn.load(buf); err != nil {
				return nil, err
			}
		}
		m.bus.MapMem(mc.Start, &rgn.mem)
		m.regions = append(m.regions, rgn)
	}
	for _, ic := range cfg.IO {
		dev := &hwio.Device{Name: ic.Name, Size: ic.Size, Regs: ic.Regs}
		m.bus.MapDevice(ic.Start, dev)
		m.devices = append(m.devices, dev)
	}

	m.cpu = hw.NewCPU(m.bus)
	m.cpu.Reset()

	log.ModEmu.InfoZ("machine ready").
		Int("regions", len(m.regions)).
		Int("devices", len(m.devices)).
		Int("clock", cfg.CPU.ClockHz).
		Hex16("pc", m.cpu.PC).
		End()
	return m, nil
}

func (r *region) load(data []byte) error {
	if len(data) > len(r.mem.Data) {
		return fmt.Errorf("memory region %q: image too big (%d > %d bytes)", r.cfg.Name, len(data), len(r.mem.Data))
	}
	copy(r.mem.Data, data)
	return nil
}

func (m *Machine) region(name string) *region {
	for _, r := range m.regions {
		if r.cfg.Name == name {
			return r
		}
	}
	return nil
}

// LoadImage copies data at the start of the named region. The CPU is not
// reset.
func (m *Machine) LoadImage(name string, data []byte) error {
	r := m.region(name)
	if r == nil {
		return fmt.Errorf("no memory region %q", name)
	}
	return r.load(data)
}

// AttachDevice connects the peripheral emulation behind the named io
// window. CPU accesses to the window call read and write with the register
// number. Until a device is attached, its window reads 0 and ignores
// writes. Callbacks run on the goroutine running the machine.
func (m *Machine) AttachDevice(name string, read func(reg uint16) uint8, write func(reg uint16, val uint8)) error {
	for _, dev := range m.devices {
		if dev.Name == name {
			dev.ReadCb, dev.WriteCb = read, write
			return nil
		}
	}
	return fmt.Errorf("no io window %q", name)
}

func (m *Machine) CPU() *hw.CPU      { return m.cpu }
func (m *Machine) Bus() *hwio.Table  { return m.bus }
func (m *Machine) Config() Config    { return m.cfg }
func (m *Machine) Cycles() int64     { return m.cpu.Cycles }
func (m *Machine) SetIRQ(level bool) { m.irq.Store(level) }

func (m *Machine) SetFIRQ(level bool) { m.firq.Store(level) }

// Reset resets the CPU. Memory is left untouched.
func (m *Machine) Reset() {
	m.cpu.Reset()
	m.credit = 0
}

// Step runs one CPU step with the current interrupt lines.
func (m *Machine) Step() int {
	return m.cpu.Step(m.irq.Load(), m.firq.Load())
}

// RunCycles steps the CPU until n cycles, minus the overshoot of the
// previous call, have elapsed. It returns the new overshoot.
func (m *Machine) RunCycles(n int64) int64 {
	budget := n - m.credit
	var elapsed int64
	for elapsed < budget {
		// undefined opcodes take no cycle, count them so the loop ends.
		elapsed += int64(max(m.Step(), 1))
	}
	m.credit = elapsed - budget
	return m.credit
}

// SliceCycles is the number of CPU cycles in a time slice.
func (m *Machine) SliceCycles() int64 {
	return int64(m.cfg.CPU.ClockHz) * int64(m.cfg.Timing.SliceMS) / 1000
}

// RunSlice runs the CPU for one time slice.
func (m *Machine) RunSlice() {
	m.RunCycles(m.SliceCycles())
}

// Run runs time slices until slices have been run or ctx is done. A zero
// or negative count runs until ctx is done. When realtime is configured,
// slices are paced by the wall clock.
func (m *Machine) Run(ctx context.Context, slices int) error {
	var tick <-chan time.Time
	if m.cfg.Timing.Realtime {
		t := time.NewTicker(time.Duration(m.cfg.Timing.SliceMS) * time.Millisecond)
		defer t.Stop()
		tick = t.C
	}

	start := time.Now()
	for n := 0; slices <= 0 || n < slices; n++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		m.RunSlice()
	}

	log.ModEmu.DebugZ("run done").
		Int("slices", slices).
		Int64("cycles", m.cpu.Cycles).
		Duration("elapsed", time.Since(start)).
		End()
	return nil
}

// SaveState writes the CPU state and the content of every writable memory
// region.
func (m *Machine) SaveState(w io.Writer) error {
	snap := &snapshot.Machine{
		Version: snapshot.Version,
		CPU:     m.cpu.State(),
		Cycles:  m.cpu.Cycles,
	}
	for _, r := range m.regions {
		if r.cfg.ReadOnly {
			continue
		}
		snap.Regions = append(snap.Regions, snapshot.Region{
			Name:  r.cfg.Name,
			Start: r.cfg.Start,
			Data:  r.mem.Data,
		})
	}
	if err := snapshot.Encode(w, snap); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// LoadState restores a state written by SaveState. The memory map must be
// the one the state was saved with.
func (m *Machine) LoadState(rd io.Reader) error {
	snap, err := snapshot.Decode(rd)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	// validate everything before modifying the machine.
	for _, sr := range snap.Regions {
		r := m.region(sr.Name)
		switch {
		case r == nil:
			return fmt.Errorf("load state: no memory region %q", sr.Name)
		case r.cfg.ReadOnly:
			return fmt.Errorf("load state: memory region %q is read-only", sr.Name)
		case r.cfg.Start != sr.Start || len(r.mem.Data) != len(sr.Data):
			return fmt.Errorf("load state: memory region %q layout mismatch", sr.Name)
		}
	}

	for _, sr := range snap.Regions {
		copy(m.region(sr.Name).mem.Data, sr.Data)
	}
	m.cpu.SetState(snap.CPU)
	m.cpu.Cycles = snap.Cycles
	m.credit = 0
	return nil
}
