package emu

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"mc6809/emu/log"
)

var (
	ErrNoMemory = errors.New("no memory region")
	ErrOverlap  = errors.New("memory regions overlap")
)

type Config struct {
	CPU    CPUConfig      `toml:"cpu"`
	Timing TimingConfig   `toml:"timing"`
	Memory []MemoryConfig `toml:"memory"`
	IO     []IOConfig     `toml:"io"`
	Log    LogConfig      `toml:"log"`
}

type CPUConfig struct {
	ClockHz int `toml:"clock_hz"`
}

type TimingConfig struct {
	SliceMS  int  `toml:"slice_ms"` // host time slice per Run iteration
	Realtime bool `toml:"realtime"` // pace slices with the wall clock
}

// MemoryConfig describes a memory region. Size is the physical size, a
// power of two. Mirror is the size of the address range the region spans,
// repeating its content; zero means Size.
type MemoryConfig struct {
	Name     string `toml:"name"`
	Start    uint16 `toml:"start"`
	Size     int    `toml:"size"`
	Mirror   int    `toml:"mirror,omitempty"`
	File     string `toml:"file,omitempty"` // optional image loaded at start
	ReadOnly bool   `toml:"readonly"`
}

func (mc MemoryConfig) vsize() int {
	if mc.Mirror == 0 {
		return mc.Size
	}
	return mc.Mirror
}

func (mc MemoryConfig) end() int {
	return int(mc.Start) + mc.vsize() - 1
}

// IOConfig describes a memory mapped I/O window. Its Regs registers repeat
// over Size bytes; zero Regs means one register per address. The
// peripheral behind it is attached with Machine.AttachDevice.
type IOConfig struct {
	Name  string `toml:"name"`
	Start uint16 `toml:"start"`
	Size  int    `toml:"size"`
	Regs  int    `toml:"regs,omitempty"`
}

func (ic IOConfig) end() int {
	return int(ic.Start) + ic.Size - 1
}

type LogConfig struct {
	Modules []string `toml:"modules,omitempty"`
}

// DefaultConfig is the Vectrex memory map: a 32K cartridge ROM, 1K of RAM
// mirrored over 2K, the 6522 VIA registers repeated over 2K, and the 8K
// BIOS ROM.
func DefaultConfig() Config {
	return Config{
		CPU:    CPUConfig{ClockHz: 1_500_000},
		Timing: TimingConfig{SliceMS: 20},
		Memory: []MemoryConfig{
			{Name: "cart", Start: 0x0000, Size: 0x8000, ReadOnly: true},
			{Name: "ram", Start: 0xC800, Size: 0x400, Mirror: 0x800},
			{Name: "bios", Start: 0xE000, Size: 0x2000, ReadOnly: true},
		},
		IO: []IOConfig{
			{Name: "via", Start: 0xD000, Size: 0x800, Regs: 16},
		},
	}
}

// Check validates the configuration.
func (cfg *Config) Check() error {
	if cfg.CPU.ClockHz <= 0 {
		return fmt.Errorf("cpu.clock_hz must be positive, got %d", cfg.CPU.ClockHz)
	}
	if cfg.Timing.SliceMS <= 0 {
		return fmt.Errorf("timing.slice_ms must be positive, got %d", cfg.Timing.SliceMS)
	}
	if len(cfg.Memory) == 0 {
		return ErrNoMemory
	}

	names := make(map[string]bool)
	for _, mc := range cfg.Memory {
		if mc.Name == "" {
			return fmt.Errorf("memory region at %04X has no name", mc.Start)
		}
		if names[mc.Name] {
			return fmt.Errorf("duplicate region %q", mc.Name)
		}
		names[mc.Name] = true

		if mc.Size <= 0 || mc.Size&(mc.Size-1) != 0 {
			return fmt.Errorf("memory region %q: size %#x is not a power of two", mc.Name, mc.Size)
		}
		if mc.Mirror != 0 && mc.Mirror < mc.Size {
			return fmt.Errorf("memory region %q: mirror %#x smaller than size %#x", mc.Name, mc.Mirror, mc.Size)
		}
		if mc.end() > 0xFFFF {
			return fmt.Errorf("memory region %q: %04X+%X exceeds the address space", mc.Name, mc.Start, mc.vsize())
		}
	}

	for _, ic := range cfg.IO {
		if ic.Name == "" {
			return fmt.Errorf("io window at %04X has no name", ic.Start)
		}
		if names[ic.Name] {
			return fmt.Errorf("duplicate region %q", ic.Name)
		}
		names[ic.Name] = true

		if ic.Size <= 0 {
			return fmt.Errorf("io window %q: empty", ic.Name)
		}
		if ic.Regs < 0 || ic.Regs > ic.Size {
			return fmt.Errorf("io window %q: %d registers do not fit in %#x bytes", ic.Name, ic.Regs, ic.Size)
		}
		if ic.end() > 0xFFFF {
			return fmt.Errorf("io window %q: %04X+%X exceeds the address space", ic.Name, ic.Start, ic.Size)
		}
	}

	type span struct {
		name       string
		start, end int
	}
	var spans []span
	for _, mc := range cfg.Memory {
		spans = append(spans, span{mc.Name, int(mc.Start), mc.end()})
	}
	for _, ic := range cfg.IO {
		spans = append(spans, span{ic.Name, int(ic.Start), ic.end()})
	}
	slices.SortFunc(spans, func(a, b span) int { return a.start - b.start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start <= spans[i-1].end {
			return fmt.Errorf("%w: %q and %q", ErrOverlap, spans[i-1].name, spans[i].name)
		}
	}

	for _, name := range cfg.Log.Modules {
		if _, ok := log.ModuleByName(name); !ok {
			return fmt.Errorf("unknown log module %q", name)
		}
	}
	return nil
}

// LoadConfig reads a configuration file. Settings missing from the file
// keep their DefaultConfig value, except the memory map: when the file
// has memory regions, its memory and io entries replace the default map
// as a whole.
func LoadConfig(path string) (Config, error) {
	def := DefaultConfig()
	cfg := def
	cfg.Memory, cfg.IO = nil, nil
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.Memory == nil {
		cfg.Memory = def.Memory
		if cfg.IO == nil {
			cfg.IO = def.IO
		}
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path.
func SaveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}
