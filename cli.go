package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"mc6809/emu/log"
)

type mode byte

const (
	runMode        mode = iota // Run images
	serveMode                  // Serve remote cores
	stateMode                  // Show a save state
	initConfigMode             // Write the default configuration
	versionMode                // Show version
)

type (
	CLI struct {
		Run        Run        `cmd:"" help:"Run program images, each on its own machine."`
		Serve      Serve      `cmd:"" help:"Serve remote CPU cores over TCP and WebSocket."`
		State      State      `cmd:"" help:"Show the content of a save state."`
		InitConfig InitConfig `cmd:"" help:"Write the default (Vectrex) machine configuration." name:"init-config"`
		Version    Version    `cmd:"" help:"Show mc6809 version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		Images []string `arg:"" name:"image" help:"Program image, loaded at the start of the image region." type:"existingfile"`

		Config    string   `name:"config" help:"Machine configuration file." type:"existingfile"`
		Region    string   `name:"region" help:"Memory region the images are loaded into." default:"cart"`
		Slices    int      `name:"slices" help:"${slices_help}" default:"50"`
		Trace     *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		SaveState string   `name:"save-state" help:"Save the machine state to file when done." type:"path"`
		LoadState string   `name:"load-state" help:"Load the machine state from file before running." type:"existingfile"`
	}

	Serve struct {
		TCP string `name:"tcp" help:"TCP listen address, empty to disable." default:"127.0.0.1:6809"`
		WS  string `name:"ws" help:"WebSocket listen address, empty to disable." placeholder:"ADDR"`
	}

	State struct {
		Path string `arg:"" name:"/path/to/state" type:"existingfile"`
	}

	InitConfig struct {
		Path string `arg:"" name:"/path/to/config" type:"path"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"slices_help": "Number of time slices to run, 0 to run until interrupted.",
	"log_help":    "Turn on debug logs of the given modules (all, none).",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("mc6809"),
		kong.Description("Motorola 6809 CPU emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	cfg.mode = commandMode(ctx.Command())
	return cfg
}

func commandMode(cmd string) mode {
	switch {
	case strings.HasPrefix(cmd, "serve"):
		return serveMode
	case strings.HasPrefix(cmd, "state"):
		return stateMode
	case strings.HasPrefix(cmd, "init-config"):
		return initConfigMode
	case cmd == "version":
		return versionMode
	}
	return runMode
}

// printHelp appends the log modules to the help of the commands running a
// CPU.
func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	cmd := ctx.Command()
	if !strings.HasPrefix(cmd, "run") && !strings.HasPrefix(cmd, "serve") {
		return nil
	}

	fmt.Fprintf(ctx.Stdout, `
Debug logs:
  --log takes a comma-separated list among: %s.
  "all" turns on every module, "none" silences all output, warnings
  and CPU faults included.
`, strings.Join(log.ModuleNames(), ", "))
	return nil
}

// logModMask is the --log flag: the set of modules with debug logs on.
type logModMask log.ModuleMask

// Decode implements kong.MapperValue.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	var all, none bool
	for _, name := range strings.Split(ctx.Scan.Pop().Value.(string), ",") {
		switch name = strings.TrimSpace(name); name {
		case "all":
			all = true
		case "none":
			none = true
		default:
			mod, ok := log.ModuleByName(name)
			if !ok {
				return fmt.Errorf("--log: no such module %q (have %s)", name, strings.Join(log.ModuleNames(), ", "))
			}
			lm |= logModMask(mod.Mask())
		}
	}

	switch {
	case none && (all || lm != 0):
		return fmt.Errorf("--log: none can not be combined with other modules")
	case none:
		log.Disable()
	case all:
		log.EnableDebugModules(log.ModuleMaskAll)
	default:
		log.EnableDebugModules(log.ModuleMask(lm))
	}
	return nil
}

// outfile is a flag naming where to write: a file path, stdout or stderr.
type outfile struct {
	name string
	w    io.Writer
	c    io.Closer
}

// Decode implements kong.MapperValue. Files are created, or truncated,
// right away so a bad path is reported before the machine starts.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	f.name = ctx.Scan.Pop().Value.(string)
	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return fmt.Errorf("trace output: %w", err)
		}
		f.w, f.c = fd, fd
	}
	return nil
}

func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }

func (f *outfile) Close() error {
	if f.c == nil {
		return nil
	}
	return f.c.Close()
}
