package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"mc6809/emu"
	"mc6809/emu/remote"
	"mc6809/hw"
	"mc6809/hw/snapshot"
)

type runResult struct {
	state  hw.State
	cycles int64
}

// runMain runs every image on its own machine, concurrently.
func runMain(args Run) {
	if len(args.Images) > 1 && (args.Trace != nil || args.SaveState != "" || args.LoadState != "") {
		fatalf("--trace, --save-state and --load-state require a single image")
	}
	if args.Trace != nil {
		defer args.Trace.Close()
	}

	cfg := emu.DefaultConfig()
	if args.Config != "" {
		var err error
		cfg, err = emu.LoadConfig(args.Config)
		checkf(err, "failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := make([]runResult, len(args.Images))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range args.Images {
		g.Go(func() error {
			res, err := runImage(ctx, cfg, args, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	checkf(g.Wait(), "run failed")

	for i, path := range args.Images {
		fmt.Printf("%s: %s CYC:%d\n", path, formatState(results[i].state), results[i].cycles)
	}
}

func runImage(ctx context.Context, cfg emu.Config, args Run, path string) (runResult, error) {
	img, err := os.ReadFile(path)
	if err != nil {
		return runResult{}, err
	}

	m, err := emu.NewMachine(cfg)
	if err != nil {
		return runResult{}, err
	}
	if err := m.LoadImage(args.Region, img); err != nil {
		return runResult{}, err
	}
	m.Reset()

	if args.LoadState != "" {
		f, err := os.Open(args.LoadState)
		if err != nil {
			return runResult{}, err
		}
		err = m.LoadState(f)
		f.Close()
		if err != nil {
			return runResult{}, err
		}
	}
	if args.Trace != nil {
		m.CPU().SetTraceOutput(args.Trace)
	}

	// an interrupted run still reports and saves its state.
	if err := m.Run(ctx, args.Slices); err != nil && !errors.Is(err, context.Canceled) {
		return runResult{}, err
	}

	if args.SaveState != "" {
		f, err := os.Create(args.SaveState)
		if err != nil {
			return runResult{}, err
		}
		if err := m.SaveState(f); err != nil {
			f.Close()
			return runResult{}, err
		}
		if err := f.Close(); err != nil {
			return runResult{}, err
		}
	}
	return runResult{state: m.CPU().State(), cycles: m.Cycles()}, nil
}

func formatState(s hw.State) string {
	return fmt.Sprintf("PC:%04X A:%02X B:%02X X:%04X Y:%04X U:%04X S:%04X DP:%02X CC:%s WAIT:%s",
		s.PC, s.A, s.B, s.X, s.Y, s.U, s.S, s.DP, s.CC, s.Wait)
}

func serveMain(args Serve) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := remote.Serve(ctx, remote.Config{TCPAddr: args.TCP, WSAddr: args.WS})
	checkf(err, "server error")
}

func stateMain(args State) {
	f, err := os.Open(args.Path)
	checkf(err, "failed to open save state")
	defer f.Close()

	snap, err := snapshot.Decode(f)
	checkf(err, "failed to read save state")

	fmt.Printf("version: %d\n", snap.Version)
	fmt.Printf("cpu:     %s\n", formatState(snap.CPU))
	fmt.Printf("cycles:  %d\n", snap.Cycles)
	for _, r := range snap.Regions {
		fmt.Printf("region:  %-8s %04X-%04X\n", r.Name, r.Start, int(r.Start)+len(r.Data)-1)
	}
}

func initConfigMain(args InitConfig) {
	checkf(emu.SaveConfig(args.Path, emu.DefaultConfig()), "failed to write configuration")
}
