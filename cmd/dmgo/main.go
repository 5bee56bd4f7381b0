package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/dmgo/dmgo/jeebie"
	"github.com/dmgo/dmgo/jeebie/backend"
	"github.com/dmgo/dmgo/jeebie/backend/headless"
	"github.com/dmgo/dmgo/jeebie/backend/sdl2"
	"github.com/dmgo/dmgo/jeebie/backend/terminal"
	"github.com/dmgo/dmgo/jeebie/input"
	"github.com/dmgo/dmgo/jeebie/input/action"
	"github.com/dmgo/dmgo/jeebie/input/event"
	"github.com/dmgo/dmgo/jeebie/render"
	"github.com/dmgo/dmgo/jeebie/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgo"
	app.Description = "A DMG Game Boy emulator"
	app.Usage = "dmgo [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Display a test pattern instead of emulation (for debugging display)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "window",
			Usage: "Use the SDL2 windowed backend instead of the terminal (requires a build with -tags sdl2)",
		},
		cli.BoolFlag{
			Name:  "debug-window",
			Usage: "Open the SDL2 debug window alongside the game window (implies --window)",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	// Test pattern mode - no ROM needed
	if c.Bool("test-pattern") {
		slog.Info("Running in test pattern mode")
		return render.RunTestPattern()
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := jeebie.NewWithFile(romPath)
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}

		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))

		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return err
		}

		slog.Info("Running headless mode", "frames", frames, "snapshot_interval", snapshotConfig.Interval, "snapshot_dir", snapshotConfig.Directory)

		// Headless mode runs as fast as possible; DMG already defaults to a
		// no-op limiter.
		return runWithBackend(headless.New(frames, snapshotConfig), emu, false)
	}

	emu.SetFrameLimiter(timing.NewAdaptiveLimiter())

	if c.Bool("window") || c.Bool("debug-window") {
		be := sdl2.New()
		return runWithBackend(be, emu, c.Bool("debug-window"))
	}

	return runWithBackend(terminal.New(), emu, false)
}

// runWithBackend drives the main emulation loop against a backend.Backend:
// step the emulator one frame, hand the framebuffer to the backend, debounce
// and dispatch whatever input events come back, until the backend (or the
// user) asks to quit.
func runWithBackend(be backend.Backend, emu *jeebie.DMG, showDebug bool) error {
	config := backend.BackendConfig{
		Title:         "dmgo",
		ShowDebug:     showDebug,
		DebugProvider: emu,
		AudioProvider: emu.GetMMU().APU,
	}
	if err := be.Init(config); err != nil {
		return err
	}
	defer be.Cleanup()

	handler := input.NewHandler()

	for {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}

		events, err := be.Update(emu.GetCurrentFrame())
		if err != nil {
			return err
		}

		for _, evt := range events {
			if evt.Action == action.EmulatorQuit {
				return nil
			}
			if !handler.ProcessEvent(evt) {
				continue
			}

			emu.HandleAction(evt.Action, evt.Type == event.Press)
			dispatchBackendAction(be, evt.Action)
		}
	}
}

// dispatchBackendAction forwards backend-specific actions (snapshots, debug
// windows, audio channel toggles) that the emulator itself doesn't handle.
// The Backend interface doesn't carry this method because its shape differs
// per backend, so this switches on the concrete types main.go already knows
// about instead of widening the shared interface for it.
func dispatchBackendAction(be backend.Backend, act action.Action) {
	switch b := be.(type) {
	case *terminal.Backend:
		b.HandleAction(act)
	case *sdl2.Backend:
		b.HandleBackendAction(act)
	}
}
