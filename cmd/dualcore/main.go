// Command dualcore is a headless host loop for the GB-CPU/N64-RDP engine,
// adapted from the teacher's cmd/emulator (which drove an SDL/Fyne window
// loop) down to the host-plumbing stub spec.md §2 scopes for this engine:
// load a ROM, run frames, report FPS. Window shell, audio device, and
// savestate file dialogs are out of scope and live in a real frontend.
package main

import (
	"flag"
	"fmt"
	"os"

	"dualcore-exec/internal/debug"
	"dualcore-exec/internal/emulator"
)

func main() {
	romPath := flag.String("rom", "", "Path to a Game Boy ROM file")
	frames := flag.Int("frames", 600, "Number of frames to run before exiting")
	unlimited := flag.Bool("unlimited", false, "Run at unlimited speed (no frame limiter)")
	logLevel := flag.String("log", "", "Enable logging at this level (debug, info, warn, error)")
	savePath := flag.String("save", "", "Write a save state to this path on exit")
	loadPath := flag.String("load", "", "Load a save state from this path before running")
	tracePath := flag.String("trace", "", "Write an RDP command trace to this path")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("Usage: dualcore -rom <path-to-gb-rom>")
		fmt.Println("  -rom <path>      Path to a Game Boy ROM file")
		fmt.Println("  -frames <n>      Number of frames to run (default 600)")
		fmt.Println("  -unlimited       Run at unlimited speed")
		fmt.Println("  -log <level>     Enable logging (debug, info, warn, error)")
		fmt.Println("  -save <path>     Write a save state on exit")
		fmt.Println("  -load <path>     Load a save state before running")
		fmt.Println("  -trace <path>    Write an RDP command trace to this path")
		os.Exit(1)
	}

	cfg := emulator.DefaultConfig()
	cfg.FrameLimitEnabled = !*unlimited
	cfg.CommandTracePath = *tracePath

	console := emulator.NewConsole(cfg, 8*1024*1024, 4*1024)
	defer console.Logger.Shutdown()

	if *logLevel != "" {
		if err := enableLogging(console.Logger, *logLevel); err != nil {
			fmt.Fprintf(os.Stderr, "dualcore: %v\n", err)
			os.Exit(1)
		}
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dualcore: failed to read ROM: %v\n", err)
		os.Exit(1)
	}
	if err := console.LoadROM(romData); err != nil {
		fmt.Fprintf(os.Stderr, "dualcore: failed to load ROM: %v\n", err)
		os.Exit(1)
	}

	if *loadPath != "" {
		if err := console.LoadStateFromFile(*loadPath); err != nil {
			fmt.Fprintf(os.Stderr, "dualcore: failed to load save state: %v\n", err)
			os.Exit(1)
		}
	}

	console.Start()
	for i := 0; i < *frames; i++ {
		if err := console.RunFrame(); err != nil {
			fmt.Fprintf(os.Stderr, "dualcore: frame %d failed: %v\n", i, err)
			os.Exit(1)
		}
	}
	console.Stop()

	fmt.Printf("ran %d frames, avg FPS %.2f\n", *frames, console.GetFPS())

	if *savePath != "" {
		if err := console.SaveStateToFile(*savePath); err != nil {
			fmt.Fprintf(os.Stderr, "dualcore: failed to write save state: %v\n", err)
			os.Exit(1)
		}
	}
}

func enableLogging(logger *debug.Logger, level string) error {
	var lvl debug.LogLevel
	switch level {
	case "debug":
		lvl = debug.LogLevelDebug
	case "info":
		lvl = debug.LogLevelInfo
	case "warn":
		lvl = debug.LogLevelWarning
	case "error":
		lvl = debug.LogLevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	logger.SetMinLevel(lvl)
	logger.SetComponentEnabled(debug.ComponentGBCPU, true)
	logger.SetComponentEnabled(debug.ComponentGBBus, true)
	logger.SetComponentEnabled(debug.ComponentGBTimer, true)
	logger.SetComponentEnabled(debug.ComponentRDP, true)
	logger.SetComponentEnabled(debug.ComponentRDPRaster, true)
	logger.SetComponentEnabled(debug.ComponentSystem, true)
	return nil
}
