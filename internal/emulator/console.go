// Package emulator wires the GB-CPU and N64-RDP cores into one host-facing
// Console, adapted from the teacher's clock-driven Emulator (which
// coordinated CPU/PPU/APU through one MasterClock) down to spec.md §5's
// model: two independent cores behind a single mutex, the GB core paced
// by a per-instruction scheduler and the RDP core executing synchronously
// on command-window writes.
package emulator

import (
	"fmt"
	"sync"
	"time"

	"dualcore-exec/internal/clock"
	"dualcore-exec/internal/debug"
	"dualcore-exec/internal/gbbus"
	"dualcore-exec/internal/gbcpu"
	"dualcore-exec/internal/gbtimer"
	"dualcore-exec/internal/rdp"
)

// gbTCyclesPerFrame is the SM83's well-known frame length: 70,224
// T-cycles at 4.194304 MHz yields ~59.7275 Hz, the real Game Boy's
// vertical refresh rate.
const gbTCyclesPerFrame = 70224

// Config holds the ambient, host-tunable knobs SPEC_FULL.md §2.3 adds on
// top of spec.md's core semantics.
type Config struct {
	GBClockHz         uint32
	FrameLimitEnabled bool
	TargetFPS         float64
	InterruptCallback rdp.InterruptCallback

	// CommandTracePath, when non-empty, opens an RDP command trace log
	// at that path for the life of the Console (the RDP-side analogue
	// of the teacher's per-cycle CPU trace). CommandTraceMax of 0 means
	// unlimited; CommandTraceStart skips that many commands first.
	CommandTracePath  string
	CommandTraceMax   uint64
	CommandTraceStart uint64
}

func DefaultConfig() Config {
	return Config{
		GBClockHz:         4194304,
		FrameLimitEnabled: true,
		TargetFPS:         59.7275,
	}
}

// Console is the single mutex-guarded home for both cores, matching
// spec.md §5's concurrency model: "One emulator instance lives on the
// host's emulation thread; the UI thread reaches it only behind a mutex
// that guards every Update/Reset/load/stop."
type Console struct {
	mu sync.Mutex

	Config   Config
	Logger   *debug.Logger
	Debugger *debug.Debugger

	Cartridge *gbbus.Cartridge
	GBBus     *gbbus.Bus
	GBCPU     *gbcpu.CPU
	GBTimer   *gbtimer.Timer
	GBJoypad  *gbbus.Joypad
	Scheduler *clock.Scheduler

	RDP    *rdp.RDP
	RDRAM  rdp.ByteSlice
	SPDMEM rdp.ByteSlice

	Running bool
	Paused  bool

	FrameCount    uint64
	FPS           float64
	fpsWindowTime time.Time
	frameDuration time.Duration
	lastFrameTime time.Time
}

// NewConsole wires both cores behind one Console, per spec.md §2's data
// flow: GB-CPU talks to its Bus; N64-RDP talks directly to host-owned
// RDRAM/SP-DMEM byte slices.
func NewConsole(cfg Config, rdramSize, spdmemSize int) *Console {
	logger := debug.NewLogger(10000)

	cart := gbbus.NewCartridge()
	bus := gbbus.NewBus(cart)
	bus.SetLogger(logger)

	timer := gbtimer.New(bus)
	bus.TimerHandler = timer

	joypad := gbbus.NewJoypad()
	bus.InputHandler = joypad

	cpuLogger := gbcpu.NewLoggerAdapter(logger, gbcpu.TraceNone)
	cpu := gbcpu.NewCPU(bus, cpuLogger)

	scheduler := clock.NewScheduler(func() (uint8, error) {
		return cpu.Update(), nil
	})
	scheduler.Attach(timer)

	rdram := make(rdp.ByteSlice, rdramSize)
	spdmem := make(rdp.ByteSlice, spdmemSize)
	rdpCore := rdp.New(rdram, spdmem)
	rdpCore.Logger = logger
	rdpCore.InterruptCB = cfg.InterruptCallback

	if cfg.CommandTracePath != "" {
		trace, err := debug.NewCommandTraceLogger(cfg.CommandTracePath, cfg.CommandTraceMax, cfg.CommandTraceStart)
		if err != nil {
			logger.LogSystem(debug.LogLevelError, fmt.Sprintf("failed to open command trace %q: %v", cfg.CommandTracePath, err), nil)
		} else {
			rdpCore.Trace = trace
		}
	}

	c := &Console{
		Config:        cfg,
		Logger:        logger,
		Debugger:      debug.NewDebugger(),
		Cartridge:     cart,
		GBBus:         bus,
		GBCPU:         cpu,
		GBTimer:       timer,
		GBJoypad:      joypad,
		Scheduler:     scheduler,
		RDP:           rdpCore,
		RDRAM:         rdram,
		SPDMEM:        spdmem,
		frameDuration: time.Duration(float64(time.Second) / cfg.TargetFPS),
		lastFrameTime: time.Now(),
		fpsWindowTime: time.Now(),
	}
	return c
}

// LoadROM parses a Game Boy ROM image and resets the GB core to its entry
// point, guarded by the console mutex per spec.md §5.
func (c *Console) LoadROM(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.Cartridge.LoadROM(data); err != nil {
		return fmt.Errorf("emulator: failed to load ROM: %w", err)
	}
	c.GBCPU.Reset()
	c.GBTimer.Reset()
	c.Logger.LogSystem(debug.LogLevelInfo, fmt.Sprintf("loaded ROM %q (%d banks)", c.Cartridge.Title, c.Cartridge.ROMBankCount), nil)
	return nil
}

// Reset reinitializes both cores, guarded by the console mutex.
func (c *Console) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.GBCPU.Reset()
	c.GBTimer.Reset()
	c.Scheduler.Reset()
	c.RDP.Reset()
}

func (c *Console) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Running = true
	c.Paused = false
}

func (c *Console) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Running = false
	if c.RDP.Trace != nil {
		c.RDP.Trace.Close()
	}
}

func (c *Console) Pause()  { c.mu.Lock(); c.Paused = true; c.mu.Unlock() }
func (c *Console) Resume() { c.mu.Lock(); c.Paused = false; c.mu.Unlock() }

// RunFrame steps the GB core for one frame's worth of T-cycles. The RDP
// core is not stepped here: it executes synchronously whenever the host
// writes DP_END through WriteRDPReg, per spec.md §4.2.1.
func (c *Console) RunFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.Running || c.Paused || c.Debugger.IsPaused() {
		return nil
	}

	if _, err := c.Scheduler.StepCycles(gbTCyclesPerFrame); err != nil {
		return fmt.Errorf("emulator: GB core step error: %w", err)
	}

	c.FrameCount++
	now := time.Now()
	if now.Sub(c.fpsWindowTime) >= time.Second {
		c.FPS = float64(c.FrameCount) / now.Sub(c.fpsWindowTime).Seconds()
		c.FrameCount = 0
		c.fpsWindowTime = now
	}

	if c.Config.FrameLimitEnabled {
		elapsed := now.Sub(c.lastFrameTime)
		if elapsed < c.frameDuration {
			time.Sleep(c.frameDuration - elapsed)
		}
	}
	c.lastFrameTime = time.Now()

	return nil
}

// WriteRDPReg forwards a host write to one of the four RDP MMIO words
// (spec.md §4.2.1), guarded by the console mutex since DP_END triggers
// synchronous command execution that touches RDRAM.
func (c *Console) WriteRDPReg(index int, data uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RDP.WriteReg(index, data)
}

func (c *Console) ReadRDPReg(index int) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.RDP.ReadReg(index)
}

func (c *Console) GetFPS() float64 { return c.FPS }

func (c *Console) SetFrameLimit(enabled bool) {
	c.mu.Lock()
	c.Config.FrameLimitEnabled = enabled
	c.mu.Unlock()
}
