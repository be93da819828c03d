package emulator

import (
	"os"
	"strings"
	"testing"

	"dualcore-exec/internal/rom"
)

func testROM() []byte {
	b := rom.NewBuilder("CONSOLETEST", 0x00)
	data, err := b.Build(0x00)
	if err != nil {
		panic(err)
	}
	return data
}

func TestNewConsoleWiresBothCores(t *testing.T) {
	c := NewConsole(DefaultConfig(), 4*1024*1024, 4096)
	if c.GBCPU == nil || c.GBBus == nil || c.RDP == nil {
		t.Fatal("NewConsole left a core unwired")
	}
	if c.GBBus.TimerHandler == nil {
		t.Error("timer not wired into bus")
	}
	if c.GBBus.InputHandler == nil {
		t.Error("joypad not wired into bus")
	}
}

func TestLoadROMResetsCPUToEntryPoint(t *testing.T) {
	c := NewConsole(DefaultConfig(), 1024, 1024)
	if err := c.LoadROM(testROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if c.GBCPU.PC != 0x0100 {
		t.Errorf("PC after LoadROM = 0x%04X, want 0x0100", c.GBCPU.PC)
	}
	if c.Cartridge.Title != "CONSOLETEST" {
		t.Errorf("Title = %q", c.Cartridge.Title)
	}
}

func TestRunFrameAdvancesSchedulerClock(t *testing.T) {
	c := NewConsole(DefaultConfig(), 1024, 1024)
	if err := c.LoadROM(testROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	c.SetFrameLimit(false)
	c.Start()

	if err := c.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if c.Scheduler.Cycle < gbTCyclesPerFrame {
		t.Errorf("Scheduler.Cycle = %d, want at least %d", c.Scheduler.Cycle, gbTCyclesPerFrame)
	}
}

func TestRunFrameNoOpWhenStopped(t *testing.T) {
	c := NewConsole(DefaultConfig(), 1024, 1024)
	if err := c.LoadROM(testROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if err := c.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if c.Scheduler.Cycle != 0 {
		t.Errorf("Scheduler.Cycle = %d, want 0 while stopped", c.Scheduler.Cycle)
	}
}

func TestWriteRDPRegForwardsToCoreUnderMutex(t *testing.T) {
	c := NewConsole(DefaultConfig(), 4096, 4096)
	c.WriteRDPReg(0, 0x001000) // DP_START
	if got := c.ReadRDPReg(0); got != 0x001000 {
		t.Errorf("ReadRDPReg(DP_START) = 0x%08X, want 0x001000", got)
	}
}

func TestCommandTracePathWiresRDPTrace(t *testing.T) {
	tracePath := t.TempDir() + "/commands.trace"

	cfg := DefaultConfig()
	cfg.CommandTracePath = tracePath
	c := NewConsole(cfg, 4096, 4096)
	if c.RDP.Trace == nil {
		t.Fatal("RDP.Trace not wired when CommandTracePath is set")
	}

	c.WriteRDPReg(0, 0) // DP_START
	c.WriteRDPReg(1, 8) // DP_END, triggers a command window
	c.Stop()

	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("reading trace file: %v", err)
	}
	if !strings.Contains(string(data), "RDP Command Trace") {
		t.Errorf("trace file missing header: %q", data)
	}
}

func TestResetReinitializesScheduler(t *testing.T) {
	c := NewConsole(DefaultConfig(), 1024, 1024)
	if err := c.LoadROM(testROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	c.SetFrameLimit(false)
	c.Start()
	if err := c.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	c.Reset()
	if c.Scheduler.Cycle != 0 {
		t.Errorf("Scheduler.Cycle after Reset = %d, want 0", c.Scheduler.Cycle)
	}
}

func TestRunFrameHonorsDebuggerPause(t *testing.T) {
	c := NewConsole(DefaultConfig(), 1024, 1024)
	if err := c.LoadROM(testROM()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	c.SetFrameLimit(false)
	c.Start()
	c.Debugger.Pause()

	if err := c.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if c.Scheduler.Cycle != 0 {
		t.Errorf("Scheduler.Cycle = %d, want 0 while debugger paused", c.Scheduler.Cycle)
	}

	c.Debugger.Resume()
	if err := c.RunFrame(); err != nil {
		t.Fatalf("RunFrame: %v", err)
	}
	if c.Scheduler.Cycle == 0 {
		t.Error("expected Scheduler.Cycle to advance after debugger resume")
	}
}
