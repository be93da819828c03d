package emulator

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"dualcore-exec/internal/rom"
)

func TestSaveLoadStateRoundTripsCPURegisters(t *testing.T) {
	c := NewConsole(DefaultConfig(), 1024, 1024)
	b := rom.NewBuilder("SAVETEST", 0x00)
	data, err := b.Build(0x00)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := c.LoadROM(data); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	c.GBCPU.A = 0x42
	c.GBCPU.SetBC(0x1234)
	c.GBCPU.PC = 0x0200
	c.GBBus.VRAM[0x10] = 0x99

	blob, err := c.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	c.GBCPU.A = 0x00
	c.GBCPU.SetBC(0x0000)
	c.GBCPU.PC = 0x0000
	c.GBBus.VRAM[0x10] = 0x00

	if err := c.LoadState(blob); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if c.GBCPU.A != 0x42 {
		t.Errorf("A = 0x%02X, want 0x42", c.GBCPU.A)
	}
	if c.GBCPU.BC() != 0x1234 {
		t.Errorf("BC = 0x%04X, want 0x1234", c.GBCPU.BC())
	}
	if c.GBCPU.PC != 0x0200 {
		t.Errorf("PC = 0x%04X, want 0x0200", c.GBCPU.PC)
	}
	if c.GBBus.VRAM[0x10] != 0x99 {
		t.Errorf("VRAM[0x10] = 0x%02X, want 0x99", c.GBBus.VRAM[0x10])
	}
}

func TestLoadStateRejectsUnknownVersion(t *testing.T) {
	c := NewConsole(DefaultConfig(), 1024, 1024)
	blob, err := c.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	var tampered SaveState
	if err := gob.NewDecoder(bytes.NewBuffer(blob)).Decode(&tampered); err != nil {
		t.Fatalf("decode: %v", err)
	}
	tampered.Version = 99

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(tampered); err != nil {
		t.Fatalf("encode: %v", err)
	}

	if err := c.LoadState(buf.Bytes()); err == nil {
		t.Fatal("expected error loading unsupported version, got nil")
	}
}

func TestSaveStateToFileRoundTrip(t *testing.T) {
	c := NewConsole(DefaultConfig(), 1024, 1024)
	c.GBCPU.A = 0x77

	path := filepath.Join(t.TempDir(), "test.sav")
	if err := c.SaveStateToFile(path); err != nil {
		t.Fatalf("SaveStateToFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("save file not written: %v", err)
	}

	c2 := NewConsole(DefaultConfig(), 1024, 1024)
	if err := c2.LoadStateFromFile(path); err != nil {
		t.Fatalf("LoadStateFromFile: %v", err)
	}
	if c2.GBCPU.A != 0x77 {
		t.Errorf("A after LoadStateFromFile = 0x%02X, want 0x77", c2.GBCPU.A)
	}
}
