package rom

import (
	"testing"

	"dualcore-exec/internal/gbbus"
)

func TestBuildSingleBankHeaderRoundTrip(t *testing.T) {
	b := NewBuilder("FIXTURE", 0x00)
	data, err := b.Build(0x00)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(data) != 2*BankSizeBytes {
		t.Fatalf("expected %d bytes, got %d", 2*BankSizeBytes, len(data))
	}

	cart := gbbus.NewCartridge()
	if err := cart.LoadROM(data); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if cart.Title != "FIXTURE" {
		t.Errorf("Title = %q, want FIXTURE", cart.Title)
	}
	if cart.ROMBankCount != 2 {
		t.Errorf("ROMBankCount = %d, want 2", cart.ROMBankCount)
	}
	if cart.RAMBankCount != 0 {
		t.Errorf("RAMBankCount = %d, want 0", cart.RAMBankCount)
	}
}

func TestBuildMultiBankWithMBC1(t *testing.T) {
	b := NewBuilder("MULTIBANK", 0x01) // MBC1
	for i := 0; i < 4; i++ {
		b.Bank(i)
	}
	b.WriteBytes(2, 0, []byte{0xAA, 0xBB, 0xCC})

	data, err := b.Build(0x00)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(data) != 4*BankSizeBytes {
		t.Fatalf("expected %d bytes, got %d", 4*BankSizeBytes, len(data))
	}

	cart := gbbus.NewCartridge()
	if err := cart.LoadROM(data); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if cart.ROMBankCount != 4 {
		t.Fatalf("ROMBankCount = %d, want 4", cart.ROMBankCount)
	}

	cart.WriteMBC(0x2000, 2) // select bank 2
	if got := cart.ReadROMHigh(0x4000); got != 0xAA {
		t.Errorf("ReadROMHigh(0x4000) after bank switch = 0x%02X, want 0xAA", got)
	}
}

func TestBuildRejectsUnrepresentableBankCount(t *testing.T) {
	b := NewBuilder("ODD", 0x00)
	b.Bank(2) // 3 banks total, not a power-of-two-times-2 count
	if _, err := b.Build(0x00); err == nil {
		t.Fatal("expected error for non-representable bank count, got nil")
	}
}
