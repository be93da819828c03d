// Package rom builds synthetic Game Boy ROM images for tests and fixtures,
// adapted from the teacher's ROMBuilder/BankedROMBuilder (which emitted a
// custom "RMCF" header plus fixed-format code words) onto the real GB
// cartridge header layout and 16KB MBC1 bank size, so gbbus/gbcpu tests can
// exercise bank switching against fixture ROMs instead of hand-built byte
// slices.
package rom

import (
	"fmt"
	"os"
)

const (
	// BankSizeBytes is the fixed ROM bank size on every real GB mapper.
	BankSizeBytes = 0x4000
	MinROMBanks   = 2
	MaxROMBanks   = 512
)

// Builder assembles a multi-bank GB ROM image: bank 0 (fixed, 0x0000-0x3FFF,
// holding the real header) plus any number of switchable banks.
type Builder struct {
	Title    string
	CartType uint8
	banks    [][]byte
}

// NewBuilder creates a builder with bank 0 and bank 1 pre-allocated (the
// minimum any cartridge needs).
func NewBuilder(title string, cartType uint8) *Builder {
	b := &Builder{Title: title, CartType: cartType}
	b.banks = append(b.banks, make([]byte, BankSizeBytes), make([]byte, BankSizeBytes))
	return b
}

// Bank returns bank n's raw byte slice, growing the bank list if needed.
func (b *Builder) Bank(n int) []byte {
	for len(b.banks) <= n {
		b.banks = append(b.banks, make([]byte, BankSizeBytes))
	}
	return b.banks[n]
}

// WriteBytes copies data into bank n starting at offset (bank-local address,
// so 0x4000 for any bank >0 maps to offset 0).
func (b *Builder) WriteBytes(bank int, offset uint16, data []byte) {
	copy(b.Bank(bank)[offset:], data)
}

// romSizeCode returns the 0x148 header code for the builder's bank count,
// the inverse of the banks := 2<<code formula gbbus.Cartridge.LoadROM uses.
func romSizeCode(numBanks int) (uint8, error) {
	for code := uint8(0); code <= 8; code++ {
		if int(2<<code) == numBanks {
			return code, nil
		}
	}
	return 0, fmt.Errorf("rom: %d banks has no representable 0x148 size code", numBanks)
}

// Build assembles the final ROM image, writing a real header at 0x0100-0x014F
// into bank 0: entry point (a NOP followed by JP 0x0150, harmless
// test-fixture behavior), title, cartridge type, ROM size code, RAM size
// code, and header checksum.
func (b *Builder) Build(ramSizeCode uint8) ([]byte, error) {
	if len(b.banks) < MinROMBanks {
		return nil, fmt.Errorf("rom: builder needs at least %d banks, has %d", MinROMBanks, len(b.banks))
	}
	sizeCode, err := romSizeCode(len(b.banks))
	if err != nil {
		return nil, err
	}

	header := b.Bank(0)
	header[0x100] = 0x00 // NOP
	header[0x101] = 0xC3 // JP 0x0150
	header[0x102] = 0x50
	header[0x103] = 0x01

	title := b.Title
	if len(title) > 16 {
		title = title[:16]
	}
	copy(header[0x134:0x144], []byte(title))

	header[0x147] = b.CartType
	header[0x148] = sizeCode
	header[0x149] = ramSizeCode

	var checksum uint8
	for addr := 0x134; addr <= 0x14C; addr++ {
		checksum = checksum - header[addr] - 1
	}
	header[0x14D] = checksum

	out := make([]byte, 0, len(b.banks)*BankSizeBytes)
	for _, bank := range b.banks {
		out = append(out, bank...)
	}
	return out, nil
}

// BuildToFile builds the ROM and writes it to disk.
func (b *Builder) BuildToFile(ramSizeCode uint8, path string) error {
	data, err := b.Build(ramSizeCode)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
