package gbbus

import "fmt"

// Cartridge holds ROM/RAM data parsed from a real Game Boy header at
// 0x0100-0x014F, adapted from the teacher's header-driven Cartridge
// (internal/memory/cartridge.go) for the SM83's actual layout instead of
// the fictional "RMCF" LoROM format.
type Cartridge struct {
	ROM []uint8
	RAM []uint8

	Title        string
	CartType     uint8
	ROMBankCount int
	RAMBankCount int

	romBank uint8
	ramBank uint8
	ramOn   bool
	mbcMode uint8 // 0=ROM only, 1=MBC1, 3=MBC3, 5=MBC5
}

func NewCartridge() *Cartridge {
	return &Cartridge{}
}

// LoadROM parses the 0x0100-0x014F header and sizes ROM/RAM banks.
func (c *Cartridge) LoadROM(data []uint8) error {
	if len(data) < 0x150 {
		return fmt.Errorf("ROM too small: %d bytes, header requires at least 0x150", len(data))
	}

	title := make([]byte, 0, 16)
	for i := 0x134; i <= 0x143 && data[i] != 0; i++ {
		title = append(title, data[i])
	}
	c.Title = string(title)
	c.CartType = data[0x147]

	romSizeCode := data[0x148]
	if romSizeCode > 8 {
		return fmt.Errorf("invalid ROM size code 0x%02X at header offset 0x148", romSizeCode)
	}
	c.ROMBankCount = 2 << romSizeCode

	expected := c.ROMBankCount * 0x4000
	if len(data) < expected {
		return fmt.Errorf("ROM data too small: header claims %d bytes (%d banks), got %d", expected, c.ROMBankCount, len(data))
	}
	c.ROM = make([]uint8, expected)
	copy(c.ROM, data[:expected])

	switch data[0x149] {
	case 0:
		c.RAMBankCount = 0
	case 2:
		c.RAMBankCount = 1
	case 3:
		c.RAMBankCount = 4
	case 4:
		c.RAMBankCount = 16
	case 5:
		c.RAMBankCount = 8
	default:
		c.RAMBankCount = 0
	}
	c.RAM = make([]uint8, c.RAMBankCount*0x2000)

	c.mbcMode = mbcModeForType(c.CartType)
	c.romBank = 1
	return nil
}

func mbcModeForType(cartType uint8) uint8 {
	switch {
	case cartType == 0x00:
		return 0
	case cartType >= 0x01 && cartType <= 0x03:
		return 1
	case cartType >= 0x0F && cartType <= 0x13:
		return 3
	case cartType >= 0x19 && cartType <= 0x1E:
		return 5
	default:
		return 0
	}
}

// ReadROMLow reads bank 0, 0x0000-0x3FFF.
func (c *Cartridge) ReadROMLow(addr uint16) uint8 {
	if int(addr) < len(c.ROM) {
		return c.ROM[addr]
	}
	return 0xFF
}

// ReadROMHigh reads the switchable bank at 0x4000-0x7FFF.
func (c *Cartridge) ReadROMHigh(addr uint16) uint8 {
	bank := c.romBank
	if bank == 0 {
		bank = 1
	}
	offset := uint32(bank)*0x4000 + uint32(addr-0x4000)
	if int(offset) < len(c.ROM) {
		return c.ROM[offset]
	}
	return 0xFF
}

// WriteMBC handles ROM-area writes that reconfigure the MBC, mirroring
// the teacher's bank-register pattern but for real MBC1/3/5 semantics.
func (c *Cartridge) WriteMBC(addr uint16, value uint8) {
	switch c.mbcMode {
	case 0:
		return
	case 1:
		switch {
		case addr < 0x2000:
			c.ramOn = value&0x0F == 0x0A
		case addr < 0x4000:
			bank := value & 0x1F
			if bank == 0 {
				bank = 1
			}
			c.romBank = (c.romBank &^ 0x1F) | bank
		case addr < 0x6000:
			c.ramBank = value & 0x03
		default:
		}
	case 3, 5:
		switch {
		case addr < 0x2000:
			c.ramOn = value&0x0F == 0x0A
		case addr < 0x4000:
			bank := value
			if c.mbcMode == 3 && bank == 0 {
				bank = 1
			}
			c.romBank = bank
		case addr < 0x6000:
			c.ramBank = value & 0x0F
		default:
		}
	}
}

// ReadRAM reads cartridge RAM at 0xA000-0xBFFF, if enabled and present.
func (c *Cartridge) ReadRAM(addr uint16) uint8 {
	if !c.ramOn || len(c.RAM) == 0 {
		return 0xFF
	}
	offset := uint32(c.ramBank)*0x2000 + uint32(addr-0xA000)
	if int(offset) < len(c.RAM) {
		return c.RAM[offset]
	}
	return 0xFF
}

// WriteRAM writes cartridge RAM at 0xA000-0xBFFF, if enabled and present.
func (c *Cartridge) WriteRAM(addr uint16, value uint8) {
	if !c.ramOn || len(c.RAM) == 0 {
		return
	}
	offset := uint32(c.ramBank)*0x2000 + uint32(addr-0xA000)
	if int(offset) < len(c.RAM) {
		c.RAM[offset] = value
	}
}

// EntryPoint returns the reset vector's code location, always 0x0100 on
// real hardware (the header's 0x0100-0x0103 holds a NOP + JP).
func (c *Cartridge) EntryPoint() uint16 { return 0x0100 }

func (c *Cartridge) HasROM() bool { return len(c.ROM) > 0 }
