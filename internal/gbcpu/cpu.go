// Package gbcpu implements the LR35902 ("SM83") CPU core of the Game Boy:
// fetch/decode/execute, flag arithmetic, interrupt dispatch and the
// cycle-accounting contract the outer frame loop paces devices against.
package gbcpu

import (
	"fmt"
)

// Flag bits of the F register. The low nibble of F must always read zero.
const (
	FlagZ uint8 = 0x80
	FlagN uint8 = 0x40
	FlagH uint8 = 0x20
	FlagC uint8 = 0x10
)

// Interrupt vector addresses, indexed by IE/IF bit position.
var interruptVectors = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}

// Bus is the capability surface the CPU requires from the memory bus.
// ReadL/WriteL are little-endian 16-bit accesses.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	ReadL(addr uint16) uint16
	WriteL(addr uint16, value uint16)
	GetIE() uint8
	SetIE(value uint8)
	GetIF() uint8
	SetIF(value uint8)
	InBios() bool
}

// Logger is the CPU's injected logging sink.
type Logger interface {
	LogInstruction(pc uint16, opcode uint8, state State, tCycles uint8)
	LogInterrupt(vector uint16)
}

// State is a snapshot of architectural CPU registers, used for logging and
// save-state round-trips.
type State struct {
	A, F             uint8
	B, C             uint8
	D, E             uint8
	H, L             uint8
	SP, PC           uint16
	IME              bool
	Halt, Stop       bool
	MClock           uint64
	TClock           uint64
	TotalClock       uint64
	RsvA, RsvF       uint8
	RsvB, RsvC       uint8
	RsvD, RsvE       uint8
	RsvH, RsvL       uint8
}

// CPU is the emulated LR35902 core. A single instance borrows a Bus for the
// duration of Update and never retains ownership of it.
type CPU struct {
	State

	// mTemp/tTemp are scratch cycle costs set by the opcode handler that
	// just ran; Update() folds them into MClock/TClock after execution.
	mTemp, tTemp uint8

	Bus Bus
	Log Logger
}

// NewCPU creates a CPU wired to the given bus and logger (logger may be nil).
func NewCPU(bus Bus, log Logger) *CPU {
	c := &CPU{Bus: bus, Log: log}
	c.Reset()
	return c
}

// Reset restores the post-boot-ROM register state (spec.md §4.1.8),
// matching the original's CPU::reset exactly.
func (c *CPU) Reset() {
	c.A = 0x01
	c.F = 0x90
	c.B = 0x00
	c.C = 0x13
	c.D = 0x00
	c.E = 0xD8
	c.H = 0x01
	c.L = 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.IME = true
	c.Halt = false
	c.Stop = false
	c.MClock = 0
	c.TClock = 0
	c.TotalClock = 0
	if c.Bus != nil {
		c.Bus.SetIF(0xE1)
		c.Bus.SetIE(0x00)
	}
}

// AF returns the combined AF register pair.
func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }

// SetAF sets the combined AF register pair; the low nibble of F is always
// masked to zero, per the flag-nibble invariant.
func (c *CPU) SetAF(v uint16) {
	c.A = uint8(v >> 8)
	c.F = uint8(v) & 0xF0
}

func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) SetBC(v uint16) {
	c.B = uint8(v >> 8)
	c.C = uint8(v)
}

func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) SetDE(v uint16) {
	c.D = uint8(v >> 8)
	c.E = uint8(v)
}

func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }
func (c *CPU) SetHL(v uint16) {
	c.H = uint8(v >> 8)
	c.L = uint8(v)
}

// GetFlag reports whether the given flag bit is set in F.
func (c *CPU) GetFlag(flag uint8) bool { return c.F&flag != 0 }

// SetFlag sets or clears the given flag bit in F.
func (c *CPU) SetFlag(flag uint8, v bool) {
	if v {
		c.F |= flag
	} else {
		c.F &^= flag
	}
}

// fetch8 reads the byte at PC and advances PC by one.
func (c *CPU) fetch8() uint8 {
	v := c.Bus.Read(c.PC)
	c.PC++
	return v
}

// fetch16 reads the little-endian word at PC and advances PC by two.
func (c *CPU) fetch16() uint16 {
	v := c.Bus.ReadL(c.PC)
	c.PC += 2
	return v
}

// push16 pushes v to the stack LSB-first, matching CALL/RST/interrupt push.
func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.Bus.WriteL(c.SP, v)
}

// pop16 pops a little-endian word from the stack.
func (c *CPU) pop16() uint16 {
	v := c.Bus.ReadL(c.SP)
	c.SP += 2
	return v
}

// saveShadow captures rsvA..rsvF: a documented quirk of this core (spec.md
// §9) — real LR35902 hardware has no shadow register file. Invoked on every
// RST, including the interrupt-service vector pushes.
func (c *CPU) saveShadow() {
	c.RsvA, c.RsvF = c.A, c.F
	c.RsvB, c.RsvC = c.B, c.C
	c.RsvD, c.RsvE = c.D, c.E
	c.RsvH, c.RsvL = c.H, c.L
}

// restoreShadow undoes saveShadow; invoked by RETI.
func (c *CPU) restoreShadow() {
	c.A, c.F = c.RsvA, c.RsvF&0xF0
	c.B, c.C = c.RsvB, c.RsvC
	c.D, c.E = c.RsvD, c.RsvE
	c.H, c.L = c.RsvH, c.RsvL
}

// Update executes exactly one opcode (or one HALT idle tick) and returns the
// elapsed T-cycles, per spec.md §4.1.7.
func (c *CPU) Update() uint8 {
	if c.Halt {
		c.mTemp, c.tTemp = 1, 4
	} else {
		opcode := c.fetch8()
		pc := c.PC - 1
		primaryTable[opcode](c)
		if c.Log != nil {
			c.Log.LogInstruction(pc, opcode, c.State, c.tTemp)
		}
		c.TotalClock++
		c.F &= 0xF0
		c.PC &= 0xFFFF
	}

	c.MClock += uint64(c.mTemp)
	c.TClock += uint64(c.tTemp)

	c.checkInterrupts()

	return c.tTemp
}

// checkInterrupts implements the dispatch contract of spec.md §4.1.6: clear
// halt on any pending&enabled interrupt, and service the lowest-numbered one
// when IME is set.
func (c *CPU) checkInterrupts() {
	ie, iflag := c.Bus.GetIE(), c.Bus.GetIF()
	pending := ie & iflag & 0x1F
	if pending == 0 {
		return
	}

	c.Halt = false

	if !c.IME {
		return
	}

	c.IME = false

	var bit uint8
	for bit = 0; bit < 5; bit++ {
		if pending&(1<<bit) != 0 {
			break
		}
	}
	c.Bus.SetIF(iflag &^ (1 << bit))

	c.saveShadow()
	c.push16(c.PC)
	c.PC = interruptVectors[bit]

	c.mTemp, c.tTemp = 5, 20
	c.MClock += uint64(c.mTemp)
	c.TClock += uint64(c.tTemp)

	if c.Log != nil {
		c.Log.LogInterrupt(c.PC)
	}
}

// ExecuteCycles runs Update repeatedly until at least targetTCycles have
// elapsed, returning the actual number of T-cycles consumed.
func (c *CPU) ExecuteCycles(targetTCycles uint64) uint64 {
	start := c.TClock
	for c.TClock-start < targetTCycles {
		c.Update()
	}
	return c.TClock - start
}

// String implements a debugger-friendly PC/register dump.
func (c *CPU) String() string {
	return fmt.Sprintf("PC=%04X SP=%04X AF=%04X BC=%04X DE=%04X HL=%04X IME=%v",
		c.PC, c.SP, c.AF(), c.BC(), c.DE(), c.HL(), c.IME)
}
