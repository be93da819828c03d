package gbcpu

// This file holds the flag-computing ALU primitives shared by the opcode
// tables, grounded on the reg_add/reg_sub/reg_and/... family in the
// original C++ core (TKPEmu/Gameboy/CPU/cpu.cpp) and generalised to
// spec.md §4.1.2-§4.1.3's exact formulas.

// add8 computes A + val (+ carry if withCarry and C is set), writes the
// result into A and sets Z/N/H/C per spec.md §4.1.2.
func (c *CPU) add8(val uint8, withCarry bool) {
	var carry uint8
	if withCarry && c.GetFlag(FlagC) {
		carry = 1
	}
	a := c.A
	wide := uint16(a) + uint16(val) + uint16(carry)
	result := uint8(wide)

	c.F = 0
	c.SetFlag(FlagZ, result == 0)
	c.SetFlag(FlagH, (a&0xF)+(val&0xF)+carry > 0xF)
	c.SetFlag(FlagC, wide > 0xFF)
	c.A = result
}

// sub8 computes A - val (- carry if withCarry and C is set). When cp is
// true, A is left unmodified (CP instruction).
func (c *CPU) sub8(val uint8, withCarry, cp bool) {
	var carry uint8
	if withCarry && c.GetFlag(FlagC) {
		carry = 1
	}
	a := c.A
	wide := int16(a) - int16(val) - int16(carry)
	result := uint8(wide)

	c.F = FlagN
	c.SetFlag(FlagZ, result == 0)
	c.SetFlag(FlagH, int16(a&0xF)-int16(val&0xF)-int16(carry) < 0)
	c.SetFlag(FlagC, wide < 0)
	if !cp {
		c.A = result
	}
}

func (c *CPU) and8(val uint8) {
	c.A &= val
	c.F = FlagH
	c.SetFlag(FlagZ, c.A == 0)
}

func (c *CPU) or8(val uint8) {
	c.A |= val
	c.F = 0
	c.SetFlag(FlagZ, c.A == 0)
}

func (c *CPU) xor8(val uint8) {
	c.A ^= val
	c.F = 0
	c.SetFlag(FlagZ, c.A == 0)
}

// inc8 returns val+1 and updates Z/N/H, preserving C.
func (c *CPU) inc8(val uint8) uint8 {
	result := val + 1
	c.SetFlag(FlagZ, result == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, val&0xF == 0xF)
	return result
}

// dec8 returns val-1 and updates Z/N/H, preserving C.
func (c *CPU) dec8(val uint8) uint8 {
	result := val - 1
	c.SetFlag(FlagZ, result == 0)
	c.SetFlag(FlagN, true)
	c.SetFlag(FlagH, val&0xF == 0x0)
	return result
}

// addHL implements 16-bit ADD HL,rr: Z unchanged, N=0, H from bit 11,
// C from bit 15.
func (c *CPU) addHL(val uint16) {
	hl := c.HL()
	wide := uint32(hl) + uint32(val)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, (hl&0xFFF)+(val&0xFFF) > 0xFFF)
	c.SetFlag(FlagC, wide > 0xFFFF)
	c.SetHL(uint16(wide))
}

// spPlusSigned implements the shared arithmetic of ADD SP,r8 and
// LD HL,SP+r8: the operand is signed for the addition itself, but H/C are
// computed on the unsigned low byte of SP (spec.md §4.1.2). SP is always
// masked to 16 bits by virtue of uint16 arithmetic (spec.md §9 flags the
// original's inconsistent masking; this core masks unconditionally).
func (c *CPU) spPlusSigned(e8 uint8) uint16 {
	signed := int32(int8(e8))
	result := uint16(int32(c.SP) + signed)

	low := uint8(c.SP)
	c.F = 0
	c.SetFlag(FlagH, (low&0xF)+(e8&0xF) > 0xF)
	c.SetFlag(FlagC, uint16(low)+uint16(e8) > 0xFF)
	return result
}

// daa performs BCD correction after an 8-bit add/sub, per spec.md §4.1.3.
func (c *CPU) daa() {
	a := c.A
	carry := c.GetFlag(FlagC)
	half := c.GetFlag(FlagH)
	var adjust uint8

	if !c.GetFlag(FlagN) {
		if half || a&0xF > 9 {
			adjust |= 0x06
		}
		if carry || a > 0x99 {
			adjust |= 0x60
			carry = true
		}
		a += adjust
	} else {
		if half {
			adjust |= 0x06
		}
		if carry {
			adjust |= 0x60
		}
		a -= adjust
	}

	c.A = a
	c.SetFlag(FlagZ, a == 0)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
}
