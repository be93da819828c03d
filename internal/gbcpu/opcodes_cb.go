package gbcpu

// The CB-prefixed secondary table: a fixed 256-entry table mirroring
// primaryTable's closure-based dispatch, covering the rotate/shift/bit
// opcode space (spec.md §4.1.1, §4.1.4).
var cbTable [256]func(*CPU)

func init() {
	for op := 0; op < 256; op++ {
		opcode := uint8(op)
		reg := opcode & 7

		switch {
		case opcode < 0x40:
			rotOp := (opcode >> 3) & 7
			cbTable[opcode] = func(c *CPU) {
				v := c.getR8(reg)
				c.setR8(reg, applyCBRotate(c, rotOp, v))
				cbCost(c, reg)
			}
		case opcode < 0x80:
			bit := (opcode >> 3) & 7
			cbTable[opcode] = func(c *CPU) {
				v := c.getR8(reg)
				c.SetFlag(FlagZ, v&(1<<bit) == 0)
				c.SetFlag(FlagN, false)
				c.SetFlag(FlagH, true)
				if reg == 6 {
					c.mTemp, c.tTemp = 3, 12
				} else {
					c.mTemp, c.tTemp = 2, 8
				}
			}
		case opcode < 0xC0:
			bit := (opcode >> 3) & 7
			cbTable[opcode] = func(c *CPU) {
				v := c.getR8(reg)
				c.setR8(reg, v&^(1<<bit))
				cbCost(c, reg)
			}
		default:
			bit := (opcode >> 3) & 7
			cbTable[opcode] = func(c *CPU) {
				v := c.getR8(reg)
				c.setR8(reg, v|(1<<bit))
				cbCost(c, reg)
			}
		}
	}
}

func cbCost(c *CPU, reg uint8) {
	if reg == 6 {
		c.mTemp, c.tTemp = 4, 16
	} else {
		c.mTemp, c.tTemp = 2, 8
	}
}

// applyCBRotate dispatches the 3-bit rotate/shift selector: 0=RLC 1=RRC
// 2=RL 3=RR 4=SLA 5=SRA 6=SWAP 7=SRL. Unlike the unprefixed RLCA/RRCA/RLA/
// RRA, these set Z from the result (spec.md §4.1.4). RR (HL) — "RRHL" in
// the original core — rotates right through carry; the original shifts
// left instead (spec.md §9 flags this as a bug), not reproduced here.
func applyCBRotate(c *CPU, op uint8, val uint8) uint8 {
	oldCarry := c.GetFlag(FlagC)
	var result uint8
	var carry bool

	switch op & 7 {
	case 0: // RLC
		carry = val&0x80 != 0
		result = val<<1 | boolToByte(carry)
	case 1: // RRC
		carry = val&0x01 != 0
		result = val>>1 | boolToByte(carry)<<7
	case 2: // RL
		carry = val&0x80 != 0
		result = val<<1 | boolToByte(oldCarry)
	case 3: // RR
		carry = val&0x01 != 0
		result = val>>1 | boolToByte(oldCarry)<<7
	case 4: // SLA
		carry = val&0x80 != 0
		result = val << 1
	case 5: // SRA
		carry = val&0x01 != 0
		result = val>>1 | (val & 0x80)
	case 6: // SWAP
		result = val<<4 | val>>4
		carry = false
	default: // SRL
		carry = val&0x01 != 0
		result = val >> 1
	}

	c.F = 0
	c.SetFlag(FlagZ, result == 0)
	c.SetFlag(FlagC, carry)
	return result
}
