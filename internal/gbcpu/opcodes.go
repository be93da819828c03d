package gbcpu

// The primary opcode table: a fixed 256-entry table of closures, per
// spec.md §9's explicit preference for a table of function pointers over
// one method per opcode (grounded on IntuitionEngine's cpu_z80.go baseOps
// table-of-func-pointers pattern, and on the original core's single
// `instructions[opcode].op` dispatch in CPU::Update).
var primaryTable [256]func(*CPU)

// condTrue decodes the 2-bit condition-code field used by JR/JP/CALL/RET:
// 0=NZ 1=Z 2=NC 3=C.
func (c *CPU) condTrue(cc uint8) bool {
	switch cc & 3 {
	case 0:
		return !c.GetFlag(FlagZ)
	case 1:
		return c.GetFlag(FlagZ)
	case 2:
		return !c.GetFlag(FlagC)
	default:
		return c.GetFlag(FlagC)
	}
}

func init() {
	for i := range primaryTable {
		primaryTable[i] = illegalOpcode
	}

	primaryTable[0x00] = opNOP
	primaryTable[0x10] = opSTOP
	primaryTable[0x76] = opHALT
	primaryTable[0xCB] = opPrefixCB

	primaryTable[0x07] = opRLCA
	primaryTable[0x0F] = opRRCA
	primaryTable[0x17] = opRLA
	primaryTable[0x1F] = opRRA
	primaryTable[0x27] = opDAA
	primaryTable[0x2F] = opCPL
	primaryTable[0x37] = opSCF
	primaryTable[0x3F] = opCCF

	primaryTable[0x08] = opLDa16SP
	primaryTable[0x18] = opJRUncond

	primaryTable[0xC3] = opJPa16
	primaryTable[0xC9] = opRET
	primaryTable[0xCD] = opCALLa16
	primaryTable[0xD9] = opRETI
	primaryTable[0xE0] = opLDHa8A
	primaryTable[0xE2] = opLDCA
	primaryTable[0xE8] = opADDSPr8
	primaryTable[0xE9] = opJPHL
	primaryTable[0xEA] = opLDa16A
	primaryTable[0xF0] = opLDHAa8
	primaryTable[0xF2] = opLDACIndirect
	primaryTable[0xF3] = opDI
	primaryTable[0xF8] = opLDHLSPr8
	primaryTable[0xF9] = opLDSPHL
	primaryTable[0xFA] = opLDAa16
	primaryTable[0xFB] = opEI

	// 16-bit immediate loads, INC/DEC rr, ADD HL,rr and (BC)/(DE) accesses,
	// over the four register-pair groups.
	for i := uint8(0); i < 4; i++ {
		pair := i
		primaryTable[0x01+pair*0x10] = func(c *CPU) { c.setR16(pair, c.fetch16()); c.mTemp, c.tTemp = 3, 12 }
		primaryTable[0x03+pair*0x10] = func(c *CPU) { c.setR16(pair, c.getR16(pair)+1); c.mTemp, c.tTemp = 2, 8 }
		primaryTable[0x0B+pair*0x10] = func(c *CPU) { c.setR16(pair, c.getR16(pair)-1); c.mTemp, c.tTemp = 2, 8 }
		primaryTable[0x09+pair*0x10] = func(c *CPU) { c.addHL(c.getR16(pair)); c.mTemp, c.tTemp = 2, 8 }
	}
	primaryTable[0x02] = func(c *CPU) { c.Bus.Write(c.BC(), c.A); c.mTemp, c.tTemp = 2, 8 }
	primaryTable[0x12] = func(c *CPU) { c.Bus.Write(c.DE(), c.A); c.mTemp, c.tTemp = 2, 8 }
	primaryTable[0x0A] = func(c *CPU) { c.A = c.Bus.Read(c.BC()); c.mTemp, c.tTemp = 2, 8 }
	primaryTable[0x1A] = func(c *CPU) { c.A = c.Bus.Read(c.DE()); c.mTemp, c.tTemp = 2, 8 }
	primaryTable[0x22] = func(c *CPU) { c.Bus.Write(c.HL(), c.A); c.SetHL(c.HL() + 1); c.mTemp, c.tTemp = 2, 8 }
	primaryTable[0x32] = func(c *CPU) { c.Bus.Write(c.HL(), c.A); c.SetHL(c.HL() - 1); c.mTemp, c.tTemp = 2, 8 }
	primaryTable[0x2A] = func(c *CPU) { c.A = c.Bus.Read(c.HL()); c.SetHL(c.HL() + 1); c.mTemp, c.tTemp = 2, 8 }
	primaryTable[0x3A] = func(c *CPU) { c.A = c.Bus.Read(c.HL()); c.SetHL(c.HL() - 1); c.mTemp, c.tTemp = 2, 8 }

	// INC r / DEC r / LD r,d8 over the eight single-register slots.
	for i := uint8(0); i < 8; i++ {
		reg := i
		cost := func(c *CPU) { c.mTemp, c.tTemp = 1, 4 }
		if reg == 6 {
			cost = func(c *CPU) { c.mTemp, c.tTemp = 3, 12 }
		}
		primaryTable[0x04+reg*8] = func(c *CPU) {
			c.setR8(reg, c.inc8(c.getR8(reg)))
			cost(c)
		}
		primaryTable[0x05+reg*8] = func(c *CPU) {
			c.setR8(reg, c.dec8(c.getR8(reg)))
			cost(c)
		}
		ldCost := func(c *CPU) { c.mTemp, c.tTemp = 2, 8 }
		if reg == 6 {
			ldCost = func(c *CPU) { c.mTemp, c.tTemp = 3, 12 }
		}
		primaryTable[0x06+reg*8] = func(c *CPU) {
			v := c.fetch8()
			c.setR8(reg, v)
			ldCost(c)
		}
	}

	// LD r,r' block: 0x40-0x7F, excluding 0x76 (HALT).
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			continue
		}
		opcode := uint8(op)
		dst := (opcode >> 3) & 7
		src := opcode & 7
		primaryTable[opcode] = func(c *CPU) {
			c.setR8(dst, c.getR8(src))
			if dst == 6 || src == 6 {
				c.mTemp, c.tTemp = 2, 8
			} else {
				c.mTemp, c.tTemp = 1, 4
			}
		}
	}

	// ALU A,r block: 0x80-0xBF.
	for op := 0x80; op <= 0xBF; op++ {
		opcode := uint8(op)
		aluOp := (opcode >> 3) & 7
		src := opcode & 7
		primaryTable[opcode] = func(c *CPU) {
			applyALU(c, aluOp, c.getR8(src))
			if src == 6 {
				c.mTemp, c.tTemp = 2, 8
			} else {
				c.mTemp, c.tTemp = 1, 4
			}
		}
	}

	// ALU A,d8 block: 0xC6,0xCE,0xD6,0xDE,0xE6,0xEE,0xF6,0xFE.
	for i := uint8(0); i < 8; i++ {
		aluOp := i
		primaryTable[0xC6+aluOp*8] = func(c *CPU) {
			applyALU(c, aluOp, c.fetch8())
			c.mTemp, c.tTemp = 2, 8
		}
	}

	// PUSH/POP rr (AF in slot 3).
	for i := uint8(0); i < 4; i++ {
		pair := i
		primaryTable[0xC1+pair*0x10] = func(c *CPU) { c.setR16Stack(pair, c.pop16()); c.mTemp, c.tTemp = 3, 12 }
		primaryTable[0xC5+pair*0x10] = func(c *CPU) { c.push16(c.getR16Stack(pair)); c.mTemp, c.tTemp = 4, 16 }
	}

	// RST n: 0xC7,0xCF,0xD7,0xDF,0xE7,0xEF,0xF7,0xFF.
	for i := uint8(0); i < 8; i++ {
		vector := uint16(i) * 8
		primaryTable[0xC7+i*8] = func(c *CPU) {
			c.saveShadow()
			c.push16(c.PC)
			c.PC = vector
			c.mTemp, c.tTemp = 4, 16
		}
	}

	// JR cc,e8: 0x20,0x28,0x30,0x38.
	for i := uint8(0); i < 4; i++ {
		cc := i
		primaryTable[0x20+cc*8] = func(c *CPU) {
			e8 := c.fetch8()
			if c.condTrue(cc) {
				c.PC = uint16(int32(c.PC) + int32(int8(e8)))
				c.mTemp, c.tTemp = 3, 12
			} else {
				c.mTemp, c.tTemp = 2, 8
			}
		}
	}

	// JP cc,a16: 0xC2,0xCA,0xD2,0xDA.
	for i := uint8(0); i < 4; i++ {
		cc := i
		primaryTable[0xC2+cc*8] = func(c *CPU) {
			addr := c.fetch16()
			if c.condTrue(cc) {
				c.PC = addr
				c.mTemp, c.tTemp = 4, 16
			} else {
				c.mTemp, c.tTemp = 3, 12
			}
		}
	}

	// CALL cc,a16: 0xC4,0xCC,0xD4,0xDC. Cost is uniform and correct here:
	// spec.md §9 flags the original's CALLNZ16 as leaving mTemp/tTemp
	// uninitialised on the taken branch; this implementation always sets
	// both branches explicitly (12T not-taken, 24T taken).
	for i := uint8(0); i < 4; i++ {
		cc := i
		primaryTable[0xC4+cc*8] = func(c *CPU) {
			addr := c.fetch16()
			if c.condTrue(cc) {
				c.push16(c.PC)
				c.PC = addr
				c.mTemp, c.tTemp = 6, 24
			} else {
				c.mTemp, c.tTemp = 3, 12
			}
		}
	}

	// RET cc: 0xC0,0xC8,0xD0,0xD8.
	for i := uint8(0); i < 4; i++ {
		cc := i
		primaryTable[0xC0+cc*8] = func(c *CPU) {
			if c.condTrue(cc) {
				c.PC = c.pop16()
				c.mTemp, c.tTemp = 5, 20
			} else {
				c.mTemp, c.tTemp = 2, 8
			}
		}
	}
}

// applyALU dispatches the 3-bit ALU-operation selector used by both the
// register and immediate ALU blocks: 0=ADD 1=ADC 2=SUB 3=SBC 4=AND 5=XOR
// 6=OR 7=CP.
func applyALU(c *CPU, op uint8, val uint8) {
	switch op & 7 {
	case 0:
		c.add8(val, false)
	case 1:
		c.add8(val, true)
	case 2:
		c.sub8(val, false, false)
	case 3:
		c.sub8(val, true, false)
	case 4:
		c.and8(val)
	case 5:
		c.xor8(val)
	case 6:
		c.or8(val)
	case 7:
		c.sub8(val, false, true)
	}
}

func illegalOpcode(c *CPU) {
	if c.Log != nil {
		c.Log.LogInstruction(c.PC-1, c.Bus.Read(c.PC-1), c.State, 4)
	}
	c.mTemp, c.tTemp = 1, 4
}

func opNOP(c *CPU) { c.mTemp, c.tTemp = 1, 4 }

// opSTOP sets the Stop latch and consumes the mandatory padding byte. The
// original core (TKPEmu's CPU::STOP) instead runs a DJNZ-like loop keyed
// off register B; this core does not reproduce that. Update does not
// consult Stop, so execution continues with the next instruction, and
// nothing but Reset clears the latch.
func opSTOP(c *CPU) {
	c.fetch8() // padding byte, always 0x00 in well-formed ROMs
	c.Stop = true
	c.mTemp, c.tTemp = 1, 4
}

func opHALT(c *CPU) {
	c.Halt = true
	c.mTemp, c.tTemp = 1, 4
}

func opPrefixCB(c *CPU) {
	op2 := c.fetch8()
	cbTable[op2](c)
}

func opRLCA(c *CPU) {
	carry := c.A&0x80 != 0
	c.A = c.A<<1 | boolToByte(carry)
	c.F = 0
	c.SetFlag(FlagC, carry)
	c.mTemp, c.tTemp = 1, 4
}

func opRRCA(c *CPU) {
	carry := c.A&0x01 != 0
	c.A = c.A>>1 | boolToByte(carry)<<7
	c.F = 0
	c.SetFlag(FlagC, carry)
	c.mTemp, c.tTemp = 1, 4
}

func opRLA(c *CPU) {
	oldCarry := c.GetFlag(FlagC)
	carry := c.A&0x80 != 0
	c.A = c.A<<1 | boolToByte(oldCarry)
	c.F = 0
	c.SetFlag(FlagC, carry)
	c.mTemp, c.tTemp = 1, 4
}

func opRRA(c *CPU) {
	oldCarry := c.GetFlag(FlagC)
	carry := c.A&0x01 != 0
	c.A = c.A>>1 | boolToByte(oldCarry)<<7
	c.F = 0
	c.SetFlag(FlagC, carry)
	c.mTemp, c.tTemp = 1, 4
}

func opDAA(c *CPU) {
	c.daa()
	c.mTemp, c.tTemp = 1, 4
}

func opCPL(c *CPU) {
	c.A = ^c.A
	c.SetFlag(FlagN, true)
	c.SetFlag(FlagH, true)
	c.mTemp, c.tTemp = 1, 4
}

func opSCF(c *CPU) {
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, true)
	c.mTemp, c.tTemp = 1, 4
}

func opCCF(c *CPU) {
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, !c.GetFlag(FlagC))
	c.mTemp, c.tTemp = 1, 4
}

func opLDa16SP(c *CPU) {
	addr := c.fetch16()
	c.Bus.WriteL(addr, c.SP)
	c.mTemp, c.tTemp = 5, 20
}

func opJRUncond(c *CPU) {
	e8 := c.fetch8()
	c.PC = uint16(int32(c.PC) + int32(int8(e8)))
	c.mTemp, c.tTemp = 3, 12
}

func opJPa16(c *CPU) {
	c.PC = c.fetch16()
	c.mTemp, c.tTemp = 4, 16
}

func opRET(c *CPU) {
	c.PC = c.pop16()
	c.mTemp, c.tTemp = 4, 16
}

func opCALLa16(c *CPU) {
	addr := c.fetch16()
	c.push16(c.PC)
	c.PC = addr
	c.mTemp, c.tTemp = 6, 24
}

func opRETI(c *CPU) {
	c.PC = c.pop16()
	c.IME = true
	c.restoreShadow()
	c.mTemp, c.tTemp = 4, 16
}

func opLDHa8A(c *CPU) {
	addr := 0xFF00 + uint16(c.fetch8())
	c.Bus.Write(addr, c.A)
	c.mTemp, c.tTemp = 3, 12
}

func opLDHAa8(c *CPU) {
	addr := 0xFF00 + uint16(c.fetch8())
	c.A = c.Bus.Read(addr)
	c.mTemp, c.tTemp = 3, 12
}

func opLDCA(c *CPU) {
	c.Bus.Write(0xFF00+uint16(c.C), c.A)
	c.mTemp, c.tTemp = 2, 8
}

func opLDACIndirect(c *CPU) {
	c.A = c.Bus.Read(0xFF00 + uint16(c.C))
	c.mTemp, c.tTemp = 2, 8
}

func opADDSPr8(c *CPU) {
	e8 := c.fetch8()
	c.SP = c.spPlusSigned(e8)
	c.mTemp, c.tTemp = 4, 16
}

func opJPHL(c *CPU) {
	c.PC = c.HL()
	c.mTemp, c.tTemp = 1, 4
}

func opLDa16A(c *CPU) {
	addr := c.fetch16()
	c.Bus.Write(addr, c.A)
	c.mTemp, c.tTemp = 4, 16
}

func opLDAa16(c *CPU) {
	addr := c.fetch16()
	c.A = c.Bus.Read(addr)
	c.mTemp, c.tTemp = 4, 16
}

func opDI(c *CPU) {
	c.IME = false
	c.mTemp, c.tTemp = 1, 4
}

// opEI enables IME immediately. Real SM83 hardware delays the effect by one
// instruction; spec.md §9 leaves this an open question. SPEC_FULL.md
// resolves it in favor of the original core's behavior (CPU::EI sets IME
// with no delay flag), documented as a deliberate simplification.
func opEI(c *CPU) {
	c.IME = true
	c.mTemp, c.tTemp = 1, 4
}

func opLDHLSPr8(c *CPU) {
	e8 := c.fetch8()
	c.SetHL(c.spPlusSigned(e8))
	c.mTemp, c.tTemp = 3, 12
}

func opLDSPHL(c *CPU) {
	c.SP = c.HL()
	c.mTemp, c.tTemp = 2, 8
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
