package gbcpu

// getR8/setR8 decode the standard SM83 3-bit register field:
// 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A. Index 6 routes through the bus.

func (c *CPU) getR8(idx uint8) uint8 {
	switch idx & 7 {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.Bus.Read(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) setR8(idx uint8, v uint8) {
	switch idx & 7 {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.Bus.Write(c.HL(), v)
	default:
		c.A = v
	}
}

// getR16/setR16 decode the 2-bit pair field used by 16-bit LD/INC/DEC/ADD:
// 0=BC 1=DE 2=HL 3=SP.
func (c *CPU) getR16(idx uint8) uint16 {
	switch idx & 3 {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) setR16(idx uint8, v uint16) {
	switch idx & 3 {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// getR16Stack/setR16Stack decode the push/pop pair field: 3=AF instead of SP.
func (c *CPU) getR16Stack(idx uint8) uint16 {
	if idx&3 == 3 {
		return c.AF()
	}
	return c.getR16(idx)
}

func (c *CPU) setR16Stack(idx uint8, v uint16) {
	if idx&3 == 3 {
		c.SetAF(v)
		return
	}
	c.setR16(idx, v)
}
