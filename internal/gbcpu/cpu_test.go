package gbcpu

import "testing"

// mockBus is a flat 64 KiB RAM used to exercise the CPU in isolation,
// in the teacher's hand-rolled-mock test style (internal/cpu/cpu_test.go).
type mockBus struct {
	mem    [65536]uint8
	ie, iff uint8
	bios   bool
}

func newMockBus() *mockBus { return &mockBus{} }

func (m *mockBus) Read(addr uint16) uint8  { return m.mem[addr] }
func (m *mockBus) Write(addr uint16, v uint8) { m.mem[addr] = v }
func (m *mockBus) ReadL(addr uint16) uint16 {
	return uint16(m.mem[addr]) | uint16(m.mem[addr+1])<<8
}
func (m *mockBus) WriteL(addr uint16, v uint16) {
	m.mem[addr] = uint8(v)
	m.mem[addr+1] = uint8(v >> 8)
}
func (m *mockBus) GetIE() uint8    { return m.ie }
func (m *mockBus) SetIE(v uint8)   { m.ie = v }
func (m *mockBus) GetIF() uint8    { return m.iff }
func (m *mockBus) SetIF(v uint8)   { m.iff = v }
func (m *mockBus) InBios() bool    { return m.bios }

func newTestCPU() (*CPU, *mockBus) {
	bus := newMockBus()
	c := NewCPU(bus, nil)
	return c, bus
}

func TestResetState(t *testing.T) {
	c, _ := newTestCPU()
	if c.A != 0x01 || c.F != 0x90 || c.B != 0x00 || c.C != 0x13 ||
		c.D != 0x00 || c.E != 0xD8 || c.H != 0x01 || c.L != 0x4D ||
		c.SP != 0xFFFE || c.PC != 0x0100 || !c.IME {
		t.Fatalf("unexpected post-reset state: %+v", c.State)
	}
}

func TestFlagNibbleInvariant(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[c.PC] = 0x87 // ADD A,A
	c.Update()
	if c.F&0x0F != 0 {
		t.Fatalf("F low nibble not zero: %02X", c.F)
	}
}

func TestProgramCounterAndStackWidth(t *testing.T) {
	c, bus := newTestCPU()
	c.PC = 0xFFFF
	bus.mem[0xFFFF] = 0x00 // NOP, wraps PC
	c.Update()
	if c.PC != 0x0000 {
		t.Fatalf("PC did not wrap within 16 bits: %04X, want 0000", c.PC)
	}
}

// Scenario 1: INC B from 0x0F.
func TestIncBHalfCarry(t *testing.T) {
	c, bus := newTestCPU()
	c.B = 0x0F
	c.F = 0x00
	bus.mem[c.PC] = 0x04 // INC B
	tCycles := c.Update()
	if c.B != 0x10 {
		t.Fatalf("B = %02X, want 0x10", c.B)
	}
	if c.F != FlagH {
		t.Fatalf("F = %02X, want H set only", c.F)
	}
	if tCycles != 4 {
		t.Fatalf("tCycles = %d, want 4", tCycles)
	}
}

// Scenario 2: ADD A,A with carry.
func TestAddACarry(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x80
	c.F = 0x00
	bus.mem[c.PC] = 0x87 // ADD A,A
	c.Update()
	if c.A != 0x00 {
		t.Fatalf("A = %02X, want 0x00", c.A)
	}
	if c.F != FlagZ|FlagC {
		t.Fatalf("F = %02X, want Z|C", c.F)
	}
}

// Scenario 3: DAA after ADD.
func TestDAAAfterAdd(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x45
	c.F = 0x00
	pc := c.PC
	bus.mem[pc] = 0xC6   // ADD A,d8
	bus.mem[pc+1] = 0x38 // #0x38
	bus.mem[pc+2] = 0x27 // DAA
	c.Update()
	if c.A != 0x7D || c.F != 0x00 {
		t.Fatalf("after ADD: A=%02X F=%02X, want A=7D F=00", c.A, c.F)
	}
	c.Update()
	if c.A != 0x83 || c.F != 0x00 {
		t.Fatalf("after DAA: A=%02X F=%02X, want A=83 F=00", c.A, c.F)
	}
}

// Scenario 4: CALL/RET round-trip.
func TestCallRetRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.SP = 0xFFFE
	c.PC = 0xC000
	bus.mem[0xC000] = 0xCD // CALL a16
	bus.mem[0xC001] = 0x34
	bus.mem[0xC002] = 0x12
	bus.mem[0x1234] = 0xC9 // RET

	c.Update() // CALL
	if c.PC != 0x1234 || c.SP != 0xFFFC {
		t.Fatalf("after CALL: PC=%04X SP=%04X", c.PC, c.SP)
	}
	if bus.mem[0xFFFC] != 0x03 || bus.mem[0xFFFD] != 0xC0 {
		t.Fatalf("pushed return address wrong: %02X %02X", bus.mem[0xFFFC], bus.mem[0xFFFD])
	}

	c.Update() // RET
	if c.PC != 0xC003 || c.SP != 0xFFFE {
		t.Fatalf("after RET: PC=%04X SP=%04X", c.PC, c.SP)
	}
}

// Scenario 5: interrupt dispatch.
func TestInterruptDispatch(t *testing.T) {
	c, bus := newTestCPU()
	c.IME = true
	bus.ie = 0x01
	bus.iff = 0x01
	c.PC = 0xC123
	c.SP = 0xFFFE
	bus.mem[0xC123] = 0x00 // NOP, interrupt check happens after

	c.Update()

	if c.IME {
		t.Fatalf("IME should be cleared after dispatch")
	}
	if bus.iff != 0x00 {
		t.Fatalf("IF = %02X, want 0x00", bus.iff)
	}
	if c.PC != 0x0040 {
		t.Fatalf("PC = %04X, want 0x0040", c.PC)
	}
	if c.SP != 0xFFFC {
		t.Fatalf("SP = %04X, want 0xFFFC", c.SP)
	}
}

// Property: push/pop round-trips any 16-bit value.
func TestPushPopRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	for _, v := range []uint16{0x0000, 0xFFFF, 0x1234, 0x8000, 0x0001} {
		c.SP = 0xFFF0
		c.push16(v)
		got := c.pop16()
		if got != v {
			t.Fatalf("push/pop(%04X) = %04X", v, got)
		}
	}
}

// Property: while halted with no pending interrupt, PC is unchanged and
// tCycles is always 4.
func TestHaltIdle(t *testing.T) {
	c, _ := newTestCPU()
	c.Halt = true
	pc := c.PC
	tCycles := c.Update()
	if c.PC != pc {
		t.Fatalf("PC changed during halt idle: %04X -> %04X", pc, c.PC)
	}
	if tCycles != 4 {
		t.Fatalf("tCycles = %d, want 4", tCycles)
	}
}

func TestHaltWakesOnPendingInterrupt(t *testing.T) {
	c, bus := newTestCPU()
	c.Halt = true
	c.IME = false
	bus.ie = 0x01
	bus.iff = 0x01
	c.Update()
	if c.Halt {
		t.Fatalf("halt should clear once IE & IF != 0")
	}
}

func TestRRHLRotatesRight(t *testing.T) {
	c, bus := newTestCPU()
	c.SetHL(0xC000)
	bus.mem[0xC000] = 0x01
	c.F = 0x00 // carry clear
	bus.mem[c.PC] = 0xCB
	bus.mem[c.PC+1] = 0x1E // RR (HL)
	c.Update()
	if bus.mem[0xC000] != 0x00 {
		t.Fatalf("RR (HL) = %02X, want 0x00 (rotated right, not left)", bus.mem[0xC000])
	}
	if !c.GetFlag(FlagC) {
		t.Fatalf("expected carry out set from bit 0")
	}
}

func TestStopConsumesPaddingByte(t *testing.T) {
	c, bus := newTestCPU()
	pc := c.PC
	bus.mem[pc] = 0x10   // STOP
	bus.mem[pc+1] = 0x00 // padding
	bus.mem[pc+2] = 0x00 // NOP, should not execute yet
	c.Update()
	if !c.Stop {
		t.Fatalf("expected Stop=true after STOP opcode")
	}
	if c.PC != pc+2 {
		t.Fatalf("PC = %04X, want %04X (opcode + padding byte consumed)", c.PC, pc+2)
	}
}

func TestCallCCUniformCost(t *testing.T) {
	c, bus := newTestCPU()
	c.SP = 0xFFFE
	c.PC = 0xC000
	c.F = 0x00 // Z clear, so CALL NZ is taken
	bus.mem[0xC000] = 0xC4 // CALL NZ,a16
	bus.mem[0xC001] = 0x00
	bus.mem[0xC002] = 0xD0
	tCycles := c.Update()
	if tCycles != 24 {
		t.Fatalf("CALL NZ taken = %d T-cycles, want 24", tCycles)
	}

	c2, bus2 := newTestCPU()
	c2.SP = 0xFFFE
	c2.PC = 0xC000
	c2.SetFlag(FlagZ, true) // CALL NZ not taken
	bus2.mem[0xC000] = 0xC4
	bus2.mem[0xC001] = 0x00
	bus2.mem[0xC002] = 0xD0
	tCycles2 := c2.Update()
	if tCycles2 != 12 {
		t.Fatalf("CALL NZ not-taken = %d T-cycles, want 12", tCycles2)
	}
}
