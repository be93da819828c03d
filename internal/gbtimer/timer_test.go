package gbtimer

import "testing"

type fakeIF struct{ v uint8 }

func (f *fakeIF) GetIF() uint8  { return f.v }
func (f *fakeIF) SetIF(v uint8) { f.v = v }

func TestDIVIncrementsEvery256Cycles(t *testing.T) {
	iff := &fakeIF{}
	tm := New(iff)
	tm.Step(255)
	if tm.Read8(0x00) != 0 {
		t.Fatalf("DIV = %02X before first overflow of the high byte, want 0", tm.Read8(0x00))
	}
	tm.Step(1)
	if tm.Read8(0x00) != 1 {
		t.Fatalf("DIV = %02X after 256 cycles, want 1", tm.Read8(0x00))
	}
}

func TestDIVWriteResetsDivider(t *testing.T) {
	iff := &fakeIF{}
	tm := New(iff)
	tm.Step(255)
	tm.Step(45)
	tm.Write8(0x00, 0xFF)
	if tm.Read8(0x00) != 0 {
		t.Fatalf("DIV write did not reset divider")
	}
}

func TestTIMAOverflowReloadsAndRaisesInterrupt(t *testing.T) {
	iff := &fakeIF{}
	tm := New(iff)
	tm.Write8(0x02, 0x42) // TMA
	tm.Write8(0x03, 0x05) // TAC: enabled, fastest rate (bit 3)
	tm.Write8(0x01, 0xFF) // TIMA overflows on the next increment

	// 16 ticks reach the falling edge of divider bit 3 and overflow TIMA;
	// the reload and interrupt land on the following tick.
	for i := 0; i < 17; i++ {
		tm.Step(1)
	}

	if iff.v&0x04 == 0 {
		t.Fatalf("timer interrupt flag not set after TIMA overflow")
	}
	if tm.Read8(0x01) != 0x42 {
		t.Fatalf("TIMA = %02X after overflow, want reload value 0x42", tm.Read8(0x01))
	}
}

func TestTimerDisabledNeverIncrementsTIMA(t *testing.T) {
	iff := &fakeIF{}
	tm := New(iff)
	tm.Write8(0x03, 0x00) // disabled
	for i := 0; i < 10000; i++ {
		tm.Step(1)
	}
	if tm.Read8(0x01) != 0 {
		t.Fatalf("TIMA incremented while disabled: %02X", tm.Read8(0x01))
	}
}
