// Package clock paces the Game Boy core's peripherals off the CPU's own
// T-cycle accounting, adapted from the teacher's MasterClock (which
// scheduled CPU/PPU/APU against an external 10 MHz reference) down to a
// single driving clock: the SM83 itself. The RDP core needs no
// scheduler — its command windows execute synchronously on DP_END
// writes, per spec.md §4.2.1.
package clock

import "fmt"

// Scheduler steps the CPU once per Step call and fans the T-cycles it
// reports out to every registered peripheral.
type Scheduler struct {
	Cycle uint64

	CPUStep func() (tCycles uint8, err error)

	peripherals []Peripheral
}

// Peripheral is any device paced by CPU T-cycles (gbtimer.Timer satisfies
// this via its Step method).
type Peripheral interface {
	Step(tCycles uint8)
}

func NewScheduler(cpuStep func() (uint8, error)) *Scheduler {
	return &Scheduler{CPUStep: cpuStep}
}

// Attach registers a peripheral to receive every step's T-cycle count.
func (s *Scheduler) Attach(p Peripheral) {
	s.peripherals = append(s.peripherals, p)
}

// Step runs one CPU instruction/interrupt-check cycle and paces every
// attached peripheral by the T-cycles it consumed.
func (s *Scheduler) Step() (uint8, error) {
	if s.CPUStep == nil {
		return 0, fmt.Errorf("clock: no CPU step function registered")
	}
	tCycles, err := s.CPUStep()
	if err != nil {
		return 0, fmt.Errorf("clock: CPU step error: %w", err)
	}
	for _, p := range s.peripherals {
		p.Step(tCycles)
	}
	s.Cycle += uint64(tCycles)
	return tCycles, nil
}

// StepCycles runs Step repeatedly until at least targetTCycles T-cycles
// have elapsed, returning the actual total (which may overshoot by up to
// one instruction's worth).
func (s *Scheduler) StepCycles(targetTCycles uint64) (uint64, error) {
	var total uint64
	for total < targetTCycles {
		t, err := s.Step()
		if err != nil {
			return total, err
		}
		total += uint64(t)
	}
	return total, nil
}

func (s *Scheduler) Reset() {
	s.Cycle = 0
}
