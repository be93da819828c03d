package gbcpu

import (
	"fmt"

	"dualcore-exec/internal/debug"
)

// TraceLevel selects how much detail LoggerAdapter emits per instruction,
// adapted from the teacher's CPULogLevel enum.
type TraceLevel int

const (
	TraceNone TraceLevel = iota
	TraceBranches
	TraceAll
)

// LoggerAdapter adapts debug.Logger to the gbcpu.Logger interface,
// grounded on the reference CPULoggerAdapter this was adapted from.
type LoggerAdapter struct {
	logger *debug.Logger
	level  TraceLevel
}

// NewLoggerAdapter creates a CPU logging adapter over logger.
func NewLoggerAdapter(logger *debug.Logger, level TraceLevel) *LoggerAdapter {
	return &LoggerAdapter{logger: logger, level: level}
}

// SetLevel changes the trace level at runtime.
func (a *LoggerAdapter) SetLevel(level TraceLevel) { a.level = level }

var branchOpcodes = map[uint8]bool{
	0x18: true, 0x20: true, 0x28: true, 0x30: true, 0x38: true, // JR
	0xC2: true, 0xC3: true, 0xCA: true, 0xD2: true, 0xDA: true, 0xE9: true, // JP
	0xC4: true, 0xCC: true, 0xCD: true, 0xD4: true, 0xDC: true, // CALL
	0xC0: true, 0xC8: true, 0xC9: true, 0xD0: true, 0xD8: true, 0xD9: true, // RET/RETI
	0xC7: true, 0xCF: true, 0xD7: true, 0xDF: true, 0xE7: true, 0xEF: true, 0xF7: true, 0xFF: true, // RST
}

// LogInstruction implements gbcpu.Logger.
func (a *LoggerAdapter) LogInstruction(pc uint16, opcode uint8, state State, tCycles uint8) {
	if a.logger == nil || a.level == TraceNone {
		return
	}
	if a.level == TraceBranches && !branchOpcodes[opcode] {
		return
	}

	a.logger.LogGBCPU(debug.LogLevelDebug, fmt.Sprintf("%04X: opcode %02X (%dT)", pc, opcode, tCycles), map[string]interface{}{
		"pc":   pc,
		"af":   uint16(state.A)<<8 | uint16(state.F),
		"bc":   uint16(state.B)<<8 | uint16(state.C),
		"de":   uint16(state.D)<<8 | uint16(state.E),
		"hl":   uint16(state.H)<<8 | uint16(state.L),
		"sp":   state.SP,
		"ime":  state.IME,
	})
}

// LogInterrupt implements gbcpu.Logger.
func (a *LoggerAdapter) LogInterrupt(vector uint16) {
	if a.logger == nil || a.level == TraceNone {
		return
	}
	a.logger.LogGBCPU(debug.LogLevelInfo, fmt.Sprintf("interrupt dispatched to vector %04X", vector), nil)
}
