package debug

import (
	"fmt"
	"os"
	"sync"
)

// CommandTraceLogger writes one line per executed RDP command to a file.
// It is the RDP-side analogue of a cycle-by-cycle CPU trace: useful for
// diffing rasterizer runs, not a UI in its own right.
type CommandTraceLogger struct {
	file         *os.File
	maxCommands  uint64
	startCommand uint64
	current      uint64
	total        uint64
	enabled      bool
	mu           sync.Mutex
}

// NewCommandTraceLogger creates a trace logger writing to filename.
// maxCommands of 0 means unlimited; startCommand skips that many commands
// before logging begins.
func NewCommandTraceLogger(filename string, maxCommands, startCommand uint64) (*CommandTraceLogger, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create command trace file: %w", err)
	}

	logger := &CommandTraceLogger{
		file:         file,
		maxCommands:  maxCommands,
		startCommand: startCommand,
		enabled:      true,
	}

	fmt.Fprintf(file, "RDP Command Trace\n=================\n\n")
	if startCommand > 0 {
		fmt.Fprintf(file, "Start command offset: %d\n", startCommand)
	}
	if maxCommands > 0 {
		fmt.Fprintf(file, "Max commands logged: %d\n", maxCommands)
	}
	fmt.Fprintf(file, "\nFormat: Command # | opcode | name | words | address\n\n")

	return logger, nil
}

// LogCommand logs one decoded command.
func (c *CommandTraceLogger) LogCommand(opcode uint8, name string, words int, addr uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return
	}

	c.total++
	if c.total <= c.startCommand {
		return
	}
	if c.maxCommands > 0 && c.current >= c.maxCommands {
		c.enabled = false
		return
	}
	c.current++

	fmt.Fprintf(c.file, "Command %6d | opcode 0x%02X | %-28s | words %2d | addr 0x%06X\n",
		c.total, opcode, name, words, addr)
}

// SetEnabled enables or disables logging.
func (c *CommandTraceLogger) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// IsEnabled returns whether logging is currently active.
func (c *CommandTraceLogger) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled && (c.maxCommands == 0 || c.current < c.maxCommands)
}

// Close flushes and closes the trace file.
func (c *CommandTraceLogger) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enabled = false
	if c.file != nil {
		fmt.Fprintf(c.file, "\nTrace complete. Commands logged: %d\n", c.current)
		err := c.file.Close()
		c.file = nil
		return err
	}
	return nil
}
