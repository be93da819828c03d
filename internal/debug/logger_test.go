package debug

import (
	"testing"
	"time"
)

func drainLogger(l *Logger) {
	l.Shutdown()
}

func TestLogEntryDroppedWhenComponentDisabled(t *testing.T) {
	l := NewLogger(100)
	defer drainLogger(l)

	l.LogSystem(LogLevelInfo, "should be dropped", nil)
	if len(l.GetEntries()) != 0 {
		t.Fatal("expected no entries: ComponentSystem starts disabled")
	}
}

func TestLogEntryRecordedWhenComponentEnabledAndAboveMinLevel(t *testing.T) {
	l := NewLogger(100)
	defer drainLogger(l)

	l.SetComponentEnabled(ComponentSystem, true)
	l.SetMinLevel(LogLevelInfo)
	l.LogSystem(LogLevelInfo, "hello", nil)

	waitForEntries(t, l, 1)
	entries := l.GetEntries()
	if entries[0].Message != "hello" {
		t.Errorf("Message = %q, want hello", entries[0].Message)
	}
	if entries[0].Component != ComponentSystem {
		t.Errorf("Component = %q, want %q", entries[0].Component, ComponentSystem)
	}
}

func TestCircularBufferWrapsAtCapacity(t *testing.T) {
	l := NewLogger(100) // NewLogger floors maxEntries at 100
	defer drainLogger(l)

	l.SetComponentEnabled(ComponentGBCPU, true)
	l.SetMinLevel(LogLevelTrace)

	for i := 0; i < 150; i++ {
		l.LogGBCPUf(LogLevelTrace, "entry %d", i)
	}
	waitForEntries(t, l, 100)

	entries := l.GetEntries()
	if len(entries) != 100 {
		t.Fatalf("expected buffer capped at 100, got %d", len(entries))
	}
	if entries[len(entries)-1].Message != "entry 149" {
		t.Errorf("last entry = %q, want entry 149", entries[len(entries)-1].Message)
	}
}

func TestClearResetsBuffer(t *testing.T) {
	l := NewLogger(100)
	defer drainLogger(l)

	l.SetComponentEnabled(ComponentSystem, true)
	l.SetMinLevel(LogLevelTrace)
	l.LogSystem(LogLevelInfo, "one", nil)
	waitForEntries(t, l, 1)

	l.Clear()
	if len(l.GetEntries()) != 0 {
		t.Error("expected empty buffer after Clear")
	}
}

// waitForEntries polls briefly since Log enqueues onto a background
// channel processed by a separate goroutine.
func waitForEntries(t *testing.T, l *Logger, want int) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if len(l.GetEntries()) >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d log entries, got %d", want, len(l.GetEntries()))
}
