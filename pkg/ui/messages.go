package ui

import (
	"time"

	"github.com/fd1az/aura-yield/business/yield/domain"
)

// Message types for TUI updates

// CycleMsg is sent when a yield cycle has been computed.
type CycleMsg struct {
	Cycle *domain.Cycle
}

// ConnectionStatusMsg is sent when connection status changes.
type ConnectionStatusMsg struct {
	Name    string
	State   string // "connected", "degraded", "disconnected"
	Latency time.Duration
	Block   uint64
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "connecting", "connected", "done", "failed"
	Message string // Optional message
}
