package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ConnectionStatus represents a connection's status.
type ConnectionStatus struct {
	Name string
	// State is "connected", "degraded" or "disconnected".
	State      string
	Latency    time.Duration
	LastBlock  uint64
	LastUpdate time.Time
}

// StatusComponent renders connection status.
type StatusComponent struct {
	connections []ConnectionStatus
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{
		connections: make([]ConnectionStatus, 0),
	}
}

// Update updates a connection's status, keeping first-seen order.
func (s *StatusComponent) Update(status ConnectionStatus) {
	for i, conn := range s.connections {
		if conn.Name == status.Name {
			s.connections[i] = status
			return
		}
	}
	s.connections = append(s.connections, status)
}

// Get returns the status recorded for name.
func (s *StatusComponent) Get(name string) (ConnectionStatus, bool) {
	for _, conn := range s.connections {
		if conn.Name == name {
			return conn, true
		}
	}
	return ConnectionStatus{}, false
}

// View renders the status component as one inline segment per connection.
func (s *StatusComponent) View() string {
	if len(s.connections) == 0 {
		return "No connections"
	}

	var result string
	for i, conn := range s.connections {
		icon, style := "●", lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
		switch conn.State {
		case "degraded":
			icon, style = "◐", lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
		case "disconnected", "":
			icon, style = "○", lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
		}

		label := conn.Name
		if conn.State != "connected" {
			label += " (" + stateOrUnknown(conn.State) + ")"
		} else if conn.Latency > 0 {
			label += fmt.Sprintf(" (%dms)", conn.Latency.Milliseconds())
		}
		if i > 0 {
			result += "  "
		}
		result += style.Render(icon + " " + label)
	}

	return result
}

func stateOrUnknown(s string) string {
	if s == "" {
		return "disconnected"
	}
	return s
}
