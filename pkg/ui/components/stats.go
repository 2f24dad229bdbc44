package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds cycle statistics for display.
type Stats struct {
	Cycles       uint64
	Pools        int
	Failures     int
	Alerts       int
	LastDuration time.Duration
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// Stats returns the current statistics.
func (s *StatsComponent) Stats() Stats {
	return s.stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	failuresDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Failures))
	if s.stats.Failures > 0 {
		failuresDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Failures))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Cycles: %s  │  Pools priced: %s  │  Skipped: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Cycles)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Pools)),
			failuresDisplay,
		) +
		fmt.Sprintf("Last cycle: %s  │  Alerts: %s",
			valueStyle.Render(s.stats.LastDuration.Round(time.Millisecond).String()),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Alerts)),
		)
}
