package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// AlertRow is one raised alert.
type AlertRow struct {
	Timestamp string
	Cycle     uint64
	Pool      string
	Reason    string
	Message   string
}

// AlertsComponent renders the most recent alerts, newest first.
type AlertsComponent struct {
	rows    []AlertRow
	maxRows int
}

// NewAlertsComponent creates a new alerts component.
func NewAlertsComponent(maxRows int) *AlertsComponent {
	return &AlertsComponent{
		rows:    make([]AlertRow, 0),
		maxRows: maxRows,
	}
}

// Add adds a new alert to the list.
func (a *AlertsComponent) Add(row AlertRow) {
	a.rows = append([]AlertRow{row}, a.rows...)
	if len(a.rows) > a.maxRows {
		a.rows = a.rows[:a.maxRows]
	}
}

// Clear clears all alerts.
func (a *AlertsComponent) Clear() {
	a.rows = make([]AlertRow, 0)
}

func (a *AlertsComponent) Len() int {
	return len(a.rows)
}

// View renders the alerts component.
func (a *AlertsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	lowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	moveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	result := headerStyle.Render(fmt.Sprintf("ALERTS (last %d)", a.maxRows)) + "\n\n"
	if len(a.rows) == 0 {
		return result + dimStyle.Render("  No alerts raised yet...")
	}

	for _, row := range a.rows {
		style := moveStyle
		icon := "↕"
		if row.Reason == "low_apy" {
			style = lowStyle
			icon = "↓"
		}
		result += fmt.Sprintf("  %s %s %s\n",
			dimStyle.Render(fmt.Sprintf("[%s #%d]", row.Timestamp, row.Cycle)),
			style.Render(icon),
			style.Render(row.Message),
		)
	}
	return result
}
