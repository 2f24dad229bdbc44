// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// PoolRow is one pool in the APY table. Values are pre-computed by the domain.
type PoolRow struct {
	Name      string
	Kind      string
	APY       decimal.Decimal
	TVL       decimal.Decimal
	Base      decimal.Decimal
	Converted decimal.Decimal
	Extra     decimal.Decimal
	Swap      decimal.Decimal
	// Change is the APY move since the previous cycle in percentage points.
	Change    decimal.Decimal
	HasChange bool
	Failed    bool
	Error     string
}

// PoolsComponent renders the per-pool APY table.
type PoolsComponent struct {
	table table.Model
	rows  []PoolRow
}

var poolColumns = []table.Column{
	{Title: "Pool", Width: 22},
	{Title: "Kind", Width: 7},
	{Title: "APY %", Width: 8},
	{Title: "Δ pp", Width: 7},
	{Title: "TVL", Width: 9},
	{Title: "BAL", Width: 7},
	{Title: "AURA", Width: 7},
	{Title: "Extra", Width: 7},
	{Title: "Swap", Width: 7},
}

// NewPoolsComponent creates a new pools component showing height rows.
func NewPoolsComponent(height int) *PoolsComponent {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#374151"))

	t := table.New(
		table.WithColumns(poolColumns),
		table.WithHeight(height),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
	return &PoolsComponent{table: t}
}

// Update replaces the table contents.
func (p *PoolsComponent) Update(rows []PoolRow) {
	p.rows = rows
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.cells())
	}
	p.table.SetRows(out)
}

// Len returns the number of rows.
func (p *PoolsComponent) Len() int {
	return len(p.rows)
}

func (p *PoolsComponent) ScrollUp() {
	p.table.MoveUp(1)
}

func (p *PoolsComponent) ScrollDown() {
	p.table.MoveDown(1)
}

// Selected returns the highlighted row.
func (p *PoolsComponent) Selected() (PoolRow, bool) {
	i := p.table.Cursor()
	if i < 0 || i >= len(p.rows) {
		return PoolRow{}, false
	}
	return p.rows[i], true
}

// View renders the pools component.
func (p *PoolsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	result := headerStyle.Render(fmt.Sprintf("POOLS (%d)", len(p.rows))) + "\n"
	if len(p.rows) == 0 {
		return result + dimStyle.Render("Waiting for the first cycle...")
	}
	return result + p.table.View()
}

func (r PoolRow) cells() table.Row {
	if r.Failed {
		return table.Row{r.Name, r.Kind, "ERR", "", "", "", "", "", ""}
	}
	change := ""
	if r.HasChange {
		change = fmt.Sprintf("%+.2f", r.Change.InexactFloat64())
	}
	return table.Row{
		r.Name,
		r.Kind,
		r.APY.StringFixed(2),
		change,
		FormatUSD(r.TVL),
		r.Base.StringFixed(2),
		r.Converted.StringFixed(2),
		r.Extra.StringFixed(2),
		r.Swap.StringFixed(2),
	}
}

// FormatUSD abbreviates a dollar amount to K/M/B.
func FormatUSD(v decimal.Decimal) string {
	abs := v.Abs()
	switch {
	case abs.GreaterThanOrEqual(decimal.New(1, 9)):
		return "$" + v.Shift(-9).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(decimal.New(1, 6)):
		return "$" + v.Shift(-6).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(decimal.New(1, 3)):
		return "$" + v.Shift(-3).StringFixed(1) + "K"
	default:
		return "$" + v.StringFixed(0)
	}
}
