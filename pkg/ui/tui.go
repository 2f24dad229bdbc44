package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/pkg/ui/components"
)

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "done", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Loading/connecting
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// startupOrder is the order steps are listed on the startup screen.
var startupOrder = []string{"config", "ethereum", "prices", "runner"}

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	pools  *components.PoolsComponent
	alerts *components.AlertsComponent
	stats  *components.StatsComponent
	status *components.StatusComponent
	keys   KeyMap
	help   help.Model

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	quitting     bool
	refreshing   bool
	width        int
	height       int
	currentBlock uint64
	lastUpdate   time.Time
	errors       []ErrorEntry // Persistent error panel (last 3)
	logs         []string     // Recent log messages
	previousAPY  map[string]decimal.Decimal

	// Startup state
	startupSteps map[string]*StartupStep
	startupTime  time.Time
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	status := components.NewStatusComponent()
	status.Update(components.ConnectionStatus{Name: "Ethereum", State: "disconnected"})

	return Model{
		pools:        components.NewPoolsComponent(12),
		alerts:       components.NewAlertsComponent(8),
		stats:        components.NewStatsComponent(),
		status:       status,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		phase:        PhaseWelcome,
		welcomeStart: now,
		logs:         make([]string, 0, 10),
		errors:       make([]ErrorEntry, 0, 3),
		previousAPY:  make(map[string]decimal.Decimal),
		startupSteps: map[string]*StartupStep{
			"config":   {Name: "Loading configuration", Status: "pending"},
			"ethereum": {Name: "Connecting to Ethereum", Status: "pending"},
			"prices":   {Name: "Loading price sources", Status: "pending"},
			"runner":   {Name: "Scheduling yield cycles", Status: "pending"},
		},
		startupTime: now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always allow quit
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to startup
		if m.phase == PhaseWelcome {
			m.enterStartup()
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Refresh):
			if !m.refreshing && OnRefresh != nil {
				m.refreshing = true
				go OnRefresh()
			}
		case key.Matches(msg, m.keys.Up):
			m.pools.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.pools.ScrollDown()
		case key.Matches(msg, m.keys.Clear):
			m.alerts.Clear()
			m.errors = make([]ErrorEntry, 0, 3)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.enterStartup()
		}
		return m, tickCmd()

	case CycleMsg:
		if msg.Cycle != nil {
			m.applyCycle(msg.Cycle)
		}

	case ConnectionStatusMsg:
		m.status.Update(components.ConnectionStatus{
			Name:       msg.Name,
			State:      msg.State,
			Latency:    msg.Latency,
			LastBlock:  msg.Block,
			LastUpdate: time.Now(),
		})
		if msg.Block > m.currentBlock {
			m.currentBlock = msg.Block
		}
		m.lastUpdate = time.Now()

		stepKey := strings.ToLower(msg.Name)
		if step, ok := m.startupSteps[stepKey]; ok {
			switch msg.State {
			case "connected":
				step.Status = "connected"
			case "degraded":
				step.Status = "connecting"
			default:
				step.Status = "failed"
			}
		}

	case ErrorMsg:
		m.refreshing = false
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		// Add to persistent errors (keep last 3)
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case StartupMsg:
		if step, ok := m.startupSteps[msg.Step]; ok {
			step.Status = msg.Status
		}
		if m.phase == PhaseStartup && m.startupComplete() {
			m.phase = PhaseDashboard
		}
	}

	return m, nil
}

func (m *Model) enterStartup() {
	m.phase = PhaseStartup
	m.startupTime = time.Now()
	// Trigger callback directly (don't use Send() from within Update)
	if OnStartModules != nil {
		go OnStartModules()
	}
}

func (m Model) startupComplete() bool {
	for _, step := range m.startupSteps {
		if step.Status != "connected" && step.Status != "done" {
			return false
		}
	}
	return true
}

// applyCycle loads a finished cycle into the components.
func (m *Model) applyCycle(c *domain.Cycle) {
	m.refreshing = false
	if c.Block > m.currentBlock {
		m.currentBlock = c.Block
	}
	m.lastUpdate = time.Now()
	if m.phase != PhaseDashboard {
		m.phase = PhaseDashboard
	}

	m.pools.Update(PoolRows(c, m.previousAPY))
	for _, res := range c.Results {
		m.previousAPY[res.Pool] = res.APY
	}

	ts := c.StartedAt.Format("15:04:05")
	// Oldest first so the newest ends on top.
	for i := len(c.Alerts) - 1; i >= 0; i-- {
		a := c.Alerts[i]
		m.alerts.Add(components.AlertRow{
			Timestamp: ts,
			Cycle:     c.Number,
			Pool:      a.Pool,
			Reason:    string(a.Reason),
			Message:   a.Message(),
		})
	}

	prev := m.stats.Stats()
	m.stats.Update(components.Stats{
		Cycles:       c.Number,
		Pools:        len(c.Results),
		Failures:     len(c.Failures),
		Alerts:       prev.Alerts + len(c.Alerts),
		LastDuration: c.Duration,
	})

	for _, f := range c.Failures {
		m.logs = addLog(m.logs, "warn", f.Pool+": "+f.Error)
	}
}

// PoolRows converts a cycle into table rows; previous maps pool name to the
// APY shown before this cycle.
func PoolRows(c *domain.Cycle, previous map[string]decimal.Decimal) []components.PoolRow {
	rows := make([]components.PoolRow, 0, len(c.Results)+len(c.Failures))
	for _, res := range c.Results {
		row := components.PoolRow{
			Name:      res.Pool,
			Kind:      string(res.Kind),
			APY:       res.APY,
			TVL:       res.TVL,
			Base:      res.Components.Base,
			Converted: res.Components.Converted,
			Extra:     res.Components.Extra,
			Swap:      res.Components.Swap,
		}
		if prev, ok := previous[res.Pool]; ok {
			row.Change = res.APY.Sub(prev)
			row.HasChange = true
		}
		rows = append(rows, row)
	}
	for _, f := range c.Failures {
		rows = append(rows, components.PoolRow{Name: f.Pool, Failed: true, Error: f.Error})
	}
	return rows
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		return m.renderStartupScreen()
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Aura Yield "))
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.pools.View()

	var rightContent strings.Builder
	rightContent.WriteString(m.alerts.View())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.stats.View())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.renderLogs())
	rightCol := rightContent.String()

	// Side by side if enough width
	if m.width > 140 {
		left := BoxStyle.Width(m.width*3/5 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width*2/5 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		w := m.width - 4
		if w < 40 {
			w = 40
		}
		b.WriteString(BoxStyle.Width(w).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(w).Render(rightCol))
	}

	b.WriteString("\n\n")

	if row, ok := m.pools.Selected(); ok && row.Failed {
		b.WriteString(NegativeValue.Render(fmt.Sprintf("%s: %s", row.Name, row.Error)))
		b.WriteString("\n\n")
	}

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (c: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(NegativeValue.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.refreshing {
		b.WriteString(BusyValue.Render("⟳ recomputing"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderLogs() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("ACTIVITY"))
	sb.WriteString("\n\n")
	if len(m.logs) == 0 {
		sb.WriteString(MutedValue.Render("  Nothing yet..."))
		return sb.String()
	}
	for _, line := range m.logs {
		sb.WriteString(MutedValue.Render("  " + line))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	goldStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	// Animated dots based on time
	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")

	logo := `
     █████╗ ██╗   ██╗██████╗  █████╗
    ██╔══██╗██║   ██║██╔══██╗██╔══██╗
    ███████║██║   ██║██████╔╝███████║
    ██╔══██║██║   ██║██╔══██╗██╔══██║
    ██║  ██║╚██████╔╝██║  ██║██║  ██║
    ╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")
	sb.WriteString(MutedValue.Render("           Y I E L D   M O N I T O R"))
	sb.WriteString("\n\n\n")
	sb.WriteString(goldStyle.Render("       BAL + AURA + extra rewards + swap fees"))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render(fmt.Sprintf("              Initializing%s", dots)))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("        Press any key to skip, or wait..."))
	sb.WriteString("\n")

	return sb.String()
}

// renderStartupScreen renders the loading/startup screen.
func (m Model) renderStartupScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	successStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	connectingStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	failedStyle := lipgloss.NewStyle().Foreground(ColorDanger)

	var sb strings.Builder

	sb.WriteString("\n\n")
	sb.WriteString(titleStyle.Render("  Aura Yield"))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render("  Starting up..."))
	sb.WriteString("\n\n")

	for _, k := range startupOrder {
		step, ok := m.startupSteps[k]
		if !ok {
			continue
		}

		var icon, statusText string
		var style lipgloss.Style

		switch step.Status {
		case "connected", "done":
			icon, statusText, style = "✓", "Ready", successStyle
		case "connecting":
			spinners := []string{"◐", "◓", "◑", "◒"}
			idx := int(time.Since(m.startupTime).Milliseconds()/200) % len(spinners)
			icon, statusText, style = spinners[idx], "Connecting...", connectingStyle
		case "failed":
			icon, statusText, style = "✗", "Failed", failedStyle
		default:
			icon, statusText, style = "○", "Pending", MutedValue
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			style.Render(icon),
			MutedValue.Render(step.Name),
			style.Render(statusText),
		))
	}

	sb.WriteString("\n")
	elapsed := time.Since(m.startupTime).Round(time.Second)
	sb.WriteString(MutedValue.Render(fmt.Sprintf("  Elapsed: %s", elapsed)))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("  Waiting for the first yield cycle..."))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Block: #%d", m.currentBlock))
	parts = append(parts, m.status.View())

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// OnRefresh is called when the user asks for an immediate recomputation.
var OnRefresh func()

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
