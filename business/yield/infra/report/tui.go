package report

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/pkg/ui"
)

// TUIReporter forwards cycles to the Bubble Tea dashboard.
type TUIReporter struct {
	send func(tea.Msg)
}

var _ app.Reporter = (*TUIReporter)(nil)

// NewTUIReporter creates a TUIReporter delivering through send, ui.Send when nil.
func NewTUIReporter(send func(tea.Msg)) *TUIReporter {
	if send == nil {
		send = ui.Send
	}
	return &TUIReporter{send: send}
}

// Start marks the runner step of the startup screen as done.
func (r *TUIReporter) Start(ctx context.Context) error {
	r.send(ui.StartupMsg{Step: "runner", Status: "done"})
	return nil
}

// Report sends the cycle to the dashboard.
func (r *TUIReporter) Report(ctx context.Context, cycle *domain.Cycle) {
	r.send(ui.CycleMsg{Cycle: cycle})
}

func (r *TUIReporter) Stop() error {
	return nil
}
