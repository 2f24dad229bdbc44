package report

import (
	"context"
	"errors"

	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/business/yield/domain"
)

// MultiReporter fans every call out to its reporters in order.
type MultiReporter struct {
	reporters []app.Reporter
}

var _ app.Reporter = (*MultiReporter)(nil)

// NewMultiReporter creates a new MultiReporter.
func NewMultiReporter(reporters ...app.Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

// Start starts every reporter, stopping at the first failure.
func (m *MultiReporter) Start(ctx context.Context) error {
	for _, r := range m.reporters {
		if err := r.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiReporter) Report(ctx context.Context, cycle *domain.Cycle) {
	for _, r := range m.reporters {
		r.Report(ctx, cycle)
	}
}

// Stop stops every reporter and joins their errors.
func (m *MultiReporter) Stop() error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
