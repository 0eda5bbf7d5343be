// Package scheduler triggers the monthly interest accrual in the background.
// The engine credits each account at most once per month, so the check can
// run far more often than monthly.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/domain/credential"
)

// InterestApplier runs one accrual pass
type InterestApplier interface {
	Apply(ctx context.Context, caller credential.Caller) (*banking.InterestRun, error)
}

type InterestScheduler struct {
	interest InterestApplier
	interval time.Duration
	logger   *slog.Logger
}

func NewInterestScheduler(interest InterestApplier, interval time.Duration, logger *slog.Logger) *InterestScheduler {
	return &InterestScheduler{
		interest: interest,
		interval: interval,
		logger:   logger,
	}
}

// Start runs one pass immediately, then one per interval until ctx is canceled
func (s *InterestScheduler) Start(ctx context.Context) {
	s.logger.Info("Starting interest scheduler", "interval", s.interval.String())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Interest scheduler stopping due to context cancellation.")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *InterestScheduler) runOnce(ctx context.Context) {
	run, err := s.interest.Apply(ctx, credential.Admin())
	if err != nil {
		s.logger.Error("Scheduled interest run failed", "error", err)
		return
	}
	if len(run.Applied) > 0 {
		s.logger.Info("Scheduled interest run credited accounts", "applied", len(run.Applied), "skipped", run.Skipped)
	}
}
