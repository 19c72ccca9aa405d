package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/chronohq/attendance-engine-go/internal/domain/leave"
)

// RegisterAccrualJob schedules the monthly leave accrual check. The job runs
// frequently but only the first run inside a calendar month performs the
// accrual; the ledger claims each period exactly once, so overlapping runs
// and multi-instance deployments are safe.
func RegisterAccrualJob(s *Scheduler, ledger leave.LedgerService, interval time.Duration) {
	s.AddJob("leave-accrual", interval, func(ctx context.Context) error {
		period := time.Now().UTC().Format("2006-01")

		count, err := ledger.Accrue(ctx, period)
		if err != nil {
			return err
		}

		if count > 0 {
			slog.Info("Leave accrual applied", "period", period, "balances", count)
		}
		return nil
	})
}
