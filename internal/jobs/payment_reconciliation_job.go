package jobs

import (
	"context"
	"log/slog"

	"dispensary/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReconciliationSchedule retries unresolved payment reversals once a
// minute. The handler bounds attempts per order, so the sweep itself can run
// frequently without flooding the gateway.
const DefaultReconciliationSchedule = "0 * * * * *"

// PaymentReconciliationJob periodically sweeps orders whose payment reversal
// outcome is unknown and retries the reversal.
type PaymentReconciliationJob struct {
	handler  commands.ReconcilePaymentsCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewPaymentReconciliationJob creates the reconciliation job. An empty
// schedule falls back to DefaultReconciliationSchedule. The schedule uses
// the six-field cron format with seconds.
func NewPaymentReconciliationJob(
	handler commands.ReconcilePaymentsCommandHandler,
	schedule string,
	logger *slog.Logger,
) *PaymentReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconciliationSchedule
	}

	return &PaymentReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "payment_reconciliation_job"),
	}
}

// Start schedules the reconciliation sweep.
func (j *PaymentReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewReconcilePaymentsCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build reconciliation command", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Payment reconciliation sweep failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job started",
		"schedule", j.schedule)
	return nil
}

// Stop stops the reconciliation job.
func (j *PaymentReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job stopped")
}
