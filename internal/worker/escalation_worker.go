package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/service"
)

// EscalationWorker periodically runs the overdue-complaint sweep.
type EscalationWorker struct {
	escalations *service.EscalationService
	metrics     *observability.Metrics
	interval    time.Duration
	logger      *zap.Logger
}

// NewEscalationWorker constructs the worker.
func NewEscalationWorker(escalations *service.EscalationService, metrics *observability.Metrics, interval time.Duration, logger *zap.Logger) *EscalationWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &EscalationWorker{
		escalations: escalations,
		metrics:     metrics,
		interval:    interval,
		logger:      logger,
	}
}

// Start runs the sweep loop until the context is cancelled. One sweep fires
// immediately so a restart does not delay overdue escalations by a full
// interval.
func (w *EscalationWorker) Start(ctx context.Context) {
	go func() {
		w.runOnce(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("escalation worker stopped")
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

func (w *EscalationWorker) runOnce(ctx context.Context) {
	escalated, err := w.escalations.Sweep(ctx)
	if err != nil {
		w.logger.Error("escalation sweep failed", zap.Error(err))
		return
	}
	w.metrics.RecordSweep(escalated)
}
