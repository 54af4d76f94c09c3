package worker

import (
	"context"
	"focusFlow/internal/logger"
	"time"

	"go.uber.org/zap"
)

const DefaultInterval = time.Second

// Ticker - то, что умеет начислить время за один тик
type Ticker interface {
	Tick(ctx context.Context) bool
}

// TickWorker - единственный источник тиков: одна горутина, тики не перекрываются
type TickWorker struct {
	target   Ticker
	interval time.Duration
}

func NewTickWorker(target Ticker, interval *time.Duration) *TickWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = DefaultInterval
	} else {
		intervalToSet = *interval
	}

	return &TickWorker{
		target:   target,
		interval: intervalToSet,
	}
}

func (w *TickWorker) Interval() time.Duration {
	return w.interval
}

func (w *TickWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Таймер запущен", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Таймер останавливается")
			return
		}
	}
}

func (w *TickWorker) Check(ctx context.Context) {
	start := time.Now()
	changed := w.target.Tick(ctx)

	if duration := time.Since(start); duration > w.interval {
		logger.Warn("Worker: Тик дольше интервала", zap.Duration("ms", duration))
	}
	if changed {
		logger.Debug("Worker: Время начислено", zap.Duration("ms", time.Since(start)))
	}
}
