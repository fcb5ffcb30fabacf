package worker

import (
	"context"
	"time"

	"taskboard/internal/logger"
	"taskboard/internal/service"

	"go.uber.org/zap"
)

const DefaultWatchInterval = 30 * time.Second

type Reporter interface {
	Report(context.Context) service.HealthReport
}

// HealthWatcher периодически опрашивает зависимости и пишет в лог только
// смену состояния базы или кэша.
type HealthWatcher struct {
	reporter Reporter
	interval time.Duration

	last *service.HealthReport
}

func NewHealthWatcher(reporter Reporter, interval *time.Duration) *HealthWatcher {
	intervalToSet := DefaultWatchInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	return &HealthWatcher{
		reporter: reporter,
		interval: intervalToSet,
	}
}

// Start блокируется до отмены ctx.
func (w *HealthWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка зависимостей останавливается")
			return
		}
	}
}

// Check делает одну проверку и возвращает true, если состояние изменилось.
func (w *HealthWatcher) Check(ctx context.Context) bool {
	start := time.Now()
	report := w.reporter.Report(ctx)

	changed := w.last == nil ||
		w.last.Database != report.Database ||
		w.last.Redis != report.Redis
	w.last = &report

	if !changed {
		logger.Debug("Worker: Состояние зависимостей не изменилось",
			zap.Duration("ms", time.Since(start)))
		return false
	}

	fields := []zap.Field{
		zap.String("database", report.Database),
		zap.String("redis", report.Redis),
		zap.Duration("ms", time.Since(start)),
	}
	if report.Healthy() {
		logger.Info("Worker: Состояние зависимостей изменилось", fields...)
	} else {
		logger.Warn("Worker: Состояние зависимостей изменилось", fields...)
	}
	return true
}
