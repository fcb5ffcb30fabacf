package service

import (
	"context"
	"time"

	"taskboard/internal/logger"

	"go.uber.org/zap"
)

const (
	StatusOK    = "ok"
	StatusError = "error"

	DatabaseConnected = "connected"
	DatabaseError     = "error"

	CacheConnected   = "connected"
	CacheUnavailable = "unavailable"
)

// формат Date.toISOString, его ждёт дашборд
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type HealthChecker interface {
	HealthCheck(context.Context) error
}

type Pinger interface {
	Ping(context.Context) error
}

type AdminLinks struct {
	PgAdminURL      string
	RedisInsightURL string
}

type HealthReport struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	Database        string `json:"database"`
	Redis           string `json:"redis"`
	PgAdminURL      string `json:"pgadmin_url,omitempty"`
	RedisInsightURL string `json:"redisinsight_url,omitempty"`
}

// Healthy: состояние сервиса определяет только база, кэш необязателен.
func (r HealthReport) Healthy() bool {
	return r.Database == DatabaseConnected
}

type HealthReporter struct {
	db    HealthChecker
	cache Pinger
	links AdminLinks
	now   func() time.Time
}

// NewHealthReporter: cache может быть nil, тогда он всегда unavailable.
func NewHealthReporter(db HealthChecker, cache Pinger, links AdminLinks) *HealthReporter {
	return &HealthReporter{
		db:    db,
		cache: cache,
		links: links,
		now:   time.Now,
	}
}

// Report делает по одной синхронной проверке без повторов.
func (h *HealthReporter) Report(ctx context.Context) HealthReport {
	report := HealthReport{
		Timestamp:       h.now().UTC().Format(timestampLayout),
		Database:        DatabaseConnected,
		Redis:           CacheConnected,
		PgAdminURL:      h.links.PgAdminURL,
		RedisInsightURL: h.links.RedisInsightURL,
	}

	if err := h.db.HealthCheck(ctx); err != nil {
		logger.Warn("Service: База данных недоступна", zap.Error(err))
		report.Database = DatabaseError
	}

	if h.cache == nil {
		report.Redis = CacheUnavailable
	} else if err := h.cache.Ping(ctx); err != nil {
		logger.Warn("Service: Кэш недоступен", zap.Error(err))
		report.Redis = CacheUnavailable
	}

	report.Status = StatusOK
	if !report.Healthy() {
		report.Status = StatusError
	}

	return report
}
