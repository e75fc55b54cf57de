package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Retention deletes system_logs older than a fixed number of days once a day (UTC).
type Retention struct {
	cron *cron.Cron
	db   *gorm.DB
	days int
}

func NewRetention(db *gorm.DB, days int) *Retention {
	if days <= 0 {
		days = 30
	}
	return &Retention{
		cron: cron.New(cron.WithLocation(time.UTC)),
		db:   db,
		days: days,
	}
}

func (r *Retention) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc("15 3 * * *", func() { r.Purge(ctx) }); err != nil {
		return err
	}
	r.cron.Start()
	slog.Info("log retention scheduled", "retention_days", r.days)
	return nil
}

// Purge removes expired rows and returns how many were deleted.
func (r *Retention) Purge(ctx context.Context) int64 {
	cutoff := time.Now().UTC().AddDate(0, 0, -r.days)
	result := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "action", "log_retention", "error", result.Error.Error())
		return 0
	}
	if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
	return result.RowsAffected
}

func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}
