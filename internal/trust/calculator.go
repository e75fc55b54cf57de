// Package trust maps a user's effective approved-request count onto a trust
// tier and the request limits that tier allows.
package trust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var ErrAmountOutOfRange = errors.New("requested amount is outside your current limits")

// Snapshot is recomputed on every read. The progress fields are nil at the top tier.
type Snapshot struct {
	EffectiveApprovedCount int    `json:"effective_approved_count"`
	TrustLevel             int    `json:"trust_level"`
	Limits                 Limits `json:"limits"`
	NextTierRequiredCount  *int   `json:"next_tier_required_count"`
	ProgressCurrent        *int   `json:"progress_current"`
	ProgressTotal          *int   `json:"progress_total"`
	// Degraded is set when the count could not be read and the lowest tier was assumed.
	Degraded bool `json:"degraded"`
}

// ApprovedCounter is the single query the calculator needs.
type ApprovedCounter interface {
	GetApprovedRequestCount(ctx context.Context, userID uuid.UUID, onlyCountingTowardTrust bool) (int, error)
}

// FallbackRecorder is told whenever a degraded snapshot is served.
type FallbackRecorder interface {
	TrustFallback()
}

type Calculator struct {
	table    *Table
	counter  ApprovedCounter
	timeout  time.Duration
	logger   *slog.Logger
	recorder FallbackRecorder
}

func NewCalculator(table *Table, counter ApprovedCounter, timeout time.Duration, logger *slog.Logger, recorder FallbackRecorder) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Calculator{table: table, counter: counter, timeout: timeout, logger: logger, recorder: recorder}
}

// GetTrustSnapshot never fails. When the count cannot be fetched it returns the
// lowest tier with zero progress and Degraded set.
func (c *Calculator) GetTrustSnapshot(ctx context.Context, userID uuid.UUID) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	count, err := c.counter.GetApprovedRequestCount(ctx, userID, true)
	if err != nil {
		c.logger.WarnContext(ctx, "trust count unavailable, using lowest tier",
			"user_id", userID.String(), "action", "trust_snapshot", "error", err.Error())
		if c.recorder != nil {
			c.recorder.TrustFallback()
		}
		s := c.table.SnapshotFor(c.table.Lowest().Floor)
		s.Degraded = true
		return s
	}
	return c.table.SnapshotFor(count)
}

// ValidateAmount checks amount against the user's current limits.
func (c *Calculator) ValidateAmount(ctx context.Context, userID uuid.UUID, amount int64) (Snapshot, error) {
	s := c.GetTrustSnapshot(ctx, userID)
	if amount < s.Limits.Min || amount > s.Limits.Max {
		return s, fmt.Errorf("%w: %d-%d at level %d", ErrAmountOutOfRange, s.Limits.Min, s.Limits.Max, s.TrustLevel)
	}
	return s, nil
}
