package achievements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUnknownMetric       = errors.New("unknown metric")
	ErrUnknownAchievement  = errors.New("unknown achievement")
	ErrAchievementInactive = errors.New("achievement is not active")
	ErrMetaNotGrantable    = errors.New("meta achievement cannot be granted manually")
)

// IsInputError reports whether err is a caller mistake that must not be retried.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrUnknownMetric) ||
		errors.Is(err, ErrUnknownAchievement) ||
		errors.Is(err, ErrAchievementInactive) ||
		errors.Is(err, ErrMetaNotGrantable)
}

// ActivitySource answers counter queries for the metric registry.
// Counts for a user that does not exist are not errors; UserExists is checked first.
type ActivitySource interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	GetCreatedRequestCount(ctx context.Context, userID uuid.UUID) (int, error)
	GetApprovedRequestCount(ctx context.Context, userID uuid.UUID, onlyCountingTowardTrust bool) (int, error)
	GetLikesGivenCount(ctx context.Context, userID uuid.UUID) (int, error)
	GetMaxLikesOnSingleAuthoredItem(ctx context.Context, userID uuid.UUID) (int, error)
	GetAcceptedFriendCount(ctx context.Context, userID uuid.UUID) (int, error)
	GetConsecutiveLoginDays(ctx context.Context, userID uuid.UUID) (int, error)
	GetGamePlayCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// Grant is a persisted unlock.
type Grant struct {
	UserID     uuid.UUID
	Slug       string
	UnlockedAt time.Time
	GrantedBy  *uuid.UUID
}

// GrantStore persists grants. InsertGrantIfAbsent must be a single atomic
// insert that ignores a (user, slug) conflict and reports whether a row was created.
type GrantStore interface {
	InsertGrantIfAbsent(ctx context.Context, userID uuid.UUID, slug string, grantedBy *uuid.UUID) (bool, error)
	ListGrantedSlugs(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
	ListGrants(ctx context.Context, userID uuid.UUID) ([]Grant, error)
}

// Notifier is told about newly granted achievements. Delivery is out of band.
type Notifier interface {
	AchievementsUnlocked(ctx context.Context, userID uuid.UUID, slugs []string)
}

// Recorder receives engine telemetry. A nil Recorder is allowed.
type Recorder interface {
	GrantCreated(slug string)
	Evaluation(metric string, outcome string, took time.Duration)
}
