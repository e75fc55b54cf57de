package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository answers activity counter queries over the platform tables.
type ActivityRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db, now: time.Now}
}

func (r *ActivityRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return n > 0, nil
}

func (r *ActivityRepository) GetCreatedRequestCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, &models.HelpRequest{}, "created requests", "user_id = ?", userID)
}

// GetApprovedRequestCount counts approved requests. With onlyCountingTowardTrust the
// requests an administrator excluded from trust are left out.
func (r *ActivityRepository) GetApprovedRequestCount(ctx context.Context, userID uuid.UUID, onlyCountingTowardTrust bool) (int, error) {
	if onlyCountingTowardTrust {
		return r.count(ctx, &models.HelpRequest{}, "trusted approvals",
			"user_id = ? AND status = ? AND counts_toward_trust = ?", userID, models.RequestStatusApproved, true)
	}
	return r.count(ctx, &models.HelpRequest{}, "approved requests",
		"user_id = ? AND status = ?", userID, models.RequestStatusApproved)
}

func (r *ActivityRepository) GetLikesGivenCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, &models.StoryLike{}, "likes given", "user_id = ?", userID)
}

func (r *ActivityRepository) GetMaxLikesOnSingleAuthoredItem(ctx context.Context, userID uuid.UUID) (int, error) {
	var max int64
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("author_id = ?", userID).
		Select("COALESCE(MAX(like_count), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("count max likes: %w", err)
	}
	return int(max), nil
}

func (r *ActivityRepository) GetAcceptedFriendCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, &models.Friendship{}, "accepted friends",
		"(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, models.FriendshipAccepted)
}

func (r *ActivityRepository) GetConsecutiveLoginDays(ctx context.Context, userID uuid.UUID) (int, error) {
	var days []time.Time
	err := r.db.WithContext(ctx).Model(&models.LoginDay{}).
		Where("user_id = ?", userID).
		Order("day DESC").
		Pluck("day", &days).Error
	if err != nil {
		return 0, fmt.Errorf("load login days: %w", err)
	}
	return ConsecutiveDays(days, r.now()), nil
}

func (r *ActivityRepository) GetGamePlayCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, &models.GamePlay{}, "game plays", "user_id = ?", userID)
}

func (r *ActivityRepository) count(ctx context.Context, model interface{}, what string, query string, args ...interface{}) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", what, err)
	}
	return int(n), nil
}

// ConsecutiveDays returns the length of the run of consecutive UTC days ending at
// the most recent entry of days. A run whose last day is before yesterday is broken
// and counts as 0. Duplicates and ordering of days do not matter.
func ConsecutiveDays(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}
	seen := make(map[time.Time]struct{}, len(days))
	latest := truncateDay(days[0])
	for _, d := range days {
		day := truncateDay(d)
		seen[day] = struct{}{}
		if day.After(latest) {
			latest = day
		}
	}

	today := truncateDay(now)
	if latest.Before(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 0
	for day := latest; ; day = day.AddDate(0, 0, -1) {
		if _, ok := seen[day]; !ok {
			break
		}
		streak++
	}
	return streak
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
