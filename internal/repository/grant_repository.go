package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/achievements"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantRepository stores achievement grants in user_achievements.
type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

// InsertGrantIfAbsent relies on the (user_id, achievement_slug) primary key:
// a conflicting insert affects no rows and reports false.
func (r *GrantRepository) InsertGrantIfAbsent(ctx context.Context, userID uuid.UUID, slug string, grantedBy *uuid.UUID) (bool, error) {
	row := models.UserAchievement{
		UserID:          userID,
		AchievementSlug: slug,
		UnlockedAt:      time.Now().UTC(),
		GrantedBy:       grantedBy,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_slug"}},
			DoNothing: true,
		}).
		Create(&row)
	if result.Error != nil {
		return false, fmt.Errorf("insert grant %s: %w", slug, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *GrantRepository) ListGrantedSlugs(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	var slugs []string
	err := r.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_slug", &slugs).Error
	if err != nil {
		return nil, fmt.Errorf("list granted slugs: %w", err)
	}
	set := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		set[s] = struct{}{}
	}
	return set, nil
}

func (r *GrantRepository) ListGrants(ctx context.Context, userID uuid.UUID) ([]achievements.Grant, error) {
	var rows []models.UserAchievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	grants := make([]achievements.Grant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, achievements.Grant{
			UserID:     row.UserID,
			Slug:       row.AchievementSlug,
			UnlockedAt: row.UnlockedAt,
			GrantedBy:  row.GrantedBy,
		})
	}
	return grants, nil
}

var (
	_ achievements.ActivitySource = (*ActivityRepository)(nil)
	_ achievements.GrantStore     = (*GrantRepository)(nil)
)
