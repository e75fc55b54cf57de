package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidGame = errors.New("game is required")

type ActivityService struct {
	db     *gorm.DB
	events AchievementEvents
	now    func() time.Time
}

func NewActivityService(db *gorm.DB, events AchievementEvents) *ActivityService {
	return &ActivityService{db: db, events: events, now: time.Now}
}

// RecordLogin marks today (UTC) as a login day. It returns false when today was
// already recorded.
func (s *ActivityService) RecordLogin(ctx context.Context, userID uuid.UUID) (bool, error) {
	now := s.now().UTC()
	day := models.LoginDay{
		UserID: userID,
		Day:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&day)
	if result.Error != nil {
		return false, fmt.Errorf("failed to record login: %w", result.Error)
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login_at", now).Error; err != nil {
		return false, fmt.Errorf("failed to update last login: %w", err)
	}

	if result.RowsAffected == 0 {
		return false, nil
	}
	s.events.OnLoginRecorded(userID)
	return true, nil
}

func (s *ActivityService) RecordGamePlay(ctx context.Context, userID uuid.UUID, game string, score int) (*models.GamePlay, error) {
	game = strings.TrimSpace(game)
	if game == "" {
		return nil, ErrInvalidGame
	}
	play := models.GamePlay{
		ID:       uuid.New(),
		UserID:   userID,
		Game:     game,
		Score:    score,
		PlayedAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&play).Error; err != nil {
		return nil, fmt.Errorf("failed to record game play: %w", err)
	}
	s.events.OnGamePlayed(userID)
	return &play, nil
}
