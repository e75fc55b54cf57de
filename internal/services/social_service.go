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

var (
	ErrStoryNotFound         = errors.New("story not found")
	ErrInvalidStory          = errors.New("title is required")
	ErrSelfLike              = errors.New("cannot like your own story")
	ErrSelfFriend            = errors.New("cannot befriend yourself")
	ErrUserNotFound          = errors.New("user not found")
	ErrFriendshipExists      = errors.New("friend request already exists")
	ErrFriendRequestNotFound = errors.New("friend request not found")
)

type SocialService struct {
	db     *gorm.DB
	events AchievementEvents
}

func NewSocialService(db *gorm.DB, events AchievementEvents) *SocialService {
	return &SocialService{db: db, events: events}
}

func (s *SocialService) CreateStory(ctx context.Context, authorID uuid.UUID, title, body string) (*models.Story, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidStory
	}
	story := models.Story{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    title,
		Body:     strings.TrimSpace(body),
	}
	if err := s.db.WithContext(ctx).Create(&story).Error; err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return &story, nil
}

// LikeStory records one like per (story, user). A repeated like is a no-op and
// returns false.
func (s *SocialService) LikeStory(ctx context.Context, storyID, likerID uuid.UUID) (bool, error) {
	var story models.Story
	if err := s.db.WithContext(ctx).Where("id = ?", storyID).First(&story).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrStoryNotFound
		}
		return false, fmt.Errorf("failed to load story: %w", err)
	}
	if story.AuthorID == likerID {
		return false, ErrSelfLike
	}

	liked := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := models.StoryLike{StoryID: storyID, UserID: likerID, CreatedAt: time.Now().UTC()}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		liked = true
		return tx.Model(&models.Story{}).
			Where("id = ?", storyID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to like story: %w", err)
	}

	if liked {
		s.events.OnStoryLiked(likerID, story.AuthorID)
	}
	return liked, nil
}

func (s *SocialService) SendFriendRequest(ctx context.Context, requesterID, addresseeID uuid.UUID) (*models.Friendship, error) {
	if requesterID == addresseeID {
		return nil, ErrSelfFriend
	}

	var users int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", addresseeID).Count(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if users == 0 {
		return nil, ErrUserNotFound
	}

	var existing int64
	err := s.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			requesterID, addresseeID, addresseeID, requesterID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if existing > 0 {
		return nil, ErrFriendshipExists
	}

	f := models.Friendship{
		ID:          uuid.New(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipPending,
	}
	if err := s.db.WithContext(ctx).Create(&f).Error; err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}
	return &f, nil
}

// AcceptFriendRequest accepts the pending request requesterID sent to addresseeID.
func (s *SocialService) AcceptFriendRequest(ctx context.Context, addresseeID, requesterID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("requester_id = ? AND addressee_id = ? AND status = ?", requesterID, addresseeID, models.FriendshipPending).
		Updates(map[string]interface{}{
			"status":      models.FriendshipAccepted,
			"accepted_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to accept friend request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFriendRequestNotFound
	}

	s.events.OnFriendAccepted(requesterID, addresseeID)
	return nil
}
