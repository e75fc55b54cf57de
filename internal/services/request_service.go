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
)

var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrRequestNotPending = errors.New("request has already been reviewed")
	ErrInvalidRequest    = errors.New("title is required")
)

type RequestService struct {
	db        *gorm.DB
	validator AmountValidator
	events    AchievementEvents
}

func NewRequestService(db *gorm.DB, validator AmountValidator, events AchievementEvents) *RequestService {
	return &RequestService{db: db, validator: validator, events: events}
}

// Create stores a pending request if the amount fits the user's trust limits.
func (s *RequestService) Create(ctx context.Context, userID uuid.UUID, title, description string, amount int64) (*models.HelpRequest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidRequest
	}
	if _, err := s.validator.ValidateAmount(ctx, userID, amount); err != nil {
		return nil, err
	}

	req := models.HelpRequest{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             title,
		Description:       strings.TrimSpace(description),
		Amount:            amount,
		Status:            models.RequestStatusPending,
		CountsTowardTrust: true,
	}
	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.events.OnApplicationCreated(userID)
	return &req, nil
}

func (s *RequestService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.HelpRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var reqs []models.HelpRequest
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return reqs, nil
}

func (s *RequestService) Approve(ctx context.Context, requestID, adminID uuid.UUID) (*models.HelpRequest, error) {
	req, err := s.review(ctx, requestID, adminID, models.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	s.events.OnApplicationApproved(req.UserID)
	return req, nil
}

func (s *RequestService) Reject(ctx context.Context, requestID, adminID uuid.UUID) (*models.HelpRequest, error) {
	return s.review(ctx, requestID, adminID, models.RequestStatusRejected)
}

// SetCountsTowardTrust includes or excludes an approval from the trust tiers.
// Achievement counters use every approval and are unaffected.
func (s *RequestService) SetCountsTowardTrust(ctx context.Context, requestID uuid.UUID, counts bool, note string) (*models.HelpRequest, error) {
	req, err := s.find(ctx, requestID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.HelpRequest{}).
		Where("id = ?", requestID).
		Updates(map[string]interface{}{
			"counts_toward_trust": counts,
			"trust_note":          strings.TrimSpace(note),
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	req.CountsTowardTrust = counts
	req.TrustNote = strings.TrimSpace(note)

	if counts && req.Status == models.RequestStatusApproved {
		s.events.OnApplicationApproved(req.UserID)
	}
	return req, nil
}

// review moves a pending request to status. The status guard in the UPDATE
// keeps two reviewers from both succeeding.
func (s *RequestService) review(ctx context.Context, requestID, adminID uuid.UUID, status string) (*models.HelpRequest, error) {
	req, err := s.find(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestStatusPending {
		return nil, ErrRequestNotPending
	}

	now := time.Now().UTC()
	result := s.db.WithContext(ctx).Model(&models.HelpRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": adminID,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to review request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRequestNotPending
	}

	req.Status = status
	req.ReviewedBy = &adminID
	req.ReviewedAt = &now
	return req, nil
}

func (s *RequestService) find(ctx context.Context, requestID uuid.UUID) (*models.HelpRequest, error) {
	var req models.HelpRequest
	if err := s.db.WithContext(ctx).Where("id = ?", requestID).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return &req, nil
}
