package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/trust"
	"github.com/google/uuid"
)

// AchievementEvents receives domain events after they are committed.
// Implementations must return immediately and never report failure to the caller.
type AchievementEvents interface {
	OnApplicationCreated(userID uuid.UUID)
	OnApplicationApproved(userID uuid.UUID)
	OnStoryLiked(likerID, storyAuthorID uuid.UUID)
	OnFriendAccepted(userIDA, userIDB uuid.UUID)
	OnLoginRecorded(userID uuid.UUID)
	OnGamePlayed(userID uuid.UUID)
}

// AmountValidator checks a requested amount against the user's trust limits.
type AmountValidator interface {
	ValidateAmount(ctx context.Context, userID uuid.UUID, amount int64) (trust.Snapshot, error)
}
