package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

type Friendship struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequesterID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_friendships_pair,priority:1" json:"requester_id"`
	AddresseeID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_friendships_pair,priority:2;index" json:"addressee_id"`
	Status      string     `gorm:"not null;default:'pending';size:20" json:"status"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
