package models

import (
	"time"

	"github.com/google/uuid"
)

// UserAchievement is an append-only grant. The composite primary key is the
// unique constraint concurrent grant attempts race on.
type UserAchievement struct {
	UserID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	AchievementSlug string     `gorm:"size:64;primaryKey" json:"achievement_slug"`
	UnlockedAt      time.Time  `gorm:"not null" json:"unlocked_at"`
	GrantedBy       *uuid.UUID `gorm:"type:uuid" json:"granted_by,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
