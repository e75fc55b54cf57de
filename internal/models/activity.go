package models

import (
	"time"

	"github.com/google/uuid"
)

// LoginDay records that a user logged in on a UTC calendar day.
type LoginDay struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Day    time.Time `gorm:"type:date;primaryKey" json:"day"`
}

type GamePlay struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Game     string    `gorm:"not null;size:50" json:"game"`
	Score    int       `json:"score"`
	PlayedAt time.Time `gorm:"not null" json:"played_at"`
}
