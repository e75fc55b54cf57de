package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// HelpRequest is a member's application for support.
// CountsTowardTrust is cleared by an administrator to keep an approval out of the trust tiers.
type HelpRequest struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index:idx_help_requests_user_status,priority:1" json:"user_id"`
	Title             string         `gorm:"not null;size:200" json:"title"`
	Description       string         `gorm:"type:text" json:"description"`
	Amount            int64          `gorm:"not null" json:"amount"`
	Status            string         `gorm:"not null;default:'pending';size:20;index:idx_help_requests_user_status,priority:2" json:"status"`
	CountsTowardTrust bool           `gorm:"not null;default:true" json:"counts_toward_trust"`
	TrustNote         string         `gorm:"size:500" json:"trust_note,omitempty"`
	ReviewedBy        *uuid.UUID     `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}
