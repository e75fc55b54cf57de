package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/achievements"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/trust"
	"github.com/google/uuid"
)

type AchievementResponse struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Metric      string `json:"metric,omitempty"`
	Threshold   int    `json:"threshold,omitempty"`
	Rarity      string `json:"rarity"`
	IsExclusive bool   `json:"is_exclusive"`
	IsHidden    bool   `json:"is_hidden"`
	IsSeasonal  bool   `json:"is_seasonal"`
}

type CatalogResponse struct {
	Version      int                   `json:"version"`
	Achievements []AchievementResponse `json:"achievements"`
}

type UnlockedAchievementResponse struct {
	AchievementResponse
	UnlockedAt time.Time  `json:"unlocked_at"`
	GrantedBy  *uuid.UUID `json:"granted_by,omitempty"`
}

type AchievementSummaryResponse struct {
	CatalogVersion    int                           `json:"catalog_version"`
	Unlocked          []UnlockedAchievementResponse `json:"unlocked"`
	TotalActive       int                           `json:"total_active"`
	CompletionPercent float64                       `json:"completion_percent"`
}

// ProfileProgressResponse combines trust and achievements for one user.
type ProfileProgressResponse struct {
	UserID       uuid.UUID                  `json:"user_id"`
	Trust        trust.Snapshot             `json:"trust"`
	Achievements AchievementSummaryResponse `json:"achievements"`
}

type GrantAchievementRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Slug   string    `json:"slug"`
}

type GrantAchievementResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Slug    string    `json:"slug"`
	Created bool      `json:"created"`
}

func NewAchievementResponse(d achievements.Definition) AchievementResponse {
	return AchievementResponse{
		Slug:        d.Slug,
		Name:        d.Name,
		Description: d.Description,
		Kind:        string(d.Kind),
		Category:    string(d.Category),
		Metric:      string(d.Metric),
		Threshold:   d.Threshold,
		Rarity:      d.Rarity.String(),
		IsExclusive: d.IsExclusive,
		IsHidden:    d.IsHidden,
		IsSeasonal:  d.IsSeasonal,
	}
}

func NewAchievementSummaryResponse(s *achievements.Summary) AchievementSummaryResponse {
	out := AchievementSummaryResponse{
		CatalogVersion:    s.CatalogVersion,
		Unlocked:          make([]UnlockedAchievementResponse, 0, len(s.Granted)),
		TotalActive:       s.TotalActive,
		CompletionPercent: s.CompletionPercent,
	}
	for _, g := range s.Granted {
		out.Unlocked = append(out.Unlocked, UnlockedAchievementResponse{
			AchievementResponse: NewAchievementResponse(g.Definition),
			UnlockedAt:          g.UnlockedAt,
			GrantedBy:           g.GrantedBy,
		})
	}
	return out
}
