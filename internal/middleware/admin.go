package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRequired admits a caller that presents the admin token, is listed in
// ADMIN_EMAILS / ADMIN_USER_IDS, or has the admin role. The admin's id, when
// known, is stored in Locals("admin_id") for audit columns.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		mc, hasClaims := claims(c)
		sub, _ := mc["sub"].(string)
		email, _ := mc["email"].(string)
		if id, err := uuid.Parse(sub); err == nil {
			c.Locals("admin_id", id)
		}

		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		if !hasClaims {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, email) || contains(adminUserIDs, sub) {
			return c.Next()
		}

		if userID, err := uuid.Parse(sub); err == nil {
			var user models.User
			if err := db.WithContext(c.UserContext()).Select("role").First(&user, "id = ?", userID).Error; err == nil {
				if user.Role == "admin" {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// AdminID returns the acting administrator, or uuid.Nil for token-only access.
func AdminID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals("admin_id").(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	if val == "" {
		return false
	}
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
