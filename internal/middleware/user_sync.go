package middleware

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxSyncedUsers = 10000

// syncedUsers remembers ids that already have a users row. It is cleared when full.
type syncedUsers struct {
	mu  sync.Mutex
	ids map[uuid.UUID]struct{}
	max int
}

func (s *syncedUsers) has(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *syncedUsers) add(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) >= s.max {
		s.ids = make(map[uuid.UUID]struct{})
	}
	s.ids[id] = struct{}{}
}

// SyncUser makes sure the authenticated caller has a users row, creating it from
// the token's sub/email/name claims the first time the id is seen by this process.
// Must run after JWTProtected.
func SyncUser(db *gorm.DB) fiber.Handler {
	seen := &syncedUsers{ids: make(map[uuid.UUID]struct{}), max: maxSyncedUsers}

	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return c.Next()
		}
		if seen.has(userID) {
			return c.Next()
		}

		mc, _ := claims(c)
		email, _ := mc["email"].(string)
		name, _ := mc["name"].(string)
		placeholder := userID.String() + "@users.invalid"
		if email == "" {
			email = placeholder
		}

		user := models.User{ID: userID, Email: email, DisplayName: name, Role: "user"}
		err = insertUser(db.WithContext(c.UserContext()), &user)
		if errors.Is(err, gorm.ErrDuplicatedKey) && user.Email != placeholder {
			// the email claim already belongs to another id
			slog.Warn("user email taken, using placeholder", "user_id", userID.String())
			user.Email = placeholder
			err = insertUser(db.WithContext(c.UserContext()), &user)
		}
		if err != nil {
			slog.Warn("user sync failed", "user_id", userID.String(), "error", err.Error())
			return c.Next()
		}
		seen.add(userID)
		return c.Next()
	}
}

func insertUser(db *gorm.DB, user *models.User) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(user).Error
}
