package routes

import (
	"net/http"
	"time"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Achievements *handlers.AchievementHandler
	Progress     *handlers.ProgressHandler
	Requests     *handlers.RequestHandler
	Social       *handlers.SocialHandler
	Activity     *handlers.ActivityHandler
	Metrics      http.Handler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)
	if h.Metrics != nil {
		api.Get("/metrics", adaptor.HTTPHandler(h.Metrics))
	}

	// JWT is applied per route so public routes stay public.
	jwt := middleware.JWTProtected(cfg)
	syncUser := middleware.SyncUser(db)
	protected := func(hs ...fiber.Handler) []fiber.Handler {
		return append([]fiber.Handler{jwt, syncUser}, hs...)
	}

	api.Get("/achievements", protected(h.Achievements.Catalog)...)
	api.Get("/achievements/me", protected(h.Achievements.Mine)...)
	api.Get("/trust/me", protected(h.Progress.TrustMe)...)
	api.Get("/profile/:id/progress", protected(h.Progress.Profile)...)

	api.Post("/requests", protected(h.Requests.Create)...)
	api.Get("/requests", protected(h.Requests.ListMine)...)

	api.Post("/stories", protected(h.Social.CreateStory)...)
	api.Post("/stories/:id/like", protected(h.Social.LikeStory)...)
	api.Post("/friends/:id", protected(h.Social.SendFriendRequest)...)
	api.Post("/friends/:id/accept", protected(h.Social.AcceptFriendRequest)...)

	// Activity writes: 20 req/min per user
	activityLimit := limiter.New(limiter.Config{
		Max:               20,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			if id, err := middleware.UserID(c); err == nil {
				return id.String()
			}
			return c.IP()
		},
	})
	api.Post("/activity/login", protected(activityLimit, h.Activity.RecordLogin)...)
	api.Post("/activity/games", protected(activityLimit, h.Activity.RecordGame)...)

	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Put("/requests/:id/approve", h.Requests.Approve)
	admin.Put("/requests/:id/reject", h.Requests.Reject)
	admin.Put("/requests/:id/trust", h.Requests.SetTrust)
	admin.Post("/achievements/grant", h.Achievements.Grant)
}
