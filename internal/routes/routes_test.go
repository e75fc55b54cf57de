package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/achievements"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/trust"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "route-test-secret"

type testServer struct {
	app       *fiber.App
	mock      sqlmock.Sqlmock
	engine    *achievements.Engine
	collector *metrics.Collector
}

func newTestServer(t *testing.T, adminIDs string) *testServer {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cfg := &config.Config{JWTSecret: testSecret, AdminUserIDs: adminIDs, CORSOrigins: "*"}
	collector := metrics.NewCollector("")
	activity := repository.NewActivityRepository(db)
	engine := achievements.NewEngine(achievements.DefaultCatalog(), achievements.NewMetricRegistry(),
		activity, repository.NewGrantRepository(db), achievements.Options{Recorder: collector})
	calc := trust.NewCalculator(trust.MustTable(trust.DefaultTiers), activity, time.Second, nil, collector)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	Setup(app, cfg, db, Handlers{
		Health:       handlers.NewHealthHandler(db, engine.Catalog().Version()),
		Achievements: handlers.NewAchievementHandler(engine),
		Progress:     handlers.NewProgressHandler(engine, calc),
		Requests:     handlers.NewRequestHandler(services.NewRequestService(db, calc, engine)),
		Social:       handlers.NewSocialHandler(services.NewSocialService(db, engine)),
		Activity:     handlers.NewActivityHandler(services.NewActivityService(db, engine)),
		Metrics:      collector.Handler(),
	})
	return &testServer{app: app, mock: mock, engine: engine, collector: collector}
}

func token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "member@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(t *testing.T, method, path, bearer, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func (s *testServer) expectUserSync() {
	s.mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t, "")
	resp, body := s.do(t, "GET", "/api/health", "", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, achievements.CatalogVersion, health.CatalogVersion)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t, "")
	for _, path := range []string{"/api/achievements", "/api/achievements/me", "/api/trust/me"} {
		resp, _ := s.do(t, "GET", path, "", "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestTrustMeFallsBackWhenCountFails(t *testing.T) {
	s := newTestServer(t, "")
	user := uuid.New()
	s.expectUserSync()
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "help_requests"`).WillReturnError(errors.New("db unavailable"))

	resp, body := s.do(t, "GET", "/api/trust/me", token(t, user), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap trust.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.True(t, snap.Degraded)
	assert.Equal(t, 1, snap.TrustLevel)
	assert.Equal(t, trust.Limits{Min: 100, Max: 1000}, snap.Limits)
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestTrustMeUsesEffectiveCount(t *testing.T) {
	s := newTestServer(t, "")
	s.expectUserSync()
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "help_requests" WHERE \(user_id = \$1 AND status = \$2 AND counts_toward_trust = \$3\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	resp, body := s.do(t, "GET", "/api/trust/me", token(t, uuid.New()), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var snap trust.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.False(t, snap.Degraded)
	assert.Equal(t, 2, snap.TrustLevel)
	require.NotNil(t, snap.NextTierRequiredCount)
	assert.Equal(t, 10, *snap.NextTierRequiredCount)
}

func TestAchievementSummary(t *testing.T) {
	s := newTestServer(t, "")
	user := uuid.New()
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	s.expectUserSync()
	s.mock.ExpectQuery(`SELECT \* FROM "user_achievements"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "achievement_slug", "unlocked_at", "granted_by"}).
			AddRow(user.String(), "first_application", at, nil).
			AddRow(user.String(), "slug_from_older_catalog", at, nil))

	resp, body := s.do(t, "GET", "/api/achievements/me", token(t, user), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary dto.AchievementSummaryResponse
	require.NoError(t, json.Unmarshal(body, &summary))
	require.Len(t, summary.Unlocked, 1)
	assert.Equal(t, "first_application", summary.Unlocked[0].Slug)
	assert.Greater(t, summary.CompletionPercent, 0.0)
}

func TestCatalogHidesLockedHidden(t *testing.T) {
	s := newTestServer(t, "")
	s.expectUserSync()
	s.mock.ExpectQuery(`SELECT "achievement_slug" FROM "user_achievements"`).
		WillReturnRows(sqlmock.NewRows([]string{"achievement_slug"}))

	resp, body := s.do(t, "GET", "/api/achievements", token(t, uuid.New()), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var catalog dto.CatalogResponse
	require.NoError(t, json.Unmarshal(body, &catalog))
	assert.Equal(t, achievements.CatalogVersion, catalog.Version)
	for _, a := range catalog.Achievements {
		assert.False(t, a.IsHidden, a.Slug)
	}
}

func TestProfileRejectsBadID(t *testing.T) {
	s := newTestServer(t, "")
	s.expectUserSync()

	resp, body := s.do(t, "GET", "/api/profile/not-a-uuid/progress", token(t, uuid.New()), "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"error":true`)
}

func TestAdminGrantRequiresAdmin(t *testing.T) {
	s := newTestServer(t, "")
	s.mock.ExpectQuery(`SELECT "role" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("user"))

	resp, _ := s.do(t, "POST", "/api/admin/achievements/grant", token(t, uuid.New()),
		`{"user_id":"`+uuid.NewString()+`","slug":"early_adopter"}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminGrantValidatesSlug(t *testing.T) {
	admin := uuid.New()
	s := newTestServer(t, admin.String())

	tests := []struct {
		slug string
		want int
	}{
		{"no_such_badge", fiber.StatusNotFound},
		{achievements.MetaSlug, fiber.StatusUnprocessableEntity},
		{"winter_helper", fiber.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		resp, _ := s.do(t, "POST", "/api/admin/achievements/grant", token(t, admin),
			`{"user_id":"`+uuid.NewString()+`","slug":"`+tt.slug+`"}`)
		assert.Equal(t, tt.want, resp.StatusCode, tt.slug)
	}
}

func TestCreateRequestOutsideLimits(t *testing.T) {
	s := newTestServer(t, "")
	s.expectUserSync()
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "help_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	resp, body := s.do(t, "POST", "/api/requests", token(t, uuid.New()), `{"title":"Rent","amount":5000}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "100-1000")
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, "")
	s.collector.GrantCreated("first_game")

	resp, body := s.do(t, "GET", "/api/metrics", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `mutualaid_achievements_grants_total{slug="first_game"} 1`)
}
