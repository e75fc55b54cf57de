package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSyncApp(t *testing.T, claims jwt.MapClaims) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: claims})
		return c.Next()
	})
	app.Use(SyncUser(db))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app, mock
}

func get(t *testing.T, app *fiber.App) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestSyncUserInsertsOncePerProcess(t *testing.T) {
	user := uuid.New()
	app, mock := newSyncApp(t, jwt.MapClaims{"sub": user.String(), "email": "a@example.com"})

	mock.ExpectQuery(`INSERT INTO "users" .* ON CONFLICT \("id"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	get(t, app)
	get(t, app)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncUserFallsBackWhenEmailTaken(t *testing.T) {
	user := uuid.New()
	app, mock := newSyncApp(t, jwt.MapClaims{"sub": user.String(), "email": "taken@example.com"})

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	get(t, app)
	get(t, app)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncUserRetriesAfterFailure(t *testing.T) {
	user := uuid.New()
	app, mock := newSyncApp(t, jwt.MapClaims{"sub": user.String()})

	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(assert.AnError)
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	get(t, app)
	get(t, app)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncedUsersResetWhenFull(t *testing.T) {
	s := &syncedUsers{ids: make(map[uuid.UUID]struct{}), max: 2}
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	s.add(a)
	s.add(b)
	s.add(c)
	assert.False(t, s.has(a))
	assert.True(t, s.has(c))
}
