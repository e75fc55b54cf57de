package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestPGHandlerEntryColumns(t *testing.T) {
	h := (&PGHandler{}).WithAttrs([]slog.Attr{slog.String("event", "story_liked")}).(*PGHandler)

	rec := slog.NewRecord(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), slog.LevelError, "achievement evaluation failed", 0)
	rec.AddAttrs(
		slog.String("user_id", "0b7c"),
		slog.String("metric", "likes_given"),
		slog.String("error", "connection refused"),
		slog.Float64("latency_ms", 12.6),
		slog.Int("attempt", 2),
	)

	entry := h.entry(rec)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "story_liked", entry.Action)
	assert.Equal(t, "likes_given", entry.Metric)
	assert.Equal(t, "connection refused", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "0b7c", *entry.UserID)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, float64(2), extra["attempt"])
}

func TestPGHandlerOnlyTakesErrors(t *testing.T) {
	h := &PGHandler{}
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPGHandlerFlushesOnStop(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO "system_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("7f1e3c56-3b38-4c57-9a51-4f0c37f5d0a1"))

	h := NewPGHandler(db, time.Hour)
	logger := slog.New(h)
	logger.Error("grant insert failed", "metric", "game_plays")
	logger.Info("ignored")
	h.Stop()

	assert.NoError(t, mock.ExpectationsWereMet())
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	m := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(m).With("action", "grant")

	logger.Info("granted")
	logger.Error("failed")

	assert.Equal(t, 2, bytes.Count(info.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errs.Bytes(), []byte("\n")))
	assert.Contains(t, errs.String(), `"action":"grant"`)
}

func TestMultiHandlerKeepsGoingAfterFailure(t *testing.T) {
	var out bytes.Buffer
	m := NewMultiHandler(failingHandler{}, slog.NewJSONHandler(&out, nil))

	rec := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	err := m.Handle(context.Background(), rec)

	assert.Error(t, err)
	assert.Contains(t, out.String(), "boom")
}

func TestRetentionPurge(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM "system_logs" WHERE timestamp < \$1`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted := NewRetention(db, 7).Purge(context.Background())
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetentionDefaultsToThirtyDays(t *testing.T) {
	db, _ := newMockDB(t)
	assert.Equal(t, 30, NewRetention(db, 0).days)
}
