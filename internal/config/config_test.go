package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_PASSWORD", "pw")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.AchievementTimeout)
	assert.Equal(t, 2*time.Second, cfg.TrustTimeout)
	assert.Equal(t, 30, cfg.LogRetentionDays)
	assert.Len(t, cfg.TrustTiers.Tiers(), 3)
	assert.False(t, cfg.IsProduction())
	assert.Contains(t, cfg.DSN(), "dbname=mutualaid_db")
}

func TestLoadCustomTiers(t *testing.T) {
	setRequired(t)
	t.Setenv("TRUST_TIERS", "0:50:500,5:50:5000")
	t.Setenv("ACHIEVEMENT_TIMEOUT", "750ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.AchievementTimeout)
	tiers := cfg.TrustTiers.Tiers()
	require.Len(t, tiers, 2)
	assert.Equal(t, 5, tiers[1].Floor)
	assert.Equal(t, int64(5000), tiers[1].Limits.Max)
}

func TestLoadRejects(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("DB_PASSWORD", "pw")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("bad tiers", func(t *testing.T) {
		setRequired(t)
		t.Setenv("TRUST_TIERS", "3:100:1000")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TRUST_TIERS")
	})

	t.Run("bad duration", func(t *testing.T) {
		setRequired(t)
		t.Setenv("TRUST_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}
