package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"APP_ENV", "SERVER_ADDRESS", "ADHAN_DURATION_MINUTES", "INACTIVE_CAP", "STATS_TTL_SECONDS", "REFERENCE_LATITUDE", "USE_SPACES", "DATABASE_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.ServerAddress)
	assert.Equal(t, 5*time.Minute, cfg.AdhanDuration)
	assert.Equal(t, 3000, cfg.InactiveCap)
	assert.Equal(t, 30*time.Second, cfg.StatsTTL)
	assert.Equal(t, 30.0, cfg.ReferenceLatitude)
	assert.Greater(t, cfg.StatsWorkers, 0)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "Development")
	t.Setenv("ADHAN_DURATION_MINUTES", "10")
	t.Setenv("INACTIVE_CAP", "100")
	t.Setenv("STATS_TTL_SECONDS", "5")
	t.Setenv("REFERENCE_LATITUDE", "21.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 10*time.Minute, cfg.AdhanDuration)
	assert.Equal(t, 100, cfg.InactiveCap)
	assert.Equal(t, 5*time.Second, cfg.StatsTTL)
	assert.Equal(t, 21.5, cfg.ReferenceLatitude)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"ADHAN_DURATION_MINUTES": "five",
		"INACTIVE_CAP":           "-1",
		"STATS_TTL_SECONDS":      "0",
		"REFERENCE_LATITUDE":     "91",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, val)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadSpacesRequiresBucket(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("USE_SPACES", "true")
	t.Setenv("SPACES_BUCKET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "SPACES_BUCKET")
}
