package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OBRA_DB", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".obra", "obra.db"), cfg.DBPath)
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, 2, cfg.RiskThresholdWeeks)
	assert.Equal(t, "obra:plans", cfg.Redis.Channel)
	assert.False(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OBRA_DB", "/tmp/x.db")
	t.Setenv("OBRA_LOG_USE_CASES", "true")
	t.Setenv("OBRA_METRICS_ADDR", ":9464")
	t.Setenv("OBRA_REDIS_ADDR", "localhost:6379")
	t.Setenv("OBRA_REDIS_DB", "3")
	t.Setenv("OBRA_NOTIFY_CHANNEL", "site:plans")
	t.Setenv("OBRA_RISK_THRESHOLD_WEEKS", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, ":9464", cfg.MetricsAddr)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "site:plans", cfg.Redis.Channel)
	assert.Equal(t, 4, cfg.RiskThresholdWeeks)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("OBRA_RISK_THRESHOLD_WEEKS", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoad_ThresholdBelowOne(t *testing.T) {
	for _, v := range []string{"-1", "0"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("OBRA_DB", "/tmp/x.db")
			t.Setenv("OBRA_RISK_THRESHOLD_WEEKS", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "at least 1")
		})
	}
}
