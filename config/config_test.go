package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_EmbeddedDefaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "http://api.weatherapi.com/v1", cfg.WeatherAPI.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.WeatherAPI.Timeout)
	assert.Equal(t, "localhost", cfg.Repositories.Postgres.Host)
	assert.Equal(t, "9090", cfg.Handlers.Prometheus.Port)
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WEATHERAPI_KEY", "secret-key")
	t.Setenv("REPOSITORIES_POSTGRES_HOST", "db.internal")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.WeatherAPI.Key)
	assert.Equal(t, "db.internal", cfg.Repositories.Postgres.Host)
}
