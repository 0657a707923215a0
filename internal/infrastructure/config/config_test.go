package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: sousa\n"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "google/gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 40*time.Second, cfg.AI.Timeout)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "sousa.db", cfg.GetDSN())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SOUSA_SERVER_PORT", "9000")
	t.Setenv("SOUSA_AI_MODEL", "test-model")

	cfg, err := Load(writeConfig(t, "server:\n  port: 8081\n"))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "test-model", cfg.AI.Model)
}

func TestLoad_InvalidDriver(t *testing.T) {
	_, err := Load(writeConfig(t, "database:\n  driver: oracle\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:        AppConfig{Name: "sousa", Environment: "development"},
			Server:     ServerConfig{Port: 8080},
			Database:   DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
			Monitoring: MonitoringConfig{EnableMetrics: true, MetricsPort: 9090},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("production requires secrets", func(t *testing.T) {
		cfg := base()
		cfg.App.Environment = "production"
		assert.ErrorContains(t, cfg.Validate(), "jwt_secret")

		cfg.Auth.JWTSecret = "secret"
		assert.ErrorContains(t, cfg.Validate(), "api_key")
	})

	t.Run("metrics port collision", func(t *testing.T) {
		cfg := base()
		cfg.Monitoring.MetricsPort = 8080
		assert.ErrorContains(t, cfg.Validate(), "metrics_port")
	})

	t.Run("bad sampling rate", func(t *testing.T) {
		cfg := base()
		cfg.Monitoring.SamplingRate = 2
		assert.ErrorContains(t, cfg.Validate(), "sampling_rate")
	})
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Driver:   "postgres",
		Host:     "db",
		Port:     5432,
		Username: "sousa",
		Password: "pw",
		Database: "meals",
		SSLMode:  "disable",
		Replicas: []string{"replica-1"},
	}}

	assert.Equal(t, "host=db port=5432 user=sousa password=pw dbname=meals sslmode=disable", cfg.GetDSN())
	assert.Equal(t, []string{"host=replica-1 port=5432 user=sousa password=pw dbname=meals sslmode=disable"}, cfg.ReplicaDSNs())

	cfg.Database.Driver = "mysql"
	cfg.Database.Port = 3306
	dsn := cfg.GetDSN()
	assert.Contains(t, dsn, "sousa:pw@tcp(db:3306)/meals")
	assert.Contains(t, dsn, "parseTime=true")
}
