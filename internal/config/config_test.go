package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5002", cfg.Port)
	assert.Equal(t, BackendFile, cfg.Overlay.Backend)
	assert.Equal(t, "state.json", cfg.Overlay.StateFile)
	assert.Equal(t, 9, cfg.Map.Zoom)
	assert.Equal(t, [2]float64{38.2, -77.2}, cfg.Map.EmptyCenter)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Contains(t, cfg.NoteTakers, "Luke")
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `port: "6000"
dataset_path: /data/orgs.csv
overlay:
  backend: sqlite
  sqlite_path: /data/overlay.db
map:
  center: [39.0, -77.5]
  zoom: 11
note_takers: [Ann, Bob]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("MS_PORT", "7000")
	t.Setenv("KAFKA_BROKERS", "kafka-0:9092, kafka-1:9092,")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "/data/orgs.csv", cfg.DatasetPath)
	assert.Equal(t, BackendSQLite, cfg.Overlay.Backend)
	assert.Equal(t, "/data/overlay.db", cfg.Overlay.SQLitePath)
	assert.Equal(t, "organization_overlays", cfg.Overlay.Table)
	assert.Equal(t, [2]float64{39.0, -77.5}, cfg.Map.Center)
	assert.Equal(t, 11, cfg.Map.Zoom)
	assert.Equal(t, []string{"Ann", "Bob"}, cfg.NoteTakers)
	assert.Equal(t, []string{"kafka-0:9092", "kafka-1:9092"}, cfg.Kafka.Brokers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad port", func(c *Config) { c.Port = "http" }, false},
		{"unknown backend", func(c *Config) { c.Overlay.Backend = "redis" }, false},
		{"postgres without dsn", func(c *Config) { c.Overlay.Backend = BackendPostgres }, false},
		{"postgres with dsn", func(c *Config) {
			c.Overlay.Backend = BackendPostgres
			c.Overlay.PostgresDSN = "postgres://localhost/orgmap"
		}, true},
		{"sqlite without path", func(c *Config) { c.Overlay.Backend = BackendSQLite }, false},
		{"zoom too large", func(c *Config) { c.Map.Zoom = 30 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateDefaultsSessions(t *testing.T) {
	cfg := Default()
	cfg.Dashboard.Sessions = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 256, cfg.Dashboard.Sessions)
}
