// Package config loads the service configuration from an optional YAML file
// and applies environment variable overrides on top of it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ortelius/orgmap-backend/util"
	"gopkg.in/yaml.v2"
)

// Overlay backend names
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendArango   = "arango"
)

// OverlayConfig selects and configures the overlay persistence backend
type OverlayConfig struct {
	Backend     string `yaml:"backend"`
	StateFile   string `yaml:"state_file"`
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
	Table       string `yaml:"table"`
}

// ArangoConfig holds the ArangoDB connection settings
type ArangoConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Pass     string `yaml:"pass"`
	Database string `yaml:"database"`
}

// KafkaConfig enables status event publishing when Brokers is non-empty
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// DashboardConfig configures the server-rendered dashboard
type DashboardConfig struct {
	BackendURL string `yaml:"backend_url"`
	Sessions   int    `yaml:"sessions"`
}

// MapConfig configures the rendered map document
type MapConfig struct {
	Center      [2]float64 `yaml:"center"`
	EmptyCenter [2]float64 `yaml:"empty_center"`
	Zoom        int        `yaml:"zoom"`
}

// Config is the full service configuration
type Config struct {
	Port        string          `yaml:"port"`
	DatasetPath string          `yaml:"dataset_path"`
	Overlay     OverlayConfig   `yaml:"overlay"`
	Arango      ArangoConfig    `yaml:"arango"`
	Kafka       KafkaConfig     `yaml:"kafka"`
	Dashboard   DashboardConfig `yaml:"dashboard"`
	Map         MapConfig       `yaml:"map"`
	NoteTakers  []string        `yaml:"note_takers"`
	CORSOrigins string          `yaml:"cors_origins"`
}

// Default returns the configuration used when no file or env override is present
func Default() *Config {
	return &Config{
		Port:        "5002",
		DatasetPath: "Final_df.csv",
		Overlay: OverlayConfig{
			Backend:   BackendFile,
			StateFile: "state.json",
			Table:     "organization_overlays",
		},
		Arango: ArangoConfig{
			URL:      "http://localhost:8529",
			User:     "root",
			Database: "orgmap",
		},
		Kafka: KafkaConfig{
			Topic:   "organization-events",
			GroupID: "orgmap-backend",
		},
		Dashboard: DashboardConfig{Sessions: 256},
		Map: MapConfig{
			Center:      [2]float64{38.6, -77.2},
			EmptyCenter: [2]float64{38.2, -77.2},
			Zoom:        9,
		},
		NoteTakers:  []string{"Luke", "Rebecca", "Tauheeda", "Jiaqin", "Jennifer", "Kimberly", "Rachel", "Sayed"},
		CORSOrigins: "*",
	}
}

// Load reads the YAML file at path (skipped when path is empty) and applies env overrides
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Port = util.GetEnvDefault("MS_PORT", c.Port)
	c.DatasetPath = util.GetEnvDefault("DATASET_PATH", c.DatasetPath)
	c.Overlay.Backend = strings.ToLower(util.GetEnvDefault("OVERLAY_BACKEND", c.Overlay.Backend))
	c.Overlay.StateFile = util.GetEnvDefault("STATE_FILE_PATH", c.Overlay.StateFile)
	c.Overlay.PostgresDSN = util.GetEnvDefault("POSTGRES_DSN", c.Overlay.PostgresDSN)
	c.Overlay.SQLitePath = util.GetEnvDefault("SQLITE_PATH", c.Overlay.SQLitePath)
	c.Overlay.Table = util.GetEnvDefault("OVERLAY_TABLE", c.Overlay.Table)
	c.Arango.URL = util.GetEnvDefault("ARANGO_URL", c.Arango.URL)
	c.Arango.User = util.GetEnvDefault("ARANGO_USER", c.Arango.User)
	c.Arango.Pass = util.GetEnvDefault("ARANGO_PASS", c.Arango.Pass)
	c.Arango.Database = util.GetEnvDefault("ARANGO_DATABASE", c.Arango.Database)
	if brokers, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = util.SplitList(brokers)
	}
	c.Kafka.Topic = util.GetEnvDefault("KAFKA_TOPIC", c.Kafka.Topic)
	c.Dashboard.BackendURL = util.GetEnvDefault("DASHBOARD_BACKEND_URL", c.Dashboard.BackendURL)
	c.CORSOrigins = util.GetEnvDefault("CORS_ORIGINS", c.CORSOrigins)
}

// Validate checks the values that would otherwise fail late at startup
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	switch c.Overlay.Backend {
	case BackendFile, BackendArango:
	case BackendPostgres:
		if c.Overlay.PostgresDSN == "" {
			return fmt.Errorf("overlay backend postgres requires POSTGRES_DSN")
		}
	case BackendSQLite:
		if c.Overlay.SQLitePath == "" {
			return fmt.Errorf("overlay backend sqlite requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown overlay backend %q", c.Overlay.Backend)
	}
	if c.Map.Zoom < 1 || c.Map.Zoom > 18 {
		return fmt.Errorf("map zoom %d out of range 1..18", c.Map.Zoom)
	}
	if c.Dashboard.Sessions <= 0 {
		c.Dashboard.Sessions = 256
	}
	return nil
}
