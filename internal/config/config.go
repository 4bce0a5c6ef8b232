// Package config loads the waypath server configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	HTTPAddr string `yaml:"http_addr" validate:"required"`

	// AuthToken, when set, is required as a Bearer token on every API call
	// except /healthz and /metrics.
	AuthToken string `yaml:"auth_token"`

	Log      LogConfig      `yaml:"log"`
	Store    StoreConfig    `yaml:"store"`
	Graph    GraphConfig    `yaml:"graph"`
	AutoSave AutoSaveConfig `yaml:"autosave"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type StoreConfig struct {
	Backend    string `yaml:"backend" validate:"oneof=file badger memory"`
	Dir        string `yaml:"dir" validate:"required_unless=Backend memory"`
	SyncWrites bool   `yaml:"sync_writes"`
	// CompactAfter only applies to the file backend.
	CompactAfter int `yaml:"compact_after" validate:"gte=0"`
}

type GraphConfig struct {
	AffordanceThresholdPx float64 `yaml:"affordance_threshold_px" validate:"gt=0"`
	StrictSnapshots       bool    `yaml:"strict_snapshots"`
	InitialZoom           float64 `yaml:"initial_zoom" validate:"gte=0,lte=30"`
}

type AutoSaveConfig struct {
	Interval  time.Duration `yaml:"interval" validate:"gte=0"`
	Threshold int64         `yaml:"threshold" validate:"gte=0"`
}

// Default returns a configuration that works out of the box.
func Default() Config {
	return Config{
		HTTPAddr: ":9191",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Backend:      "file",
			Dir:          "./data",
			SyncWrites:   true,
			CompactAfter: 16,
		},
		Graph: GraphConfig{
			AffordanceThresholdPx: 50,
			InitialZoom:           13,
		},
		AutoSave: AutoSaveConfig{
			Interval:  30 * time.Second,
			Threshold: 1,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads the YAML file at path over the defaults using strict parsing,
// applies environment overrides and validates the result. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to open config: %w", err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("YAML syntax error in config: %w", err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from WAYPATH_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("WAYPATH_HTTP_ADDR"); ok && v != "" {
		c.HTTPAddr = v
	}
	if v, ok := lookup("WAYPATH_AUTH_TOKEN"); ok {
		c.AuthToken = v
	}
	if v, ok := lookup("WAYPATH_STORE_DIR"); ok && v != "" {
		c.Store.Dir = v
	}
	if v, ok := lookup("WAYPATH_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
}

// SlogLevel maps the configured level name.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
