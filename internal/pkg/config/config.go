package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Overpass    OverpassConfig    `mapstructure:"overpass"`
	ORS         ORSConfig         `mapstructure:"ors"`
	OpenWeather OpenWeatherConfig `mapstructure:"openweather"`
	Valkey      ValkeyConfig      `mapstructure:"valkey"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Courses     CoursesConfig     `mapstructure:"courses"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// OverpassConfig drives the rotating interpreter client. Endpoints are tried
// in order; the first is the primary.
type OverpassConfig struct {
	Endpoints  []string `mapstructure:"endpoints"`
	MaxRetries int      `mapstructure:"max_retries"`
	TimeoutSec int      `mapstructure:"timeout_sec"`
}

type ORSConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Dataset string `mapstructure:"dataset"`
}

type OpenWeatherConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type CoursesConfig struct {
	MaxCandidates int `mapstructure:"max_candidates"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 90)
	v.SetDefault("overpass.endpoints", []string{
		"https://overpass-api.de/api/interpreter",
		"https://overpass.kumi.systems/api/interpreter",
		"https://maps.mail.ru/osm/tools/overpass/api/interpreter",
	})
	v.SetDefault("overpass.max_retries", 3)
	v.SetDefault("overpass.timeout_sec", 75)
	v.SetDefault("ors.api_key", "")
	v.SetDefault("ors.base_url", "https://api.openrouteservice.org")
	v.SetDefault("ors.dataset", "srtm")
	v.SetDefault("openweather.api_key", "")
	v.SetDefault("openweather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("courses.max_candidates", 50)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: TRAILHEAD_ORS_API_KEY → ors.api_key
	v.SetEnvPrefix("TRAILHEAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
// API keys are intentionally not required here: the adapters fail fast per
// request, so the courses endpoint keeps working without an ORS key.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if len(c.Overpass.Endpoints) == 0 {
		errs = append(errs, "overpass.endpoints must list at least one interpreter")
	}
	for _, e := range c.Overpass.Endpoints {
		if !strings.HasPrefix(e, "http://") && !strings.HasPrefix(e, "https://") {
			errs = append(errs, fmt.Sprintf("overpass endpoint %q must be an http(s) URL", e))
		}
	}
	if c.Overpass.MaxRetries <= 0 {
		errs = append(errs, "overpass.max_retries must be positive")
	}
	if c.Overpass.TimeoutSec <= 0 {
		errs = append(errs, "overpass.timeout_sec must be positive")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Courses.MaxCandidates <= 0 || c.Courses.MaxCandidates > 200 {
		errs = append(errs, fmt.Sprintf("courses.max_candidates must be 1-200, got %d", c.Courses.MaxCandidates))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
