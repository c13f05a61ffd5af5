package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Todo API.
// Configuration is loaded from YAML (or TOML, by file extension) and can be
// overridden by environment variables.
type Config struct {
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	API       APIConfig       `yaml:"api" toml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket" toml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt" toml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb" toml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Security  SecurityConfig  `yaml:"security" toml:"security"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path" toml:"path"`
	WALMode     bool   `yaml:"wal_mode" toml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout" toml:"busy_timeout"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host      string           `yaml:"host" toml:"host"`
	Port      int              `yaml:"port" toml:"port"`
	TLS       TLSConfig        `yaml:"tls" toml:"tls"`
	Timeouts  APITimeoutConfig `yaml:"timeouts" toml:"timeouts"`
	CORS      CORSConfig       `yaml:"cors" toml:"cors"`
	RateLimit RateLimitConfig  `yaml:"rate_limit" toml:"rate_limit"`
	Docs      DocsConfig       `yaml:"docs" toml:"docs"`
}

// TLSConfig contains TLS certificate settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	CertFile string `yaml:"cert_file" toml:"cert_file"`
	KeyFile  string `yaml:"key_file" toml:"key_file"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read" toml:"read"`
	Write int `yaml:"write" toml:"write"`
	Idle  int `yaml:"idle" toml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
// A single origin is allowed; "*" allows any origin.
type CORSConfig struct {
	AllowedOrigin  string   `yaml:"allowed_origin" toml:"allowed_origin"`
	AllowedMethods []string `yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" toml:"allowed_headers"`
}

// RateLimitConfig contains per-route request ceilings.
//
// Each value is the number of requests a single client may make to that
// route per minute. Zero disables limiting for the route.
type RateLimitConfig struct {
	Enabled bool             `yaml:"enabled" toml:"enabled"`
	Routes  RouteLimitConfig `yaml:"routes" toml:"routes"`

	// DefaultPerHour caps the root route per client per hour. Zero
	// disables it.
	DefaultPerHour int `yaml:"default_per_hour" toml:"default_per_hour"`

	// IdleEvictionMinutes is how long an idle client limiter is kept.
	IdleEvictionMinutes int `yaml:"idle_eviction_minutes" toml:"idle_eviction_minutes"`
}

// RouteLimitConfig holds requests-per-minute ceilings for each todo route.
type RouteLimitConfig struct {
	List   int `yaml:"list" toml:"list"`
	Create int `yaml:"create" toml:"create"`
	Read   int `yaml:"read" toml:"read"`
	Update int `yaml:"update" toml:"update"`
	Delete int `yaml:"delete" toml:"delete"`
}

// DocsConfig controls the interactive API documentation endpoints.
type DocsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// WebSocketConfig contains change-feed WebSocket settings.
type WebSocketConfig struct {
	Path           string `yaml:"path" toml:"path"`
	MaxMessageSize int    `yaml:"max_message_size" toml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval" toml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout" toml:"pong_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
// When enabled, todo change events are published to the broker.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled" toml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker" toml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth" toml:"auth"`
	QoS       int                 `yaml:"qos" toml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect" toml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	TLS      bool   `yaml:"tls" toml:"tls"`
	ClientID string `yaml:"client_id" toml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username" toml:"username"`
	Password string `yaml:"password" toml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay" toml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay" toml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings for request metrics.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled" toml:"enabled"`
	URL           string `yaml:"url" toml:"url"`
	Token         string `yaml:"token" toml:"token"`
	Org           string `yaml:"org" toml:"org"`
	Bucket        string `yaml:"bucket" toml:"bucket"`
	BatchSize     int    `yaml:"batch_size" toml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval" toml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	Output string `yaml:"output" toml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt" toml:"jwt"`
}

// JWTConfig contains bearer token settings.
// When Enabled is false, mutating routes are open.
type JWTConfig struct {
	Enabled        bool   `yaml:"enabled" toml:"enabled"`
	Secret         string `yaml:"secret" toml:"secret"`
	AccessTokenTTL int    `yaml:"access_token_ttl" toml:"access_token_ttl"`
}

// minJWTSecretLength is the shortest HS256 secret accepted.
const minJWTSecretLength = 32

// Load reads configuration from a YAML file and applies environment variable overrides.
// Files ending in .toml are parsed as TOML with the same keys.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. File values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: TODOAPI_SECTION_KEY
// For example: TODOAPI_DATABASE_PATH, TODOAPI_API_PORT
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := unmarshal(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// Default returns a Config with sensible defaults.
// The per-route rate limits match the documented API ceilings.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/main.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 5000,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
			CORS: CORSConfig{
				AllowedOrigin: "http://localhost:3000",
			},
			RateLimit: RateLimitConfig{
				Enabled: true,
				Routes: RouteLimitConfig{
					List:   10,
					Create: 100,
					Read:   20,
					Update: 50,
					Delete: 100,
				},
				DefaultPerHour:      100,
				IdleEvictionMinutes: 10,
			},
			Docs: DocsConfig{
				Enabled: true,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "todoapi",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			JWT: JWTConfig{
				AccessTokenTTL: 60,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TODOAPI_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if v := os.Getenv("TODOAPI_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("TODOAPI_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TODOAPI_API_PORT: %w", err)
		}
		cfg.API.Port = port
	}
	if v := os.Getenv("TODOAPI_CORS_ORIGIN"); v != "" {
		cfg.API.CORS.AllowedOrigin = v
	}

	if v := os.Getenv("TODOAPI_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("TODOAPI_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("TODOAPI_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	if v := os.Getenv("TODOAPI_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	if v := os.Getenv("TODOAPI_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}

	if v := os.Getenv("TODOAPI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate checks the configuration for errors and security issues.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}
	if c.API.TLS.Enabled && (c.API.TLS.CertFile == "" || c.API.TLS.KeyFile == "") {
		errs = append(errs, "api.tls.cert_file and api.tls.key_file are required when TLS is enabled")
	}

	routes := c.API.RateLimit.Routes
	for name, v := range map[string]int{
		"list": routes.List, "create": routes.Create, "read": routes.Read,
		"update": routes.Update, "delete": routes.Delete,
	} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("api.rate_limit.routes.%s must not be negative", name))
		}
	}
	if c.API.RateLimit.DefaultPerHour < 0 {
		errs = append(errs, "api.rate_limit.default_per_hour must not be negative")
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if c.Security.JWT.Enabled {
		if c.Security.JWT.Secret == "" {
			errs = append(errs, "security.jwt.secret is required when jwt is enabled (set TODOAPI_JWT_SECRET)")
		} else if len(c.Security.JWT.Secret) < minJWTSecretLength {
			errs = append(errs, "security.jwt.secret must be at least 32 characters")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}
