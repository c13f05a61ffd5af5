package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes content to a config.yaml in a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: "/tmp/todos.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "127.0.0.1"
  port: 8080
  cors:
    allowed_origin: "https://todo.example.com"
  rate_limit:
    enabled: true
    routes:
      list: 5
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/todos.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/todos.db")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.API.CORS.AllowedOrigin != "https://todo.example.com" {
		t.Errorf("CORS.AllowedOrigin = %q", cfg.API.CORS.AllowedOrigin)
	}
	if cfg.API.RateLimit.Routes.List != 5 {
		t.Errorf("RateLimit.Routes.List = %d, want 5", cfg.API.RateLimit.Routes.List)
	}
	// Unset routes keep their defaults.
	if cfg.API.RateLimit.Routes.Update != 50 {
		t.Errorf("RateLimit.Routes.Update = %d, want 50", cfg.API.RateLimit.Routes.Update)
	}
}

func TestLoad_TOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[database]
path = "/tmp/todos.db"

[api]
port = 9000

[api.rate_limit.routes]
create = 7

[security.jwt]
enabled = true
secret = "test-secret-key-at-least-32-chars!"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/tmp/todos.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.API.RateLimit.Routes.Create != 7 || cfg.API.RateLimit.Routes.List != 10 {
		t.Errorf("Routes = %+v, want create=7 and default list", cfg.API.RateLimit.Routes)
	}
	if !cfg.Security.JWT.Enabled {
		t.Error("Security.JWT.Enabled = false")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	configPath := writeConfig(t, `
database:
  path: ""
api:
  port: 8080
`)

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty database.path, got nil")
	}
}

func TestLoad_InvalidPortEnv(t *testing.T) {
	configPath := writeConfig(t, "api:\n  port: 8080\n")
	t.Setenv("TODOAPI_API_PORT", "not-a-port")

	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected error for non-numeric TODOAPI_API_PORT")
	}
}

func TestConfig_Validate(t *testing.T) {
	validJWTSecret := "test-secret-key-at-least-32-chars!"

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(_ *Config) {},
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "invalid port low",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: "api.port",
		},
		{
			name:    "invalid port high",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: "api.port",
		},
		{
			name:    "negative route limit",
			mutate:  func(c *Config) { c.API.RateLimit.Routes.Read = -1 },
			wantErr: "api.rate_limit.routes.read",
		},
		{
			name:    "negative default ceiling",
			mutate:  func(c *Config) { c.API.RateLimit.DefaultPerHour = -1 },
			wantErr: "api.rate_limit.default_per_hour",
		},
		{
			name:    "tls without cert",
			mutate:  func(c *Config) { c.API.TLS.Enabled = true },
			wantErr: "api.tls",
		},
		{
			name: "invalid QoS ignored while mqtt disabled",
			mutate: func(c *Config) {
				c.MQTT.QoS = 3
			},
		},
		{
			name: "invalid QoS with mqtt enabled",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.QoS = 3
			},
			wantErr: "mqtt.qos",
		},
		{
			name:    "influxdb enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: "influxdb.url",
		},
		{
			name:    "jwt enabled without secret",
			mutate:  func(c *Config) { c.Security.JWT.Enabled = true },
			wantErr: "security.jwt.secret is required",
		},
		{
			name: "jwt secret too short",
			mutate: func(c *Config) {
				c.Security.JWT.Enabled = true
				c.Security.JWT.Secret = "short"
			},
			wantErr: "at least 32",
		},
		{
			name: "jwt enabled with valid secret",
			mutate: func(c *Config) {
				c.Security.JWT.Enabled = true
				c.Security.JWT.Secret = validJWTSecret
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_ReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Database.Path = ""
	cfg.API.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"database.path", "api.port"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestAPIConfig_GetTimeouts(t *testing.T) {
	cfg := APIConfig{
		Timeouts: APITimeoutConfig{
			Read:  30,
			Write: 45,
			Idle:  60,
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}
	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}
	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()

	t.Setenv("TODOAPI_DATABASE_PATH", "/custom/path.db")
	t.Setenv("TODOAPI_API_HOST", "192.168.1.1")
	t.Setenv("TODOAPI_API_PORT", "9090")
	t.Setenv("TODOAPI_CORS_ORIGIN", "https://app.example.com")
	t.Setenv("TODOAPI_MQTT_HOST", "mqtt.example.com")
	t.Setenv("TODOAPI_MQTT_USERNAME", "testuser")
	t.Setenv("TODOAPI_MQTT_PASSWORD", "testpass")
	t.Setenv("TODOAPI_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("TODOAPI_JWT_SECRET", "jwt-secret")
	t.Setenv("TODOAPI_LOG_LEVEL", "debug")

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"Database.Path", cfg.Database.Path, "/custom/path.db"},
		{"API.Host", cfg.API.Host, "192.168.1.1"},
		{"API.Port", cfg.API.Port, 9090},
		{"CORS.AllowedOrigin", cfg.API.CORS.AllowedOrigin, "https://app.example.com"},
		{"MQTT.Broker.Host", cfg.MQTT.Broker.Host, "mqtt.example.com"},
		{"MQTT.Auth.Username", cfg.MQTT.Auth.Username, "testuser"},
		{"MQTT.Auth.Password", cfg.MQTT.Auth.Password, "testpass"},
		{"InfluxDB.Token", cfg.InfluxDB.Token, "secret-token"},
		{"JWT.Secret", cfg.Security.JWT.Secret, "jwt-secret"},
		{"Logging.Level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Database.Path == "" {
		t.Error("Default should have non-empty Database.Path")
	}
	if cfg.API.CORS.AllowedOrigin != "http://localhost:3000" {
		t.Errorf("Default CORS origin = %q, want http://localhost:3000", cfg.API.CORS.AllowedOrigin)
	}

	want := RouteLimitConfig{List: 10, Create: 100, Read: 20, Update: 50, Delete: 100}
	if cfg.API.RateLimit.Routes != want {
		t.Errorf("Default route limits = %+v, want %+v", cfg.API.RateLimit.Routes, want)
	}
	if cfg.API.RateLimit.DefaultPerHour != 100 {
		t.Errorf("Default DefaultPerHour = %d, want 100", cfg.API.RateLimit.DefaultPerHour)
	}
	if cfg.MQTT.Enabled || cfg.InfluxDB.Enabled || cfg.Security.JWT.Enabled {
		t.Error("optional integrations should be disabled by default")
	}
}
