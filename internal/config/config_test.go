package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if !cfg.Outreach.RequireVisibility {
		t.Error("expected outreach visibility to be required by default")
	}
	if cfg.Mentor.DailyLimit != 5 || cfg.Mentor.QuotaBackend != QuotaBackendMemory {
		t.Errorf("unexpected mentor config %+v", cfg.Mentor)
	}
	if cfg.RateLimit.RPS != 20 || cfg.RateLimit.Burst != 40 || !cfg.RateLimit.Enabled() {
		t.Errorf("unexpected rate limit config %+v", cfg.RateLimit)
	}
	if cfg.Monitor.Interval != time.Minute {
		t.Errorf("unexpected monitor interval %s", cfg.Monitor.Interval)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OUTREACH_REQUIRE_VISIBILITY", "false")
	t.Setenv("MENTOR_DAILY_LIMIT", "7")
	t.Setenv("MENTOR_QUOTA_BACKEND", "Redis")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("MONITOR_INTERVAL", "30s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("got port %d", cfg.Server.Port)
	}
	if cfg.Outreach.RequireVisibility {
		t.Error("expected visibility requirement to be disabled")
	}
	if cfg.Mentor.DailyLimit != 7 || cfg.Mentor.QuotaBackend != QuotaBackendRedis {
		t.Errorf("unexpected mentor config %+v", cfg.Mentor)
	}
	if cfg.RateLimit.Enabled() {
		t.Error("expected rate limiting to be disabled at 0 rps")
	}
	if cfg.Monitor.Interval != 30*time.Second {
		t.Errorf("got interval %s", cfg.Monitor.Interval)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("expected invalid REDIS_DB to fall back to 0, got %d", cfg.Redis.DB)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080},
			Mentor:    MentorConfig{DailyLimit: 5, QuotaBackend: QuotaBackendMemory},
			RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
			Monitor:   MonitorConfig{Interval: time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"zero limit", func(c *Config) { c.Mentor.DailyLimit = 0 }, "daily limit"},
		{"unknown backend", func(c *Config) { c.Mentor.QuotaBackend = "etcd" }, "unknown mentor quota backend"},
		{"postgres without dsn", func(c *Config) { c.Mentor.QuotaBackend = QuotaBackendPostgres }, "DSN is required"},
		{"postgres with dsn", func(c *Config) {
			c.Mentor.QuotaBackend = QuotaBackendPostgres
			c.Database.DSN = "postgres://localhost/skillsprint"
		}, ""},
		{"bad timezone", func(c *Config) { c.Mentor.Timezone = "Mars/Olympus" }, "invalid mentor timezone"},
		{"negative rate", func(c *Config) { c.RateLimit.RPS = -1 }, "rate limit"},
		{"zero interval", func(c *Config) { c.Monitor.Interval = 0 }, "monitor interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		c := LogConfig{Level: in}
		if got := c.SlogLevel(); got != want {
			t.Errorf("%q: got %v, want %v", in, got, want)
		}
	}
}

func TestMentorLocation(t *testing.T) {
	c := MentorConfig{}
	if c.Location() != time.Local {
		t.Error("expected local time zone by default")
	}
	c.Timezone = "UTC"
	if c.Location().String() != "UTC" {
		t.Errorf("got %s", c.Location())
	}
}
