package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hushmail.yaml")
	body := []byte(`
port: "9000"
store:
  driver: memory
auth:
  provider: session
  sessionSecret: from-file
  sessionTTL: 2h
rateLimit:
  responses: 3
  window: 30s
feed:
  defaultPageSize: 10
  maxPageSize: 20
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("FE_ORIGINS", "http://a.test;http://b.test")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9100" {
		t.Fatalf("port=%s want=9100", cfg.Port)
	}
	if cfg.Store.Driver != StoreDriverMemory {
		t.Fatalf("driver=%s want=%s", cfg.Store.Driver, StoreDriverMemory)
	}
	if cfg.Auth.SessionSecret != "from-file" {
		t.Fatalf("secret=%s want=from-file", cfg.Auth.SessionSecret)
	}
	if cfg.Auth.SessionTTL != 90*time.Minute {
		t.Fatalf("session ttl=%v want=90m", cfg.Auth.SessionTTL)
	}
	if cfg.RateLimit.Responses != 3 || cfg.RateLimit.Window != 30*time.Second {
		t.Fatalf("rate limit=%+v", cfg.RateLimit)
	}
	if cfg.Feed.DefaultPageSize != 10 || cfg.Feed.MaxPageSize != 20 {
		t.Fatalf("feed=%+v", cfg.Feed)
	}
	if len(cfg.FEOrigins) != 2 || cfg.FEOrigins[1] != "http://b.test" {
		t.Fatalf("origins=%v", cfg.FEOrigins)
	}
	// untouched defaults survive
	if cfg.Auth.SessionCookie != "token" {
		t.Fatalf("cookie=%s want=token", cfg.Auth.SessionCookie)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"memory with secret", func(c *Config) { c.Store.Driver = StoreDriverMemory; c.Auth.SessionSecret = "s" }, true},
		{"mongo without uri", func(c *Config) { c.Auth.SessionSecret = "s" }, false},
		{"mysql without host", func(c *Config) { c.Store.Driver = StoreDriverMySQL; c.Auth.SessionSecret = "s" }, false},
		{"unknown driver", func(c *Config) { c.Store.Driver = "cassandra"; c.Auth.SessionSecret = "s" }, false},
		{"session without secret", func(c *Config) { c.Store.Driver = StoreDriverMemory }, false},
		{"session without ttl", func(c *Config) {
			c.Store.Driver = StoreDriverMemory
			c.Auth.SessionSecret = "s"
			c.Auth.SessionTTL = 0
		}, false},
		{"firebase needs no secret", func(c *Config) { c.Store.Driver = StoreDriverMemory; c.Auth.Provider = AuthProviderFirebase }, true},
		{"max below default", func(c *Config) {
			c.Store.Driver = StoreDriverMemory
			c.Auth.SessionSecret = "s"
			c.Feed.MaxPageSize = 1
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	mc := MySQLConfig{User: "u", Pass: "p", Host: "h:3306", Name: "hushmail", TLS: true}
	want := "u:p@tcp(h:3306)/hushmail?parseTime=true&loc=UTC&tls=true"
	if got := mc.DSN(); got != want {
		t.Fatalf("dsn=%s want=%s", got, want)
	}
}
