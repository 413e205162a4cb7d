package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreDriverMySQL  = "mysql"
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"

	AuthProviderFirebase = "firebase"
	AuthProviderSession  = "session"
)

type MySQLConfig struct {
	User     string `yaml:"user"`
	Pass     string `yaml:"pass"`
	Host     string `yaml:"host"`
	Name     string `yaml:"name"`
	TLS      bool   `yaml:"tls"`
	MaxConns int    `yaml:"maxConns"`
}

// DSN builds a go-sql-driver/mysql data source name.
func (mc *MySQLConfig) DSN() string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC", mc.User, mc.Pass, mc.Host, mc.Name)
	if mc.TLS {
		dsn += "&tls=true"
	}
	return dsn
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type StoreConfig struct {
	Driver string      `yaml:"driver"`
	MySQL  MySQLConfig `yaml:"mysql"`
	Mongo  MongoConfig `yaml:"mongo"`
}

type AuthConfig struct {
	Provider      string        `yaml:"provider"`
	SessionSecret string        `yaml:"sessionSecret"`
	SessionCookie string        `yaml:"sessionCookie"`
	SessionTTL    time.Duration `yaml:"sessionTTL"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	// Responses is the number of responses one client may create per Window. 0 disables limiting.
	Responses int64         `yaml:"responses"`
	Window    time.Duration `yaml:"window"`
}

type FeedConfig struct {
	DefaultPageSize int `yaml:"defaultPageSize"`
	MaxPageSize     int `yaml:"maxPageSize"`
}

type SuggestConfig struct {
	APIKey   string `yaml:"apiKey"`
	Endpoint string `yaml:"endpoint"`
}

type Config struct {
	Port      string          `yaml:"port"`
	GinMode   string          `yaml:"ginMode"`
	FEOrigins []string        `yaml:"feOrigins"`
	Store     StoreConfig     `yaml:"store"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Feed      FeedConfig      `yaml:"feed"`
	Suggest   SuggestConfig   `yaml:"suggest"`
}

func Defaults() *Config {
	return &Config{
		Port:      "8080",
		GinMode:   "debug",
		FEOrigins: []string{"http://localhost:3000"},
		Store: StoreConfig{
			Driver: StoreDriverMongo,
			MySQL: MySQLConfig{
				Name:     "hushmail",
				TLS:      true,
				MaxConns: 50,
			},
			Mongo: MongoConfig{
				Database: "HushMailUserCredentials",
			},
		},
		Auth: AuthConfig{
			Provider:      AuthProviderSession,
			SessionCookie: "token",
			SessionTTL:    24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Responses: 20,
			Window:    time.Minute,
		},
		Feed: FeedConfig{
			DefaultPageSize: 5,
			MaxPageSize:     50,
		},
		Suggest: SuggestConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent",
		},
	}
}

// Load reads defaults, then the YAML file at path (if path is non-empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("GIN_MODE", &cfg.GinMode)
	if v, ok := lookup("FE_ORIGINS"); ok && v != "" {
		cfg.FEOrigins = strings.Split(v, ";")
	}
	str("STORE_DRIVER", &cfg.Store.Driver)
	str("DB_USER", &cfg.Store.MySQL.User)
	str("DB_PASS", &cfg.Store.MySQL.Pass)
	str("DB_HOST", &cfg.Store.MySQL.Host)
	str("DB_NAME", &cfg.Store.MySQL.Name)
	str("MONGODB_URI", &cfg.Store.Mongo.URI)
	str("MONGODB_DATABASE", &cfg.Store.Mongo.Database)
	str("AUTH_PROVIDER", &cfg.Auth.Provider)
	str("SESSION_SECRET", &cfg.Auth.SessionSecret)
	if v, ok := lookup("SESSION_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.Auth.SessionTTL = ttl
	}
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	str("GEMINI_API_KEY", &cfg.Suggest.APIKey)
	if v, ok := lookup("RATE_LIMIT_RESPONSES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RESPONSES: %w", err)
		}
		cfg.RateLimit.Responses = n
	}
	return nil
}

func (cfg *Config) Validate() error {
	if cfg.Port == "" {
		return errors.New("port must be set")
	}
	switch cfg.Store.Driver {
	case StoreDriverMySQL:
		if cfg.Store.MySQL.Host == "" {
			return errors.New("mysql store requires DB_HOST")
		}
	case StoreDriverMongo:
		if cfg.Store.Mongo.URI == "" {
			return errors.New("mongo store requires MONGODB_URI")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	switch cfg.Auth.Provider {
	case AuthProviderFirebase:
	case AuthProviderSession:
		if cfg.Auth.SessionSecret == "" {
			return errors.New("session auth requires SESSION_SECRET")
		}
		if cfg.Auth.SessionTTL <= 0 {
			return errors.New("session TTL must be positive")
		}
	default:
		return fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
	if cfg.Feed.DefaultPageSize <= 0 || cfg.Feed.MaxPageSize < cfg.Feed.DefaultPageSize {
		return fmt.Errorf("invalid feed page sizes default=%d max=%d", cfg.Feed.DefaultPageSize, cfg.Feed.MaxPageSize)
	}
	if cfg.RateLimit.Responses > 0 && cfg.RateLimit.Window <= 0 {
		return errors.New("rate limit window must be positive")
	}
	return nil
}
