package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// StoreKind names a bookmark storage backend.
type StoreKind string

const (
	StoreSQLite   StoreKind = "sqlite"
	StoreRedis    StoreKind = "redis"
	StorePostgres StoreKind = "postgres"
	StoreMemory   StoreKind = "memory"
)

type Config struct {
	ListenPort      string        // ex: "127.0.0.1:8787"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Bookmark storage
	Store       StoreKind
	SQLitePath  string
	PostgresDSN string

	// Redis (Store == "redis")
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisNamespace      string
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int           // warn after this many attempts

	// Browser & probes
	BrowserURL      string // DevTools websocket; empty launches a local Chrome
	BrowserHeadless bool
	EvalTimeout     time.Duration // per DOM query
	ProbeInterval   time.Duration
	PollInterval    time.Duration
	SelectorsFile   string // optional YAML override of the built-in selectors

	// HTTP access
	AllowedOrigins []string // CORS origins, e.g. "chrome-extension://*"
	AllowedCIDRS   []string // client networks allowed to reach the API
	AllowedHosts   []string // Host headers accepted; guards against DNS rebinding
	TrustProxy     bool     // true => trust X-Forwarded-For
}

// Load reads TIMEMARK_* variables. Malformed durations and numbers fall
// back to their defaults; an unknown store kind is an error.
func Load() (*Config, error) {
	cfg := &Config{
		ListenPort:      getenv("TIMEMARK_LISTEN_PORT", "127.0.0.1:8787"),
		ShutdownTimeout: mustDuration("TIMEMARK_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("TIMEMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TIMEMARK_PRETTY_LOG", true),

		Store:       StoreKind(strings.ToLower(getenv("TIMEMARK_STORE", string(StoreSQLite)))),
		SQLitePath:  getenv("TIMEMARK_SQLITE_PATH", defaultSQLitePath()),
		PostgresDSN: getenv("TIMEMARK_POSTGRES_DSN", ""),

		RedisAddr:           getenv("TIMEMARK_REDIS_ADDR", "localhost:6379"),
		RedisUser:           getenv("TIMEMARK_REDIS_USERNAME", ""),
		RedisPassword:       getenv("TIMEMARK_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("TIMEMARK_REDIS_DB", 0),
		RedisNamespace:      getenv("TIMEMARK_REDIS_NAMESPACE", "timemark:"),
		RedisDT:             mustDuration("TIMEMARK_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("TIMEMARK_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("TIMEMARK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("TIMEMARK_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("TIMEMARK_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("TIMEMARK_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("TIMEMARK_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("TIMEMARK_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("TIMEMARK_REDIS_WARN_THRESHOLD", 3),

		BrowserURL:      getenv("TIMEMARK_BROWSER_URL", ""),
		BrowserHeadless: mustBool("TIMEMARK_BROWSER_HEADLESS", false),
		EvalTimeout:     mustDuration("TIMEMARK_EVAL_TIMEOUT", 2*time.Second),
		ProbeInterval:   mustDuration("TIMEMARK_PROBE_INTERVAL", time.Second),
		PollInterval:    mustDuration("TIMEMARK_POLL_INTERVAL", 3*time.Second),
		SelectorsFile:   getenv("TIMEMARK_SELECTORS_FILE", ""),

		AllowedOrigins: splitAndTrim(getenv("TIMEMARK_ALLOWED_ORIGINS", "chrome-extension://*")),
		AllowedCIDRS:   splitAndTrim(getenv("TIMEMARK_ALLOWED_CIDRS", "127.0.0.1/32,::1/128")),
		AllowedHosts:   splitAndTrim(getenv("TIMEMARK_ALLOWED_HOSTS", "127.0.0.1,localhost,::1")),
		TrustProxy:     mustBool("TIMEMARK_TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("TIMEMARK_SQLITE_PATH is required for store %q", c.Store)
		}
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("TIMEMARK_POSTGRES_DSN is required for store %q", c.Store)
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("TIMEMARK_REDIS_ADDR is required for store %q", c.Store)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown TIMEMARK_STORE %q (want sqlite, redis, postgres or memory)", c.Store)
	}

	if c.ProbeInterval <= 0 || c.PollInterval <= 0 {
		return fmt.Errorf("probe and poll intervals must be > 0")
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.PostgresDSN != "" {
		cp.PostgresDSN = "***REDACTED***"
	}
	return cp
}

func defaultSQLitePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "timemark", "bookmarks.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "bookmarks.db"
	}
	return filepath.Join(home, ".local", "share", "timemark", "bookmarks.db")
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
