package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Catalog modes: where listings are rendered from.
const (
	CatalogMemory = "memory"
	CatalogSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Site settings used by the renderer
	SiteURL         string        // prefix for relative image paths (ex: https://blog.domain.ext/)
	DateFormat      string        // strftime format of "Last updated" dates
	GMTOffset       float64       // hours added to UTC timestamps before formatting
	RecentlyUpdated time.Duration // how long an edited link counts as recently updated
	ListArgs        string        // site-wide list arguments (ex: "categorize=0&title_li=Links")
	SanitizeOutput  bool          // run the rendered list through the HTML output filter

	// Catalog
	BookmarkFile   string        // homepage bookmarks.yaml or a Netscape .html export (optional)
	Database       string        // SQLite path (optional, empty = no SQLite replica)
	Catalog        string        // "memory" | "sqlite"
	ReloadInterval time.Duration // interval to reload the bookmark file (default: 24h)
	GCInterval     time.Duration // interval to run garbage collection (default: 24h)
	GCThreshold    time.Duration // how long a removed bookmark stays disabled (default: 30 days)
	RenderCacheTTL time.Duration // TTL of cached listings in Redis, 0 disables the cache

	// Redis
	RedisAddr             string        // ex: "localhost:6379", empty = Redis disabled
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict /links and /reload to specific Host headers
	AllowedCIDRS []string // optional, restrict infra endpoints to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateBurst    int      // /links requests allowed in a burst per client IP
	RatePerMin   int      // /links refill rate per client IP
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKROLL_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKROLL_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKROLL_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKROLL_PRETTY_LOG", true),

		// Rendering
		SiteURL:         requireEnv("LINKROLL_SITE_URL"),
		DateFormat:      getenv("LINKROLL_DATE_FORMAT", ""),
		GMTOffset:       getenvFloat("LINKROLL_GMT_OFFSET", 0),
		RecentlyUpdated: mustDuration("LINKROLL_RECENTLY_UPDATED", 120*time.Minute),
		ListArgs:        getenv("LINKROLL_LIST_ARGS", ""),
		SanitizeOutput:  mustBool("LINKROLL_SANITIZE_OUTPUT", false),

		// Catalog
		BookmarkFile:   getenv("LINKROLL_BOOKMARK_FILE", ""),
		Database:       DatabasePath(),
		Catalog:        strings.ToLower(getenv("LINKROLL_CATALOG", CatalogMemory)),
		ReloadInterval: mustDuration("LINKROLL_RELOAD_INTERVAL", 24*time.Hour),
		GCInterval:     mustDuration("LINKROLL_GC_INTERVAL", 24*time.Hour),
		GCThreshold:    mustDuration("LINKROLL_GC_THRESHOLD", 30*24*time.Hour),
		RenderCacheTTL: mustDuration("LINKROLL_RENDER_CACHE_TTL", 10*time.Minute),

		// Redis settings
		RedisAddr:             getenv("LINKROLL_REDIS_ADDR", ""),
		RedisUser:             getenv("LINKROLL_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKROLL_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("LINKROLL_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LINKROLL_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LINKROLL_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("LINKROLL_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LINKROLL_TRUST_PROXY", true),
		RateBurst:    getenvInt("LINKROLL_RATE_BURST", 30),
		RatePerMin:   getenvInt("LINKROLL_RATE_PER_MIN", 60),
	}

	cfg.validate()

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// DatabasePath returns the configured SQLite path, empty when unset.
func DatabasePath() string {
	return getenv("LINKROLL_DATABASE", "")
}

func (cfg *Config) validate() {
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: LINKROLL_REDIS_PASSWORD is required when LINKROLL_REDIS_PASSWORD_REQUIRED=true")
	}

	switch cfg.Catalog {
	case CatalogMemory:
	case CatalogSQLite:
		if cfg.Database == "" {
			panic("❌ FATAL: LINKROLL_DATABASE is required when LINKROLL_CATALOG=sqlite")
		}
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid LINKROLL_CATALOG %q (want memory or sqlite)", cfg.Catalog))
	}
}

// RedisEnabled reports whether a Redis address is configured.
func (cfg *Config) RedisEnabled() bool {
	return cfg.RedisAddr != ""
}

// Redacted returns a copy safe to log.
func (cfg *Config) Redacted() Config {
	cp := *cfg
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
