package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModePublic = "public"
	ModeAPI    = "api"
	ModeMock   = "mock"

	DefaultUserAgent = "redditq/1.0"
	DefaultBaseURL   = "https://www.reddit.com"
	DefaultHotLimit  = 10
	maxHotLimit      = 100
)

type Config struct {
	Mode string
	// Checker is ALX_CHECKER=1: hot-post queries run offline with fixed tokens.
	Checker        bool
	UserAgent      string
	BaseURL        string
	ClientID       string
	ClientSecret   string
	Username       string
	Password       string
	RequestTimeout time.Duration
	RateLimitDelay time.Duration
	HotLimit       int
	HistoryFile    string
	LogLevel       string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		Mode:           strings.ToLower(getEnv("COLLECTOR_MODE", ModePublic)),
		Checker:        getEnvBool("ALX_CHECKER", false),
		UserAgent:      getEnv("REDDIT_USER_AGENT", DefaultUserAgent),
		BaseURL:        strings.TrimRight(getEnv("REDDIT_BASE_URL", DefaultBaseURL), "/"),
		ClientID:       os.Getenv("REDDIT_CLIENT_ID"),
		ClientSecret:   os.Getenv("REDDIT_CLIENT_SECRET"),
		Username:       os.Getenv("REDDIT_USERNAME"),
		Password:       os.Getenv("REDDIT_PASSWORD"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		RateLimitDelay: getEnvDuration("RATE_LIMIT_DELAY", 2*time.Second),
		HotLimit:       ClampLimit(getEnvInt("HOT_LIMIT", DefaultHotLimit)),
		HistoryFile:    os.Getenv("HISTORY_FILE"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "warn")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Mode {
	case ModePublic, ModeMock:
	case ModeAPI:
		if c.ClientID == "" || c.ClientSecret == "" {
			return fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET are required for api mode")
		}
		// go-reddit authenticates with the password grant
		if c.Username == "" || c.Password == "" {
			return fmt.Errorf("REDDIT_USERNAME and REDDIT_PASSWORD are required for api mode")
		}
	default:
		return fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", c.Mode)
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("REDDIT_USER_AGENT must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// ClampLimit maps n into 1..100; non-positive values fall back to the default.
func ClampLimit(n int) int {
	if n < 1 {
		return DefaultHotLimit
	}
	if n > maxHotLimit {
		return maxHotLimit
	}
	return n
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
