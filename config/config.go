package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds everything the api and score binaries read from the
// environment.
type AppConfig struct {
	Env            string
	Port           string
	AllowedOrigins []string
	LogLevel       slog.Level

	YouTube   YouTubeConfig
	Sentiment SentimentConfig
	Valkey    ValkeyConfig
}

type YouTubeConfig struct {
	APIKey      string
	AccessToken string
	BaseURL     string
	Timeout     time.Duration
	// DefaultMaxResults applies when the request limit is missing or invalid.
	DefaultMaxResults int
	MaxResultsCap     int
	SortByEngagement  bool
}

type SentimentConfig struct {
	Policy      string
	LexiconFile string
}

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
	CacheTTL time.Duration
}

func (v ValkeyConfig) Enabled() bool {
	return v.Address != ""
}

// Load builds the AppConfig from the process environment. Call LoadEnv first
// to pull in the per-environment .env file.
func Load() AppConfig {
	env := getEnv("APP_ENV", "dev")

	timeout := 60 * time.Second
	if env == "production" {
		timeout = 10 * time.Second
	}

	return AppConfig{
		Env:            env,
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:       getLevelEnv("LOG_LEVEL", slog.LevelInfo),
		YouTube: YouTubeConfig{
			APIKey:            os.Getenv("YOUTUBE_API_KEY"),
			AccessToken:       os.Getenv("YOUTUBE_ACCESS_TOKEN"),
			BaseURL:           getEnv("YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3"),
			Timeout:           getDurationEnv("HTTP_TIMEOUT", timeout),
			DefaultMaxResults: getIntEnv("DEFAULT_MAX_RESULTS", 100),
			MaxResultsCap:     getIntEnv("MAX_RESULTS_CAP", 1000),
			SortByEngagement:  getBoolEnv("SORT_BY_ENGAGEMENT", false),
		},
		Sentiment: SentimentConfig{
			Policy:      getEnv("SENTIMENT_POLICY", "lexicon"),
			LexiconFile: os.Getenv("CUSTOM_LEXICON_FILE"),
		},
		Valkey: ValkeyConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      getBoolEnv("VALKEY_TLS", false),
			CacheTTL: getDurationEnv("COMMENT_CACHE_TTL", 10*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getBoolEnv(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getDurationEnv accepts Go duration strings ("90s") or plain seconds ("90").
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getListEnv(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getLevelEnv(key string, fallback slog.Level) slog.Level {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return level
}
