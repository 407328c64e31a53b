package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// GitHub
	GithubToken   string // presence enables elevated (raw-host) link resolution
	GithubOwner   string
	DefaultBranch string

	// Auth
	APIKey string

	// Translation
	TranslateAPIKey string
	TargetLang      string

	// Storage
	CacheDir  string
	AssetsDir string

	// Worker pool
	WorkerCount            int
	MaxQueueSize           int
	MaxConcurrentTranslate int

	// Job state
	JobTTL time.Duration

	// Network-failure logging is debug-only and opt-in.
	Debug bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		GithubToken:   os.Getenv("GITHUB_TOKEN"),
		GithubOwner:   os.Getenv("GITHUB_OWNER"),
		DefaultBranch: envOr("DEFAULT_BRANCH", "main"),

		APIKey: os.Getenv("REPOMETA_API_KEY"),

		TranslateAPIKey: os.Getenv("TRANSLATE_API_KEY"),
		TargetLang:      envOr("TRANSLATE_TARGET_LANG", "DE"),

		CacheDir:  envOr("CACHE_DIR", ".cache/translations"),
		AssetsDir: envOr("ASSETS_DIR", "assets"),

		WorkerCount:            envInt("WORKER_COUNT", 2),
		MaxQueueSize:           envInt("MAX_QUEUE_SIZE", 50),
		MaxConcurrentTranslate: envInt("MAX_CONCURRENT_TRANSLATE", 5),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		Debug: envBool("DEBUG", false),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxConcurrentTranslate <= 0 {
		cfg.MaxConcurrentTranslate = 5
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Elevated reports whether raw-host link resolution is available.
func (c Config) Elevated() bool {
	return c.GithubToken != ""
}

func (c Config) Validate() error {
	if c.GithubOwner == "" {
		return fmt.Errorf("GITHUB_OWNER is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("REPOMETA_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
