package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration
type Config struct {
	MainLLMHost        string        `mapstructure:"MAIN_LLM_HOST"`
	EmbeddingLLMHost   string        `mapstructure:"EMBEDDING_LLM_HOST"`
	RewriteLLMHost     string        `mapstructure:"REWRITE_LLM_HOST"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	DataDir            string        `mapstructure:"DATA_DIR"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	WebPort            int           `mapstructure:"WEB_PORT"`
	MaxRetries         int           `mapstructure:"MAX_RETRIES"`
	RetryDelaySeconds  time.Duration `mapstructure:"RETRY_DELAY_SECONDS"`
	LLMRequestTimeout  time.Duration `mapstructure:"LLM_REQUEST_TIMEOUT"`
	SessionTTL         time.Duration `mapstructure:"SESSION_TTL_SECONDS"`
	SessionHistoryMax  int           `mapstructure:"SESSION_HISTORY_MAX"`
	RewriteHistorySize int           `mapstructure:"REWRITE_HISTORY_SIZE"`
	SearchResults      int           `mapstructure:"SEARCH_RESULTS"`
	FAQSnippetMax      int           `mapstructure:"FAQ_SNIPPET_MAX"`
	ReferenceMax       int           `mapstructure:"REFERENCE_SNIPPET_MAX"`
	EmbeddingCacheSize int           `mapstructure:"EMBEDDING_CACHE_SIZE"`
	ColorLookupOrder   []string      `mapstructure:"COLOR_LOOKUP_ORDER"`
	RebuildIndex       bool          `mapstructure:"REBUILD_INDEX"`

	RateLimitMessagesPerMin int `mapstructure:"RATE_LIMIT_MESSAGES_PER_MIN"`
	RateLimitBurstSize      int `mapstructure:"RATE_LIMIT_BURST_SIZE"`
}

func Load(logger *zap.Logger) *Config {
	var config Config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")        // For running locally
	viper.AddConfigPath("../")      // For running from docker subdir
	viper.AddConfigPath("./config") // Common config folder
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("MAIN_LLM_HOST", "http://localhost:8080")
	viper.SetDefault("EMBEDDING_LLM_HOST", "http://localhost:8081")
	viper.SetDefault("REWRITE_LLM_HOST", "")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("WEB_PORT", 8090)
	viper.SetDefault("MAX_RETRIES", 5)
	viper.SetDefault("RETRY_DELAY_SECONDS", 2)
	viper.SetDefault("LLM_REQUEST_TIMEOUT", 120)
	viper.SetDefault("SESSION_TTL_SECONDS", 1800)
	viper.SetDefault("SESSION_HISTORY_MAX", 10)
	viper.SetDefault("REWRITE_HISTORY_SIZE", 4)
	viper.SetDefault("SEARCH_RESULTS", 7)
	viper.SetDefault("FAQ_SNIPPET_MAX", 3)
	viper.SetDefault("REFERENCE_SNIPPET_MAX", 2)
	viper.SetDefault("EMBEDDING_CACHE_SIZE", 512)
	viper.SetDefault("COLOR_LOOKUP_ORDER", []string{"products", "film_colors", "films"})
	viper.SetDefault("REBUILD_INDEX", false)
	viper.SetDefault("RATE_LIMIT_MESSAGES_PER_MIN", 20)
	viper.SetDefault("RATE_LIMIT_BURST_SIZE", 5)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("Could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		// Config unmarshaling is critical - fail fast during bootstrap
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	// Normalize the color lookup policy: lowercase, drop empty entries.
	if len(config.ColorLookupOrder) > 0 {
		cleaned := make([]string, 0, len(config.ColorLookupOrder))
		for _, step := range config.ColorLookupOrder {
			step = strings.ToLower(strings.TrimSpace(step))
			if step != "" {
				cleaned = append(cleaned, step)
			}
		}
		config.ColorLookupOrder = cleaned
	}
	if len(config.ColorLookupOrder) == 0 {
		config.ColorLookupOrder = []string{"products", "film_colors", "films"}
	}

	// Convert seconds to proper time.Duration
	config.RetryDelaySeconds = config.RetryDelaySeconds * time.Second
	config.LLMRequestTimeout = config.LLMRequestTimeout * time.Second
	config.SessionTTL = config.SessionTTL * time.Second

	return &config
}
