// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Shashank29160/AccountGen/internal/research"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	// SourceOrder is the external data source fallback chain, e.g.
	// "yahoo,fmp,alphavantage". Configurable because the preferred order is
	// a product decision, not a hard requirement.
	SourceOrder        []research.Source
	AlphaVantageAPIKey string
	FMPAPIKey          string
	SourceTimeout      time.Duration

	ConversationLog ConversationLogConfig
}

// ConversationLogConfig controls NDJSON conversation logging.
type ConversationLogConfig struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("CONVERSATION_LOG_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		FrontendURL:        getEnv("FRONTEND_URL", ""),
		DBPath:             getEnv("DB_PATH", "./data/accountgen.db"),
		SourceOrder:        parseSourceOrder(getEnv("SOURCE_ORDER", "yahoo,fmp,alphavantage")),
		AlphaVantageAPIKey: getEnv("ALPHA_VANTAGE_API_KEY", ""),
		FMPAPIKey:          getEnv("FMP_API_KEY", "demo"),
		SourceTimeout:      time.Duration(getEnvInt("SOURCE_TIMEOUT_SECONDS", 10)) * time.Second,
		ConversationLog: ConversationLogConfig{
			Enabled:       getEnvBool("CONVERSATION_LOG_ENABLED", false),
			Dir:           getEnv("CONVERSATION_LOG_DIR", "./data/logs/conversations"),
			GlobalEnabled: getEnvBool("CONVERSATION_LOG_GLOBAL_ENABLED", false),
			GlobalPath:    getEnv("CONVERSATION_LOG_GLOBAL_PATH", "./data/logs/conversations/all.ndjson"),
			QueueSize:     queueSize,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if len(c.SourceOrder) == 0 {
		return fmt.Errorf("SOURCE_ORDER cannot be empty")
	}
	for _, source := range c.SourceOrder {
		switch source {
		case research.SourceYahoo, research.SourceFMP, research.SourceAlphaVantage:
		default:
			return fmt.Errorf("unknown data source %q in SOURCE_ORDER", source)
		}
	}
	if c.ConversationLog.Enabled && c.ConversationLog.Dir == "" {
		return fmt.Errorf("CONVERSATION_LOG_DIR cannot be empty")
	}
	return nil
}

// SourceConfig assembles the external data source configuration.
func (c *Config) SourceConfig() research.SourceConfig {
	sc := research.DefaultSourceConfig()
	sc.Order = c.SourceOrder
	sc.AlphaVantageAPIKey = c.AlphaVantageAPIKey
	if c.FMPAPIKey != "" {
		sc.FMPAPIKey = c.FMPAPIKey
	}
	if c.SourceTimeout > 0 {
		sc.Timeout = c.SourceTimeout
	}
	return sc
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func parseSourceOrder(raw string) []research.Source {
	var order []research.Source
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		order = append(order, research.Source(strings.ToLower(part)))
	}
	return order
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
