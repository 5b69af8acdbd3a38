package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration, loaded from environment variables.
type Config struct {
	TelegramToken  string
	ScraperAPIKey  string
	ScraperMaxCost string
	DatabasePath   string

	CheckInterval  time.Duration
	NotifyCooldown time.Duration
	ScrapeTTL      time.Duration
	CacheRetention time.Duration

	MaxRetries   int
	RetryDelay   time.Duration
	FetchTimeout time.Duration
	AlertDelay   time.Duration

	// ClearPriceOnFailure nulls an alert's last observed price when a check
	// fails. Off by default: preserving the prior price avoids a wave of
	// "first time under target" notifications after a transient outage.
	ClearPriceOnFailure bool
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg := &Config{
		TelegramToken:  token,
		ScraperAPIKey:  os.Getenv("SCRAPERAPI_KEY"),
		ScraperMaxCost: "1",
		DatabasePath:   "./tracker.db",
		CheckInterval:  4 * time.Hour,
		NotifyCooldown: 4 * time.Hour,
		ScrapeTTL:      240 * time.Minute,
		CacheRetention: 48 * time.Hour,
		MaxRetries:     2,
		RetryDelay:     5 * time.Second,
		FetchTimeout:   60 * time.Second,
		AlertDelay:     1 * time.Second,
	}

	if cfg.ScraperAPIKey == "" {
		log.Println("SCRAPERAPI_KEY is not set; fetching directly, scraping may be unreliable")
	}

	if v := os.Getenv("SCRAPER_MAX_COST"); v != "" {
		cfg.ScraperMaxCost = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if secs, ok := envInt("CHECK_INTERVAL_SECONDS"); ok {
		cfg.CheckInterval = time.Duration(secs) * time.Second
	}
	if hours, ok := envFloat("NOTIFY_COOLDOWN_HOURS"); ok {
		cfg.NotifyCooldown = time.Duration(hours * float64(time.Hour))
	}
	if mins, ok := envFloat("SCRAPE_TTL_MINUTES"); ok {
		cfg.ScrapeTTL = time.Duration(mins * float64(time.Minute))
	}
	if hours, ok := envFloat("CACHE_RETENTION_HOURS"); ok {
		cfg.CacheRetention = time.Duration(hours * float64(time.Hour))
	}
	if n, ok := envInt("MAX_RETRIES_SCRAPER"); ok {
		cfg.MaxRetries = n
	}
	if secs, ok := envInt("RETRY_DELAY_SCRAPER_SECONDS"); ok {
		cfg.RetryDelay = time.Duration(secs) * time.Second
	}
	if secs, ok := envInt("API_TIMEOUT_SECONDS"); ok {
		cfg.FetchTimeout = time.Duration(secs) * time.Second
	}
	if secs, ok := envInt("ALERT_PACING_SECONDS"); ok {
		cfg.AlertDelay = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("CLEAR_PRICE_ON_FAILURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ClearPriceOnFailure = b
		}
	}

	return cfg, nil
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("Ignoring invalid %s=%q", name, v)
		return 0, false
	}
	return n, true
}

func envFloat(name string) (float64, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("Ignoring invalid %s=%q", name, v)
		return 0, false
	}
	return f, true
}
