package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config captures all runtime configuration. Values come from an optional
// .env file plus environment variables; environment wins.
type Config struct {
	App     AppConfig
	Store   StoreConfig
	Scraper ScraperConfig
}

type AppConfig struct {
	Port    string
	Debug   bool
	LogPath string
}

type StoreConfig struct {
	Path string
}

type ScraperConfig struct {
	WindowDays        int
	AMCAPIKey         string
	AMCBaseURL        string
	FetchTimeoutSecs  int
	RenderTimeoutSecs int
	ChromePath        string
}

// Load reads configuration, applying defaults and validation. The AMC
// vendor key is deliberately not required: without it AMC theaters degrade
// to empty results instead of failing the run.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_PATH", "movies.db")
	viper.SetDefault("SCRAPE_WINDOW_DAYS", 7)
	viper.SetDefault("AMC_BASE_URL", "https://api.amctheatres.com")
	viper.SetDefault("FETCH_TIMEOUT_SECS", 30)
	viper.SetDefault("RENDER_TIMEOUT_SECS", 60)

	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	viper.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Store: StoreConfig{
			Path: viper.GetString("DB_PATH"),
		},
		Scraper: ScraperConfig{
			WindowDays:        viper.GetInt("SCRAPE_WINDOW_DAYS"),
			AMCAPIKey:         viper.GetString("AMC_API_KEY"),
			AMCBaseURL:        viper.GetString("AMC_BASE_URL"),
			FetchTimeoutSecs:  viper.GetInt("FETCH_TIMEOUT_SECS"),
			RenderTimeoutSecs: viper.GetInt("RENDER_TIMEOUT_SECS"),
			ChromePath:        viper.GetString("CHROME_PATH"),
		},
	}

	if cfg.Scraper.WindowDays <= 0 {
		return nil, fmt.Errorf("SCRAPE_WINDOW_DAYS must be positive")
	}
	if cfg.Scraper.FetchTimeoutSecs <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT_SECS must be positive")
	}
	if cfg.Scraper.RenderTimeoutSecs <= 0 {
		return nil, fmt.Errorf("RENDER_TIMEOUT_SECS must be positive")
	}
	if cfg.Store.Path == "" {
		return nil, fmt.Errorf("DB_PATH must not be empty")
	}

	return cfg, nil
}
