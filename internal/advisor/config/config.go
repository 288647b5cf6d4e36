package config

import (
	"time"

	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/config"
)

// AI selects the text generation provider.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// OpenAI holds the configuration for the OpenAI agents runner.
type OpenAI struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	MaxTurns uint64 `mapstructure:"max_turns"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	DefaultSuffix       string        `mapstructure:"default_suffix"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// News holds the configuration for the news providers.
type News struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	RSSURL      string        `mapstructure:"rss_url"`
	MaxArticles int           `mapstructure:"max_articles"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Cache holds market data cache settings.
type Cache struct {
	MarketDataTTL time.Duration `mapstructure:"market_data_ttl"`
}

// Config holds the full configuration for the advisor service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	AI           AI              `mapstructure:"ai"`
	Gemini       Gemini          `mapstructure:"gemini"`
	OpenAI       OpenAI          `mapstructure:"openai"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	News         News            `mapstructure:"news"`
	Telegram     Telegram        `mapstructure:"telegram"`
	Cache        Cache           `mapstructure:"cache"`
}

var defaults = map[string]interface{}{
	"app.name":                             "stock-advisor",
	"logger.level":                         "info",
	"logger.encoding":                      "json",
	"database.path":                        common.DefaultDatabaseFile,
	"database.busy_timeout":                "5s",
	"database.log_level":                   "silent",
	"redis.port":                           6379,
	"redis.pool_size":                      10,
	"api.port":                             8080,
	"ai.provider":                          "gemini",
	"gemini.api_key":                       "",
	"gemini.model":                         "gemini-2.0-flash",
	"gemini.max_request_per_minute":        15,
	"gemini.max_token_per_minute":          1000000,
	"openai.api_key":                       "",
	"openai.model":                         "gpt-4o-mini",
	"openai.max_turns":                     3,
	"yahoo_finance.base_url":               "https://query1.finance.yahoo.com",
	"yahoo_finance.default_suffix":         ".NS",
	"yahoo_finance.max_request_per_minute": 60,
	"yahoo_finance.timeout":                "10s",
	"news.api_key":                         "",
	"news.base_url":                        "https://newsapi.ai/api/v1/news",
	"news.rss_url":                         "https://news.google.com/rss/search",
	"news.max_articles":                    5,
	"news.timeout":                         "10s",
	"telegram.enabled":                     false,
	"telegram.bot_token":                   "",
	"cache.market_data_ttl":                "15m",
}

// Load loads the advisor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, defaults); err != nil {
		return nil, err
	}
	return &cfg, nil
}
