package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger         `mapstructure:"logger"`
	DB         Database       `mapstructure:"database"`
	API        API            `mapstructure:"api"`
	Scanner    Scanner        `mapstructure:"scanner"`
	MarketData MarketData     `mapstructure:"market_data"`
	Cache      Cache          `mapstructure:"cache"`
	Backtest   Backtest       `mapstructure:"backtest"`
	Telegram   TelegramConfig `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Scanner struct {
	CronSpec       string        `mapstructure:"cron_spec"`
	Watchlist      []string      `mapstructure:"watchlist"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MinNotifyScore int           `mapstructure:"min_notify_score"`
}

type MarketData struct {
	FinnhubBaseURL   string        `mapstructure:"finnhub_base_url"`
	FinnhubAPIKey    string        `mapstructure:"finnhub_api_key"`
	YahooBaseURL     string        `mapstructure:"yahoo_base_url"`
	StooqBaseURL     string        `mapstructure:"stooq_base_url"`
	BaseTimeout      time.Duration `mapstructure:"base_timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	HistoryDays      int           `mapstructure:"history_days"`
	UseSynthetic     bool          `mapstructure:"use_synthetic"`
}

type Cache struct {
	DefaultExpiration    time.Duration `mapstructure:"default_expiration"`
	CleanupInterval      time.Duration `mapstructure:"cleanup_interval"`
	QuoteExpiration      time.Duration `mapstructure:"quote_expiration"`
	HistoricalExpiration time.Duration `mapstructure:"historical_expiration"`
}

type Backtest struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
	RiskFreeRate   float64 `mapstructure:"risk_free_rate"`
}

type TelegramConfig struct {
	BotToken            string        `mapstructure:"bot_token"`
	ChatID              string        `mapstructure:"chat_id"`
	TimeoutDuration     time.Duration `mapstructure:"timeout_duration"`
	MaxRequestPerSecond int           `mapstructure:"max_request_per_second"`
}

func Load() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("scanner.cron_spec", "0 * * * 1-5")
	viper.SetDefault("scanner.max_concurrency", 5)
	viper.SetDefault("scanner.timeout", 10*time.Minute)
	viper.SetDefault("scanner.min_notify_score", 60)
	viper.SetDefault("market_data.finnhub_base_url", "https://finnhub.io/api/v1")
	viper.SetDefault("market_data.yahoo_base_url", "https://query1.finance.yahoo.com")
	viper.SetDefault("market_data.stooq_base_url", "https://stooq.com")
	viper.SetDefault("market_data.base_timeout", 30*time.Second)
	viper.SetDefault("market_data.max_request_per_min", 60)
	viper.SetDefault("market_data.history_days", 400)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("cache.quote_expiration", time.Minute)
	viper.SetDefault("cache.historical_expiration", 24*time.Hour)
	viper.SetDefault("backtest.initial_capital", 100000)
	viper.SetDefault("backtest.risk_free_rate", 0.05)
	viper.SetDefault("telegram.timeout_duration", 10*time.Second)
	viper.SetDefault("telegram.max_request_per_second", 10)
}
