package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger"`
	DB         Database   `mapstructure:"database"`
	LocalStore LocalStore `mapstructure:"localstore"`
	API        API        `mapstructure:"api"`
	MarketData MarketData `mapstructure:"marketdata"`
	Telemetry  Telemetry  `mapstructure:"telemetry"`
	Cache      Cache      `mapstructure:"cache"`
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

// LocalStore configures the durable per-install key/value file backing the
// session and theme stores.
type LocalStore struct {
	Path string `mapstructure:"path"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type MarketData struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	QuoteCacheTTL       time.Duration `mapstructure:"quote_cache_ttl"`
}

type Telemetry struct {
	Schedule        string        `mapstructure:"schedule"`
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	// A .env file is optional; real deployments inject the environment.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
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
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("localstore.path", "apevault-local.db")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("marketdata.base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("marketdata.timeout", 10*time.Second)
	viper.SetDefault("marketdata.max_request_per_minute", 30)
	viper.SetDefault("marketdata.quote_cache_ttl", time.Minute)
	viper.SetDefault("telemetry.schedule", "*/5 * * * *")
	viper.SetDefault("telemetry.max_concurrency", 5)
	viper.SetDefault("telemetry.timeout_duration", 2*time.Minute)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
}
