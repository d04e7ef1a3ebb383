package config

import (
    "errors"
    "fmt"
    "os"
    "time"

    "github.com/mitchellh/mapstructure"
    "github.com/spf13/viper"
)

type Server struct {
    Port              string `mapstructure:"port"`
    RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

type Cache struct {
    TTLSeconds int `mapstructure:"ttl_sec"`
    MaxEntries int `mapstructure:"max_entries"`
}

type History struct {
    TimeoutSec int    `mapstructure:"timeout_sec"`
    Timeboxed  string `mapstructure:"timeboxed"`
}

type Batch struct {
    Concurrency int `mapstructure:"concurrency"`
}

type KeyedProvider struct {
    Enabled bool   `mapstructure:"enabled"`
    APIKey  string `mapstructure:"api_key"`
    BaseURL string `mapstructure:"base_url"`
}

type Backend struct {
    Enabled bool   `mapstructure:"enabled"`
    BaseURL string `mapstructure:"base_url"`
}

type Yahoo struct {
    Enabled bool   `mapstructure:"enabled"`
    BaseURL string `mapstructure:"base_url"`
}

type Log struct {
    Level string `mapstructure:"level"`
}

type Config struct {
    Server       Server        `mapstructure:"server"`
    Cache        Cache         `mapstructure:"cache"`
    History      History       `mapstructure:"history"`
    Batch        Batch         `mapstructure:"batch"`
    FMP          KeyedProvider `mapstructure:"fmp"`
    AlphaVantage KeyedProvider `mapstructure:"alphavantage"`
    Finnhub      KeyedProvider `mapstructure:"finnhub"`
    Polygon      KeyedProvider `mapstructure:"polygon"`
    Yahoo        Yahoo         `mapstructure:"yahoo"`
    Backend      Backend       `mapstructure:"backend"`
    Log          Log           `mapstructure:"log"`
}

func (s Server) RequestTimeout() time.Duration { return time.Duration(s.RequestTimeoutSec) * time.Second }
func (c Cache) TTL() time.Duration             { return time.Duration(c.TTLSeconds) * time.Second }
func (h History) Timeout() time.Duration       { return time.Duration(h.TimeoutSec) * time.Second }

// Load reads YAML config from path, falling back to config.yaml in the
// working directory, then to defaults. API keys and the port come from the
// environment when set, so secrets stay out of the file.
func Load(path string) (Config, error) {
    v := viper.New()
    v.SetConfigType("yaml")
    setDefaults(v)
    bindEnv(v)

    if path == "" {
        if _, err := os.Stat("config.yaml"); err == nil {
            path = "config.yaml"
        }
    }
    if path != "" {
        v.SetConfigFile(path)
        if err := v.ReadInConfig(); err != nil {
            var notFound viper.ConfigFileNotFoundError
            if !errors.As(err, &notFound) && !os.IsNotExist(err) {
                return Config{}, fmt.Errorf("read config: %w", err)
            }
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
        dc.WeaklyTypedInput = true
    }); err != nil {
        return Config{}, fmt.Errorf("parse config: %w", err)
    }
    return cfg, nil
}

func setDefaults(v *viper.Viper) {
    v.SetDefault("server.port", "8080")
    v.SetDefault("server.request_timeout_sec", 10)
    v.SetDefault("cache.ttl_sec", 300)
    v.SetDefault("cache.max_entries", 10000)
    v.SetDefault("history.timeout_sec", 15)
    v.SetDefault("history.timeboxed", "FMP")
    v.SetDefault("batch.concurrency", 4)
    v.SetDefault("fmp.enabled", true)
    v.SetDefault("alphavantage.enabled", true)
    v.SetDefault("finnhub.enabled", true)
    v.SetDefault("polygon.enabled", true)
    v.SetDefault("yahoo.enabled", true)
    v.SetDefault("backend.enabled", true)
    v.SetDefault("log.level", "info")
}

func bindEnv(v *viper.Viper) {
    v.BindEnv("server.port", "PORT")
    v.BindEnv("server.request_timeout_sec", "REQUEST_TIMEOUT_SEC")
    v.BindEnv("cache.ttl_sec", "CACHE_TTL_SEC")
    v.BindEnv("fmp.api_key", "FMP_API_KEY")
    v.BindEnv("alphavantage.api_key", "ALPHA_VANTAGE_API_KEY")
    v.BindEnv("finnhub.api_key", "FINNHUB_API_KEY")
    v.BindEnv("polygon.api_key", "POLYGON_API_KEY")
    v.BindEnv("backend.base_url", "BACKEND_API_URL")
    v.BindEnv("log.level", "LOG_LEVEL")
}
