package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bassista/go_quotes/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SourceTypeHTTP   = "http"
	SourceTypeMemory = "memory"

	envPrefix = "QUOTES"
)

// Config is the typed application configuration.
type Config struct {
	Server ServerConfig
	Data   DataConfig
	Sync   SyncConfig
	Misc   MiscConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

// DataConfig locates durable storage.
type DataConfig struct {
	Dir       string
	QuotesKey string
	FilterKey string
	Watch     bool
}

// SyncConfig drives the synchronization engine and its remote source.
type SyncConfig struct {
	Enabled        bool
	SourceType     string
	URL            string
	PushURL        string
	PushEnabled    bool
	Interval       time.Duration
	RequestTimeout time.Duration
	PullLimit      int
	Category       string
	RunOnStart     bool
}

// MiscConfig collects everything else.
type MiscConfig struct {
	GinMode        string
	LogLevel       string
	RandomSeed     int64
	HoneybadgerEnv string
}

// LoadConfig reads config.yaml from QUOTES_CONFIG_PATH (default ./config),
// applies QUOTES_* environment overrides and validates the result.
// An optional .env file is loaded first.
func LoadConfig() (*Config, error) {
	envFile := getEnvOrDefault("QUOTES_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getEnvOrDefault("QUOTES_CONFIG_PATH", "./config"))

	setDefaults(v)

	// QUOTES_SYNC_INTERVAL overrides sync.interval, and so on.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		logger.WithComponent("config").Debugf("no config file found, using defaults and env vars")
	}

	port, err := getEnvOrViperPort(v, "PORT", "server.port")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               port,
			ReadTimeout:        v.GetDuration("server.read_timeout"),
			WriteTimeout:       v.GetDuration("server.write_timeout"),
			IdleTimeout:        v.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    v.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     v.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: v.GetString("server.cors_allowed_origins"),
		},
		Data: DataConfig{
			Dir:       v.GetString("data.dir"),
			QuotesKey: v.GetString("data.quotes_key"),
			FilterKey: v.GetString("data.filter_key"),
			Watch:     v.GetBool("data.watch"),
		},
		Sync: SyncConfig{
			Enabled:        v.GetBool("sync.enabled"),
			SourceType:     strings.ToLower(v.GetString("sync.source_type")),
			URL:            v.GetString("sync.url"),
			PushURL:        v.GetString("sync.push_url"),
			PushEnabled:    v.GetBool("sync.push_enabled"),
			Interval:       v.GetDuration("sync.interval"),
			RequestTimeout: v.GetDuration("sync.request_timeout"),
			PullLimit:      v.GetInt("sync.pull_limit"),
			Category:       v.GetString("sync.category"),
			RunOnStart:     v.GetBool("sync.run_on_start"),
		},
		Misc: MiscConfig{
			GinMode:        v.GetString("misc.gin_mode"),
			LogLevel:       v.GetString("misc.log_level"),
			RandomSeed:     v.GetInt64("misc.random_seed"),
			HoneybadgerEnv: v.GetString("misc.honeybadger_env"),
		},
	}
	if cfg.Sync.PushURL == "" {
		cfg.Sync.PushURL = cfg.Sync.URL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", cfg.Data.Dir, err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 2*time.Second)
	v.SetDefault("server.cors_allowed_origins", "*")

	v.SetDefault("data.dir", "./config/data")
	v.SetDefault("data.quotes_key", "quotes")
	v.SetDefault("data.filter_key", "lastCategoryFilter")
	v.SetDefault("data.watch", true)

	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.source_type", SourceTypeHTTP)
	v.SetDefault("sync.url", "https://jsonplaceholder.typicode.com/posts")
	v.SetDefault("sync.push_url", "")
	v.SetDefault("sync.push_enabled", true)
	v.SetDefault("sync.interval", 60*time.Second)
	v.SetDefault("sync.request_timeout", 15*time.Second)
	v.SetDefault("sync.pull_limit", 3)
	v.SetDefault("sync.category", "Server")
	v.SetDefault("sync.run_on_start", true)

	v.SetDefault("misc.gin_mode", "release")
	v.SetDefault("misc.log_level", "info")
	v.SetDefault("misc.random_seed", 0)
	v.SetDefault("misc.honeybadger_env", "")
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 || c.Server.ShutDownTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server request timeout must be positive")
	}
	if strings.TrimSpace(c.Data.Dir) == "" {
		return errors.New("data dir is required")
	}
	if c.Data.QuotesKey == "" || c.Data.FilterKey == "" {
		return errors.New("storage keys are required")
	}
	if c.Data.QuotesKey == c.Data.FilterKey {
		return fmt.Errorf("quotes key and filter key must differ: %q", c.Data.QuotesKey)
	}

	switch c.Sync.SourceType {
	case SourceTypeHTTP:
		if c.Sync.Enabled && strings.TrimSpace(c.Sync.URL) == "" {
			return errors.New("sync url is required for the http source")
		}
	case SourceTypeMemory:
	default:
		return fmt.Errorf("unknown sync source type: %s (supported: %s, %s)", c.Sync.SourceType, SourceTypeHTTP, SourceTypeMemory)
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("invalid sync interval: %v", c.Sync.Interval)
	}
	if c.Sync.RequestTimeout <= 0 {
		return fmt.Errorf("invalid sync request timeout: %v", c.Sync.RequestTimeout)
	}
	if c.Sync.PullLimit < 0 {
		return fmt.Errorf("invalid sync pull limit: %d", c.Sync.PullLimit)
	}
	if strings.TrimSpace(c.Sync.Category) == "" {
		return errors.New("sync category is required")
	}
	return nil
}

// getEnvOrDefault returns the env value for key, or def when unset or empty.
func getEnvOrDefault(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvOrViperPort lets a bare PORT env var (common on PaaS hosts) win over the config file.
func getEnvOrViperPort(v *viper.Viper, envKey, viperKey string) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", envKey, val, err)
		}
		return port, nil
	}
	return v.GetInt(viperKey), nil
}
