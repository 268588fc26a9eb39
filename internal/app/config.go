package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
	"github.com/johnmschoonover/multi-llm-hosting/pkg/bytesize"
)

// EnvPrefix prefixes every environment override: LAUNCHER_API_KEY,
// LAUNCHER_LOGGING_LEVEL and so on.
const EnvPrefix = "LAUNCHER"

// Config holds the application configuration.
type Config struct {
	// APIKey is sent as a bearer token to backends in inject mode.
	APIKey string `mapstructure:"api_key"`
	// BackendHost replaces container names as the backend host when set.
	BackendHost string `mapstructure:"backend_host"`

	HealthInterval time.Duration `mapstructure:"health_interval"`
	HealthTimeout  time.Duration `mapstructure:"health_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	ReapInterval   time.Duration `mapstructure:"reap_interval"`
	ReaperEnabled  bool          `mapstructure:"reaper_enabled"`
	StopTimeout    time.Duration `mapstructure:"stop_timeout"`
	StopOnShutdown bool          `mapstructure:"stop_on_shutdown"`

	MaxBodySize           string        `mapstructure:"max_body_size"`
	BodyTimeout           time.Duration `mapstructure:"body_timeout"`
	ResponseHeaderTimeout time.Duration `mapstructure:"response_header_timeout"`

	// RoutesFile is an optional dotenv file with ROUTE_* entries.
	RoutesFile string `mapstructure:"routes_file"`

	Server struct {
		Listen            string        `mapstructure:"listen"`
		ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
		IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
		ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
		TrustedProxies    []string      `mapstructure:"trusted_proxies"`
	} `mapstructure:"server"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   struct {
			Enabled    bool   `mapstructure:"enabled"`
			Path       string `mapstructure:"path"`
			MaxSize    int    `mapstructure:"max_size"`
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAge     int    `mapstructure:"max_age"`
			Compress   bool   `mapstructure:"compress"`
		} `mapstructure:"file"`
	} `mapstructure:"logging"`

	API struct {
		RateLimit struct {
			Enabled   bool    `mapstructure:"enabled"`
			GlobalRPS float64 `mapstructure:"global_rps"`
			PerIPRPS  float64 `mapstructure:"per_ip_rps"`
			Burst     int     `mapstructure:"burst"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"api"`

	maxBodyBytes int64
}

// MaxBodyBytes is MaxBodySize parsed by Validate.
func (c Config) MaxBodyBytes() int64 {
	return c.maxBodyBytes
}

// Validate checks values viper cannot type-check and resolves derived ones.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	positive("health_interval", c.HealthInterval)
	positive("health_timeout", c.HealthTimeout)
	positive("idle_timeout", c.IdleTimeout)
	positive("body_timeout", c.BodyTimeout)
	positive("stop_timeout", c.StopTimeout)
	if c.ReaperEnabled {
		positive("reap_interval", c.ReapInterval)
	}

	n, err := bytesize.Parse(c.MaxBodySize)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("max_body_size: %w", err))
	case n <= 0:
		errs = append(errs, fmt.Errorf("max_body_size must be positive"))
	default:
		c.maxBodyBytes = n
	}

	if c.API.RateLimit.Enabled && (c.API.RateLimit.PerIPRPS <= 0 || c.API.RateLimit.Burst <= 0) {
		errs = append(errs, fmt.Errorf("api.rate_limit needs positive per_ip_rps and burst"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads the config file (if any) and environment overrides.
func LoadConfig(configPath string) (*viper.Viper, Config, error) {
	v := viper.New()
	if err := loadConfig(v, configPath); err != nil {
		return nil, Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Config{}, err
	}
	return v, cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("backend_host", "")
	v.SetDefault("health_interval", time.Second)
	v.SetDefault("health_timeout", 120*time.Second)
	v.SetDefault("idle_timeout", 10*time.Minute)
	v.SetDefault("reap_interval", 30*time.Second)
	v.SetDefault("reaper_enabled", true)
	v.SetDefault("stop_timeout", 30*time.Second)
	v.SetDefault("stop_on_shutdown", false)
	v.SetDefault("max_body_size", "16MiB")
	v.SetDefault("body_timeout", 30*time.Second)
	v.SetDefault("response_header_timeout", 10*time.Minute)
	v.SetDefault("routes_file", "")
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.path", "/var/log/launcher/launcher.log")
	v.SetDefault("logging.file.max_size", 100)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age", 28)
	v.SetDefault("logging.file.compress", true)
	v.SetDefault("api.rate_limit.enabled", true)
	v.SetDefault("api.rate_limit.global_rps", 100)
	v.SetDefault("api.rate_limit.per_ip_rps", 10)
	v.SetDefault("api.rate_limit.burst", 20)
}

// loadConfig loads configuration from file and sets defaults.
func loadConfig(v *viper.Viper, configPath string) error {
	setDefaults(v)
	ConfigureViper(v, configPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return nil
}
