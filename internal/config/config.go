package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"port"`
	DBDSN           string        `mapstructure:"db_dsn"`
	TemplatesDir    string        `mapstructure:"templates_dir"`
	StaticDir       string        `mapstructure:"static_dir"`
	LogFile         string        `mapstructure:"log_file"`
	LogLevel        string        `mapstructure:"log_level"`
	CookieSecure    bool          `mapstructure:"cookie_secure"`
	StoresPageSize  int           `mapstructure:"stores_page_size"`
	CouponsPageSize int           `mapstructure:"coupons_page_size"`
	SearchPageSize  int           `mapstructure:"search_page_size"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	AdminEmail      string        `mapstructure:"admin_email"`
	AdminPassword   string        `mapstructure:"admin_password"`
	GuideFeeds      []Feed        `mapstructure:"guide_feeds"`
}

// Feed is an editorial RSS/Atom source for saving guides.
type Feed struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Category string `mapstructure:"category"`
}

func (f Feed) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.URL, validation.Required, is.URL),
	)
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.DBDSN, validation.Required),
		validation.Field(&c.TemplatesDir, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.StoresPageSize, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&c.CouponsPageSize, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&c.SearchPageSize, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&c.AdminEmail, is.EmailFormat),
		validation.Field(&c.AdminPassword,
			validation.When(c.AdminEmail != "", validation.Required, validation.Length(8, 72))),
		validation.Field(&c.GuideFeeds),
	)
}

// Level maps LogLevel onto slog; unknown values fall back to info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8081")
	v.SetDefault("db_dsn", "couponhub.db") // sqlite file in project root
	v.SetDefault("templates_dir", "./web/templates")
	v.SetDefault("static_dir", "./web/static")
	v.SetDefault("log_file", "./couponhub.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("stores_page_size", 12)
	v.SetDefault("coupons_page_size", 10)
	v.SetDefault("search_page_size", 20)
	v.SetDefault("cache_ttl", "30s")
	v.SetDefault("admin_email", "")
	v.SetDefault("admin_password", "")
}

// Default returns the built-in configuration without reading files or env.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load reads the optional YAML file at path (or config.yaml in . and ./config when
// path is empty), then COUPONHUB_* environment variables, over built-in defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("COUPONHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// CheckDirs fails early when the template directory is missing, instead of on the
// first rendered page.
func (c Config) CheckDirs() error {
	if _, err := os.Stat(c.TemplatesDir); err != nil {
		return fmt.Errorf("templates dir %s: %w", c.TemplatesDir, err)
	}
	return nil
}
