package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`          // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`            // Telegram API token loaded from environment
	CatalogPath      string   `mapstructure:"catalog_path"` // path to the sign catalog (.json or .xlsx)
	AssetsDir        string   `mapstructure:"assets_dir"`   // directory with sign images
	Debug            bool     `mapstructure:"debug"`        // enables Telegram API request logging
	DB               DB       `mapstructure:"database"`     // database configuration section
	Reminder         Reminder `mapstructure:"reminder"`     // idle learner reminders
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
	SlowQuery       time.Duration `mapstructure:"slow_query"`        // queries slower than this are logged
}

// Reminder configures the reminder job.
type Reminder struct {
	Enabled   bool          `mapstructure:"enabled"`
	Schedule  string        `mapstructure:"schedule"`   // cron spec, evaluated in UTC
	IdleAfter time.Duration `mapstructure:"idle_after"` // learners idle for longer get a reminder
	BatchSize int           `mapstructure:"batch_size"` // max reminders per run
	PerSecond float64       `mapstructure:"per_second"` // send rate cap, 0 disables it
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A local .env is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("catalog_path", "assets/data/signs.json")
	v.SetDefault("assets_dir", "assets/signs")
	v.SetDefault("debug", false)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("database.slow_query", "200ms")
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.schedule", "0 * * * *")
	v.SetDefault("reminder.idle_after", "24h")
	v.SetDefault("reminder.batch_size", 100)
	v.SetDefault("reminder.per_second", 25)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.Reminder.IdleAfter <= 0 {
		return nil, fmt.Errorf("reminder.idle_after must be positive, got %s", cfg.Reminder.IdleAfter)
	}
	if cfg.Reminder.BatchSize <= 0 {
		return nil, fmt.Errorf("reminder.batch_size must be positive, got %d", cfg.Reminder.BatchSize)
	}
	if cfg.Reminder.PerSecond < 0 {
		return nil, fmt.Errorf("reminder.per_second must not be negative, got %g", cfg.Reminder.PerSecond)
	}

	return &cfg, nil
}
