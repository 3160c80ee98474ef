package config

import (
	"os"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const (
	EcoSourceRemote = "remote"
	EcoSourceStatic = "static"
	EcoSourceBook   = "book"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	BackendURL           string `mapstructure:"BACKEND_URL"`
	PollIntervalMS       int    `mapstructure:"POLL_INTERVAL_MS"`
	NotificationTTLMS    int    `mapstructure:"NOTIFICATION_TTL_MS"`
	ReloadDelayMS        int    `mapstructure:"RELOAD_DELAY_MS"`
	EcoSource            string `mapstructure:"ECO_SOURCE"`
	DownloadDir          string `mapstructure:"DOWNLOAD_DIR"`
	ExportRetentionHours int    `mapstructure:"EXPORT_RETENTION_HOURS"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "BACKEND_URL",
	"POLL_INTERVAL_MS", "NOTIFICATION_TTL_MS", "RELOAD_DELAY_MS", "ECO_SOURCE", "DOWNLOAD_DIR",
	"EXPORT_RETENTION_HOURS",
	"CORS_ALLOW_ORIGINS",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GENERAL_VERSION", "dev")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("SERVER_PORT", 8290)
	v.SetDefault("BACKEND_URL", "http://localhost:5000")
	v.SetDefault("POLL_INTERVAL_MS", 2000)
	v.SetDefault("NOTIFICATION_TTL_MS", 5000)
	v.SetDefault("RELOAD_DELAY_MS", 2000)
	v.SetDefault("ECO_SOURCE", EcoSourceRemote)
	v.SetDefault("DOWNLOAD_DIR", "exports")
	v.SetDefault("EXPORT_RETENTION_HOURS", 24)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
}

func New() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	setDefaults(v)
	v.AutomaticEnv()

	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	// Env wins when the backend location is already provided.
	if _, ok := os.LookupEnv("BACKEND_URL"); ok {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config",
		"backendURL", config.BackendURL,
		"port", config.ServerPort,
		"ecoSource", config.EcoSource,
	)
	ConfigInstance = config
	return config, nil
}

func GetConfig() Config {
	return ConfigInstance
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error("Fatal error: invalid server port", "port", config.ServerPort)
	}

	if config.BackendURL == "" {
		return log.ErrMsg("Fatal error: BACKEND_URL is required")
	}

	if config.PollIntervalMS <= 0 {
		return log.Error("Fatal error: invalid poll interval", "pollIntervalMS", config.PollIntervalMS)
	}

	switch config.EcoSource {
	case EcoSourceRemote, EcoSourceStatic, EcoSourceBook:
	default:
		return log.Error("Fatal error: unknown ECO source", "ecoSource", config.EcoSource)
	}

	if config.DatabaseHost != "" && config.DatabaseName == "" {
		return log.ErrMsg("Fatal error: DB_NAME required when DB_HOST is set")
	}

	return nil
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

func (c Config) NotificationTTL() time.Duration {
	return time.Duration(c.NotificationTTLMS) * time.Millisecond
}

func (c Config) ReloadDelay() time.Duration {
	return time.Duration(c.ReloadDelayMS) * time.Millisecond
}

// ExportRetention is how long saved exports are kept. Zero keeps them forever.
func (c Config) ExportRetention() time.Duration {
	if c.ExportRetentionHours <= 0 {
		return 0
	}
	return time.Duration(c.ExportRetentionHours) * time.Hour
}

func (c Config) SQLEnabled() bool {
	return c.DatabaseHost != ""
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != "" && c.DatabaseCachePort != 0
}
