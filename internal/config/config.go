package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration.
type Config struct {
	DB   *DBConfig
	HTTP HTTPConfig
	Auth AuthConfig
	Log  LogConfig

	// Location anchors period resolution and hour buckets.
	Location *time.Location
}

type HTTPConfig struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// AuthConfig holds the single front-desk credential.
type AuthConfig struct {
	Username string
	Password string

	defaulted bool
}

// Defaulted reports whether the built-in password is in use.
func (a AuthConfig) Defaulted() bool { return a.defaulted }

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // json | console
}

// Load reads an optional .env file and then the environment.
// A missing .env is not an error; the returned flag reports whether one was read.
func Load(envFiles ...string) (*Config, bool, error) {
	loadedEnv := godotenv.Load(envFiles...) == nil

	dbCfg, err := LoadDBConfig()
	if err != nil {
		return nil, loadedEnv, err
	}

	tzName := getEnv("APP_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, loadedEnv, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &Config{
		DB: dbCfg,
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":5000"),
			CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"*"}),
			ShutdownTimeout: time.Duration(getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SEC", 5)) * time.Second,
		},
		Auth: AuthConfig{
			Username: getEnv("ADMIN_USERNAME", "adminuser"),
			Password: getEnv("ADMIN_PASSWORD", "Admin2025!"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Location: loc,
	}

	if cfg.Auth.Username == "" || cfg.Auth.Password == "" {
		return nil, loadedEnv, fmt.Errorf("invalid auth config: ADMIN_USERNAME/ADMIN_PASSWORD must not be empty")
	}
	if _, ok := os.LookupEnv("ADMIN_PASSWORD"); !ok {
		cfg.Auth.defaulted = true
	}

	return cfg, loadedEnv, nil
}
