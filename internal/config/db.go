package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type DBConfig struct {
	Driver          string // postgres | sqlite
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	Path            string // sqlite file path, ":memory:" allowed
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // minutes
}

func LoadDBConfig() (*DBConfig, error) {
	cfg := &DBConfig{
		Driver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		Host:            getEnv("DB_HOST", "localhost"),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", "postgres"),
		Name:            getEnv("DB_NAME", "backdoor_mission_database"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
		Path:            getEnv("DB_PATH", "backdoor_mission.db"),
		Port:            getEnvInt("DB_PORT", 5432),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifeTime: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
	}

	switch cfg.Driver {
	case "postgres":
		if cfg.Host == "" || cfg.User == "" || cfg.Name == "" {
			return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
		}
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("invalid DB config: DB_PATH must not be empty for sqlite")
		}
	default:
		return nil, fmt.Errorf("invalid DB config: unknown driver %q", cfg.Driver)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
