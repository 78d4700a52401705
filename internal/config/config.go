package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

type PrinterConfig struct {
	// Device is the path of the spooler device tickets are written to.
	// Empty means no printer is configured and printing is disabled.
	Device string
}

type Config struct {
	App struct {
		Port           string
		RestaurantName string
		// RetentionDays is how long cancelled orders are kept before the
		// purge sweep removes them.
		RetentionDays int
		DeleteSecret  string
	}
	Postgres PostgresConfig
	Printer  PrinterConfig
}

// Load reads configuration from the environment, optionally seeding it from a
// .env file first. Database connection settings are required; everything else
// has a default.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}

	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.App.RestaurantName = getEnv("RESTAURANT_NAME", "Le Foyer")
	cfg.App.DeleteSecret = os.Getenv("DELETE_SECRET")

	retention, err := getEnvInt("RETENTION_DAYS", 7)
	if err != nil {
		return nil, err
	}
	if retention < 0 {
		return nil, fmt.Errorf("RETENTION_DAYS must be non-negative, got %d", retention)
	}
	cfg.App.RetentionDays = retention

	for _, v := range []struct {
		name string
		dst  *string
	}{
		{"DB_HOST", &cfg.Postgres.Host},
		{"DB_PORT", &cfg.Postgres.Port},
		{"DB_USER", &cfg.Postgres.User},
		{"DB_PASSWORD", &cfg.Postgres.Password},
		{"DB_NAME", &cfg.Postgres.DBName},
	} {
		*v.dst = os.Getenv(v.name)
		if *v.dst == "" {
			return nil, fmt.Errorf("%s is required", v.name)
		}
	}
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getEnv("DB_MIGRATIONS_PATH", "migrations")

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}
	cfg.Postgres.MaxConns = int32(maxConns)
	cfg.Postgres.MinConns = int32(minConns)
	cfg.Postgres.MaxConnLifetime = 30 * time.Minute

	cfg.Printer.Device = os.Getenv("PRINTER_DEVICE")

	return cfg, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, v)
	}
	return n, nil
}
