// Package config reads server settings from the environment. A .env file is
// loaded by godotenv in main.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string

	RedisAddr  string
	RedisDB    int
	RedisQueue string

	JWTSecret string
	TokenTTL  time.Duration

	// CancelWindow is how long players have to interrupt an action with a
	// not-so-fast card. CancelTick is how often the countdown is broadcast.
	CancelWindow time.Duration
	CancelTick   time.Duration
}

// Load pulls every setting from the environment, with development defaults.
func Load() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresHost:     getEnv("PG_HOST", "localhost"),
		PostgresPort:     getEnv("PG_PORT", "5432"),
		PostgresDatabase: getEnv("PG_DATABASE", "deathcards"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisQueue:       getEnv("HISTORY_QUEUE_NAME", ""),
		JWTSecret:        getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:         getEnvDuration("TOKEN_EXPIRE_TIME", 0),
		CancelWindow:     getEnvDuration("CANCEL_WINDOW", 6*time.Second),
		CancelTick:       getEnvDuration("CANCEL_TICK", time.Second),
	}
}

// DatabaseURL builds the postgres connection string.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDatabase)
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" || s == "never" || s == "0" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
