package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort   string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	JWTSecret    string
	TokenExpiry  time.Duration
	FeedPageSize int
	ImageDir     string
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "feedline"),
		DBPassword:   getEnv("DB_PASSWORD", "feedline_dev_password"),
		DBName:       getEnv("DB_NAME", "feedline"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenExpiry:  getEnvDuration("JWT_EXPIRY", time.Hour),
		FeedPageSize: getEnvInt("FEED_PAGE_SIZE", 2),
		ImageDir:     getEnv("IMAGE_DIR", "images"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}

	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}
