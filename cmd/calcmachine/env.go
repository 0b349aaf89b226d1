package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// config is the process configuration read from the environment.
type config struct {
	Port     string
	DBPath   string
	LogLevel string
}

func configFromEnv() config {
	return config{
		Port:     envOrDefault("PORT", "8080"),
		DBPath:   envOrDefault("DATABASE_PATH", "calcmachine.db"),
		LogLevel: envOrDefault("LOG_LEVEL", "info"),
	}
}

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
