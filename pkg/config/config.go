// Package config reads explainer settings from the environment, after loading an
// optional .env file. The values become the defaults of the command line flags.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel  string `validate:"oneof=debug info error"`
	LogFormat string `validate:"oneof=pretty json"`

	// Workers bounds the number of instances explained concurrently
	Workers int `validate:"min=1,max=1024"`

	// Top is the default number of contributions kept per sign, 0 keeps all
	Top int `validate:"min=0"`
}

// Load reads the configuration. Files are .env files loaded before the environment is read;
// a missing file is ignored, as are variables already set in the environment.
func Load(files ...string) (*Config, error) {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}
	}

	workers, err := getEnvInt("EXPLAINER_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	top, err := getEnvInt("EXPLAINER_TOP", 0)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		LogLevel:  getEnv("EXPLAINER_LOG_LEVEL", "info"),
		LogFormat: getEnv("EXPLAINER_LOG_FORMAT", "pretty"),
		Workers:   workers,
		Top:       top,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	result, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, val)
	}
	return result, nil
}
