package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath           string
	Addr             string
	OpenFoodFactsURL string
}

// LoadConfig reads settings from the environment, after loading envFile when
// it exists. Variables already set in the environment win over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	return &Config{
		DBPath:           getEnv("CALTRACK_DB", ""),
		Addr:             getEnv("CALTRACK_ADDR", "localhost:8080"),
		OpenFoodFactsURL: getEnv("CALTRACK_OFF_URL", ""),
	}, nil
}

// ResolveDBPath picks the flag value, then CALTRACK_DB, then the default path.
func (c *Config) ResolveDBPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	return DefaultDBPath()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
