package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads the .env file from the current working directory and sets
// environment variables. A missing .env is not an error worth stopping
// for; callers ignore the return and fall back to system env or defaults.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv returns the value of the environment variable named by key, or
// fallback if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}
