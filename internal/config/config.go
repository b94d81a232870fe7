package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver       string // "mysql" or "postgres"
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	Port           string
	GinMode        string
	HTTPLogEnabled bool
}

func Load() *Config {
	// Missing .env is fine; real deployments use plain env vars.
	_ = godotenv.Load()

	return &Config{
		DBDriver:       getEnv("DB_DRIVER", "mysql"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "taskbot"),
		DBPassword:     getEnv("DB_PASSWORD", "taskbotpassword"),
		DBName:         getEnv("DB_NAME", "taskbot"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		HTTPLogEnabled: getBool("HTTP_LOG_ENABLED", true),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
