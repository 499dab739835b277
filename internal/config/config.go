package config

import (
	"os"
	"strings"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	CORSOrigins string

	// AppBaseURL is the externally visible origin used to build absolute
	// photo URLs, e.g. "https://api.ecorangers.id".
	AppBaseURL string

	// Photo storage
	StoragePath string
}

func Load() *Config {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "eco_rangers"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:8080"),
		StoragePath: getEnv("STORAGE_PATH", "storage"),
	}
	cfg.AppBaseURL = strings.TrimRight(cfg.AppBaseURL, "/")
	return cfg
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
