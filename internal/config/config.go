package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDSN    string
	JWTSecret      string
	ServerPort     string
	CORSOrigins    []string
	GeminiAPIKey   string
	AllowRegister  bool
	StrictPayments bool
	AdminUsername  string
	AdminPassword  string
}

func Load() *Config {
	// Load .env file if present
	godotenv.Load()

	return &Config{
		DatabaseDSN:    getEnv("DB_DSN", ""),
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		CORSOrigins:    strings.Split(getEnv("CORS_ORIGINS", "http://localhost:5173"), ","),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		AllowRegister:  getEnv("ALLOW_REGISTRATION", "false") == "true",
		StrictPayments: getEnv("CHECKOUT_STRICT_PAYMENTS", "false") == "true",
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
