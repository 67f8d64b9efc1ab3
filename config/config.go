package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	InputCSVPath     string
	CanonicalCSVPath string

	ServeHTTP bool
	HTTPAddr  string

	// Default filter thresholds for the startup report; interactive queries
	// carry their own values.
	MinRating       float64
	MinRatingCount  int
	GrowthThreshold float64

	LogDebug bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "analytics"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "analytics123"),
		PostgresDB:       getEnv("POSTGRES_DB", "listing_analytics"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		InputCSVPath:     getEnv("INPUT_CSV_PATH", "./data/listingdata.csv"),
		CanonicalCSVPath: getEnv("CANONICAL_CSV_PATH", "./output/listingdata_canonical.csv"),

		ServeHTTP: getEnvBool("SERVE_HTTP", false),
		HTTPAddr:  getEnv("HTTP_ADDR", ":8085"),

		MinRating:       getEnvFloat("MIN_RATING", 4.0),
		MinRatingCount:  getEnvInt("MIN_RATING_COUNT", 200),
		GrowthThreshold: getEnvFloat("GROWTH_THRESHOLD", 20),

		LogDebug: getEnvBool("LOG_DEBUG", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
