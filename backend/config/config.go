package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Card insert policies for set creation (see SetsController.CreateSet).
const (
	CardInsertAbort = "abort"
	CardInsertSkip  = "skip"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// AllowAnonymousFallback resolves requests without a valid token to
	// FallbackUserID instead of rejecting them. Development only.
	AllowAnonymousFallback bool
	FallbackUserID         uint

	// CardInsertPolicy controls what happens when one flashcard insert
	// fails during set creation: "abort" rolls the whole set back,
	// "skip" keeps the set and drops the failing card.
	CardInsertPolicy string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "quiznest"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		AllowAnonymousFallback: getEnvBool("ALLOW_ANONYMOUS_FALLBACK", false),
		FallbackUserID:         uint(getEnvInt("FALLBACK_USER_ID", 1)),
		CardInsertPolicy:       getEnv("CARD_INSERT_POLICY", CardInsertAbort),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
