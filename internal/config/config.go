// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort          string
	JWTSecretKey        string
	DBPath              string
	ChatInvitePolicy    string
	ChatDeleteWhenEmpty bool
	ChatListLimit       int
	Environment         string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		JWTSecretKey:        getEnv("JWT_SECRET_KEY", ""),
		DBPath:              getEnv("DB_PATH", "messenger.db"),
		ChatInvitePolicy:    getEnv("CHAT_INVITE_POLICY", "participants"),
		ChatDeleteWhenEmpty: getEnvAsBool("CHAT_DELETE_WHEN_EMPTY", false),
		ChatListLimit:       getEnvAsInt("CHAT_LIST_LIMIT", 10),
		Environment:         env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}
	if cfg.JWTSecretKey == "" {
		// Development convenience only; production fails above.
		cfg.JWTSecretKey = "dev-secret-do-not-use-in-production"
		log.Println("JWT_SECRET_KEY not set; using insecure development secret")
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsBool gets an env var as a boolean, with a fallback.
func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as boolean. Using default value.", key)
		return defaultValue
	}
	return boolValue
}
