package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP             string        // Host IP for the server
	RESTPort           int           // Port for the REST API
	GinMode            string        // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret          string        // Secret key for signing session tokens
	JWTIssuer          string        // Issuer claim for session tokens
	SessionTTL         time.Duration // Idle time after which a maze session is dropped
	MaxSessions        int           // Maximum number of live maze sessions
	MaxCells           int           // Maximum number of cells in one maze
	MaxStepsPerRequest int           // Maximum edges carved by a single step request
	PresetsFile        string        // Optional YAML file with named maze shapes
}

// Load reads the configuration from the environment.
// It loads environment variables from a .env file first when one exists.
func Load() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:             getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:           getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:            getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:          mustGetEnv("JWT_SECRET"),
		JWTIssuer:          getEnvWithDefault("JWT_ISSUER", "vinom-maze"),
		SessionTTL:         time.Duration(getEnvAsIntWithDefault("SESSION_TTL_SECONDS", 900)) * time.Second,
		MaxSessions:        getEnvAsIntWithDefault("MAX_SESSIONS", 1024),
		MaxCells:           getEnvAsIntWithDefault("MAX_CELLS", 1<<16),
		MaxStepsPerRequest: getEnvAsIntWithDefault("MAX_STEPS_PER_REQUEST", 4096),
		PresetsFile:        getEnvWithDefault("PRESETS_FILE", ""),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// getEnvAsIntWithDefault retrieves an integer environment variable, falling back to defaultValue when unset.
// A value that cannot be parsed is fatal.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
