package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds settings loaded at startup. TableIdleMinutes,
// SnapshotTTLSeconds and SeatTokenTTLMinutes can change at runtime: read them
// through the accessors and change them through Update once the server runs.
type Config struct {
	mu sync.RWMutex

	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Table Settings
	Player1Name           string
	Player2Name           string
	TableIdleMinutes      int
	IdleWorkerPollSeconds int
	SnapshotTTLSeconds    int

	// Security
	JWTSecret           string
	SeatTokenTTLMinutes int

	// Error reporting (empty disables Sentry)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/billiards?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Table Settings
		Player1Name:           getEnv("PLAYER1_NAME", "Player 1"),
		Player2Name:           getEnv("PLAYER2_NAME", "Player 2"),
		TableIdleMinutes:      getEnvInt("TABLE_IDLE_MINUTES", 30),
		IdleWorkerPollSeconds: getEnvInt("IDLE_WORKER_POLL_SECONDS", 30),
		SnapshotTTLSeconds:    getEnvInt("SNAPSHOT_TTL_SECONDS", 60),

		// Security
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		SeatTokenTTLMinutes: getEnvInt("SEAT_TOKEN_TTL_MINUTES", 240),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

// Update applies fn under the config's write lock.
func (c *Config) Update(fn func(c *Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}

// IdleTimeout is how long a table may go without input. Zero or less disables idle closing.
func (c *Config) IdleTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.TableIdleMinutes) * time.Minute
}

// SnapshotTTL is the lifetime of a mirrored snapshot, 60s when unset.
func (c *Config) SnapshotTTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.SnapshotTTLSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}

// SeatTokenTTL is the lifetime of seat tokens, 240m when unset.
func (c *Config) SeatTokenTTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.SeatTokenTTLMinutes <= 0 {
		return 240 * time.Minute
	}
	return time.Duration(c.SeatTokenTTLMinutes) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
