package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds every tunable read from the environment.
type Settings struct {
	AppPort string
	AppEnv  string

	DBDSN          string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBMaxLifetime  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	ViewTokenSecret string
	ViewWindow      time.Duration
	ViewMaxEntries  int

	UnreadCacheTTL time.Duration

	AuditInterval  time.Duration
	AuditBatchSize int
}

var Current Settings

// DefaultViewMaxEntries keeps a full view ledger cookie under the browser's 4096 byte limit.
const DefaultViewMaxEntries = 100

// Init loads .env (if any) and fails fast when a required variable is missing.
func Init() Settings {
	if err := godotenv.Load(); err != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	Current = Load()

	if Current.DBDSN == "" {
		Logger.Fatal("DB_DSN is not set")
	}
	if Current.RedisAddr == "" {
		Logger.Fatal("REDIS_ADDR is not set")
	}
	if Current.JWTSecret == "" {
		Logger.Fatal("JWT_SECRET is not set")
	}
	return Current
}

// Load reads Settings from the environment without validating them.
func Load() Settings {
	jwtSecret := os.Getenv("JWT_SECRET")
	return Settings{
		AppPort: getEnv("APP_PORT", "8080"),
		AppEnv:  getEnv("APP_ENV", "development"),

		DBDSN:          os.Getenv("DB_DSN"),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBMaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		JWTSecret:       jwtSecret,
		ViewTokenSecret: getEnv("VIEW_TOKEN_SECRET", jwtSecret),
		ViewWindow:      getEnvAsDuration("VIEW_WINDOW", 24*time.Hour),
		ViewMaxEntries:  getEnvAsInt("VIEW_LEDGER_MAX_ENTRIES", DefaultViewMaxEntries),

		UnreadCacheTTL: getEnvAsDuration("UNREAD_CACHE_TTL", 5*time.Minute),

		AuditInterval:  getEnvAsDuration("AUDIT_INTERVAL", 5*time.Minute),
		AuditBatchSize: getEnvAsInt("AUDIT_BATCH_SIZE", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
