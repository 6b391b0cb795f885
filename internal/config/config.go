package config

import (
	"log"

	"go.uber.org/zap"
)

// Logger is a no-op until InitLogger runs.
var Logger = zap.NewNop()

// InitLogger builds the process-wide zap logger. APP_ENV=production switches to the JSON encoder.
func InitLogger() {
	var err error
	if getEnv("APP_ENV", "development") == "production" {
		Logger, err = zap.NewProduction()
	} else {
		Logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}

	Logger.Info("✅ Zap logger initialized")
}
