package app

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment loads .env when present and returns APP_ENV, defaulting to development.
func Environment() string {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded environment from .env")
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	return env
}

// ConfigPath returns CONFIG_PATH or the local development default.
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config/config.yaml"
}

// NewLogger builds a production JSON logger or a colored development one.
func NewLogger(env string) *zap.Logger {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}

	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return logger
}
