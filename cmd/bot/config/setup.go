package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/porterbot/porter/pkg/logging"
)

func Parse(l *slog.Logger) {
	// A .env file is optional; real deployments set the environment
	// directly.
	if err := godotenv.Load(); err != nil {
		l.Debug("No .env file loaded", slog.String(logging.KeyError, err.Error()))
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		BotToken = envBT
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		ApplicationId = envAppId
	}

	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		l.Debug("Found settings document path in environment", slog.String("key", EnvConfigPath))
		ConfigPath = envPath
	} else {
		// Default to the working directory if not provided.
		ConfigPath = "config.json"
		l.Info("No settings document path provided in environment, defaulting to config.json",
			slog.String("key", EnvConfigPath))
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		MonitoringPort = envMonitoringPort
	} else {
		// Default to 8080 if not provided.
		MonitoringPort = "8080"
		l.Info("No monitoring port provided in environment, defaulting to 8080",
			slog.String("key", EnvMonitoringPort))
	}

	if BotToken != "" &&
		ApplicationId != "" {

		// All required environment variables have been provided.
		l.Debug("All required environment variables have been provided")
		return
	}

	l.Error("Not all required environment variables have been provided",
		slog.String(logging.KeyError, "incomplete configuration"))
	os.Exit(1)
}
