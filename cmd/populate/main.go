package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/soapbox/bible-verses/internal/config"
	"github.com/soapbox/bible-verses/internal/logger"
)

func main() {
	envErr := config.LoadDotEnv()
	logger.Init(os.Getenv("LOG_DEBUG") == "true")
	defer logger.Sync()
	if envErr != nil {
		logger.Warn("Failed to load .env", zap.Error(envErr))
	}

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}
