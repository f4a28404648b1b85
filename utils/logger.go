package utils

import (
	"os"

	"go.uber.org/zap"
)

// InitLogger builds the process-wide zap logger. Production config unless
// APP_ENV says otherwise.
func InitLogger() *zap.Logger {
	var logger *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
