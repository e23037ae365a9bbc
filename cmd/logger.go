package cmd

import (
	"fmt"

	"github.com/jensneuse/abstractlogger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds a zap production logger writing JSON to stderr at the given level
func newLogger(level string) (abstractlogger.Logger, func(), error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.Encoding = "json"

	logger, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	sync := func() {
		_ = logger.Sync()
	}
	return abstractlogger.NewZapLogger(logger, abstractlogger.DebugLevel), sync, nil
}
