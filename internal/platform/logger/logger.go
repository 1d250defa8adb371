package logger

import (
	"fmt"
	"os"
	"strings"

	"ifitness/api/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger from the log section of the config.
// Debug level or console format gets the human-friendly development encoder,
// everything else logs JSON with ISO8601 timestamps.
func New(cfg config.LogConfig) *zap.Logger {
	level := strings.ToLower(cfg.Level)
	format := strings.ToLower(cfg.Format)

	var zapConfig zap.Config
	if level == "debug" || format == "console" || format == "text" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if err := zapConfig.Level.UnmarshalText([]byte(level)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, defaulting to info\n", cfg.Level)
		zapConfig.Level.SetLevel(zapcore.InfoLevel)
	}

	logger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building zap logger: %v, falling back to production defaults\n", err)
		logger, _ = zap.NewProduction()
	}
	return logger
}
