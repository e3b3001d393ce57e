package logging

import (
	"strings"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the production zap logger at the given level and wraps it.
func New(level string) (*logger.ZapLogger, *zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	zcore, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return logger.NewZapLogger(zcore.Sugar()), zcore, nil
}

// Nop is used by tests and by components constructed without a logger.
func Nop() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

func parseLevel(value string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
