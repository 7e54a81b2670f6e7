package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aliskhannn/road-signs-bot/internal/config"
)

// New builds a JSON logger for production and a console logger otherwise.
// cfg.Debug lowers the production level to debug.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
		if cfg.Debug {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
	}

	l, err := zcfg.Build(zap.Fields(zap.String("env", cfg.Env)))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
