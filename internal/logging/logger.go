// Package logging provides zap logger helpers for the scraper service.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chiragp/store-review-scraper/internal/config"
)

// serviceName is the root logger name; handlers derive scoped loggers from it.
const serviceName = "reviewscraper"

// New builds the service's root zap.Logger from the logging config.
// Development mode gets colored console output; production gets JSON with
// stacktraces enabled.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	if cfg.Development {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.TimeKey = "ts"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := zcfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger.Named(serviceName), nil
	}
	zcfg := zap.NewProductionConfig()
	zcfg.DisableStacktrace = false
	zcfg.EncoderConfig.TimeKey = "ts"
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger.Named(serviceName), nil
}
