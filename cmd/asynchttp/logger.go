package main

import (
	"go.uber.org/zap"

	"github.com/utkarsh5026/asynchttp/internal/config"
)

// newLogger builds a json production logger or a console development
// logger, both writing to stderr so command output stays clean.
func newLogger(cfg *config.Configuration) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.LogFormat == config.LogFormatJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	zc.Level = zap.NewAtomicLevelAt(cfg.Level())
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}
