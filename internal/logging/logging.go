// Package logging builds the pipeline's zap loggers. Each stage logs to the
// console and to its own file under the configured logs directory, so a
// researcher run and a strategist run can be audited separately.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/avdeyev/localscout/internal/model"
)

// New creates a logger for one pipeline stage ("researcher", "strategist",
// "cli"). When the logs directory cannot be created the file sink is skipped
// and logging continues on the console alone.
func New(cfg model.LogsConfig, stage string) *zap.Logger {
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level),
	}

	if cfg.Dir != "" {
		if core, err := fileCore(cfg.Dir, stage, level); err == nil {
			cores = append(cores, core)
		}
	}

	return zap.New(zapcore.NewTee(cores...)).Named(stage)
}

func fileCore(dir, stage string, level zapcore.Level) (zapcore.Core, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}

	path := filepath.Join(dir, stage+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), level), nil
}
