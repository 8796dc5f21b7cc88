// Package logger writes per-task structured logs. Every run gets its
// own JSON log file under the log directory; console output is an
// optional human-readable tee.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"webpilot/internal/application/port/output"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

type LoggerAdapter struct {
	sugar *zap.SugaredLogger
	file  *os.File
}

type Config struct {
	// Dir is where log files land. Defaults to "log".
	Dir string
	// Task names the run; it is sanitized into the file name.
	Task string
	// Level gates the console tee. The file always gets debug and up.
	Level   string
	Console bool
}

// NewLoggerAdapter opens log/<timestamp>_<task>.log and builds a zap
// logger around it. Derived loggers from Named/WithField share the
// file; Close it once, on the adapter that opened it.
func NewLoggerAdapter(cfg Config) (*LoggerAdapter, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "log"
	}

	safeName := sanitize(cfg.Task)
	filename := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02_15-04-05"), safeName)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), zapcore.DebugLevel),
	}

	if cfg.Console {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		cores = append(cores,
			zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level))
	}

	return &LoggerAdapter{
		sugar: zap.New(zapcore.NewTee(cores...)).Sugar(),
		file:  file,
	}, nil
}

// Nop is a logger that discards everything. Handy as a default when no
// log file is wanted.
func Nop() *LoggerAdapter {
	return &LoggerAdapter{sugar: zap.NewNop().Sugar()}
}

func (l *LoggerAdapter) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *LoggerAdapter) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *LoggerAdapter) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *LoggerAdapter) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

func (l *LoggerAdapter) Named(name string) output.LoggerPort {
	return &LoggerAdapter{sugar: l.sugar.Named(name), file: l.file}
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &LoggerAdapter{sugar: l.sugar.With(key, value), file: l.file}
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	// stable field order keeps log lines diffable
	sort.Strings(keys)

	args := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return &LoggerAdapter{sugar: l.sugar.With(args...), file: l.file}
}

func (l *LoggerAdapter) Close() error {
	// stderr refuses fsync on most platforms, so the sync result is
	// not worth surfacing
	_ = l.sugar.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// sanitize makes a task name safe to embed in a file name.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, s)
	s = strings.Trim(s, "_")
	if s == "" {
		return "task"
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
