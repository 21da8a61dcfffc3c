package vglog

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Package vglog provides the plugin-wide logger. Call sites pass a
// category first, then alternating key/value pairs:
//
//	vglog.Info("LLM", "request", "sending request", "model", model)

var (
	logger   *slog.Logger
	loggerMu sync.RWMutex
	level    = new(slog.LevelVar)
)

func init() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Config controls log level and the optional rotating file sink.
type Config struct {
	Level      string // debug, info, warn, error
	FilePath   string // empty = stderr only
	MaxSizeMb  int
	MaxBackups int
	MaxAgeDays int
}

// Setup replaces the default stderr logger. When FilePath is set, output
// goes to both stderr and a size-rotated file.
func Setup(cfg Config) {
	switch strings.ToLower(cfg.Level) {
	case `debug`:
		level.Set(slog.LevelDebug)
	case `warn`:
		level.Set(slog.LevelWarn)
	case `error`:
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	var out io.Writer = os.Stderr
	if cfg.FilePath != `` {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMb,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}

	loggerMu.Lock()
	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	loggerMu.Unlock()
}

func get() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

func Debug(category string, args ...any) {
	get().Debug(category, args...)
}

func Info(category string, args ...any) {
	get().Info(category, args...)
}

func Warn(category string, args ...any) {
	get().Warn(category, args...)
}

func Error(category string, args ...any) {
	get().Error(category, args...)
}
