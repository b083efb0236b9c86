package serial

import (
	"log/slog"
	"os"
	"sync"
)

type component string

const (
	componentUART     component = "uart"
	componentRegistry component = "registry"
	componentTTY      component = "tty"
)

var (
	logger   *slog.Logger
	logLevel = new(slog.LevelVar)
	logMutex sync.RWMutex
)

func init() {
	logLevel.Set(slog.LevelWarn)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// SetLogLevel sets the minimum level of the package logger.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// SetLogger replaces the package logger. Records carry a "component"
// attribute naming the part of the driver that emitted them.
func SetLogger(l *slog.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logger = l
}

func logFor(c component) *slog.Logger {
	logMutex.RLock()
	l := logger
	logMutex.RUnlock()
	return l.With("component", string(c))
}
