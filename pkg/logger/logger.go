package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is a component-scoped logging handle. It resolves the shared
// backend on every call, so handles created at package init time pick
// up the real sink once Init runs. Log output goes to a file so it
// never corrupts the terminal UI.
type Logger struct {
	component string
}

var (
	mu      sync.RWMutex
	backend = zerolog.Nop()
	logFile *os.File
)

// Options controls logger initialization.
type Options struct {
	Level    string // debug, info, warn, error
	LogFile  string // path to the log file
	Preserve bool   // append to an existing file instead of truncating
}

// Init initializes the package-level backend. Safe to call more than
// once; subsequent calls replace the previous backend and close its
// file.
func Init(opts Options) error {
	level, err := zerolog.ParseLevel(normalizeLevel(opts.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	logDir := filepath.Dir(opts.LogFile)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if opts.Preserve {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(opts.LogFile, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	backend = zerolog.New(file).Level(level).With().Timestamp().Logger()
	return nil
}

// SetOutput redirects the backend to the given writer at debug level.
// Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	backend = zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// Close closes the log file and silences the backend.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	backend = zerolog.Nop()
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// WithComponent returns a logger scoped to a named component. Usable
// before Init: entries are dropped until a backend exists.
func WithComponent(name string) *Logger {
	return &Logger{component: name}
}

func (l *Logger) zl() zerolog.Logger {
	mu.RLock()
	b := backend
	mu.RUnlock()
	if l == nil || l.component == "" {
		return b
	}
	return b.With().Str("component", l.component).Logger()
}

func normalizeLevel(level string) string {
	switch level {
	case "warning":
		return "warn"
	case "":
		return "info"
	}
	return level
}

// fields converts alternating key-value pairs into a zerolog field map.
// A trailing unpaired value is recorded under "arg" rather than dropped.
func fields(kv []interface{}) map[string]interface{} {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]interface{}, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		m[key] = kv[i+1]
	}
	if len(kv)%2 != 0 {
		m["arg"] = kv[len(kv)-1]
	}
	return m
}

// Debug logs a debug message with optional key-value context.
func (l *Logger) Debug(msg string, kv ...interface{}) {
	zl := l.zl()
	zl.Debug().Fields(fields(kv)).Msg(msg)
}

// Info logs an info message with optional key-value context.
func (l *Logger) Info(msg string, kv ...interface{}) {
	zl := l.zl()
	zl.Info().Fields(fields(kv)).Msg(msg)
}

// Warn logs a warning message with optional key-value context.
func (l *Logger) Warn(msg string, kv ...interface{}) {
	zl := l.zl()
	zl.Warn().Fields(fields(kv)).Msg(msg)
}

// Error logs an error message with optional key-value context.
func (l *Logger) Error(msg string, kv ...interface{}) {
	zl := l.zl()
	zl.Error().Fields(fields(kv)).Msg(msg)
}

// Fatal logs at fatal level and exits the process.
func (l *Logger) Fatal(msg string, kv ...interface{}) {
	zl := l.zl()
	zl.Fatal().Fields(fields(kv)).Msg(msg)
}

// Package-level convenience functions using the default backend.

func Debug(msg string, kv ...interface{}) { WithComponent("app").Debug(msg, kv...) }
func Info(msg string, kv ...interface{})  { WithComponent("app").Info(msg, kv...) }
func Warn(msg string, kv ...interface{})  { WithComponent("app").Warn(msg, kv...) }
func Error(msg string, kv ...interface{}) { WithComponent("app").Error(msg, kv...) }
