package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level       string `mapstructure:"level"`
	Pretty      bool   `mapstructure:"pretty"`
	ServiceName string `mapstructure:"service_name"`
	// File redirects output away from stdout. The terminal UI needs this
	// because bubbletea owns the screen while it runs.
	File string `mapstructure:"file"`
}

var (
	global zerolog.Logger
	once   sync.Once
)

func init() {
	// Safe default before Init() is called.
	global = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// New creates a configured zerolog.Logger writing to w.
func New(cfg Config, w io.Writer) zerolog.Logger {
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: cfg.File != ""}
	}

	logger := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	if cfg.ServiceName != "" {
		logger = logger.With().Str(FieldService, cfg.ServiceName).Logger()
	}
	return logger
}

// Init initialises the global logger. Call once at startup. The returned
// closer releases the log file when Config.File is set; it is a no-op otherwise.
func Init(cfg Config) (func() error, error) {
	return InitWriter(cfg, os.Stdout)
}

// InitWriter is Init with a different destination than stdout when no log
// file is configured. Commands that print results use it to keep logs on stderr.
func InitWriter(cfg Config, fallback io.Writer) (func() error, error) {
	closer := func() error { return nil }

	var initErr error
	once.Do(func() {
		w := fallback
		if cfg.File != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
				initErr = fmt.Errorf("failed to create log directory: %w", err)
				return
			}
			f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				initErr = fmt.Errorf("failed to open log file: %w", err)
				return
			}
			w = f
			closer = f.Close
		}

		global = New(cfg, w)

		// Bridge stdlib log → zerolog.
		stdlog.SetFlags(0)
		stdlog.SetOutput(global.With().Str("source", "stdlog").Logger())
	})

	return closer, initErr
}

// L returns the global logger.
func L() zerolog.Logger {
	return global
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
