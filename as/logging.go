package as

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charmbracelet/log with the account server's default
// formatting; the AS runs on a general-purpose machine so, unlike the
// terminal controller's allocation-conscious logger, it can afford a
// structured, timestamped logger.
type Logger struct {
	*log.Logger
}

// LogConfig holds logger configuration loaded alongside the rest of the
// AS config.
type LogConfig struct {
	Level string
	Prefix string
	Output io.Writer
}

// DefaultLogConfig returns the AS's default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Prefix: "account-server", Output: os.Stderr}
}

// NewLogger builds a Logger from cfg, defaulting any zero fields.
func NewLogger(cfg LogConfig) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	l := log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
		TimeFormat:   time.TimeOnly,
		Prefix:     cfg.Prefix,
	})
	l.SetLevel(parseLevel(cfg.Level))
	return &Logger{Logger: l}
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
