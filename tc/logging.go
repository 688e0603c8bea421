package tc

import (
	"io"
	"os"

	"cashlink/x/conv"
	"cashlink/x/fmtx"
	"cashlink/x/timex"
)

// Level is a terminal controller log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Logger is a minimal, allocation-conscious logger for the terminal
// controller: one line per call, a millisecond timestamp, no structured
// fields, no dependency on the full time package's formatting. Unlike
// the account server's charmbracelet/log-backed Logger, this one must
// run on the embedded board build as well as the host build, so it
// sticks to fmtx/timex rather than fmt/time.
type Logger struct {
	Out  io.Writer
	Min  Level
}

// NewLogger builds a Logger writing to stderr at LevelInfo and above.
func NewLogger() *Logger { return &Logger{Out: os.Stderr, Min: LevelInfo} }

func (l *Logger) log(lvl Level, msg string) {
	if l == nil || l.Out == nil || lvl < l.Min {
		return
	}
	var buf [8]byte
	ms := uint32(timex.NowMs() & 0xFFFFFFFF)
	ts := conv.U32Hex(buf[:], ms)
	fmtx.Fprintf(l.Out, "[%s] %s %s\n", ts, lvl, msg)
}

func (l *Logger) Debugf(format string, a ...any) { l.log(LevelDebug, fmtx.Sprintf(format, a...)) }
func (l *Logger) Infof(format string, a ...any)  { l.log(LevelInfo, fmtx.Sprintf(format, a...)) }
func (l *Logger) Warnf(format string, a ...any)  { l.log(LevelWarn, fmtx.Sprintf(format, a...)) }
func (l *Logger) Errorf(format string, a ...any) { l.log(LevelError, fmtx.Sprintf(format, a...)) }
