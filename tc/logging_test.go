package tc

import (
	"strings"
	"testing"
)

func TestLogger_MinLevelFilters(t *testing.T) {
	var buf strings.Builder
	l := &Logger{Out: &buf, Min: LevelWarn}
	l.Debugf("should not appear")
	l.Infof("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("below-threshold logs were written: %q", buf.String())
	}
	l.Warnf("threshold message")
	if !strings.Contains(buf.String(), "threshold message") {
		t.Fatalf("at-threshold log missing: %q", buf.String())
	}
}

func TestLogger_NilLoggerIsANoOp(t *testing.T) {
	var l *Logger
	l.Infof("never panics")
}

func TestLevel_String(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
	}
	for lvl, want := range cases {
		if got := lvl.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", lvl, got, want)
		}
	}
}
