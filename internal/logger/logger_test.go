package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level, format string
		want          zap.AtomicLevel
	}{
		{"debug", "console", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"warn", "json", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"", "json", zap.NewAtomicLevelAt(zap.InfoLevel)},
	}
	for _, tc := range cases {
		log, err := New(tc.level, tc.format)
		if err != nil {
			t.Fatalf("New(%q, %q) failed: %v", tc.level, tc.format, err)
		}
		if !log.Core().Enabled(tc.want.Level()) {
			t.Errorf("New(%q, %q): expected %s enabled", tc.level, tc.format, tc.want.Level())
		}
		if tc.want.Level() > zap.DebugLevel && log.Core().Enabled(zap.DebugLevel) {
			t.Errorf("New(%q, %q): debug must be disabled", tc.level, tc.format)
		}
	}
}
