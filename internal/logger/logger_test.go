package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
		ok   bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{" WARN ", zapcore.WarnLevel, true},
		{"warning", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"", zapcore.InfoLevel, false},
		{"verbose", zapcore.InfoLevel, false},
	}
	for _, tc := range cases {
		got, ok := parseLevel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("parseLevel(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestWithAndNop(t *testing.T) {
	l := New("error", false).With(String("component", "test"), Bool("flag", true))
	l.Info("dropped below level")
	_ = l.Sync()

	Nop().With(Int("n", 1)).Error("discarded")
}
