package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		ok   bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"INFO", zapcore.InfoLevel, true},
		{" warning ", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"verbose", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With(String("component", "reloader"))

	log.Info("reloaded", Int("bookmarks", 3), Bool("changed", true))
	log.Warn("redis down", Error(errors.New("dial tcp: refused")))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.ContextMap()["component"] != "reloader" {
			t.Errorf("entry %q lost the component field: %v", e.Message, e.ContextMap())
		}
	}
	if got := entries[0].ContextMap()["bookmarks"]; got != int64(3) {
		t.Errorf("bookmarks = %v, want 3", got)
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error("ignored", String("k", "v"))
	log.Debugf("ignored %d", 1)
	if err := log.Sync(); err != nil {
		t.Errorf("Sync() on nop logger: %v", err)
	}
}
