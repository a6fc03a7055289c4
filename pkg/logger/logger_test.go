package logger

import (
	"errors"
	"log/slog"
	"os"
	"testing"
)

func TestScope(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		want  string
	}{
		{"basic scope", "models", "models"},
		{"nested scope", "objects.sync", "objects.sync"},
		{"empty scope", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := Scope(tt.scope)
			if attr.Key != "scope" {
				t.Errorf("Scope() key = %q, want %q", attr.Key, "scope")
			}
			if attr.Value.String() != tt.want {
				t.Errorf("Scope() value = %q, want %q", attr.Value.String(), tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"simple error", errors.New("something went wrong")},
		{"nil error", nil},
		{"joined error", errors.Join(errors.New("outer"), errors.New("inner"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := Error(tt.err)
			if attr.Key != "error" {
				t.Errorf("Error() key = %q, want %q", attr.Key, "error")
			}
			if got := attr.Value.Any(); got != tt.err {
				t.Errorf("Error() value = %v, want %v", got, tt.err)
			}
		})
	}
}

func TestNewLogger_Levels(t *testing.T) {
	origLevel := os.Getenv("LOG_LEVEL")
	defer func() {
		if origLevel == "" {
			os.Unsetenv("LOG_LEVEL")
		} else {
			os.Setenv("LOG_LEVEL", origLevel)
		}
	}()

	tests := []struct {
		level      string
		enabled    slog.Level
		notEnabled *slog.Level
	}{
		{"debug", slog.LevelDebug, nil},
		{"info", slog.LevelInfo, levelPtr(slog.LevelDebug)},
		{"warn", slog.LevelWarn, levelPtr(slog.LevelInfo)},
		{"warning", slog.LevelWarn, levelPtr(slog.LevelInfo)},
		{"error", slog.LevelError, levelPtr(slog.LevelWarn)},
		{"DEBUG", slog.LevelDebug, nil},
		{"invalid", slog.LevelInfo, levelPtr(slog.LevelDebug)},
		{"", slog.LevelInfo, levelPtr(slog.LevelDebug)},
	}

	for _, tt := range tests {
		t.Run("LOG_LEVEL="+tt.level, func(t *testing.T) {
			if tt.level == "" {
				os.Unsetenv("LOG_LEVEL")
			} else {
				os.Setenv("LOG_LEVEL", tt.level)
			}

			log := NewLogger()
			if log == nil {
				t.Fatal("NewLogger() returned nil")
			}
			if !log.Enabled(nil, tt.enabled) {
				t.Errorf("level %v should be enabled for LOG_LEVEL=%s", tt.enabled, tt.level)
			}
			if tt.notEnabled != nil && log.Enabled(nil, *tt.notEnabled) {
				t.Errorf("level %v should NOT be enabled for LOG_LEVEL=%s", *tt.notEnabled, tt.level)
			}
		})
	}
}

func levelPtr(l slog.Level) *slog.Level { return &l }
