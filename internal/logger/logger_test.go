package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		lvl  string
		env  string
		want zerolog.Level
	}{
		{"explicit level wins", "warn", "development", zerolog.WarnLevel},
		{"case insensitive", "ERROR", "", zerolog.ErrorLevel},
		{"development default", "", "development", zerolog.DebugLevel},
		{"production default", "", "production", zerolog.InfoLevel},
		{"unknown falls back", "loud", "production", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Level(tt.lvl, tt.env); got != tt.want {
				t.Errorf("Level(%q, %q) = %s, want %s", tt.lvl, tt.env, got, tt.want)
			}
		})
	}
}

func TestNewUsesSeverityField(t *testing.T) {
	_ = New()
	if zerolog.LevelFieldName != "severity" {
		t.Errorf("expected level field name severity, got %q", zerolog.LevelFieldName)
	}
}
