package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_Levels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		env  string
		want zerolog.Level
	}{
		{"dev", zerolog.DebugLevel},
		{"test", zerolog.WarnLevel},
		{"prod", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			Init(tt.env)
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("Init(%q) level = %v, want %v", tt.env, got, tt.want)
			}
		})
	}
}
