package logger

import (
	"testing"

	"github.com/rogerio-castellano/grocery-inventory/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
	}{
		{"json", config.LogConfig{Level: "info", Encoding: "json"}, false},
		{"console debug", config.LogConfig{Level: "debug", Encoding: "console"}, false},
		{"bad level", config.LogConfig{Level: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if l != nil {
				_ = l.Sync()
			}
		})
	}
}
