package natsq

import (
	"testing"
	"time"
)

func TestDuplicateWindow(t *testing.T) {
	tests := []struct {
		name   string
		window time.Duration
		want   time.Duration
	}{
		{"doubles the look-back window", time.Hour, 2 * time.Hour},
		{"default window", 30 * time.Second, 2 * time.Minute},
		{"floor for tiny windows", 10 * time.Second, 2 * time.Minute},
		{"exactly at the floor", time.Minute, 2 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := duplicateWindow(tt.window); got != tt.want {
				t.Errorf("duplicateWindow(%v) = %v, want %v", tt.window, got, tt.want)
			}
		})
	}
}
