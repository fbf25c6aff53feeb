package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/podcast-tools/spotify-mcp/pkg/store"
)

func TestRemaining(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"hours and minutes", 2*time.Hour + 5*time.Minute, "2h 5m"},
		{"minutes only", 12*time.Minute + 30*time.Second, "12m"},
		{"seconds only", 45 * time.Second, "45s"},
		{"expired clamps to zero", -3 * time.Minute, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := remaining(tt.d); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTokenLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	fileStore, err := store.NewFileStore(path)
	if err != nil {
		t.Fatalf("Failed to create file store: %v", err)
	}
	if got := tokenLocation(fileStore); got != path {
		t.Errorf("Expected file path %q, got %q", path, got)
	}

	if got := tokenLocation(store.NewMemoryStore()); got != "memory" {
		t.Errorf("Expected memory, got %q", got)
	}
}
