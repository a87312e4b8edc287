package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/audiobooks",
			expected: filepath.Join(home, "audiobooks"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/audiobooks/scifi/herbert",
			expected: filepath.Join(home, "audiobooks", "scifi", "herbert"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/srv/audiobooks",
			expected: "/srv/audiobooks",
		},
		{
			name:     "relative path unchanged",
			input:    "audiobooks/scifi",
			expected: "audiobooks/scifi",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Error("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "fable", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if got := cfg.SkipForward(); got != 15*time.Second {
		t.Errorf("SkipForward() = %v, want 15s", got)
	}
	if got := cfg.SkipBack(); got != 15*time.Second {
		t.Errorf("SkipBack() = %v, want 15s", got)
	}
	if got := cfg.AutosaveInterval(); got != 5*time.Second {
		t.Errorf("AutosaveInterval() = %v, want 5s", got)
	}
	if got := cfg.Rate(); got != 1.0 {
		t.Errorf("Rate() = %v, want 1.0", got)
	}
}

func TestConfiguredValues(t *testing.T) {
	cfg := &Config{
		SkipForwardSeconds: 30,
		SkipBackSeconds:    10,
		AutosaveSeconds:    2,
		DefaultRate:        1.5,
	}

	if got := cfg.SkipForward(); got != 30*time.Second {
		t.Errorf("SkipForward() = %v, want 30s", got)
	}
	if got := cfg.SkipBack(); got != 10*time.Second {
		t.Errorf("SkipBack() = %v, want 10s", got)
	}
	if got := cfg.AutosaveInterval(); got != 2*time.Second {
		t.Errorf("AutosaveInterval() = %v, want 2s", got)
	}
	if got := cfg.Rate(); got != 1.5 {
		t.Errorf("Rate() = %v, want 1.5", got)
	}
}
