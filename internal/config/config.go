package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	LibraryFolders []string `koanf:"library_folders"` // paths to scan for audiobooks

	// Playback settings
	SkipForwardSeconds int     `koanf:"skip_forward_seconds"` // default: 15
	SkipBackSeconds    int     `koanf:"skip_back_seconds"`    // default: 15
	AutosaveSeconds    int     `koanf:"autosave_seconds"`     // default: 5
	DefaultRate        float64 `koanf:"default_rate"`         // default: 1.0

	// Session bus service whose loss stops playback (e.g.
	// "org.pipewire.pipewire-pulse"); empty disables that watch.
	AudioService string `koanf:"audio_service"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in library_folders
	for i, folder := range cfg.LibraryFolders {
		cfg.LibraryFolders[i] = expandPath(folder)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/fable/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "fable", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// SkipForward returns the forward skip amount with the default applied.
func (c *Config) SkipForward() time.Duration {
	if c.SkipForwardSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.SkipForwardSeconds) * time.Second
}

// SkipBack returns the backward skip amount with the default applied.
func (c *Config) SkipBack() time.Duration {
	if c.SkipBackSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.SkipBackSeconds) * time.Second
}

// AutosaveInterval returns the autosave interval with the default applied.
func (c *Config) AutosaveInterval() time.Duration {
	if c.AutosaveSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.AutosaveSeconds) * time.Second
}

// Rate returns the startup playback rate with the default applied.
func (c *Config) Rate() float64 {
	if c.DefaultRate <= 0 {
		return 1.0
	}
	return c.DefaultRate
}
