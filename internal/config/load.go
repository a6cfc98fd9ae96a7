package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
// The scene kind, from the -scene flag or the file, picks the defaults.
func Load() (*Config, error) {
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	var data []byte
	if configPath != "" {
		var err error
		data, err = os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	cfg, err := parse(data, *flagScene)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	applyFlags(cfg)

	return cfg, nil
}

// parse decodes YAML over the defaults of the scene kind. kind, when not
// empty, wins over the kind in data.
func parse(data []byte, kind string) (*Config, error) {
	if kind == "" && len(data) > 0 {
		var head struct {
			Scene struct {
				Kind string `yaml:"kind"`
			} `yaml:"scene"`
		}
		if err := yaml.Unmarshal(data, &head); err != nil {
			return nil, err
		}
		kind = head.Scene.Kind
	}

	cfg := DefaultFor(kind)
	if cfg == nil {
		return nil, fmt.Errorf("unknown scene kind %q", kind)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if kind != "" {
		cfg.Scene.Kind = kind
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "NormalMapDemo")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "NormalMapDemo")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "normalmap-demo")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "normalmap-demo")
	}
}
