package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads path (TOML, or YAML by extension), applies environment overrides
// and defaults, and validates the result. An empty path or a missing file
// yields the defaults plus environment.
func Load(path string) (*File, error) {
	f := &File{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, f); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// no file yet: defaults and environment only
		default:
			return nil, err
		}
	}

	if err := applyEnv(f); err != nil {
		return nil, err
	}
	f.applyDefaults()

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return f, nil
}

func decode(path string, data []byte, f *File) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, f)
	default:
		return toml.Unmarshal(data, f)
	}
}

// applyEnv overrides the site profile from DEEPSEEK_* variables and the port
// from PORT.
func applyEnv(f *File) error {
	if v := os.Getenv("DEEPSEEK_API_KEY"); v != "" {
		f.DeepSeek.APIKey = v
	}
	if v := os.Getenv("DEEPSEEK_MODEL"); v != "" {
		f.DeepSeek.Model = v
	}
	if v := os.Getenv("DEEPSEEK_CUSTOM_PROMPT"); v != "" {
		f.DeepSeek.CustomPrompt = v
	}
	if v := os.Getenv("DEEPSEEK_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DEEPSEEK_TEMPERATURE: %w", err)
		}
		f.DeepSeek.Temperature = &t
	}
	if v := os.Getenv("DEEPSEEK_BASE_URL"); v != "" {
		f.Batch.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		f.Server.Port = v
	}
	return nil
}

// DefaultPath returns ~/.deepseek-translate/config.toml, or config.toml in
// the working directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".deepseek-translate", "config.toml")
}
