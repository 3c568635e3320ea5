// Package config holds the DeepSeek settings: a site-wide profile, optional
// per-user overrides and the batch tuning knobs.
package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	ModelChat     = "deepseek-chat"
	ModelReasoner = "deepseek-reasoner"

	DefaultModel        = ModelChat
	DefaultBaseURL      = "https://api.deepseek.com"
	DefaultPort         = "8080"
	DefaultChunkSize    = 20
	DefaultMaxBatch     = 100
	DefaultChunkDelay   = time.Second
	DefaultFallbackRate = 4.0
)

// Models lists the accepted model names.
var Models = []string{ModelChat, ModelReasoner}

// Profile is one settings block as written in the file. Empty fields mean
// "not set"; Temperature is a pointer so an explicit 0 can override.
type Profile struct {
	APIKey       string   `toml:"api_key" yaml:"api_key"`
	Model        string   `toml:"model" yaml:"model"`
	Temperature  *float64 `toml:"temperature" yaml:"temperature"`
	CustomPrompt string   `toml:"custom_prompt" yaml:"custom_prompt"`
}

// Settings is the resolved, immutable configuration handed to a translation
// client.
type Settings struct {
	APIKey       string
	Model        string
	Temperature  float64
	CustomPrompt string
}

// HasAPIKey reports whether a key is configured.
func (s Settings) HasAPIKey() bool { return s.APIKey != "" }

// Batch tunes the orchestrator and the HTTP client.
type Batch struct {
	ChunkSize  int      `toml:"chunk_size" yaml:"chunk_size"`
	MaxBatch   int      `toml:"max_batch" yaml:"max_batch"`
	ChunkDelay Duration `toml:"chunk_delay" yaml:"chunk_delay"`
	// FallbackRate is the per-string fallback throttle in requests/second.
	FallbackRate float64 `toml:"fallback_rate" yaml:"fallback_rate"`
	MaxRetries   int     `toml:"max_retries" yaml:"max_retries"`
	BaseURL      string  `toml:"base_url" yaml:"base_url"`
}

type Server struct {
	Port string `toml:"port" yaml:"port"`
}

// File is the whole configuration document.
type File struct {
	DeepSeek Profile            `toml:"deepseek" yaml:"deepseek"`
	Users    map[string]Profile `toml:"users" yaml:"users"`
	Batch    Batch              `toml:"batch" yaml:"batch"`
	Server   Server             `toml:"server" yaml:"server"`
}

// Default returns a File with every default applied and no API key.
func Default() *File {
	f := &File{}
	f.applyDefaults()
	return f
}

func (f *File) applyDefaults() {
	if f.DeepSeek.Model == "" {
		f.DeepSeek.Model = DefaultModel
	}
	if f.Batch.ChunkSize <= 0 {
		f.Batch.ChunkSize = DefaultChunkSize
	}
	if f.Batch.MaxBatch <= 0 {
		f.Batch.MaxBatch = DefaultMaxBatch
	}
	if f.Batch.ChunkDelay <= 0 {
		f.Batch.ChunkDelay = Duration(DefaultChunkDelay)
	}
	if f.Batch.FallbackRate <= 0 {
		f.Batch.FallbackRate = DefaultFallbackRate
	}
	if f.Batch.BaseURL == "" {
		f.Batch.BaseURL = DefaultBaseURL
	}
	if f.Server.Port == "" {
		f.Server.Port = DefaultPort
	}
}

// Validate checks the site profile and every user override.
func (f *File) Validate() error {
	if err := f.DeepSeek.validate(); err != nil {
		return fmt.Errorf("deepseek: %w", err)
	}
	for id, p := range f.Users {
		if err := p.validate(); err != nil {
			return fmt.Errorf("users.%s: %w", id, err)
		}
	}
	if f.Batch.MaxRetries < 0 {
		return errors.New("batch.max_retries must not be negative")
	}
	if f.Batch.ChunkSize > f.Batch.MaxBatch {
		return fmt.Errorf("batch.chunk_size %d exceeds batch.max_batch %d", f.Batch.ChunkSize, f.Batch.MaxBatch)
	}
	return nil
}

func (p Profile) validate() error {
	if p.Model != "" && !ValidModel(p.Model) {
		return fmt.Errorf("unknown model %q", p.Model)
	}
	if p.Temperature != nil && (*p.Temperature < 0 || *p.Temperature > 2) {
		return fmt.Errorf("temperature %v out of range [0,2]", *p.Temperature)
	}
	return nil
}

// ValidModel reports whether name is one of Models.
func ValidModel(name string) bool {
	for _, m := range Models {
		if m == name {
			return true
		}
	}
	return false
}

// Site returns the site-wide settings.
func (f *File) Site() Settings {
	return f.ForUser("")
}

// ForUser merges the user's non-empty overrides over the site profile.
// Unknown users get the site settings.
func (f *File) ForUser(userID string) Settings {
	s := Settings{
		APIKey:       f.DeepSeek.APIKey,
		Model:        f.DeepSeek.Model,
		CustomPrompt: f.DeepSeek.CustomPrompt,
	}
	if f.DeepSeek.Temperature != nil {
		s.Temperature = *f.DeepSeek.Temperature
	}

	if u, ok := f.Users[userID]; ok && userID != "" {
		if u.APIKey != "" {
			s.APIKey = u.APIKey
		}
		if u.Model != "" {
			s.Model = u.Model
		}
		if u.Temperature != nil {
			s.Temperature = *u.Temperature
		}
		if u.CustomPrompt != "" {
			s.CustomPrompt = u.CustomPrompt
		}
	}

	if s.Model == "" {
		s.Model = DefaultModel
	}
	return s
}

// Duration reads "1s"-style strings from TOML and YAML.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
