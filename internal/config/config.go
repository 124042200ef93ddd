package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trattoria/internal/agent"
)

// Config is the full service configuration. Secrets come from the
// environment, never from the file.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Provider    ProviderConfig    `yaml:"provider"`
	Menu        MenuConfig        `yaml:"menu"`
	Session     SessionConfig     `yaml:"session"`
	Transcripts TranscriptsConfig `yaml:"transcripts"`
	Tuning      agent.Tuning      `yaml:"tuning"`
}

// Duration decodes YAML strings like "30s" or "4h"
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ProviderConfig struct {
	BaseURL string   `yaml:"base_url"`
	Model   string   `yaml:"model"`
	Timeout Duration `yaml:"timeout"`
}

type MenuConfig struct {
	Path string `yaml:"path"`
}

type SessionConfig struct {
	TTL Duration `yaml:"ttl"`
}

// TranscriptsConfig controls the optional conversation audit trail. It is
// off unless explicitly enabled.
type TranscriptsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Server:      ServerConfig{Addr: ":8080"},
		Provider:    ProviderConfig{Model: "gpt-4o-mini", Timeout: Duration(30 * time.Second)},
		Menu:        MenuConfig{Path: "menu.json"},
		Session:     SessionConfig{TTL: Duration(4 * time.Hour)},
		Transcripts: TranscriptsConfig{Path: "transcripts.db"},
		Tuning:      agent.DefaultTuning(),
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// APIKey returns the provider API key from the environment
func APIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// SessionSecret returns the token signing secret, generating nothing: an
// empty value tells the caller to pick an ephemeral one.
func SessionSecret() string {
	return os.Getenv("SESSION_SECRET")
}
