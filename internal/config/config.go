// Package config loads ankictl configuration from the platform-native
// backend, environment variables, and the platform secret store.
package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Anki   AnkiConfig
	Server ServerConfig
	Proxy  ProxyConfig
	Prompt PromptConfig
	Export ExportConfig
	Log    LogConfig
}

type AnkiConfig struct {
	BaseURL string
}

type ServerConfig struct {
	Port     int
	APIToken string
}

type ProxyConfig struct {
	OpenRouterAPIKey string
	Model            string
}

type PromptConfig struct {
	Language string
	Level    string
}

type ExportConfig struct {
	Dir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Anki: AnkiConfig{
			BaseURL: "http://localhost:8765",
		},
		Server: ServerConfig{
			Port: 4817,
		},
		Proxy: ProxyConfig{
			Model: "anthropic/claude-sonnet-4",
		},
		Prompt: PromptConfig{
			Language: "Finnish",
			Level:    "A2",
		},
		Export: ExportConfig{
			Dir: defaultExportDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, then
// applies ANKICTL_* environment overrides, then falls back to the
// platform secret store for the OpenRouter API key.
//
// On macOS the backend is UserDefaults (domain: com.ankictl.app) and
// the secret store is the Keychain. Elsewhere the backend is a JSON
// file at $XDG_CONFIG_HOME/ankictl/config.json and secrets live in
// $XDG_DATA_HOME/ankictl/secrets.json.
//
// A missing OpenRouter key is not an error here: only the commands
// that generate text require it (see RequireOpenRouterKey).
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts secret-store access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Proxy.OpenRouterAPIKey == "" {
		if key, err := kc.Get("ankictl", "openrouter_api_key"); err == nil && key != "" {
			cfg.Proxy.OpenRouterAPIKey = key
		}
	}

	return cfg, nil
}

// RequireOpenRouterKey returns a descriptive error when no OpenRouter
// API key was found anywhere.
func (c Config) RequireOpenRouterKey() error {
	if c.Proxy.OpenRouterAPIKey != "" {
		return nil
	}
	msg := "missing required config: OpenRouter API key. " +
		"Set it via environment variable ANKICTL_OPENROUTER_API_KEY" +
		apiKeyHint()
	return fmt.Errorf("%s", msg)
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
