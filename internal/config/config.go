package config

import (
	"fmt"
	"net/url"
)

// DefaultOllamaBaseURL is the inference endpoint used when none is configured.
const DefaultOllamaBaseURL = "http://localhost:11434"

// Config holds the resolved application configuration.
type Config struct {
	Global   Global
	Telegram Telegram
	Ollama   Ollama
	Paths    Paths
	Warnings []string
}

// Global contains settings that apply across all commands.
type Global struct {
	Debug      bool
	LogFormat  string
	ConfigPath string
}

// Telegram contains the chat transport settings.
type Telegram struct {
	// Token is the static bot access token. Required to serve; commands that
	// never touch Telegram run without it.
	Token string
}

// Ollama contains the inference service settings.
type Ollama struct {
	BaseURL string
}

// Paths holds the file system locations used by the application.
type Paths struct {
	DataDir    string
	MemoryFile string
}

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.Global.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Global.LogFormat)
	}

	u, err := url.Parse(c.Ollama.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid ollama base URL: %s", c.Ollama.BaseURL)
	}

	if c.Paths.MemoryFile == "" {
		return fmt.Errorf("memory file path must not be empty")
	}

	return nil
}
