package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/valet-org/valet/internal/build"
	"github.com/valet-org/valet/internal/fileutil"
)

// Load creates a new configuration by instantiating a ConfigLoader with the
// provided options and then invoking its Load method.
func Load(opts ...ConfigLoaderOption) (*Config, error) {
	loader := NewConfigLoader(opts...)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// ConfigLoader reads and merges configuration from the config file and the
// environment. The internal mutex ensures thread-safety when loading.
type ConfigLoader struct {
	lock       sync.Mutex
	configFile string   // Optional explicit path to the configuration file.
	warnings   []string // Collected warnings during configuration resolution.
}

// ConfigLoaderOption defines a functional option for configuring a ConfigLoader.
type ConfigLoaderOption func(*ConfigLoader)

// WithConfigFile returns a ConfigLoaderOption that sets the configuration file path.
func WithConfigFile(configFile string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.configFile = configFile
	}
}

// NewConfigLoader creates a new ConfigLoader instance and applies all given options.
func NewConfigLoader(options ...ConfigLoaderOption) *ConfigLoader {
	loader := &ConfigLoader{}
	for _, option := range options {
		option(loader)
	}
	return loader
}

// Load initializes viper, reads the configuration file, and returns a fully
// built and validated Config instance.
func (l *ConfigLoader) Load() (*Config, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	// Pick up variables from a local .env file when present.
	_ = godotenv.Load()

	l.setupViper()

	// Attempt to read the main config file. If not found, we proceed without error.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var def Definition
	if err := viper.Unmarshal(&def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg, err := l.buildConfig(def)
	if err != nil {
		return nil, fmt.Errorf("failed to build config: %w", err)
	}

	cfg.Warnings = l.warnings
	cfg.Global.ConfigPath = viper.ConfigFileUsed()

	return cfg, nil
}

// buildConfig transforms the intermediate Definition into a final Config.
func (l *ConfigLoader) buildConfig(def Definition) (*Config, error) {
	var cfg Config

	cfg.Global = Global{
		Debug:     def.Debug,
		LogFormat: def.LogFormat,
	}

	if def.Telegram != nil {
		cfg.Telegram.Token = def.Telegram.Token
	}
	if def.Ollama != nil {
		cfg.Ollama.BaseURL = def.Ollama.BaseURL
	}
	if def.Paths != nil {
		cfg.Paths.DataDir = fileutil.MustResolvePath(def.Paths.DataDir)
		cfg.Paths.MemoryFile = fileutil.MustResolvePath(def.Paths.MemoryFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setupViper determines the home directory and XDG configuration, configures
// viper with defaults, and binds environment variables.
func (l *ConfigLoader) setupViper() {
	xdgConfig := l.getXDGConfig()
	resolver := NewResolver(appHomeEnv(), legacyHomePath(), xdgConfig)

	// Collect any warnings from path resolution.
	l.warnings = append(l.warnings, resolver.Warnings...)

	l.configureViper(resolver)
	l.bindEnvironmentVariables()
	l.setDefaultValues(resolver)
}

// appHomeEnv is the environment variable that overrides all path resolution.
func appHomeEnv() string {
	return strings.ToUpper(build.Slug) + "_HOME"
}

// legacyHomePath is the pre-XDG dot-directory in the user's home.
func legacyHomePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, "."+build.Slug)
}

// getXDGConfig creates an XDGConfig for the current user.
func (l *ConfigLoader) getXDGConfig() XDGConfig {
	configHome := xdg.ConfigHome
	if homeDir, err := os.UserHomeDir(); err == nil {
		configHome = filepath.Join(homeDir, ".config")
	}
	return XDGConfig{
		DataHome:   xdg.DataHome,
		ConfigHome: configHome,
	}
}

// configureViper sets up viper's configuration file location, type, and
// environment variable handling.
func (l *ConfigLoader) configureViper(resolver PathResolver) {
	if l.configFile == "" {
		viper.AddConfigPath(resolver.ConfigDir)
		viper.SetConfigName("config")
	} else {
		viper.SetConfigFile(l.configFile)
	}
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(strings.ToUpper(build.Slug))
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setDefaultValues establishes the default configuration values.
func (l *ConfigLoader) setDefaultValues(resolver PathResolver) {
	viper.SetDefault("debug", false)
	viper.SetDefault("logFormat", "text")
	viper.SetDefault("ollama.baseURL", DefaultOllamaBaseURL)
	viper.SetDefault("paths.dataDir", resolver.DataDir)
	viper.SetDefault("paths.memoryFile", resolver.MemoryFile)
}

// bindEnvironmentVariables binds configuration keys to environment variables.
func (l *ConfigLoader) bindEnvironmentVariables() {
	l.bindEnv("debug", "DEBUG")
	l.bindEnv("logFormat", "LOG_FORMAT")

	// Chat transport configurations
	l.bindEnv("telegram.token", "TELEGRAM_TOKEN")

	// Inference service configurations
	l.bindEnv("ollama.baseURL", "OLLAMA_BASE_URL")

	// File paths
	l.bindEnv("paths.dataDir", "DATA_DIR")
	l.bindEnv("paths.memoryFile", "MEMORY_FILE")
}

// bindEnv constructs the full environment variable name using the app prefix
// and binds it to the given key.
func (l *ConfigLoader) bindEnv(key, env string) {
	prefix := strings.ToUpper(build.Slug) + "_"
	_ = viper.BindEnv(key, prefix+env)
}
