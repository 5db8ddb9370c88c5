// Package config provides configuration management for the presentation translator.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"

	"github.com/MuazAshraf/ppt-translator/internal/logger"
	"github.com/MuazAshraf/ppt-translator/internal/translate"
	"github.com/MuazAshraf/ppt-translator/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "ppt-translator-config.json"
	// EnvOpenAIAPIKey is the environment variable name for the OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for the OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// EnvDeepLAPIKey is the environment variable name for the DeepL API key
	EnvDeepLAPIKey = "DEEPL_API_KEY"
	// EnvLibreOfficePath overrides the LibreOffice executable path
	EnvLibreOfficePath = "LIBREOFFICE_PATH"
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default OpenAI model used for translation
	DefaultModel = "gpt-4o-mini"
	// DefaultService is the translation provider used when none is requested
	DefaultService = "google"
	// DefaultRunDelayMs is the fixed delay after each translated run, in
	// milliseconds. Throttles the free translation endpoint.
	DefaultRunDelayMs = 100
)

// ConfigManager manages application configuration
type ConfigManager struct {
	configPath string
	config     *types.Config
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses the default path in the user's home directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "ppt-translator", DefaultConfigFileName)
	}

	logger.Info("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		OpenAIBaseURL:  DefaultBaseURL,
		OpenAIModel:    DefaultModel,
		DefaultService: DefaultService,
		RunDelayMs:     DefaultRunDelayMs,
	}
}

// DefaultSofficeBinary returns the platform default name of the LibreOffice
// command-line binary.
func DefaultSofficeBinary() string {
	if runtime.GOOS == "windows" {
		return "soffice.com"
	}
	return "soffice"
}

// Load loads configuration from the config file.
// If the file doesn't exist, defaults are used.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Info("configuration loaded successfully",
				logger.String("path", m.configPath),
				logger.String("service", config.DefaultService),
				logger.String("model", config.OpenAIModel))
			m.config = config
		}
	}

	// Apply defaults for empty fields
	if m.config.OpenAIBaseURL == "" {
		m.config.OpenAIBaseURL = DefaultBaseURL
	}
	if m.config.OpenAIModel == "" {
		m.config.OpenAIModel = DefaultModel
	}
	if m.config.DefaultService == "" {
		m.config.DefaultService = DefaultService
	}
	if m.config.RunDelayMs == 0 {
		m.config.RunDelayMs = DefaultRunDelayMs
	}

	return nil
}

// Save saves the current configuration to the config file.
func (m *ConfigManager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved successfully", logger.String("path", m.configPath))
	return nil
}

// GetConfig returns the current configuration.
func (m *ConfigManager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig sets the entire configuration.
func (m *ConfigManager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *ConfigManager) GetConfigPath() string {
	return m.configPath
}

// GetOpenAIAPIKey returns the OpenAI API key.
// The config file value takes precedence over the environment variable.
func (m *ConfigManager) GetOpenAIAPIKey() string {
	if m.config != nil && m.config.OpenAIAPIKey != "" {
		return m.config.OpenAIAPIKey
	}
	return os.Getenv(EnvOpenAIAPIKey)
}

// GetDeepLAPIKey returns the DeepL API key.
// The config file value takes precedence over the environment variable.
func (m *ConfigManager) GetDeepLAPIKey() string {
	if m.config != nil && m.config.DeepLAPIKey != "" {
		return m.config.DeepLAPIKey
	}
	return os.Getenv(EnvDeepLAPIKey)
}

// ServiceAPIKey returns the configured API key for the named provider, or ""
// for providers that need none.
func (m *ConfigManager) ServiceAPIKey(service string) string {
	switch service {
	case "deepl":
		return m.GetDeepLAPIKey()
	case "openai":
		return m.GetOpenAIAPIKey()
	}
	return ""
}

// ServiceOptions returns the full provider settings for the named provider:
// the API key plus, for openai, the configured base URL and model.
func (m *ConfigManager) ServiceOptions(service string) translate.Options {
	opts := translate.Options{APIKey: m.ServiceAPIKey(service)}
	if service == "openai" {
		opts.BaseURL = m.GetBaseURL()
		opts.Model = m.GetModel()
	}
	return opts
}

// GetBaseURL returns the OpenAI API base URL.
// The config file value takes precedence over the environment variable.
func (m *ConfigManager) GetBaseURL() string {
	if m.config != nil && m.config.OpenAIBaseURL != "" && m.config.OpenAIBaseURL != DefaultBaseURL {
		return m.config.OpenAIBaseURL
	}
	if envURL := os.Getenv(EnvOpenAIBaseURL); envURL != "" {
		return envURL
	}
	return DefaultBaseURL
}

// GetModel returns the OpenAI model to use.
func (m *ConfigManager) GetModel() string {
	if m.config != nil && m.config.OpenAIModel != "" {
		return m.config.OpenAIModel
	}
	return DefaultModel
}

// GetDefaultService returns the translation provider used when a request
// names none.
func (m *ConfigManager) GetDefaultService() string {
	if m.config != nil && m.config.DefaultService != "" {
		return m.config.DefaultService
	}
	return DefaultService
}

// GetLibreOfficePath returns the LibreOffice executable path or name.
// Precedence: config file, LIBREOFFICE_PATH, platform default.
func (m *ConfigManager) GetLibreOfficePath() string {
	if m.config != nil && m.config.LibreOfficePath != "" {
		return m.config.LibreOfficePath
	}
	if envPath := os.Getenv(EnvLibreOfficePath); envPath != "" {
		return envPath
	}
	return DefaultSofficeBinary()
}

// GetOutputDirectory returns the configured output directory, or "" when the
// caller should derive one from the input path.
func (m *ConfigManager) GetOutputDirectory() string {
	if m.config != nil {
		return m.config.OutputDirectory
	}
	return ""
}

// GetRunDelayMs returns the fixed per-run translation delay in milliseconds.
func (m *ConfigManager) GetRunDelayMs() int {
	if m.config != nil && m.config.RunDelayMs > 0 {
		return m.config.RunDelayMs
	}
	return DefaultRunDelayMs
}
