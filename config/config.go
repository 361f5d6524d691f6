package config

import (
	"fmt"
	"strings"

	"github.com/merchai/backend/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Workflow WorkflowConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds inference-service configuration
type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	FlashModel string `mapstructure:"flash_model"`
	ProModel   string `mapstructure:"pro_model"`
}

// WorkflowConfig holds pipeline behavior configuration
type WorkflowConfig struct {
	DefaultRouterMode string `mapstructure:"default_router_mode"`
	EnableCritic      bool   `mapstructure:"enable_critic"`
	ThinkingBudget    int    `mapstructure:"thinking_budget"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/merchai/")

	// Environment variable settings
	v.SetEnvPrefix("MERCHAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Gemini defaults. The api_key default registers the key so the env
	// override is visible to Unmarshal; there is no real default.
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.flash_model", "gemini-3-flash-preview")
	v.SetDefault("gemini.pro_model", "gemini-3-pro-preview")

	// Workflow defaults
	v.SetDefault("workflow.default_router_mode", string(domain.RouterSmart))
	v.SetDefault("workflow.enable_critic", false)
	v.SetDefault("workflow.thinking_budget", 32768)
}

// validate validates the configuration. A missing API key fails here,
// before any inference call can be attempted.
func validate(config *Config) error {
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("%w: gemini API key is required (set MERCHAI_GEMINI_API_KEY)", domain.ErrConfiguration)
	}

	if !domain.RouterMode(config.Workflow.DefaultRouterMode).Valid() {
		return fmt.Errorf("%w: default_router_mode must be smart, force-search or force-knowledge, got: %s",
			domain.ErrConfiguration, config.Workflow.DefaultRouterMode)
	}

	if config.Workflow.ThinkingBudget < 0 {
		return fmt.Errorf("%w: thinking_budget must not be negative", domain.ErrConfiguration)
	}

	return nil
}
