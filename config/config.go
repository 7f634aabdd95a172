package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from file and SARVCRM_* environment
// variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sarvctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/sarvctl/")
	}

	// Credentials can come from the environment instead of the file
	v.SetEnvPrefix("SARVCRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Missing file is fine when the environment supplies the values
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Connection defaults: empty URL selects the cloud endpoint. The empty
	// defaults register the keys so AutomaticEnv can populate them.
	v.SetDefault("sarv.url", "")
	v.SetDefault("sarv.frontend_url", "")
	v.SetDefault("sarv.utype", "")
	v.SetDefault("sarv.username", "")
	v.SetDefault("sarv.password", "")
	v.SetDefault("sarv.password_is_md5", false)
	v.SetDefault("sarv.login_type", "")
	v.SetDefault("sarv.language", "en_US")
	v.SetDefault("sarv.page_size", 300)
	v.SetDefault("sarv.timeout_seconds", 30)

	// Output defaults
	v.SetDefault("output.default_fields", []string{"id", "name"})
	v.SetDefault("output.show_urls", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Sarv.UType == "" {
		return fmt.Errorf("sarv.utype is required")
	}

	if cfg.Sarv.Username == "" || cfg.Sarv.Password == "" {
		return fmt.Errorf("sarv.username and sarv.password are required")
	}

	validLanguages := map[string]bool{
		"en_US": true,
		"fa_IR": true,
	}
	if !validLanguages[cfg.Sarv.Language] {
		return fmt.Errorf("invalid sarv.language: %s (must be 'en_US' or 'fa_IR')", cfg.Sarv.Language)
	}

	if cfg.Sarv.PageSize <= 0 {
		return fmt.Errorf("sarv.page_size must be positive")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
