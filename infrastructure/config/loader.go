package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	PropertiesFile string        `yaml:"properties_file"`
	Drive          DriveConfig   `yaml:"drive"`
	Email          EmailConfig   `yaml:"email"`
	Retry          RetryConfig   `yaml:"retry"`
	Logging        LoggingConfig `yaml:"logging"`
	Metrics        MetricsConfig `yaml:"metrics"`
}

// DriveConfig contains Google Drive settings shared by every product
type DriveConfig struct {
	ApplicationName    string `yaml:"application_name"`
	FolderCollaborator string `yaml:"folder_collaborator"`
}

// EmailConfig contains email notification settings
type EmailConfig struct {
	FromName        string                     `yaml:"from_name"`
	FromAddress     string                     `yaml:"from_address"`
	CredentialsFile string                     `yaml:"credentials_file"`
	TokenFile       string                     `yaml:"token_file"`
	Recipients      map[string]RecipientConfig `yaml:"recipients"`
}

// RecipientConfig represents an email recipient
type RecipientConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// RetryConfig controls how remote operations are retried
type RetryConfig struct {
	Attempts       int  `yaml:"attempts"`
	BreakerEnabled bool `yaml:"breaker_enabled"`
}

// LoggingConfig selects the log level and output format
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls where run metrics are written
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns a configuration with every optional value filled in
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration from the specified YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.PropertiesFile == "" {
		c.PropertiesFile = "config/properties.yaml"
	}
	if c.Drive.ApplicationName == "" {
		c.Drive.ApplicationName = "drive-share"
	}
	if c.Email.CredentialsFile == "" {
		c.Email.CredentialsFile = "credentials.json"
	}
	if c.Email.TokenFile == "" {
		c.Email.TokenFile = "gmail_token.json"
	}
	if c.Retry.Attempts < 1 {
		c.Retry.Attempts = 3
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}
