package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/quorumbot/logger"
)

// Environments lists the accepted values of ServiceConfig.Environment.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig is the part of the configuration every quorumbot command
// shares. AppConfig embeds it squashed, so these keys sit at the top of
// config.yml.
type ServiceConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	// Debug lowers the log level to debug. It is on by default in
	// development.
	Debug   bool          `yaml:"debug" mapstructure:"debug"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

func (c *ServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "quorumbot"
	}
	if c.Environment == "" {
		c.Environment = Environments[0]
	}
	c.Debug = c.Debug || c.Environment == "development"
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

func (c *ServiceConfig) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("name is required")
	case !slices.Contains(Environments, c.Environment):
		return fmt.Errorf("environment %q is not one of %v", c.Environment, Environments)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// GetServiceConfig lets bootstrap reach the shared section of any config
// that embeds ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig { return c }
