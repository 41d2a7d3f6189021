package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the config layer,
// e.g. ELF_HEADER_LOG_LEVEL or ELF_HEADER_OUTPUT_FORMAT
const EnvPrefix = "ELF_HEADER"

// Config represents the application configuration
type Config struct {
	Log    LoggerConfig `yaml:"log" mapstructure:"log"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Compat CompatConfig `yaml:"compat" mapstructure:"compat"`
}

// OutputConfig selects how reports are rendered
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// CompatConfig holds switches for byte-compatible output with the C
// elf_header tool
type CompatConfig struct {
	// LegacyDataFallback prints the EI_CLASS byte for an unknown EI_DATA
	LegacyDataFallback bool `yaml:"legacy_data_fallback" mapstructure:"legacy_data_fallback"`
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"format":               "output.format",
	"log-level":            "log.level",
	"log-format":           "log.format",
	"legacy-data-fallback": "compat.legacy_data_fallback",
}

// ConfigManager handles configuration loading and management
type ConfigManager struct {
	config *Config
	viper  *viper.Viper
	logger *Logger
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config: &Config{},
		viper:  viper.New(),
		logger: NewDefaultLogger(),
	}
}

// SetLogger sets the logger for the config manager
func (c *ConfigManager) SetLogger(logger *Logger) {
	c.logger = logger
}

// BindFlags binds the known flags present in fs to their configuration keys.
// A flag only overrides file and environment values when it was set.
func (c *ConfigManager) BindFlags(fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := c.viper.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag --%s: %w", f.Name, err)
		}
	})
	return bindErr
}

// LoadConfig loads configuration from defaults, file, environment and any
// flags bound beforehand, in increasing order of precedence
func (c *ConfigManager) LoadConfig(configFile string) error {
	c.setDefaults()

	c.viper.SetEnvPrefix(EnvPrefix)
	c.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.viper.AutomaticEnv()

	if configFile != "" {
		c.viper.SetConfigType("yaml")
		c.viper.SetConfigFile(configFile)
		if err := c.viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			c.logger.WithComponent("config").Warnf("Config file not found: %s", configFile)
		} else {
			c.logger.WithComponent("config").Debugf("Loaded config from: %s", c.viper.ConfigFileUsed())
		}
	} else {
		// No config type here: with one set, viper also accepts an
		// extensionless "elf-header", which is the built binary itself.
		c.viper.SetConfigName("elf-header")
		c.viper.AddConfigPath(".")
		c.viper.AddConfigPath("$HOME/.elf-header")

		if err := c.viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("failed to read config file: %w", err)
			}
			c.logger.WithComponent("config").Debug("No config file found, using defaults and environment variables")
		} else {
			c.logger.WithComponent("config").Debugf("Loaded config from: %s", c.viper.ConfigFileUsed())
		}
	}

	if err := c.viper.Unmarshal(c.config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := c.validateConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.logger.WithComponent("config").Debug("Configuration loaded successfully")
	return nil
}

// setDefaults sets default configuration values
func (c *ConfigManager) setDefaults() {
	c.viper.SetDefault("log.level", string(LogLevelWarn))
	c.viper.SetDefault("log.format", string(LogFormatText))
	c.viper.SetDefault("output.format", "text")
	c.viper.SetDefault("compat.legacy_data_fallback", false)
}

// validateConfig validates and normalises the loaded configuration
func (c *ConfigManager) validateConfig() error {
	level, ok := ParseLogLevel(string(c.config.Log.Level))
	if !ok {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.config.Log.Level, []string{"debug", "info", "warn", "error"})
	}
	c.config.Log.Level = level

	format, ok := ParseLogFormat(string(c.config.Log.Format))
	if !ok {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.config.Log.Format, []string{"text", "json"})
	}
	c.config.Log.Format = format

	validOutputFormats := []string{"text", "json"}
	c.config.Output.Format = strings.ToLower(c.config.Output.Format)
	if !contains(validOutputFormats, c.config.Output.Format) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.config.Output.Format, validOutputFormats)
	}

	return nil
}

// GetConfig returns the loaded configuration
func (c *ConfigManager) GetConfig() *Config {
	return c.config
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from configFile (or the standard search
// paths when empty) with flags from fs taking precedence
func LoadConfig(configFile string, fs *pflag.FlagSet, logger *Logger) (*Config, error) {
	manager := NewConfigManager()
	if logger != nil {
		manager.SetLogger(logger)
	}
	if err := manager.BindFlags(fs); err != nil {
		return nil, err
	}
	if err := manager.LoadConfig(configFile); err != nil {
		return nil, err
	}
	return manager.GetConfig(), nil
}
