package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"`
}

type EmailConfig struct {
	Sender   string `mapstructure:"sender"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

type ReceiptConfig struct {
	Dir        string `mapstructure:"dir"`
	OpenViewer bool   `mapstructure:"open_viewer"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Email    EmailConfig    `mapstructure:"email"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Receipt  ReceiptConfig  `mapstructure:"receipt"`
	Log      LogConfig      `mapstructure:"log"`

	// FeeStructure maps a form label to the total fee required for that
	// form, in whole shillings.
	FeeStructure map[string]int64 `mapstructure:"fee_structure"`
}

// Load reads configuration from the given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in the current working
// directory. A missing file or an incomplete config is an error; the caller
// is expected to abort startup on it.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. SFS_SERVER_PORT=9000
	v.SetEnvPrefix("SFS") // school fee system
	v.AutomaticEnv()

	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "data/school_fees.db")
	v.SetDefault("email.host", "smtp.gmail.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("receipt.dir", "receipts")
	v.SetDefault("jwt.expire_hours", 24)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// viper case-folds every key it stores, which mangles form labels like
	// "Form1" into "form1". Re-read the fee structure straight from the
	// file so the labels match what students are registered with.
	if err := c.reloadFeeStructure(v.ConfigFileUsed()); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) reloadFeeStructure(file string) error {
	if file == "" {
		return nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var doc struct {
		FeeStructure map[string]int64 `yaml:"fee_structure"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse fee_structure: %w", err)
	}
	if doc.FeeStructure != nil {
		c.FeeStructure = doc.FeeStructure
	}
	return nil
}

func (c *Config) validate() error {
	if c.Security.EncryptionKey == "" {
		return fmt.Errorf("config: security.encryption_key is required")
	}
	if len(c.FeeStructure) == 0 {
		return fmt.Errorf("config: fee_structure must have at least one form")
	}
	for form, fee := range c.FeeStructure {
		if fee <= 0 {
			return fmt.Errorf("config: fee_structure[%s] must be positive, got %d", form, fee)
		}
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	return nil
}
