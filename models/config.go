// Package models defines data structures for configuration and fetched pages.
package models

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSite      = "rpcsandboxcn"
	DefaultNamespace = "reserve"
	DefaultDomain    = "wikidot.com"
	DefaultIndent    = 2
)

// ErrMissingCredentials is returned when a fetch is attempted without a username or password.
var ErrMissingCredentials = errors.New("username and password are required")

var unixNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Config holds runtime configuration. Values come from an optional YAML file,
// then CLI flags and environment variables override them.
type Config struct {
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	Site      string `yaml:"site" validate:"required,unixname"`
	Namespace string `yaml:"namespace" validate:"required,unixname"`
	Domain    string `yaml:"domain" validate:"required,fqdn"`

	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
	HTTP    HTTPConfig    `yaml:"http"`
}

type OutputConfig struct {
	Format string `yaml:"format" validate:"oneof=json yaml yml"`
	Indent int    `yaml:"indent" validate:"min=0,max=16"`
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"min=1"`
	MaxBackups int    `yaml:"max_backups" validate:"min=0"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty: next to the binary
}

type HTTPConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=0"`
	UserAgent      string `yaml:"user_agent"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Site:      DefaultSite,
		Namespace: DefaultNamespace,
		Domain:    DefaultDomain,
		Output: OutputConfig{
			Format: string(FormatJSON),
			Indent: DefaultIndent,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		History: HistoryConfig{Enabled: true},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
			UserAgent:      "reserve-fetch/1.0",
		},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags. Credentials are checked separately by
// RequireCredentials because offline commands do not need them.
func (c *Config) Validate() error {
	validate := validator.New()
	_ = validate.RegisterValidation("unixname", func(fl validator.FieldLevel) bool {
		return unixNamePattern.MatchString(fl.Field().String())
	})

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	format, err := c.Format()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := format.CheckIndent(c.Output.Indent); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequireCredentials reports ErrMissingCredentials when either credential is empty.
func (c *Config) RequireCredentials() error {
	if c.Username == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Format returns the parsed output format.
func (c *Config) Format() (OutputFormat, error) {
	return ParseOutputFormat(c.Output.Format)
}
