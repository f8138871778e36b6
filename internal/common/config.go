package common

import (
	"github.com/dtnitsch/reserve-fetch/models"
	"github.com/urfave/cli/v2"
)

// LoadConfig reads --config (if any) and applies every flag the user set on
// top of it, then validates the result.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	overrideString(c, "username", &cfg.Username)
	overrideString(c, "password", &cfg.Password)
	overrideString(c, "site", &cfg.Site)
	overrideString(c, "namespace", &cfg.Namespace)
	overrideString(c, "domain", &cfg.Domain)
	overrideString(c, "format", &cfg.Output.Format)
	overrideString(c, "output", &cfg.Output.Path)
	overrideString(c, "log-level", &cfg.Log.Level)
	overrideString(c, "log-file", &cfg.Log.File)
	overrideString(c, "db", &cfg.History.Path)
	if c.IsSet("indent") {
		cfg.Output.Indent = c.Int("indent")
	}
	if c.IsSet("timeout") {
		cfg.HTTP.TimeoutSeconds = c.Int("timeout")
	}
	if c.Bool("no-history") {
		cfg.History.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideString(c *cli.Context, flag string, dst *string) {
	if c.IsSet(flag) {
		*dst = c.String(flag)
	}
}
