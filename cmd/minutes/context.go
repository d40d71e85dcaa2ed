package main

import (
	"fmt"
	"strings"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
)

// commandContext lazily resolves configuration and the daemon API
// address shared by all subcommands.
type commandContext struct {
	apiFlag    *string
	configFlag *string

	cfg *config.Config
}

func newCommandContext(apiFlag, configFlag *string) *commandContext {
	return &commandContext{apiFlag: apiFlag, configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

// baseURL resolves the daemon address from the --api flag or the
// configured bind address.
func (c *commandContext) baseURL() (string, error) {
	if c.apiFlag != nil {
		if raw := strings.TrimSpace(*c.apiFlag); raw != "" {
			return strings.TrimSuffix(raw, "/"), nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return "http://" + cfg.Paths.APIBind, nil
}

func (c *commandContext) client() (*apiClient, error) {
	base, err := c.baseURL()
	if err != nil {
		return nil, err
	}
	return newAPIClient(base), nil
}
