package main

import (
	"errors"
	"os"

	"github.com/rlch/ngspec"
)

// rootFlags are the config overrides given on the command line or through
// NGSPEC_* variables.
type rootFlags struct {
	config    string
	space     string
	vidType   string
	gateway   string
	user      string
	password  string
	addresses []string
}

// loadConfig reads the config named by --config or the nearest .ngspec.yaml
// and applies flag overrides. A missing config is only an error when strict,
// in which case the result is also validated.
func (a *app) loadConfig(strict bool) (*ngspec.Config, error) {
	cfg, err := a.readConfig()
	if errors.Is(err, ngspec.ErrConfigNotFound) && !strict {
		cfg, err = &ngspec.Config{}, nil
	}

	if err != nil {
		return nil, err
	}

	a.flags.apply(cfg)

	if strict {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (a *app) readConfig() (*ngspec.Config, error) {
	if a.flags.config != "" {
		return ngspec.LoadConfigFile(a.flags.config)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return ngspec.LoadConfig(cwd)
}

func (f rootFlags) apply(cfg *ngspec.Config) {
	if f.space != "" {
		cfg.Space = f.space
	}

	if f.vidType != "" {
		cfg.VidType = f.vidType
	}

	if f.gateway != "" {
		cfg.Gateway = &ngspec.GatewayConfig{URL: f.gateway}
	}

	if f.user != "" {
		cfg.Connection.User = f.user
	}

	if f.password != "" {
		cfg.Connection.Password = f.password
	}

	if len(f.addresses) > 0 {
		cfg.Connection.Address = f.addresses
	}
}
