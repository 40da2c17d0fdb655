package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. CALLM_VENV_DIR.
const EnvPrefix = "CALLM_"

// Load builds the effective configuration in three layers:
// built-in defaults, then the YAML file at path, then CALLM_* environment variables.
//
// When required is false a missing file is ignored, so a bare app directory works
// without any callm.yaml. When required is true (the user passed --config) it is an error.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// No file: defaults and environment only
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations that would make setup or launch meaningless.
func (c Config) Validate() error {
	switch {
	case c.VenvDir == "":
		return errors.New("config: venv_dir must not be empty")
	case c.EnvFile == "":
		return errors.New("config: env_file must not be empty")
	case c.CredentialKey == "":
		return errors.New("config: credential_key must not be empty")
	case c.LauncherScript == "":
		return errors.New("config: launcher_script must not be empty")
	case len(c.Interpreters) == 0:
		return errors.New("config: at least one interpreter candidate is required")
	}
	return nil
}
