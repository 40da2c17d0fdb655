package config

import (
	"path/filepath"
	"runtime"
)

// DefaultFile is the configuration file looked up in the app root when --config is not given.
const DefaultFile = "callm.yaml"

// Config describes the application directory callm bootstraps and launches.
// Relative paths are resolved against Root.
//   - AppName: display name used for shortcuts and bundle lookup.
//   - VenvDir / FallbackVenvDirs: isolated environment created by setup, and extra names launch accepts.
//   - Manifest: dependency list handed to pip.
//   - EnvFile / CredentialKey: single-line credential file and the key written into it.
//   - LauncherScript: external program launch delegates to.
//   - Interpreters: ordered interpreter command lines probed by setup.
type Config struct {
	Root             string   `yaml:"root" env:"ROOT"`
	AppName          string   `yaml:"app_name" env:"APP_NAME"`
	VenvDir          string   `yaml:"venv_dir" env:"VENV_DIR"`
	FallbackVenvDirs []string `yaml:"fallback_venv_dirs" env:"FALLBACK_VENV_DIRS" envSeparator:","`
	Manifest         string   `yaml:"manifest" env:"MANIFEST"`
	EnvFile          string   `yaml:"env_file" env:"ENV_FILE"`
	CredentialKey    string   `yaml:"credential_key" env:"CREDENTIAL_KEY"`
	LauncherScript   string   `yaml:"launcher_script" env:"LAUNCHER_SCRIPT"`
	Interpreters     []string `yaml:"interpreters" env:"INTERPRETERS" envSeparator:","`
	MinPython        string   `yaml:"min_python" env:"MIN_PYTHON"`
	Bundle           string   `yaml:"bundle" env:"BUNDLE"`
	ShortcutName     string   `yaml:"shortcut_name" env:"SHORTCUT_NAME"`
	StateFile        string   `yaml:"state_file" env:"STATE_FILE"`
	MinFreeMB        uint64   `yaml:"min_free_mb" env:"MIN_FREE_MB"`
	LoadEnvFile      bool     `yaml:"load_env_file" env:"LOAD_ENV_FILE"`
}

// Default returns the layout the CallM_BH distribution ships with.
func Default() Config {
	return Config{
		Root:             ".",
		AppName:          "CallM_BH",
		VenvDir:          "venv",
		FallbackVenvDirs: []string{".venv"},
		Manifest:         "requirements.txt",
		EnvFile:          ".env",
		CredentialKey:    "GOOGLE_API_KEY",
		LauncherScript:   "launcher.py",
		Interpreters:     defaultInterpreters(runtime.GOOS),
		MinPython:        "3.8",
		StateFile:        ".callm-state.json",
		MinFreeMB:        500,
		LoadEnvFile:      true,
	}
}

// defaultInterpreters mirrors the fallback chain of the platform setup scripts.
func defaultInterpreters(goos string) []string {
	if goos == "windows" {
		return []string{"python", "py -3"}
	}
	return []string{"python3", "python"}
}

// Path resolves a configured path against Root. Absolute paths are returned as-is.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// BundlePath returns the application bundle the Unix shortcut links to.
func (c Config) BundlePath() string {
	if c.Bundle != "" {
		return c.Path(c.Bundle)
	}
	return c.Path(c.AppName + ".app")
}

// LinkName returns the shortcut's base name without extension.
func (c Config) LinkName() string {
	if c.ShortcutName != "" {
		return c.ShortcutName
	}
	return c.AppName
}

// VenvCandidates lists the environment directories launch accepts, primary first.
func (c Config) VenvCandidates() []string {
	dirs := []string{c.Path(c.VenvDir)}
	for _, d := range c.FallbackVenvDirs {
		dirs = append(dirs, c.Path(d))
	}
	return dirs
}
