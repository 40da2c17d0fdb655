package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile), false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.VenvDir != "venv" || cfg.EnvFile != ".env" || cfg.CredentialKey != "GOOGLE_API_KEY" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LauncherScript != "launcher.py" || cfg.Manifest != "requirements.txt" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadRequiredFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	body := "app_name: Demo\nvenv_dir: env\ninterpreters:\n  - python3.12\nmin_free_mb: 10\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppName != "Demo" || cfg.VenvDir != "env" || cfg.MinFreeMB != 10 {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if len(cfg.Interpreters) != 1 || cfg.Interpreters[0] != "python3.12" {
		t.Fatalf("interpreters = %v", cfg.Interpreters)
	}
	// Untouched keys keep their defaults
	if cfg.EnvFile != ".env" {
		t.Fatalf("env_file = %q", cfg.EnvFile)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("venv_dir: env\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CALLM_VENV_DIR", "from-env")
	t.Setenv("CALLM_INTERPRETERS", "python3.11,python3")

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.VenvDir != "from-env" {
		t.Fatalf("venv_dir = %q", cfg.VenvDir)
	}
	if strings.Join(cfg.Interpreters, "|") != "python3.11|python3" {
		t.Fatalf("interpreters = %v", cfg.Interpreters)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("venv_dir: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, true); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.CredentialKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty credential key")
	}
	cfg = Default()
	cfg.Interpreters = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty interpreter list")
	}
}

func TestPathsResolveAgainstRoot(t *testing.T) {
	cfg := Default()
	cfg.Root = filepath.FromSlash("/opt/app")

	if got, want := cfg.Path(".env"), filepath.Join(cfg.Root, ".env"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
	abs, _ := filepath.Abs(filepath.FromSlash("/elsewhere/x"))
	if got := cfg.Path(abs); got != abs {
		t.Fatalf("absolute path rewritten: %q", got)
	}
	if got, want := cfg.BundlePath(), filepath.Join(cfg.Root, "CallM_BH.app"); got != want {
		t.Fatalf("BundlePath = %q, want %q", got, want)
	}
	cands := cfg.VenvCandidates()
	if len(cands) != 2 || filepath.Base(cands[0]) != "venv" || filepath.Base(cands[1]) != ".venv" {
		t.Fatalf("VenvCandidates = %v", cands)
	}
}

func TestDefaultInterpreters(t *testing.T) {
	if got := defaultInterpreters("windows"); got[0] != "python" || got[1] != "py -3" {
		t.Fatalf("windows chain = %v", got)
	}
	if got := defaultInterpreters("darwin"); got[0] != "python3" {
		t.Fatalf("darwin chain = %v", got)
	}
	if got := Default().Interpreters; len(got) == 0 {
		t.Fatalf("no interpreters for %s", runtime.GOOS)
	}
}
