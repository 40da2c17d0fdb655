package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Louisamayh/browseragentB-HInd/internal/launch"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner/runnertest"
	"github.com/Louisamayh/browseragentB-HInd/internal/setup"
	"github.com/Louisamayh/browseragentB-HInd/internal/shortcut"
	"github.com/Louisamayh/browseragentB-HInd/internal/venv"
)

func execute(t *testing.T, args ...string) int {
	t.Helper()
	c := newRootCmd()
	var errOut bytes.Buffer
	c.SetErr(&errOut)
	c.SetOut(&errOut)
	c.SetArgs(args)
	return run(c)
}

// withLauncherRunner makes `launch` and `check` delegate to fake instead of real processes.
func withLauncherRunner(t *testing.T, fake runner.Runner) {
	t.Helper()
	prev := newLauncher
	newLauncher = func() *launch.Launcher { return &launch.Launcher{Config: cfg, Runner: fake} }
	t.Cleanup(func() { newLauncher = prev })
}

func readyApp(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	py := venv.PythonPath(filepath.Join(root, "venv"))
	if err := os.MkdirAll(filepath.Dir(py), 0o755); err != nil {
		t.Fatal(err)
	}
	for path, body := range map[string]string{
		py:                                "",
		filepath.Join(root, ".env"):       "GOOGLE_API_KEY=x\n",
		filepath.Join(root, "launcher.py"): "",
	} {
		if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestLaunchWithoutSetupFails(t *testing.T) {
	fake := runnertest.New()
	withLauncherRunner(t, fake)

	if code := execute(t, "--root", t.TempDir(), "launch"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if len(fake.Runs()) != 0 {
		t.Fatal("delegated without an environment")
	}
}

func TestLaunchPropagatesExitCode(t *testing.T) {
	root := readyApp(t)
	python, _ := filepath.Abs(venv.PythonPath(filepath.Join(root, "venv")))
	fake := runnertest.New().On(python, runnertest.Result{Code: 5})
	withLauncherRunner(t, fake)

	if code := execute(t, "--root", root, "launch", "--", "--port", "9000"); code != 5 {
		t.Fatalf("exit code = %d, want 5", code)
	}
	args := fake.Runs()[0].Args
	if len(args) != 3 || args[1] != "--port" || args[2] != "9000" {
		t.Fatalf("args = %v", args)
	}

	fake.On(python, runnertest.Result{Code: 0})
	if code := execute(t, "--root", root, "launch"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestCheck(t *testing.T) {
	prev := checkRunner
	checkRunner = runnertest.New().On("python", runnertest.Result{Output: []byte("Python 3.12.0")})
	t.Cleanup(func() { checkRunner = prev })
	withLauncherRunner(t, runnertest.New())

	if code := execute(t, "--root", t.TempDir(), "check"); code != 1 {
		t.Fatalf("check on empty dir = %d, want 1", code)
	}
	if code := execute(t, "--root", readyApp(t), "check"); code != 0 {
		t.Fatalf("check on ready dir = %d, want 0", code)
	}
}

func TestSetupCommand(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "requirements.txt"), []byte("fastapi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CALLM_INTERPRETERS", "python3")
	t.Setenv("CALLM_CREDENTIAL_KEY", "CALLM_CMD_TEST_KEY")

	python := venv.PythonPath(filepath.Join(root, "venv"))
	fake := runnertest.New().
		On("python3 --version", runnertest.Result{Output: []byte("Python 3.11.0")}).
		On("python3 -m venv", runnertest.Result{Hook: func(_ string, args []string) {
			py := venv.PythonPath(args[len(args)-1])
			_ = os.MkdirAll(filepath.Dir(py), 0o755)
			_ = os.WriteFile(py, nil, 0o755)
		}}).
		On(python+" -m pip", runnertest.Result{})

	prev := newSetupFlow
	newSetupFlow = func() *setup.Flow {
		return &setup.Flow{
			Config: cfg,
			Runner: fake,
			Shortcut: func(context.Context, runner.Runner, shortcut.Request) (string, error) {
				return "", nil
			},
		}
	}
	t.Cleanup(func() { newSetupFlow = prev })

	if code := execute(t, "--root", root, "setup", "--api-key", "k1"); code != 0 {
		t.Fatalf("setup exit code = %d", code)
	}
	b, err := os.ReadFile(filepath.Join(root, ".env"))
	if err != nil || string(b) != "CALLM_CMD_TEST_KEY=k1\n" {
		t.Fatalf(".env = %q, %v", b, err)
	}

	if code := execute(t, "--root", root, "setup", "--skip_shortcut", "--no-prompt"); code != 0 {
		t.Fatalf("underscore flag alias rejected: %d", code)
	}
}

func TestSetupFailureExitCode(t *testing.T) {
	prev := newSetupFlow
	newSetupFlow = func() *setup.Flow { return &setup.Flow{Config: cfg, Runner: runnertest.New()} }
	t.Cleanup(func() { newSetupFlow = prev })

	if code := execute(t, "--root", t.TempDir(), "setup", "--no-prompt"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestUsageErrors(t *testing.T) {
	if code := execute(t, "setup", "--bogus"); code != 2 {
		t.Fatalf("unknown flag exit code = %d, want 2", code)
	}
	if code := execute(t, "--root", t.TempDir(), "setup", "--yes", "--no-prompt"); code == 0 {
		t.Fatal("mutually exclusive flags accepted")
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	if code := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "check"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}
