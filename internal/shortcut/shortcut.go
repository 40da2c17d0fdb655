// Package shortcut registers a desktop launch affordance for the application.
//
// Windows gets a .lnk file synthesized by the Windows Script Host. macOS and other
// Unix systems get a symbolic link to the application bundle. Either way the
// existing entry, if any, is replaced so repeated setup runs converge.
package shortcut

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
)

var (
	// ErrNoDesktop is returned when the desktop folder cannot be found.
	ErrNoDesktop = errors.New("desktop folder not found")
	// ErrBundleMissing is returned on Unix when the application bundle does not exist.
	ErrBundleMissing = errors.New("application bundle not found")
)

// Request describes the shortcut to create.
//   - Name: base file name on the desktop, without extension.
//   - Target / Args / WorkDir / Icon: what a Windows shortcut runs.
//   - Bundle: what a Unix symlink points to.
type Request struct {
	Name    string
	Target  string
	Args    string
	WorkDir string
	Icon    string
	Bundle  string
}

// Install creates the shortcut for the running OS on the user's desktop and returns its path.
func Install(ctx context.Context, r runner.Runner, req Request) (string, error) {
	desktop, err := desktopDir()
	if err != nil {
		return "", err
	}
	return install(ctx, r, runtime.GOOS, desktop, req)
}

func install(ctx context.Context, r runner.Runner, goos, desktop string, req Request) (string, error) {
	if info, err := os.Stat(desktop); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNoDesktop, desktop)
	}
	if goos == "windows" {
		return installWindows(ctx, r, desktop, req)
	}
	return installSymlink(desktop, req)
}

// installWindows writes a throwaway VBScript and runs it with cscript.
func installWindows(ctx context.Context, r runner.Runner, desktop string, req Request) (string, error) {
	link := filepath.Join(desktop, req.Name+".lnk")

	script, err := RenderVBS(link, req)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "callm-shortcut-*.vbs")
	if err != nil {
		return "", fmt.Errorf("create shortcut script: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return "", fmt.Errorf("write shortcut script: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write shortcut script: %w", err)
	}

	logger.Debug("[DEBUG] Shortcut script:\n%s\n", script)
	if out, err := r.Output(ctx, "cscript", "//nologo", f.Name()); err != nil {
		return "", fmt.Errorf("run shortcut script: %w\nOutput: %s", err, out)
	}
	logger.Info("[INFO] Created desktop shortcut %s\n", link)
	return link, nil
}

// installSymlink links <desktop>/<Name>.app to the bundle, replacing an older entry.
func installSymlink(desktop string, req Request) (string, error) {
	if _, err := os.Stat(req.Bundle); err != nil {
		return "", fmt.Errorf("%w: %s", ErrBundleMissing, req.Bundle)
	}
	bundle, err := filepath.Abs(req.Bundle)
	if err != nil {
		return "", err
	}

	link := filepath.Join(desktop, req.Name+filepath.Ext(bundle))
	if info, err := os.Lstat(link); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return "", fmt.Errorf("%s exists and is not a symlink, refusing to replace it", link)
		}
		if err := os.Remove(link); err != nil {
			return "", fmt.Errorf("remove old shortcut %s: %w", link, err)
		}
	}

	if err := os.Symlink(bundle, link); err != nil {
		return "", fmt.Errorf("create shortcut %s: %w", link, err)
	}
	logger.Info("[INFO] Linked %s -> %s\n", link, bundle)
	return link, nil
}
