//go:build windows

package shortcut

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
)

// desktopDir asks the shell for the Desktop known folder, which follows OneDrive
// redirection, and falls back to %USERPROFILE%\Desktop.
func desktopDir() (string, error) {
	dir, err := windows.KnownFolderPath(windows.FOLDERID_Desktop, 0)
	if err == nil && dir != "" {
		return dir, nil
	}
	logger.Debug("[DEBUG] KnownFolderPath(Desktop) failed: %v\n", err)

	profile := os.Getenv("USERPROFILE")
	if profile == "" {
		return "", ErrNoDesktop
	}
	return filepath.Join(profile, "Desktop"), nil
}
