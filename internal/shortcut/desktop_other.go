//go:build !windows

package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
)

func desktopDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDesktop, err)
	}
	return filepath.Join(home, "Desktop"), nil
}
