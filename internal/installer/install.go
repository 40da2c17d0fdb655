// Package installer installs the dependency manifest into an isolated environment with pip.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
)

// ErrManifestMissing is returned when the dependency manifest does not exist.
var ErrManifestMissing = errors.New("dependency manifest not found")

// Options tunes a single Install call.
//   - Wheelhouse: optional directory, archive, or http(s) URL of an archive holding
//     pre-built packages. When set, pip runs offline against it.
type Options struct {
	Wheelhouse string
}

// CheckManifest fails with ErrManifestMissing when manifest is absent or a directory.
func CheckManifest(manifest string) error {
	info, err := os.Stat(manifest)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrManifestMissing, manifest)
	}
	return nil
}

// Install upgrades pip inside the environment and installs every requirement from manifest.
// python must be the environment's own interpreter.
func Install(ctx context.Context, r runner.Runner, python, manifest string, opts Options) error {
	if err := CheckManifest(manifest); err != nil {
		return err
	}

	findLinks, cleanup, err := resolveWheelhouse(ctx, opts.Wheelhouse)
	if err != nil {
		return err
	}
	defer cleanup()

	if findLinks == "" {
		logger.Info("[INFO] Upgrading pip...\n")
		if out, err := r.Output(ctx, python, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
			return fmt.Errorf("upgrade pip: %w\nOutput: %s", err, out)
		}
	} else {
		// An offline pip can only upgrade itself if the wheelhouse happens to carry pip
		logger.Info("[INFO] Offline install from %s, keeping bundled pip\n", findLinks)
	}

	args := []string{"-m", "pip", "install"}
	if findLinks != "" {
		args = append(args, "--no-index", "--find-links", findLinks)
	}
	args = append(args, "-r", manifest)

	logger.Info("[INFO] Installing dependencies from %s...\n", manifest)
	if out, err := r.Output(ctx, python, args...); err != nil {
		return fmt.Errorf("install dependencies from %s: %w\nOutput: %s", manifest, err, out)
	}
	logger.Info("[INFO] Dependencies installed\n")
	return nil
}

// resolveWheelhouse turns the --wheelhouse argument into a directory for --find-links.
// The returned cleanup removes any temporary extraction and is always safe to call.
func resolveWheelhouse(ctx context.Context, src string) (string, func(), error) {
	noop := func() {}
	if src == "" {
		return "", noop, nil
	}

	remote := strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
	if !remote {
		info, err := os.Stat(src)
		if err != nil {
			return "", noop, fmt.Errorf("wheelhouse %s: %w", src, err)
		}
		if info.IsDir() {
			return src, noop, nil
		}
	}
	if !IsArchive(src) {
		return "", noop, fmt.Errorf("wheelhouse %s is neither a directory nor a supported archive", src)
	}

	tmp, err := os.MkdirTemp("", "callm-wheelhouse-")
	if err != nil {
		return "", noop, fmt.Errorf("create wheelhouse temp dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tmp); err != nil {
			logger.Warn("[WARN] Failed to remove %s: %v\n", tmp, err)
		}
	}

	archive := src
	if remote {
		archive = filepath.Join(tmp, path.Base(src))
		logger.Info("[INFO] Downloading wheelhouse %s\n", src)
		if err := downloadFile(ctx, src, archive); err != nil {
			cleanup()
			return "", noop, err
		}
	}

	dir, err := ExtractArchive(archive, filepath.Join(tmp, "wheels"))
	if err != nil {
		cleanup()
		return "", noop, err
	}
	return dir, cleanup, nil
}
