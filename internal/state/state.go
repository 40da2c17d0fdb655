package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json" // For JSON encoding and decoding of the state file
	"fmt"
	"io"
	"os" // For file system operations like reading and writing files
	"time"

	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
)

// State records the last successful setup run.
// It is informational: `check` reports it, nothing gates on it.
type State struct {
	Interpreter     string    `json:"interpreter"`      // Command line of the probed interpreter, e.g. "py -3"
	PythonVersion   string    `json:"python_version"`   // Version the interpreter reported
	VenvPath        string    `json:"venv_path"`        // Environment directory that was (re)created
	ManifestSHA256  string    `json:"manifest_sha256"`  // Hash of the manifest the environment was built from
	CredentialSaved bool      `json:"credential_saved"` // True if this run wrote the credential file
	ShortcutPath    string    `json:"shortcut_path"`    // Desktop shortcut created, empty when skipped
	CompletedAt     time.Time `json:"completed_at"`     // When setup finished
}

// LoadState loads the saved state from a JSON file at the given path.
// ok is false when the file is missing or unreadable; the returned State is then empty.
func LoadState(path string) (st *State, ok bool) {
	file, err := os.ReadFile(path)
	if err != nil {
		return &State{}, false
	}

	var s State
	if err := json.Unmarshal(file, &s); err != nil {
		logger.Warn("[WARN] Ignoring unreadable state file %s: %v\n", path, err)
		return &State{}, false
	}
	return &s, true
}

// SaveState writes the given State struct to a JSON file at the given path.
// It pretty-prints the JSON with indentation for readability.
func SaveState(path string, st *State) error {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, file, 0o644); err != nil {
		return fmt.Errorf("write state file %s: %w", path, err)
	}
	return nil
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
