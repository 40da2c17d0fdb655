// Package probe finds a usable Python interpreter by walking an ordered fallback chain.
package probe

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/Louisamayh/browseragentB-HInd/internal/logger"
	"github.com/Louisamayh/browseragentB-HInd/internal/runner"
)

// ErrNoInterpreter is returned when no candidate in the chain is usable.
var ErrNoInterpreter = errors.New("no suitable Python interpreter found")

var versionRE = regexp.MustCompile(`Python (\d+)\.(\d+)(?:\.(\d+))?`)

// Interpreter is the winning candidate.
// Command is the full command line, e.g. ["py", "-3"], used to invoke it later.
type Interpreter struct {
	Command []string
	Version string
}

// Name returns the executable part of the command line.
func (i Interpreter) Name() string { return i.Command[0] }

// Args returns extra arguments that precede any caller arguments.
func (i Interpreter) Args() []string { return i.Command[1:] }

// String renders the command line for messages.
func (i Interpreter) String() string { return strings.Join(i.Command, " ") }

// Find runs "<candidate> --version" for each candidate in order and returns the first
// that answers with a Python version at or above minVersion. An empty minVersion accepts any.
func Find(ctx context.Context, r runner.Runner, candidates []string, minVersion string) (Interpreter, error) {
	for _, line := range candidates {
		name, args := runner.Split(line)
		if name == "" {
			continue
		}
		logger.Debug("[DEBUG] Probing interpreter candidate %q\n", line)

		out, err := r.Output(ctx, name, append(args, "--version")...)
		if err != nil {
			logger.Debug("[DEBUG] Candidate %q unavailable: %v\n", line, err)
			continue
		}

		version, ok := ParseVersion(string(out))
		if !ok {
			logger.Warn("[WARN] %s answered without a Python version: %q\n", line, strings.TrimSpace(string(out)))
			continue
		}

		if minVersion != "" && !AtLeast(version, minVersion) {
			logger.Warn("[WARN] %s is Python %s, need %s or newer. Trying next candidate.\n", line, version, minVersion)
			continue
		}

		logger.Info("[INFO] Found Python %s (%s)\n", version, line)
		return Interpreter{Command: append([]string{name}, args...), Version: version}, nil
	}

	return Interpreter{}, fmt.Errorf("%w (tried: %s)", ErrNoInterpreter, strings.Join(candidates, ", "))
}

// ParseVersion extracts "X.Y[.Z]" from interpreter --version output.
func ParseVersion(out string) (string, bool) {
	m := versionRE.FindStringSubmatch(out)
	if m == nil {
		return "", false
	}
	v := m[1] + "." + m[2]
	if m[3] != "" {
		v += "." + m[3]
	}
	return v, true
}

// AtLeast reports whether version >= min. Both are dotted numeric versions.
func AtLeast(version, min string) bool {
	v, m := "v"+version, "v"+min
	if !semver.IsValid(v) || !semver.IsValid(m) {
		return false
	}
	return semver.Compare(v, m) >= 0
}
