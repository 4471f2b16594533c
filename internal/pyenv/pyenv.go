// Package pyenv locates the active Python environment and inspects the
// environments installed on the machine.
package pyenv

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nativeconf/nativeconf/internal/msg"
)

// Env is the result of prefix detection.
type Env struct {
	Prefix string
	Source string // the signal the prefix came from
}

const (
	SourceVirtualEnv  = "VIRTUAL_ENV"
	SourceCondaPrefix = "CONDA_PREFIX"
	SourceInterpreter = "interpreter"
)

var ErrNoEnvironment = errors.New("no active Python environment found (no VIRTUAL_ENV, no CONDA_PREFIX, no python on PATH)")

var interpreterNames = []string{"python3", "python"}

// Detect finds the installation prefix of the currently active environment.
// Activation env vars win over asking an interpreter for its sys.prefix.
// The prefix path is not validated; whatever the environment reports is
// what gets emitted.
func Detect() (Env, error) {
	if v := os.Getenv("VIRTUAL_ENV"); v != "" {
		return Env{Prefix: v, Source: SourceVirtualEnv}, nil
	}
	if v := os.Getenv("CONDA_PREFIX"); v != "" {
		return Env{Prefix: v, Source: SourceCondaPrefix}, nil
	}

	for _, name := range interpreterNames {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		prefix, err := askInterpreter(path)
		if err != nil {
			msg.Warn("%v", err)
			continue
		}
		return Env{Prefix: prefix, Source: SourceInterpreter}, nil
	}

	return Env{}, ErrNoEnvironment
}

// askInterpreter runs an interpreter and reads its sys.prefix
func askInterpreter(python string) (string, error) {
	c := exec.Command(python, "-c", "import sys; print(sys.prefix)")
	c.Stderr = &msg.IndentWriter{Indent: "    ", W: os.Stderr}
	out, err := c.Output()
	if err != nil {
		return "", fmt.Errorf("failed to query %s for its prefix: %w", python, err)
	}
	prefix := strings.TrimSpace(string(out))
	if prefix == "" {
		return "", fmt.Errorf("interpreter %s reported an empty prefix", python)
	}
	return prefix, nil
}

// VenvConfig holds the pyvenv.cfg fields a venv records about itself.
type VenvConfig struct {
	Home    string
	Version string
	Prompt  string
}

// ReadVenvConfig parses pyvenv.cfg under the given prefix. Conda
// environments don't have one, so callers treat a missing file as
// "nothing to show", not a failure of detection.
func ReadVenvConfig(prefix string) (*VenvConfig, error) {
	f, err := os.Open(filepath.Join(prefix, "pyvenv.cfg"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := new(VenvConfig)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "home":
			cfg.Home = value
		case "version", "version_info":
			cfg.Version = value
		case "prompt":
			cfg.Prompt = value
		}
	}
	return cfg, scanner.Err()
}

var interpreterPatterns = []string{"bin/python3*", "bin/python", "Scripts/python*.exe"}

// FindInterpreter locates the concrete interpreter binary under a prefix,
// preferring the newest versioned name (python3.12 over python3.9 over
// python3).
func FindInterpreter(prefix string) (string, error) {
	fsys := os.DirFS(prefix)
	for _, pattern := range interpreterPatterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			continue
		}
		best := slices.MaxFunc(matches, func(a, b string) int {
			return slices.Compare(interpreterVersion(a), interpreterVersion(b))
		})
		return filepath.Join(prefix, filepath.FromSlash(best)), nil
	}
	return "", fmt.Errorf("no python interpreter found under %s", prefix)
}

// interpreterVersion parses the numeric components of an interpreter file
// name (bin/python3.12 -> [3 12]). Names without a parseable version, like
// python3-config, compare lowest.
func interpreterVersion(match string) []int {
	name := strings.TrimSuffix(path.Base(match), ".exe")
	var version []int
	for _, s := range strings.Split(strings.TrimPrefix(name, "python"), ".") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return version
		}
		version = append(version, n)
	}
	return version
}
