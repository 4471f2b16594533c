package pyenv

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// Installed is one discovered environment on this machine.
type Installed struct {
	Name    string
	Prefix  string
	Version string // filled in by Probe, empty when probing failed
}

// discoverRoots returns the directories that commonly hold environments:
// $WORKON_HOME, ~/.virtualenvs, and conda env directories.
func discoverRoots() []string {
	var roots []string
	if v := os.Getenv("WORKON_HOME"); v != "" {
		roots = append(roots, v)
	}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots,
			filepath.Join(home, ".virtualenvs"),
			filepath.Join(home, "miniconda3", "envs"),
			filepath.Join(home, "anaconda3", "envs"),
		)
	}
	if v := os.Getenv("CONDA_PREFIX"); v != "" {
		// the active env is either the conda root itself or <root>/envs/<name>
		roots = append(roots, filepath.Join(v, "envs"))
		if filepath.Base(filepath.Dir(v)) == "envs" {
			roots = append(roots, filepath.Dir(v))
		}
	}

	var existing []string
	for _, root := range roots {
		if stat, err := os.Stat(root); err == nil && stat.IsDir() && !slices.Contains(existing, root) {
			existing = append(existing, root)
		}
	}
	return existing
}

// Discover enumerates Python environments by globbing for interpreter
// binaries one level below each known root.
func Discover() []Installed {
	var envs []Installed
	for _, root := range discoverRoots() {
		fsys := os.DirFS(root)
		seen := make(map[string]bool)
		for _, pattern := range []string{"*/bin/python*", "*/Scripts/python*.exe"} {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				continue
			}
			for _, match := range matches {
				name, _, _ := strings.Cut(match, "/")
				if seen[name] {
					continue
				}
				seen[name] = true
				envs = append(envs, Installed{Name: name, Prefix: filepath.Join(root, name)})
			}
		}
	}
	slices.SortFunc(envs, func(a, b Installed) int {
		return strings.Compare(a.Prefix, b.Prefix)
	})
	return envs
}

// Probe asks each environment's interpreter for its version, in parallel.
// Individual failures leave Version empty and never fail the whole probe.
func Probe(envs []Installed) {
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i := range envs {
		g.Go(func() error {
			e := &envs[i]
			python, err := FindInterpreter(e.Prefix)
			if err != nil {
				return nil
			}
			out, err := exec.Command(python, "--version").Output()
			if err != nil {
				return nil
			}
			e.Version = strings.TrimSpace(string(out))
			return nil
		})
	}
	g.Wait()
}
