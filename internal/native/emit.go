package native

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nativeconf/nativeconf/internal/msg"
	"github.com/nativeconf/nativeconf/internal/pyenv"
)

// Options carry command-line overrides into an emit run. Empty fields
// fall back to the config file and then to defaults; Stamp is or-ed with
// the config value.
type Options struct {
	Prefix    string // skip environment detection when set
	Layout    string
	Toolchain string
	File      string
	Stamp     bool
}

// Emitter renders a native file for one target directory: detected
// prefix, optional nativeconf.toml, command-line overrides.
type Emitter struct {
	cfg     *Config
	env     ConfigEnv
	basedir string
	opts    Options
}

func NewEmitterInDirectory(path string, opts Options) (*Emitter, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	prefix := opts.Prefix
	if prefix == "" {
		active, err := pyenv.Detect()
		if err != nil {
			return nil, err
		}
		prefix = active.Prefix
	}

	env := NewConfigEnv(prefix)
	cfg, err := LoadConfig(path, env)
	if err != nil {
		return nil, err
	}

	e := &Emitter{cfg: cfg, env: env, basedir: path, opts: opts}
	if l := e.layout(); l != LayoutPlain && l != LayoutCython {
		return nil, fmt.Errorf("unknown layout %q, known layouts: %s, %s", l, LayoutPlain, LayoutCython)
	}
	return e, nil
}

func (e *Emitter) layout() string {
	if e.opts.Layout != "" {
		return e.opts.Layout
	}
	if e.cfg.Emit.Layout != "" {
		return e.cfg.Emit.Layout
	}
	return LayoutPlain
}

func (e *Emitter) toolchainName() string {
	if e.opts.Toolchain != "" {
		return e.opts.Toolchain
	}
	if e.cfg.Emit.Toolchain != "" {
		return e.cfg.Emit.Toolchain
	}
	return ToolchainGCC
}

func (e *Emitter) fileName() string {
	if e.opts.File != "" {
		return e.opts.File
	}
	if e.cfg.Emit.File != "" {
		return e.cfg.Emit.File
	}
	return DefaultFileName
}

// OutputPath is where Emit will write the file.
func (e *Emitter) OutputPath() string {
	return filepath.Join(e.basedir, e.fileName())
}

// Render produces the file contents without touching the filesystem.
func (e *Emitter) Render() (string, error) {
	tc, err := ResolveToolchain(e.toolchainName())
	if err != nil {
		return "", err
	}

	bc := NewBuildConfig(e.env.Prefix, e.layout(), tc)

	for k, v := range e.cfg.Binaries {
		switch k {
		case "c":
			bc.C = v
		case "cpp":
			bc.Cpp = v
		case "cython":
			bc.Cython = v
		case "python":
			bc.Python = v
		default:
			if bc.Binaries == nil {
				bc.Binaries = make(map[string]string)
			}
			bc.Binaries[k] = v
		}
	}

	for k, v := range e.cfg.Options {
		if k == "prefix" || k == "libdir" {
			msg.Warn("option %q is always derived from the environment prefix, ignoring", k)
			continue
		}
		if bc.Options == nil {
			bc.Options = make(map[string]string)
		}
		bc.Options[k] = v
	}

	if e.opts.Stamp || e.cfg.Emit.Stamp {
		bc.Header = StampHeader(e.basedir)
	}

	return bc.Render(), nil
}

// Emit renders the native file and writes it atomically into the target
// directory, overwriting any previous content. Returns the written path.
func (e *Emitter) Emit() (string, error) {
	text, err := e.Render()
	if err != nil {
		return "", err
	}

	path := e.OutputPath()
	if err := writeFileAtomic(path, []byte(text)); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileAtomic writes data through a temp file in the destination
// directory and renames it into place, so a failure never leaves a
// partially written native file or clobbers the previous one.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + "." + uuid.NewString()[:8] + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp)
		if werr != nil {
			return werr
		}
		return cerr
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
