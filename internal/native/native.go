// Package native builds and renders Meson native files.
package native

import (
	"slices"
	"strings"
)

// DefaultFileName is where the rendered file goes, relative to the
// target directory.
const DefaultFileName = "native-file.ini"

const (
	LayoutPlain  = "plain"
	LayoutCython = "cython"
)

// BuildConfig is the full contents of a native file before rendering.
// Libdir and the optional tool paths are always derived from Prefix,
// never supplied independently.
type BuildConfig struct {
	Prefix string
	C      string
	Cpp    string
	Cython string // set for the cython layout
	Python string // set for the cython layout

	Binaries map[string]string // extra [binaries] entries
	Options  map[string]string // extra [built-in options] entries

	Header string // comment lines written verbatim before the first section
}

func NewBuildConfig(prefix, layout string, tc Toolchain) *BuildConfig {
	bc := &BuildConfig{Prefix: prefix, C: tc.C, Cpp: tc.Cpp}
	if layout == LayoutCython {
		bc.Cython = prefix + "/bin/cython"
		bc.Python = prefix + "/bin/python"
	}
	return bc
}

func (bc *BuildConfig) Libdir() string { return bc.Prefix + "/lib" }

var iniEscaper = strings.NewReplacer("'", `\'`)

func quote(s string) string { return "'" + iniEscaper.Replace(s) + "'" }

// Render produces the native file text. Fixed keys come first in their
// canonical order, extra entries follow sorted by key.
func (bc *BuildConfig) Render() string {
	var sb strings.Builder

	if bc.Header != "" {
		writeln(&sb, bc.Header)
		writeln(&sb)
	}

	writeln(&sb, "[binaries]")
	writeln(&sb, "c = ", quote(bc.C))
	writeln(&sb, "cpp = ", quote(bc.Cpp))
	if bc.Cython != "" {
		writeln(&sb, "cython = ", quote(bc.Cython))
	}
	if bc.Python != "" {
		writeln(&sb, "python = ", quote(bc.Python))
	}
	for _, k := range sortedKeys(bc.Binaries) {
		writeln(&sb, k, " = ", quote(bc.Binaries[k]))
	}
	writeln(&sb)

	writeln(&sb, "[built-in options]")
	writeln(&sb, "prefix = ", quote(bc.Prefix))
	writeln(&sb, "libdir = ", quote(bc.Libdir()))
	for _, k := range sortedKeys(bc.Options) {
		writeln(&sb, k, " = ", quote(bc.Options[k]))
	}

	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}
