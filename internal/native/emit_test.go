package native

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readOutput(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, DefaultFileName))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestEmitDefault(t *testing.T) {
	dir := t.TempDir()
	e, err := NewEmitterInDirectory(dir, Options{Prefix: "/usr/local"})
	if err != nil {
		t.Fatal(err)
	}
	path, err := e.Emit()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != DefaultFileName {
		t.Errorf("wrote %q, want %q", filepath.Base(path), DefaultFileName)
	}
	if got := readOutput(t, dir); got != wantPlain {
		t.Errorf("emitted %q, want %q", got, wantPlain)
	}
}

func TestEmitCythonLayout(t *testing.T) {
	dir := t.TempDir()
	e, err := NewEmitterInDirectory(dir, Options{Prefix: "/usr/local", Layout: LayoutCython})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Emit(); err != nil {
		t.Fatal(err)
	}
	if got := readOutput(t, dir); got != wantCython {
		t.Errorf("emitted %q, want %q", got, wantCython)
	}
}

func TestEmitOverwritesCompletely(t *testing.T) {
	dir := t.TempDir()

	e, err := NewEmitterInDirectory(dir, Options{Prefix: "/old/prefix", Layout: LayoutCython})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Emit(); err != nil {
		t.Fatal(err)
	}

	e, err = NewEmitterInDirectory(dir, Options{Prefix: "/new/prefix"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Emit(); err != nil {
		t.Fatal(err)
	}

	got := readOutput(t, dir)
	if strings.Contains(got, "/old/prefix") || strings.Contains(got, "cython") {
		t.Errorf("residue from previous run:\n%s", got)
	}
	if !strings.Contains(got, "prefix = '/new/prefix'\n") {
		t.Errorf("new prefix missing:\n%s", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", entry.Name())
		}
	}
}

func TestEmitWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	const config = `
[emit]
layout = "cython"

[binaries]
strip = "strip"

[options]
pkg_config_path = "{{ prefix }}/lib/pkgconfig"
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := NewEmitterInDirectory(dir, Options{Prefix: "/usr/local"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Render()
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"cython = '/usr/local/bin/cython'\n",
		"strip = 'strip'\n",
		"pkg_config_path = '/usr/local/lib/pkgconfig'\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestEmitFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[emit]\nlayout = \"cython\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := NewEmitterInDirectory(dir, Options{Prefix: "/usr/local", Layout: LayoutPlain})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Render()
	if err != nil {
		t.Fatal(err)
	}
	if got != wantPlain {
		t.Errorf("flag should win over config, got:\n%s", got)
	}
}

func TestEmitConfigCannotOverrideDerivedOptions(t *testing.T) {
	dir := t.TempDir()
	const config = `
[options]
prefix = "/somewhere/else"
libdir = "/somewhere/else/lib64"
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := NewEmitterInDirectory(dir, Options{Prefix: "/usr/local"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Render()
	if err != nil {
		t.Fatal(err)
	}
	if got != wantPlain {
		t.Errorf("derived options were overridden:\n%s", got)
	}
}

func TestEmitConfigOverridesCompilers(t *testing.T) {
	dir := t.TempDir()
	const config = `
[binaries]
c = "clang"
cpp = "clang++"
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := NewEmitterInDirectory(dir, Options{Prefix: "/usr/local"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Render()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "c = 'clang'\n") || !strings.Contains(got, "cpp = 'clang++'\n") {
		t.Errorf("[binaries] overrides not applied:\n%s", got)
	}
}

func TestEmitUnknownLayout(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[emit]\nlayout = \"fancy\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEmitterInDirectory(dir, Options{Prefix: "/usr/local"}); err == nil {
		t.Error("expected an error for an unknown layout")
	}
}

func TestEmitUnknownToolchain(t *testing.T) {
	e, err := NewEmitterInDirectory(t.TempDir(), Options{Prefix: "/usr/local", Toolchain: "icc"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Render(); err == nil {
		t.Error("expected an error for an unknown toolchain")
	}
}

func TestEmitCustomFileName(t *testing.T) {
	dir := t.TempDir()
	e, err := NewEmitterInDirectory(dir, Options{Prefix: "/usr/local", File: "cross.ini"})
	if err != nil {
		t.Fatal(err)
	}
	path, err := e.Emit()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "cross.ini" {
		t.Errorf("wrote %q, want cross.ini", filepath.Base(path))
	}
	if _, err := os.Stat(filepath.Join(dir, "cross.ini")); err != nil {
		t.Error(err)
	}
}

func TestWriteFileAtomicLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "does-not-exist", DefaultFileName)
	if err := writeFileAtomic(target, []byte(wantPlain)); err == nil {
		t.Fatal("expected an error writing into a missing directory")
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("partial file left behind: %v", err)
	}
}
