package native

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testConfigEnv() ConfigEnv {
	return ConfigEnv{
		TargetOS:   "linux",
		TargetArch: "amd64",
		Environ:    map[string]string{"HOME": "/home/user"},
		Prefix:     "/usr/local",
	}
}

func TestParseConfigSections(t *testing.T) {
	const src = `
[emit]
layout = "cython"
toolchain = "clang"
file = "meson-native.ini"
stamp = true

[binaries]
strip = "strip"

[options]
buildtype = "release"
`
	cfg, err := ParseConfig(strings.NewReader(src), testConfigEnv())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Emit.Layout != "cython" || cfg.Emit.Toolchain != "clang" ||
		cfg.Emit.File != "meson-native.ini" || !cfg.Emit.Stamp {
		t.Errorf("unexpected [emit] section: %+v", cfg.Emit)
	}
	if cfg.Binaries["strip"] != "strip" {
		t.Errorf("unexpected [binaries]: %v", cfg.Binaries)
	}
	if cfg.Options["buildtype"] != "release" {
		t.Errorf("unexpected [options]: %v", cfg.Options)
	}
}

func TestParseConfigConditionalSections(t *testing.T) {
	const src = `
[binaries]
strip = "strip"

[binaries.'target_os == "linux"']
c = "clang"

[binaries.'target_os == "plan9"']
c = "pcc"

[options.'target_arch == "amd64"']
b_lto = "true"
`
	cfg, err := ParseConfig(strings.NewReader(src), testConfigEnv())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Binaries["c"] != "clang" {
		t.Errorf("matching condition not merged: %v", cfg.Binaries)
	}
	if cfg.Binaries["strip"] != "strip" {
		t.Errorf("base entry lost: %v", cfg.Binaries)
	}
	if cfg.Options["b_lto"] != "true" {
		t.Errorf("matching [options] condition not merged: %v", cfg.Options)
	}
}

func TestParseConfigInterpolation(t *testing.T) {
	const src = `
[options]
pkg_config_path = "{{ prefix }}/lib/pkgconfig"

[binaries]
pkg-config = "{{ environ['HOME'] }}/bin/pkg-config"
`
	cfg, err := ParseConfig(strings.NewReader(src), testConfigEnv())
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Options["pkg_config_path"]; got != "/usr/local/lib/pkgconfig" {
		t.Errorf("pkg_config_path = %q", got)
	}
	if got := cfg.Binaries["pkg-config"]; got != "/home/user/bin/pkg-config" {
		t.Errorf("pkg-config = %q", got)
	}
}

func TestParseConfigRejectsNonStringEntries(t *testing.T) {
	const src = `
[binaries]
c = 3
`
	if _, err := ParseConfig(strings.NewReader(src), testConfigEnv()); err == nil {
		t.Error("expected an error for a non-string [binaries] entry")
	}
}

func TestParseConfigRejectsBadCondition(t *testing.T) {
	const src = `
[binaries.'target_os ===']
c = "clang"
`
	if _, err := ParseConfig(strings.NewReader(src), testConfigEnv()); err == nil {
		t.Error("expected an error for an uncompilable condition")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), testConfigEnv())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Emit.Layout != "" || len(cfg.Binaries) != 0 || len(cfg.Options) != 0 {
		t.Errorf("missing config should be empty, got %+v", cfg)
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("[emit]\nlayout = \"cython\"\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(dir, testConfigEnv())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Emit.Layout != "cython" {
		t.Errorf("layout = %q, want cython", cfg.Emit.Layout)
	}
}
