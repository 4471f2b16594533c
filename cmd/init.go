// nativeconf init [path]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/nativeconf/nativeconf/internal/msg"
	"github.com/nativeconf/nativeconf/internal/native"
	"github.com/spf13/cobra"
)

func writefile(content string, elem ...string) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			msg.Fatal("create file %s: %v", path, err)
		}
		fmt.Printf("%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	}
}

func getProgramName() string {
	if len(os.Args) == 0 {
		return "nativeconf"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

const starterConfig = `# nativeconf project configuration. Every key is optional; without this
# file the generated native file uses the defaults shown here.

[emit]
layout = "plain"    # "cython" also declares cython/python binaries
toolchain = "gcc"   # or "clang", "msvc"
file = "native-file.ini"
stamp = false       # prepend a provenance comment header

# Extra [binaries] entries. String values may interpolate expressions,
# e.g. "{{ prefix }}/bin/pkg-config".
[binaries]

# Extra [built-in options] entries. prefix and libdir are always derived
# from the active environment and cannot be set here.
[options]
# pkg_config_path = "{{ prefix }}/lib/pkgconfig"

# Subtables keyed by an expression merge only when it holds:
# [binaries.'target_os == "windows"']
# c = "clang"
`

// initIn writes a starter config into an existing directory
func initIn(dir string) {
	writefile(starterConfig, dir, native.ConfigFileName)

	programName := getProgramName()
	fmt.Printf("You can now run %s to generate %s.\n",
		color.HiCyanString(programName+" "+dir), native.DefaultFileName)
}

var initCmd = &cobra.Command{
	Use:   "init [target path]",
	Short: "Create a starter nativeconf.toml",
	Long:  `Create a starter nativeconf.toml. If no target path is given, uses ".". An existing config is never overwritten.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		initIn(dir)
	},
}

func init() {
	// nativeconf init subcommand
	rootCmd.AddCommand(initCmd)
}
