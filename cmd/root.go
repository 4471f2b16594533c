// nativeconf [path], nativeconf gen [path]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/nativeconf/nativeconf/internal/msg"
	"github.com/nativeconf/nativeconf/internal/native"
	"github.com/spf13/cobra"
)

var (
	flagPrefix string
	flagOutput string
	flagStamp  bool
	flagLayout EnumValue = NewEnumValue("plain", map[string]string{
		"plain":  "c, cpp, prefix and libdir only (default)",
		"cython": "additionally declares cython and python binaries",
	})
	flagToolchain EnumValue = NewEnumValue("gcc", map[string]string{
		"gcc":   "gcc/g++ (default)",
		"clang": "clang/clang++",
		"msvc":  "cl.exe from the newest Visual Studio (windows only)",
	})
)

// emitOptions translates flags into overrides; flags that were not set on
// the command line stay empty so the config file can fill them in.
func emitOptions(cmd *cobra.Command) native.Options {
	opts := native.Options{
		Prefix: flagPrefix,
		File:   flagOutput,
		Stamp:  flagStamp,
	}
	if cmd.Flags().Changed("layout") {
		opts.Layout = flagLayout.Value()
	}
	if cmd.Flags().Changed("toolchain") {
		opts.Toolchain = flagToolchain.Value()
	}
	return opts
}

func doEmit(cmd *cobra.Command, args []string) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	e, err := native.NewEmitterInDirectory(target, emitOptions(cmd))
	if err != nil {
		msg.Fatal("%v", err)
	}
	path, err := e.Emit()
	if err != nil {
		msg.Fatal("%v", err)
	}
	fmt.Printf("%s %s\n", color.HiGreenString("Wrote"), filepath.ToSlash(path))
}

var rootCmd = &cobra.Command{
	Use:   "nativeconf [target path]",
	Short: "Generate a Meson native file for the active Python environment",
	Long: `Generate a Meson native file for the active Python environment.
Detects the environment's installation prefix and writes native-file.ini
into the target directory. If no target path is given, uses "."`,
	Args: cobra.MaximumNArgs(1),
	Run:  doEmit,
}

var genCmd = &cobra.Command{
	Use:   "gen [target path]",
	Short: "Generate the native file",
	Long:  `Generate the native file. If no target path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doEmit,
}

func init() {
	addEmitFlags(rootCmd)

	// nativeconf gen subcommand
	rootCmd.AddCommand(genCmd)
	addEmitFlags(genCmd)
}

func addEmitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPrefix, "prefix", "", "Use this installation prefix instead of detecting one")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", `Output file name (default "`+native.DefaultFileName+`")`)
	cmd.Flags().BoolVar(&flagStamp, "stamp", false, "Prepend a provenance comment header")
	cmd.Flags().VarP(&flagLayout, "layout", "l", "File layout, one of "+flagLayout.HelpString())
	cmd.Flags().VarP(&flagToolchain, "toolchain", "t", "Compiler toolchain, one of "+flagToolchain.HelpString())
	cmd.RegisterFlagCompletionFunc("layout", flagLayout.CompletionFunc())
	cmd.RegisterFlagCompletionFunc("toolchain", flagToolchain.CompletionFunc())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
