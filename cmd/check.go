// nativeconf check [path]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nativeconf/nativeconf/internal/msg"
	"github.com/nativeconf/nativeconf/internal/native"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func doCheck(cmd *cobra.Command, args []string) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	e, err := native.NewEmitterInDirectory(target, emitOptions(cmd))
	if err != nil {
		msg.Fatal("%v", err)
	}
	want, err := e.Render()
	if err != nil {
		msg.Fatal("%v", err)
	}

	path := e.OutputPath()
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		msg.Fatal("%s does not exist, run %s to create it", name, getProgramName())
	}
	if err != nil {
		msg.Fatal("%v", err)
	}

	if string(data) == want {
		msg.Info("%s is up to date", name)
		return
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(data), want, false)
	fmt.Print(dmp.DiffPrettyText(diffs))
	msg.Fatal("%s is out of date", name)
}

var checkCmd = &cobra.Command{
	Use:   "check [target path]",
	Short: "Verify the native file matches the active environment",
	Long:  `Verify the native file matches the active environment. Prints a diff and exits non-zero when it is stale or missing.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doCheck,
}

func init() {
	// nativeconf check subcommand
	rootCmd.AddCommand(checkCmd)
	addEmitFlags(checkCmd)
}
