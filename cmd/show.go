// nativeconf show
package cmd

import (
	"fmt"

	"github.com/nativeconf/nativeconf/internal/msg"
	"github.com/nativeconf/nativeconf/internal/pyenv"
	"github.com/spf13/cobra"
)

func doShow(cmd *cobra.Command, args []string) {
	env, err := pyenv.Detect()
	if err != nil {
		msg.Fatal("%v", err)
	}

	fmt.Printf("prefix: %s (from %s)\n", env.Prefix, env.Source)
	if python, err := pyenv.FindInterpreter(env.Prefix); err == nil {
		fmt.Printf("interpreter: %s\n", python)
	}

	// conda envs have no pyvenv.cfg, nothing more to show for them
	if cfg, err := pyenv.ReadVenvConfig(env.Prefix); err == nil {
		if cfg.Version != "" {
			fmt.Printf("version: %s\n", cfg.Version)
		}
		if cfg.Home != "" {
			fmt.Printf("base interpreter: %s\n", cfg.Home)
		}
		if cfg.Prompt != "" {
			fmt.Printf("prompt: %s\n", cfg.Prompt)
		}
	}
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the detected Python environment",
	Run:   doShow,
}

func init() {
	// nativeconf show subcommand
	rootCmd.AddCommand(showCmd)
}
