// nativeconf envs
package cmd

import (
	"fmt"

	"github.com/nativeconf/nativeconf/internal/msg"
	"github.com/nativeconf/nativeconf/internal/pyenv"
	"github.com/spf13/cobra"
)

var flagNoProbe bool

func doEnvs(cmd *cobra.Command, args []string) {
	envs := pyenv.Discover()
	if len(envs) == 0 {
		msg.Warn("no Python environments found")
		return
	}

	if !flagNoProbe {
		pyenv.Probe(envs)
	}

	for i, e := range envs {
		fmt.Printf("%d. %s -> %s", i+1, e.Name, e.Prefix)
		if e.Version != "" {
			fmt.Printf(" (%s)", e.Version)
		}
		fmt.Println()
	}
	msg.Info("found %d environments", len(envs))
}

var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "List Python environments found on this machine",
	Run:   doEnvs,
}

func init() {
	// nativeconf envs subcommand
	rootCmd.AddCommand(envsCmd)
	envsCmd.Flags().BoolVar(&flagNoProbe, "no-probe", false, "Skip querying each environment for its version")
}
