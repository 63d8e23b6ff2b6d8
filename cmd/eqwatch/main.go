// Command eqwatch monitors EverQuest log files and reports detected
// events: raid target spawns, FTE shouts, times of death, random rolls,
// and the state of the player's pet.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // set via -ldflags at build time

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "eqwatch",
	Short: "Monitor EverQuest logs for raid-relevant events",
	Long: `eqwatch follows the newest EverQuest log file for a character,
classifies each line against a set of detectors, and reports the matches.

Events can be printed locally or delivered to remote syslog collectors
over UDP for raid coordination tooling.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Print warnings and debug information to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
