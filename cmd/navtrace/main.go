// Command navtrace replays scripted navigation scenarios against navcore and
// prints what reaches the platform navigator.
//
// Usage:
//
//	navtrace run testdata/dismiss.toml
//	navtrace run --config navcore.toml scenario.toml
//	navtrace routes --native
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "navtrace",
	Short: "Replay navigation scenarios against navcore",
	Long: `navtrace drives the navcore route tracker, transition gate and virtual
navigators from a TOML scenario and prints every action that reaches the
recorded platform navigator.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "navcore TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(routesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
