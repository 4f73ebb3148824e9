package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navcore-dev/navcore/pkg/navcore"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario.toml]",
	Short: "Replay a navigation scenario",
	Long: `Replays a scenario step by step. The clock only moves on "advance"
steps, so native-route cooldowns are deterministic.

Example scenario:

  root = "MainNavigatorWrapper"

  [[step]]
  op = "bind"

  [[step]]
  op = "will_pop"

  [[step]]
  op = "navigate"
  route = "SendSheet"
  params = { AssetID = "eth" }

  [[step]]
  op = "did_pop"`,
	Args: cobra.ExactArgs(1),
	RunE: runScenario,
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := LoadScenario(args[0])
	if err != nil {
		return err
	}

	opts, err := loadOptions()
	if err != nil {
		return err
	}
	defer navcore.Close()

	out := cmd.OutOrStdout()
	if scenario.Name != "" {
		fmt.Fprintf(out, "# %s\n", scenario.Name)
	}

	rec, err := Replay(scenario, opts, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "# %d actions dispatched, stack depth %d\n", len(rec.Actions()), rec.Depth())
	return nil
}

func loadOptions() (navcore.Options, error) {
	cfg := navcore.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = navcore.LoadConfig(configPath)
		if err != nil {
			return navcore.Options{}, err
		}
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg.Options()
}
