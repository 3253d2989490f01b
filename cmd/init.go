package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

// exampleScenario is a four node ring whose cheapest link fails after the network settled
func exampleScenario() state.SimCfg {
	cfg := state.DefaultConfig()
	cfg.Nodes = 4
	cfg.MaxExchanges = 20
	cfg.StopOnStable = true
	cfg.Links = []state.LinkCfg{
		{From: 0, To: 1, Cost: 1},
		{From: 1, To: 2, Cost: 1},
		{From: 2, To: 3, Cost: 1},
		{From: 3, To: 0, Cost: 5},
	}
	cfg.Events = []state.DirectiveCfg{
		{At: 3, BestRoute: &state.RouteQueryCfg{From: 0, To: 3}},
		{At: 4, LinkCost: &state.LinkCfg{From: 1, To: 2, Cost: state.LinkDown}},
		{At: 4, Trace: &state.TraceCfg{Node: 0, Until: 7}},
		{At: 10, BestRoute: &state.RouteQueryCfg{From: 0, To: 3}},
	}
	return cfg
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example scenario",
	Run: func(cmd *cobra.Command, args []string) {
		outPath := cmd.Flag("output").Value.String()
		err := state.PathValidator(outPath)
		if err != nil {
			panic(err)
		}
		if force, _ := cmd.Flags().GetBool("force"); !force {
			if _, err := os.Stat(outPath); err == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s already exists, use --force to overwrite it\n", outPath)
				os.Exit(1)
			}
		}

		cfg := exampleScenario()
		data, err := state.MarshalConfig(&cfg)
		if err != nil {
			panic(err)
		}
		err = os.WriteFile(outPath, data, 0644)
		if err != nil {
			panic(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote example scenario to %s\n", outPath)
	},
	GroupID: "cfg",
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("output", "o", state.DefaultConfigPath, "scenario output file path")
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")
}
