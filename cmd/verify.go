package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Checks that a scenario can be simulated",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		cfg, err := state.LoadConfig(scenarioPath)
		if err == nil {
			err = state.ConfigValidator(cfg)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Scenario is not valid: %s\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(out, "Scenario is valid: %d nodes, %d links, %d events\n", cfg.Nodes, len(cfg.Links), len(cfg.Events))
		for i, d := range cfg.Events {
			if d.At >= cfg.MaxExchanges {
				fmt.Fprintf(out, "warning: event %d at exchange %d will never fire, the limit is %d\n", i, d.At, cfg.MaxExchanges)
			}
		}
	},
	GroupID: "cfg",
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
