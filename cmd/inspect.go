package cmd

import (
	"fmt"

	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:     "inspect",
	Aliases: []string{"i"},
	Short:   "Prints the topology and schedule of a scenario without running it",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := state.LoadConfig(scenarioPath)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err.Error())
			return
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d nodes, max %d exchanges, infinity %d, forget after %d, split horizon %t, stop on stability %t\n\n",
			cfg.Nodes, cfg.MaxExchanges, cfg.InfinityCost, cfg.ForgetAfter, cfg.SplitHorizon, cfg.StopOnStable)

		links := scenarioLinks(cfg)
		renderLinkMatrix(out, links.Matrix())
		renderLinks(out, links.Links())
		if len(cfg.Events) > 0 {
			fmt.Fprintln(out)
			renderEvents(out, cfg.Events)
		}
	},
	GroupID: "cfg",
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
