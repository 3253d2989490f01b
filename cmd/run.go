package cmd

import (
	"fmt"
	"log/slog"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario",
	Long:  `This will load the scenario, print the initial link matrix and run exchange rounds until the exchange limit or, with --stop-on-stability, until no route table changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := state.LoadConfig(scenarioPath)
		if err != nil {
			panic(err)
		}
		applyRunFlags(cmd, cfg)

		err = state.ConfigValidator(cfg)
		if err != nil {
			panic(err)
		}

		level := slog.LevelInfo
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		out := cmd.OutOrStdout()

		renderLinkMatrix(out, scenarioLinks(cfg).Matrix())

		opts := core.Options{
			LogLevel: level,
			LogPath:  cmd.Flag("log").Value.String(),
			Prefix:   state.DefaultLogPrefix,
			Observer: &consoleObserver{w: out, quiet: quiet},
		}
		if addr, _ := cmd.Flags().GetString("debug"); addr != "" {
			opts.DebugAddr = addr
		}
		if ok, _ := cmd.Flags().GetBool("step"); ok {
			c := core.NewLineCommander(cmd.InOrStdin())
			c.Prompt = func(exchange int) {
				fmt.Fprintf(out, "[exchange %d] enter: next (n), toggle split horizon (s), quit (q) > ", exchange)
			}
			opts.Commander = c
		}

		sim, res, err := core.Start(cfg, opts)
		if err != nil {
			panic(err)
		}

		if ok, _ := cmd.Flags().GetBool("tables"); ok {
			for i := 0; i < sim.NumNodes(); i++ {
				id := state.NodeId(i)
				renderRouteTable(out, sim.Exchange(), id, sim.Table(id))
			}
		}
		renderSummary(out, res, sim.Config().MaxExchanges)
	},
	GroupID: "sim",
}

// applyRunFlags lets command line flags override the scenario, but only when they were given
func applyRunFlags(cmd *cobra.Command, cfg *state.SimCfg) {
	flags := cmd.Flags()
	if flags.Changed("max-exchanges") {
		cfg.MaxExchanges, _ = flags.GetInt("max-exchanges")
	}
	if flags.Changed("stop-on-stability") {
		cfg.StopOnStable, _ = flags.GetBool("stop-on-stability")
	}
	if flags.Changed("split-horizon") {
		cfg.SplitHorizon, _ = flags.GetBool("split-horizon")
	}
	if flags.Changed("infinity") {
		cfg.InfinityCost, _ = flags.GetInt("infinity")
	}
	if flags.Changed("forget-after") {
		cfg.ForgetAfter, _ = flags.GetInt("forget-after")
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output, logs every route table change")
	runCmd.Flags().StringP("log", "l", "", "Also write the log to this file")
	runCmd.Flags().BoolP("step", "s", false, "Wait for a command before every exchange")
	runCmd.Flags().BoolP("quiet", "q", false, "Only print traces, best routes and the summary")
	runCmd.Flags().BoolP("tables", "t", false, "Print every route table when the run ends")
	runCmd.Flags().StringP("debug", "d", "", "Serve metrics and pprof on this address, e.g. "+state.DefaultDebugAddr)
	runCmd.Flags().Int("max-exchanges", state.DefaultMaxExchanges, "Override the exchange limit of the scenario")
	runCmd.Flags().Bool("stop-on-stability", state.DefaultStopOnStable, "Override whether to stop once no table changes")
	runCmd.Flags().Bool("split-horizon", state.DefaultSplitHorizon, "Override split horizon for every node")
	runCmd.Flags().Int("infinity", state.DefaultInfinityCost, "Override the cost treated as unreachable")
	runCmd.Flags().Int("forget-after", state.DefaultForgetAfter, "Override the number of rounds before an unrefreshed route is purged")
}
