package cmd

import (
	"os"

	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var scenarioPath = state.DefaultConfigPath

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dvsim",
	Short: "Distance-vector routing convergence simulator",
	Long: `dvsim simulates a network of distance-vector routers exchanging their route tables in synchronous rounds.
It shows how tables converge, how split horizon and route aging react to failures, and when the network becomes stable.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "sim",
		Title: "Simulation Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cfg",
		Title: "Scenario Commands",
	})
	rootCmd.PersistentFlags().StringVarP(&scenarioPath, "config", "c", scenarioPath, "scenario file (yaml, json or the legacy text format)")
}
