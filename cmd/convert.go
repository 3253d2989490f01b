package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [legacy scenario]",
	Short: "Convert a legacy text scenario to yaml",
	Long: `Reads a scenario in the line-oriented text format (a "-numOfNodes N ..." header followed by "##"-separated
sections of links, link changes, best route queries and traces) and prints it as yaml.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readLegacy(args[0])
		if err != nil {
			return err
		}
		data, err := state.MarshalConfig(cfg)
		if err != nil {
			return err
		}

		outPath := cmd.Flag("output").Value.String()
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		err = state.PathValidator(outPath)
		if err != nil {
			return err
		}
		return os.WriteFile(outPath, data, 0644)
	},
	GroupID: "cfg",
}

func readLegacy(path string) (*state.SimCfg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := state.ParseLegacy(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("output", "o", "", "write the yaml scenario here instead of stdout")
}
