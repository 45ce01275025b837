// Package cliutil builds the forestsim cobra command tree, grounded on the
// teacher's inmaputil/cmd.go InitializeConfig: a Root command with
// subcommands (run, grid, snapshot save|load, version) sharing one bound
// config.Cfg.
package cliutil

import (
	"fmt"
	"os"

	"github.com/landscape-sim/forestsim/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags, matching the teacher's own
// version-command convention.
var Version = "dev"

// BuildRoot constructs the full forestsim command tree bound to cfg.
func BuildRoot(cfg *config.Cfg) (*cobra.Command, error) {
	root := &cobra.Command{
		Use:   "forestsim",
		Short: "An individual-based, spatially-explicit forest landscape simulator",
	}
	if err := cfg.BindFlags(root.PersistentFlags()); err != nil {
		return nil, err
	}

	runCmd := &cobra.Command{
		Use:   "run [project file]",
		Short: "Run the simulation for the configured number of years",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ReadProjectFile(args[0]); err != nil {
				return err
			}
			years, err := cmd.Flags().GetInt("years")
			if err != nil {
				return err
			}
			return runYears(cfg, years)
		},
	}
	runCmd.Flags().Int("years", 1, "number of years to simulate")

	gridCmd := &cobra.Command{
		Use:   "grid [project file]",
		Short: "Print the landscape grid dimensions implied by a project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ReadProjectFile(args[0]); err != nil {
				return err
			}
			return printGrid(cfg)
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save or load a landscape snapshot",
	}
	snapshotSaveCmd := &cobra.Command{
		Use:   "save [project file] [snapshot file]",
		Short: "Run the configured years then save a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ReadProjectFile(args[0]); err != nil {
				return err
			}
			years, err := cmd.Flags().GetInt("years")
			if err != nil {
				return err
			}
			return saveSnapshot(cfg, years, args[1])
		},
	}
	snapshotSaveCmd.Flags().Int("years", 1, "number of years to simulate before saving")
	snapshotLoadCmd := &cobra.Command{
		Use:   "load [project file] [snapshot file]",
		Short: "Load a snapshot into a project's resource-unit grid and report its recorded year",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ReadProjectFile(args[0]); err != nil {
				return err
			}
			year, err := loadSnapshot(cfg, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "loaded snapshot recorded at year %d\n", year)
			return nil
		},
	}
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotLoadCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the forestsim version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(os.Stdout, Version)
			return nil
		},
	}

	root.AddCommand(runCmd, gridCmd, snapshotCmd, versionCmd)
	return root, nil
}
