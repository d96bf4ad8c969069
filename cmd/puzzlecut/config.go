package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PuzzleCut/internal/model"
	"github.com/piwi3910/PuzzleCut/internal/project"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, reset, back up or restore the configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := json.MarshalIndent(a.config, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", a.configPath(), data)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a.config = model.DefaultAppConfig()
				if err := project.SaveAppConfig(a.configPath(), a.config); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration reset: %s\n", a.configPath())
				return nil
			},
		},
		&cobra.Command{
			Use:   "export FILE",
			Short: "Back up config, presets and custom profiles to FILE",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				presets, err := project.LoadPresets(a.presetsPath())
				if err != nil {
					return err
				}
				profiles, err := project.LoadCustomProfiles(a.profilesPath())
				if err != nil {
					return err
				}
				if err := project.ExportAllData(args[0], a.config, presets, profiles); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d presets and %d profiles to %s\n",
					len(presets.Presets), len(profiles), args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Restore a backup written by config export",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				backup, err := project.ImportAllData(args[0])
				if err != nil {
					return err
				}
				if err := project.RestoreAllData(a.configDir, backup); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s (version %s, %s)\n",
					args[0], backup.Version, backup.CreatedAt)
				return nil
			},
		},
	)
	return cmd
}
