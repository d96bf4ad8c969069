package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PuzzleCut/internal/model"
	"github.com/piwi3910/PuzzleCut/internal/project"
)

func newPresetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage saved generation presets",
	}
	cmd.AddCommand(newPresetsListCmd(a), newPresetsSaveCmd(a), newPresetsDeleteCmd(a))
	return cmd
}

func newPresetsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadPresets(a.presetsPath())
			if err != nil {
				return err
			}
			if len(store.Presets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No presets saved")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLAYOUT\tSEED\tTAB\tJITTER\tDESCRIPTION")
			for _, p := range store.Presets {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%g\t%g\t%s\n",
					p.ID, p.Name, presetLayout(p), p.Settings.Seed, p.Settings.TabSize, p.Settings.Jitter, p.Description)
			}
			return tw.Flush()
		},
	}
}

func presetLayout(p model.Preset) string {
	if p.HasGrid() {
		return p.Grid.String()
	}
	return fmt.Sprintf("%d pieces", p.PieceCount)
}

func newPresetsSaveCmd(a *app) *cobra.Command {
	o := &settingsOptions{}
	var description string
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the given settings as a preset",
		Long: `Save generation settings under NAME. Settings not given as flags come
from the config. Saving an existing name replaces that preset.

Example:
  puzzlecut presets save poster --pieces 500 --seed 3 --jitter 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if err := o.validate(fs); err != nil {
				return err
			}
			settings := model.DefaultGenerationSettings()
			a.config.ApplyToSettings(&settings)
			count, grid := a.config.DefaultPieceCount, model.Grid{}
			if err := o.apply(fs, &settings, &count, &grid); err != nil {
				return err
			}

			store, err := project.LoadPresets(a.presetsPath())
			if err != nil {
				return err
			}
			p := model.NewPreset(args[0], description, count, grid, settings)
			store.Add(p)
			if err := project.SavePresets(a.presetsPath(), store); err != nil {
				return err
			}
			saved := store.FindByName(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q (%s, %s)\n", saved.Name, saved.ID, presetLayout(*saved))
			return nil
		},
	}
	o.register(cmd.Flags())
	cmd.Flags().StringVarP(&description, "description", "d", "", "Preset description")
	return cmd
}

func newPresetsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME|ID",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadPresets(a.presetsPath())
			if err != nil {
				return err
			}
			p := findPreset(&store, args[0])
			if p == nil {
				return fmt.Errorf("preset %q not found", args[0])
			}
			name := p.Name
			store.Remove(p.ID)
			if err := project.SavePresets(a.presetsPath(), store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %q\n", name)
			return nil
		},
	}
}
