package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PuzzleCut/internal/gcode"
	"github.com/piwi3910/PuzzleCut/internal/importer"
	"github.com/piwi3910/PuzzleCut/internal/model"
)

func newInspectCmd(a *app) *cobra.Command {
	var pieces bool
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarise a manifest, DXF or G-code file",
		Long: `Print a summary of a file written by generate:
  .json   piece manifest (grid, sizes, crop rectangles, neighbours)
  .dxf    closed outlines with bounds and area
  .gcode  move counts, distances and estimated machining time`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			switch strings.ToLower(filepath.Ext(path)) {
			case ".json":
				return inspectManifest(cmd, path, pieces)
			case ".dxf":
				return inspectDXF(cmd, path)
			case ".gcode", ".nc", ".ngc", ".tap":
				cut := model.DefaultCutSettings()
				a.config.ApplyToCutSettings(&cut)
				return inspectGCode(cmd, path, cut)
			default:
				return fmt.Errorf("%s: unsupported file type", path)
			}
		},
	}
	cmd.Flags().BoolVar(&pieces, "pieces", false, "List every piece of a manifest")
	return cmd
}

func inspectManifest(cmd *cobra.Command, path string, listPieces bool) error {
	m, err := importer.ReadManifest(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	edge := 0
	for _, p := range m.Pieces {
		if p.Edge {
			edge++
		}
	}
	fmt.Fprintf(out, "Image:   %d x %d px\n", m.Width, m.Height)
	fmt.Fprintf(out, "Grid:    %s (%d pieces, %d on the border)\n", m.Grid, len(m.Pieces), edge)
	fmt.Fprintf(out, "Piece:   %.2f x %.2f px\n", m.PieceWidth, m.PieceHeight)
	fmt.Fprintf(out, "Seed:    %d, tab size %g, jitter %g, mode %s\n",
		m.Settings.Seed, m.Settings.TabSize, m.Settings.Jitter, m.Settings.GameMode)
	if !listPieces {
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tCELL\tCROP\tOFFSET\tNEIGHBOURS\tIMAGE")
	for _, p := range m.Pieces {
		fmt.Fprintf(tw, "%d\t%d,%d\t%d,%d %dx%d\t%.1f,%.1f\t%s\t%s\n",
			p.Index, p.Column, p.Row, p.CropX, p.CropY, p.CropW, p.CropH,
			p.Offset.X, p.Offset.Y, formatNeighbors(p.Neighbors), p.Image)
	}
	return tw.Flush()
}

func formatNeighbors(n map[string]int) string {
	keys := make([]string, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, n[k])
	}
	return strings.Join(parts, " ")
}

func inspectDXF(cmd *cobra.Command, path string) error {
	result := importer.ImportDXF(path)
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s: %s", path, strings.Join(result.Errors, "; "))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d closed outlines\n", len(result.Outlines))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMIN\tMAX\tAREA\tPERIMETER")
	for i, o := range result.Outlines {
		lo, hi := o.BoundingBox()
		fmt.Fprintf(tw, "%d\t%.2f,%.2f\t%.2f,%.2f\t%.2f\t%.2f\n", i+1, lo.X, lo.Y, hi.X, hi.Y, o.Area(), o.Perimeter())
	}
	return tw.Flush()
}

func inspectGCode(cmd *cobra.Command, path string, cut model.CutSettings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s := gcode.Summarize(gcode.ParseGCode(string(data)), cut)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Moves:          %d\n", s.Moves)
	fmt.Fprintf(out, "Plunges:        %d (%.1f mm)\n", s.Plunges, s.PlungeDepth)
	fmt.Fprintf(out, "Cut distance:   %.1f mm\n", s.CutDistance)
	fmt.Fprintf(out, "Rapid distance: %.1f mm\n", s.RapidDistance)
	fmt.Fprintf(out, "Estimated time: %.1f min\n", s.EstimatedMinutes)
	return nil
}
