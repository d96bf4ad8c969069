package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PuzzleCut/internal/engine"
)

func newLayoutsCmd(a *app) *cobra.Command {
	var pieces, suggest int
	cmd := &cobra.Command{
		Use:   "layouts IMAGE|WIDTHxHEIGHT",
		Short: "Compare the grids available for a piece count",
		Long: `List every columns x rows grid with exactly the requested number of
pieces and mark the one generate would pick. With --suggest, list nearby
piece counts whose pieces come out close to square.

Examples:
  puzzlecut layouts photo.jpg --pieces 100
  puzzlecut layouts 1920x1080 --pieces 500 --suggest 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("pieces") {
				pieces = a.config.DefaultPieceCount
			}
			w, h, err := parseSize(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("suggest") {
				return printSuggestions(cmd, w, h, pieces, suggest)
			}
			return printLayouts(cmd, w, h, pieces)
		},
	}
	cmd.Flags().IntVarP(&pieces, "pieces", "n", 0, "Piece count (default from config)")
	cmd.Flags().IntVar(&suggest, "suggest", 0, "Suggest counts within this distance of --pieces")
	return cmd
}

// parseSize reads "WIDTHxHEIGHT", or the size of an image file.
func parseSize(arg string) (float64, float64, error) {
	if _, err := os.Stat(arg); err == nil {
		size, err := imageSize(arg)
		if err != nil {
			return 0, 0, err
		}
		return float64(size.X), float64(size.Y), nil
	}
	ws, hs, ok := strings.Cut(strings.ToLower(arg), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%q is neither an image nor WIDTHxHEIGHT", arg)
	}
	w, err1 := strconv.ParseFloat(ws, 64)
	h, err2 := strconv.ParseFloat(hs, 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", arg)
	}
	return w, h, nil
}

func printLayouts(cmd *cobra.Command, w, h float64, pieces int) error {
	options, err := engine.CompareLayouts(w, h, pieces)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GRID\tPIECE W\tPIECE H\tASPECT\t")
	for _, o := range options {
		mark := ""
		if o.Optimal {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.2f\t%s\n", o.Grid, o.PieceWidth, o.PieceHeight, o.Aspect(), mark)
	}
	return tw.Flush()
}

func printSuggestions(cmd *cobra.Command, w, h float64, pieces, radius int) error {
	suggestions, err := engine.SuggestPieceCounts(w, h, pieces, radius)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No count within %d of %d gives near-square pieces\n", radius, pieces)
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PIECES\tGRID\tPIECE W\tPIECE H\tASPECT")
	for _, s := range suggestions {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%.2f\n", s.Count, s.Layout.Grid, s.Layout.PieceWidth, s.Layout.PieceHeight, s.Layout.Aspect())
	}
	return tw.Flush()
}
