package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/piwi3910/PuzzleCut/internal/importer"
	"github.com/piwi3910/PuzzleCut/internal/model"
)

func newBatchCmd(a *app) *cobra.Command {
	o := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Generate every puzzle listed in a CSV or Excel file",
		Long: `Generate one puzzle per row of a CSV (.csv) or Excel (.xlsx) file.

Columns: image, pieces (a count like 24 or a grid like 6x4) or columns
and rows, then optional seed, tab size, jitter and output directory.
A header row with these names may appear in any order. Relative image
and output paths are resolved against the file's directory. Jobs that
fail are reported at the end; the others still run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, a, o, args[0])
		},
	}
	o.register(cmd.Flags())
	return cmd
}

func runBatch(cmd *cobra.Command, a *app, o *outputOptions, path string) error {
	defaults := model.DefaultGenerationSettings()
	a.config.ApplyToSettings(&defaults)

	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path, defaults)
	default:
		result = importer.ImportCSV(path, defaults)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	var errs error
	for _, msg := range result.Errors {
		errs = multierr.Append(errs, fmt.Errorf("%s", msg))
	}
	if len(result.Jobs) == 0 {
		return multierr.Append(errs, fmt.Errorf("%s: no jobs to run", path))
	}

	base := filepath.Dir(path)
	cut := o.cutSettings(a.config, cmd.Flags())
	done := 0
	for i, job := range result.Jobs {
		job.Image = resolve(base, job.Image)
		if job.Output != "" {
			job.Output = resolve(base, job.Output)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s\n", i+1, len(result.Jobs), job)
		res, err := runJob(job, cut, *o)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", job.Image, err))
		}
		if res != nil {
			printJobResult(cmd, res)
			done++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d jobs completed\n", done, len(result.Jobs))
	if n := len(multierr.Errors(errs)); n > 0 {
		for _, err := range multierr.Errors(errs) {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
		return fmt.Errorf("%d problem(s) in batch %s", n, path)
	}
	return nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
