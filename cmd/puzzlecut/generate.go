package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/piwi3910/PuzzleCut/internal/model"
	"github.com/piwi3910/PuzzleCut/internal/project"
)

// settingsOptions are the generation flags shared by generate and
// presets save.
type settingsOptions struct {
	pieces  int
	columns int
	rows    int
	tabSize float64
	jitter  float64
	seed    uint64
	resize  bool
	mode    string
}

func (o *settingsOptions) register(fs *pflag.FlagSet) {
	fs.IntVarP(&o.pieces, "pieces", "n", 0, "Number of pieces; the grid is chosen for the most square pieces")
	fs.IntVar(&o.columns, "columns", 0, "Number of columns (with --rows)")
	fs.IntVar(&o.rows, "rows", 0, "Number of rows (with --columns)")
	fs.Float64Var(&o.tabSize, "tab-size", model.DefaultTabSize, "Tab size 10-30")
	fs.Float64Var(&o.jitter, "jitter", model.DefaultJitter, "Tab jitter 0-13")
	fs.Uint64Var(&o.seed, "seed", 0, "Random seed")
	fs.BoolVar(&o.resize, "resize", false, "Scale large images down before cutting")
	fs.StringVar(&o.mode, "mode", "classic", "Game mode recorded in the output: classic or square")
}

// validate checks the layout flags before any work starts.
func (o *settingsOptions) validate(fs *pflag.FlagSet) error {
	cols, rows := fs.Changed("columns"), fs.Changed("rows")
	if cols != rows {
		return fmt.Errorf("--columns and --rows must be given together")
	}
	if cols && fs.Changed("pieces") {
		return fmt.Errorf("use either --pieces or --columns/--rows")
	}
	if cols && (o.columns < 1 || o.rows < 1) {
		return fmt.Errorf("--columns and --rows must be at least 1, got %dx%d", o.columns, o.rows)
	}
	if fs.Changed("pieces") && o.pieces < 1 {
		return fmt.Errorf("--pieces must be at least 1, got %d", o.pieces)
	}
	return nil
}

// apply overrides s and the layout with every flag the user set. Flags
// win over presets, presets win over the config.
func (o *settingsOptions) apply(fs *pflag.FlagSet, s *model.GenerationSettings, count *int, grid *model.Grid) error {
	if fs.Changed("tab-size") {
		s.TabSize = o.tabSize
	}
	if fs.Changed("jitter") {
		s.Jitter = o.jitter
	}
	if fs.Changed("seed") {
		s.Seed = o.seed
	}
	if fs.Changed("resize") {
		s.Resize = o.resize
	}
	if fs.Changed("mode") {
		mode, err := model.ParseGameMode(o.mode)
		if err != nil {
			return err
		}
		s.GameMode = mode
	}
	switch {
	case fs.Changed("columns"):
		*count, *grid = 0, model.Grid{Columns: o.columns, Rows: o.rows}
	case fs.Changed("pieces"):
		*count, *grid = o.pieces, model.Grid{}
	}
	return nil
}

type generateOptions struct {
	settingsOptions
	outputOptions
	out    string
	preset string
}

func newGenerateCmd(a *app) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate IMAGE",
		Short: "Cut an image into puzzle pieces",
		Long: `Cut an image into jigsaw pieces and write one PNG per piece.

Settings come from the config, then the preset (--preset), then flags.

Examples:
  puzzlecut generate photo.jpg --pieces 24
  puzzlecut generate photo.jpg --columns 6 --rows 4 --seed 7 --svg --gcode
  puzzlecut generate photo.jpg --preset poster --out pieces/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, o, args[0])
		},
	}
	o.settingsOptions.register(cmd.Flags())
	o.outputOptions.register(cmd.Flags())
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Output directory (default: next to the image)")
	cmd.Flags().StringVar(&o.preset, "preset", "", "Start from a saved preset (name or ID)")
	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, o *generateOptions, image string) error {
	fs := cmd.Flags()
	if err := o.validate(fs); err != nil {
		return err
	}

	job := model.Job{Image: image, PieceCount: a.config.DefaultPieceCount, Settings: model.DefaultGenerationSettings()}
	a.config.ApplyToSettings(&job.Settings)

	if o.preset != "" {
		store, err := project.LoadPresets(a.presetsPath())
		if err != nil {
			return fmt.Errorf("load presets: %w", err)
		}
		p := findPreset(&store, o.preset)
		if p == nil {
			return fmt.Errorf("preset %q not found", o.preset)
		}
		job.Settings = p.Settings
		job.PieceCount, job.Grid = p.PieceCount, p.Grid
	}
	if err := o.apply(fs, &job.Settings, &job.PieceCount, &job.Grid); err != nil {
		return err
	}

	switch {
	case o.out != "":
		job.Output = o.out
	case a.config.OutputDir != "":
		stem := strings.TrimSuffix(filepath.Base(image), filepath.Ext(image))
		job.Output = filepath.Join(a.config.OutputDir, stem)
	}

	res, runErr := runJob(job, o.cutSettings(a.config, fs), o.outputOptions)
	if res == nil {
		return runErr
	}
	printJobResult(cmd, res)

	a.config.AddRecentImage(image)
	if err := project.SaveAppConfig(a.configPath(), a.config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return runErr
}

func printJobResult(cmd *cobra.Command, res *jobResult) {
	t := res.Template
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s grid, %d pieces of %.1f x %.1f px, seed %d\n",
		res.Dir, t.Grid, t.PieceCount(), t.PieceWidth, t.PieceHeight, t.Settings.Seed)
	for _, f := range res.Files[t.PieceCount():] {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f)
	}
}

// findPreset looks a preset up by name, then by ID.
func findPreset(store *model.PresetStore, key string) *model.Preset {
	if p := store.FindByName(key); p != nil {
		return p
	}
	return store.FindByID(key)
}
