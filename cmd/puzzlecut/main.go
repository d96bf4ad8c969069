// PuzzleCut: jigsaw puzzle generator with fabrication export
//
// Cuts an image into interlocking jigsaw pieces and writes the piece
// bitmaps, plus optional SVG, DXF, PDF cut sheets, QR labels, G-code and a
// JSON manifest.
//
// Build:
//
//	go build -o puzzlecut ./cmd/puzzlecut
//
// Examples:
//
//	puzzlecut generate photo.jpg --pieces 24 --gcode --pdf
//	puzzlecut layouts 1920x1080 --pieces 100 --suggest 10
//	puzzlecut batch jobs.xlsx --svg
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PuzzleCut/internal/logging"
	"github.com/piwi3910/PuzzleCut/internal/model"
	"github.com/piwi3910/PuzzleCut/internal/project"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	configDir string
	verbose   bool
	quiet     bool

	config model.AppConfig
}

func (a *app) configPath() string   { return filepath.Join(a.configDir, project.ConfigFile) }
func (a *app) presetsPath() string  { return filepath.Join(a.configDir, project.PresetsFile) }
func (a *app) profilesPath() string { return filepath.Join(a.configDir, project.ProfilesFile) }

// setup installs the logger, then loads the config and custom G-code
// profiles.
func (a *app) setup(cmd *cobra.Command) error {
	switch {
	case a.quiet:
		logging.SetLogger(nil)
	case a.verbose:
		logging.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
	default:
		logging.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelInfo})))
	}

	cfg, err := project.LoadAppConfig(a.configPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.config = cfg

	n, err := project.InstallCustomProfiles(a.profilesPath())
	if err != nil {
		return fmt.Errorf("load custom profiles: %w", err)
	}
	if n > 0 {
		logging.Logger().Debug("custom profiles installed", "count", n)
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "puzzlecut",
		Short: "Cut images into jigsaw puzzles",
		Long: `PuzzleCut cuts an image into interlocking jigsaw pieces.

Every shared edge is generated once, so neighbouring pieces always fit.
The same image size, grid and seed always produce the same puzzle.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", project.DefaultConfigDir(), "Directory holding config, presets and profiles")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Also log per-piece debug detail to stderr")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Log nothing")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(
		newGenerateCmd(a),
		newLayoutsCmd(a),
		newBatchCmd(a),
		newInspectCmd(a),
		newPresetsCmd(a),
		newConfigCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
