package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/piwi3910/PuzzleCut/internal/engine"
	"github.com/piwi3910/PuzzleCut/internal/export"
	"github.com/piwi3910/PuzzleCut/internal/gcode"
	"github.com/piwi3910/PuzzleCut/internal/importer"
	"github.com/piwi3910/PuzzleCut/internal/logging"
	"github.com/piwi3910/PuzzleCut/internal/model"
	"github.com/piwi3910/PuzzleCut/internal/raster"
)

// Output file names inside a job's output directory.
const (
	svgFile      = "puzzle.svg"
	dxfFile      = "puzzle.dxf"
	pdfFile      = "puzzle.pdf"
	labelsFile   = "labels.pdf"
	gcodeFile    = "puzzle.gcode"
	manifestFile = "manifest.json"
)

// outputOptions selects the files written next to the piece images.
type outputOptions struct {
	fillWhite bool
	svg       bool
	dxf       bool
	pdf       bool
	labels    bool
	gcode     bool
	manifest  bool

	mmPerPixel float64
	profile    string
}

func (o *outputOptions) register(fs *pflag.FlagSet) {
	fs.BoolVar(&o.fillWhite, "fill-white", false, "Write white piece silhouettes instead of image crops")
	fs.BoolVar(&o.svg, "svg", false, "Write the outlines as "+svgFile)
	fs.BoolVar(&o.dxf, "dxf", false, "Write the outlines as "+dxfFile)
	fs.BoolVar(&o.pdf, "pdf", false, "Write a cut sheet as "+pdfFile)
	fs.BoolVar(&o.labels, "labels", false, "Write QR piece labels as "+labelsFile)
	fs.BoolVar(&o.gcode, "gcode", false, "Write cutting G-code as "+gcodeFile)
	fs.BoolVar(&o.manifest, "manifest", false, "Write a piece manifest as "+manifestFile)
	fs.Float64Var(&o.mmPerPixel, "mm-per-pixel", 0, "Physical size of one pixel (default from config)")
	fs.StringVar(&o.profile, "profile", "", "G-code profile (default from config)")
}

// cutSettings resolves the fabrication settings: config defaults first,
// then any flags the user set.
func (o *outputOptions) cutSettings(cfg model.AppConfig, fs *pflag.FlagSet) model.CutSettings {
	s := model.DefaultCutSettings()
	cfg.ApplyToCutSettings(&s)
	if fs.Changed("mm-per-pixel") {
		s.MillimetersPerPixel = o.mmPerPixel
	}
	if fs.Changed("profile") {
		s.GCodeProfile = o.profile
	}
	return s
}

// jobResult describes one finished job.
type jobResult struct {
	Template *model.Template
	Dir      string
	Files    []string
}

// runJob generates the puzzle of one job and writes everything selected
// by opts into the job's output directory. Piece images are always
// written; a failing optional export does not stop the others.
func runJob(job model.Job, cut model.CutSettings, opts outputOptions) (*jobResult, error) {
	img, err := importer.LoadImage(job.Image)
	if err != nil {
		return nil, err
	}

	gen := engine.New(job.Settings)
	var t *model.Template
	if job.HasGrid() {
		t, err = gen.Generate(img, job.Grid.Columns, job.Grid.Rows)
	} else {
		t, err = gen.GenerateForCount(img, job.PieceCount)
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", job.Image, err)
	}

	pieces, err := raster.CropAll(t, raster.DefaultCropOptions())
	if err != nil {
		return nil, err
	}
	if opts.fillWhite {
		for i, p := range pieces {
			pieces[i] = raster.FillWhite(p)
		}
	}

	res := &jobResult{Template: t, Dir: job.OutputDir()}
	if err := export.SavePieces(res.Dir, t, pieces); err != nil {
		return nil, err
	}
	for i := range pieces {
		res.Files = append(res.Files, export.PieceFileName(i))
	}

	var errs error
	write := func(enabled bool, name string, fn func(path string) error) {
		if !enabled {
			return
		}
		if err := fn(filepath.Join(res.Dir, name)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		res.Files = append(res.Files, name)
	}
	write(opts.svg, svgFile, func(path string) error { return export.SaveSVG(path, t) })
	write(opts.dxf, dxfFile, func(path string) error { return export.ExportDXF(path, t, cut) })
	write(opts.pdf, pdfFile, func(path string) error { return export.ExportPDF(path, t, cut) })
	write(opts.labels, labelsFile, func(path string) error { return export.ExportLabels(path, t, cut) })
	write(opts.gcode, gcodeFile, func(path string) error {
		return os.WriteFile(path, []byte(gcode.New(cut).GenerateTemplate(t)), 0644)
	})
	write(opts.manifest, manifestFile, func(path string) error { return export.SaveManifest(path, t, true) })

	logging.Logger().Info("job finished", "image", job.Image, "grid", t.Grid.String(), "dir", res.Dir, "files", len(res.Files))
	return res, errs
}

// imageSize returns the pixel size of the image at path.
func imageSize(path string) (image.Point, error) {
	img, err := importer.LoadImage(path)
	if err != nil {
		return image.Point{}, err
	}
	return img.Bounds().Size(), nil
}
