package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PuzzleCut/internal/export"
	"github.com/piwi3910/PuzzleCut/internal/logging"
	"github.com/piwi3910/PuzzleCut/internal/project"
)

// execute runs the CLI against an isolated config directory.
func execute(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config-dir", configDir, "--quiet"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeTestImage(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestGenerate_WritesPiecesAndExports(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "cfg")
	img := writeTestImage(t, dir, 300, 200)
	out := filepath.Join(dir, "out")

	stdout, err := execute(t, cfgDir, "generate", img, "--columns", "3", "--rows", "2", "--seed", "4",
		"--svg", "--dxf", "--gcode", "--manifest", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "3x2 grid, 6 pieces of 100.0 x 100.0 px, seed 4")

	for i := 0; i < 6; i++ {
		assert.FileExists(t, filepath.Join(out, export.PieceFileName(i)))
	}
	for _, name := range []string{svgFile, dxfFile, gcodeFile, manifestFile} {
		assert.FileExists(t, filepath.Join(out, name))
		assert.Contains(t, stdout, name)
	}
	assert.NoFileExists(t, filepath.Join(out, pdfFile))

	cfg, err := project.LoadAppConfig(filepath.Join(cfgDir, project.ConfigFile))
	require.NoError(t, err)
	require.NotEmpty(t, cfg.RecentImages)
	assert.Equal(t, img, cfg.RecentImages[0])
}

func TestGenerate_PieceCountPicksSquareGrid(t *testing.T) {
	dir := t.TempDir()
	img := writeTestImage(t, dir, 300, 200)

	stdout, err := execute(t, filepath.Join(dir, "cfg"), "generate", img, "--pieces", "6", "--out", filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "3x2 grid")
}

func TestGenerate_FillWhite(t *testing.T) {
	dir := t.TempDir()
	img := writeTestImage(t, dir, 300, 200)
	out := filepath.Join(dir, "out")

	_, err := execute(t, filepath.Join(dir, "cfg"), "generate", img, "--pieces", "6", "--fill-white", "--out", out)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(out, "puzzle_piece_0.png"))
	require.NoError(t, err)
	defer f.Close()
	piece, err := png.Decode(f)
	require.NoError(t, err)
	r, g, b, a := piece.At(50, 50).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a})
}

func TestGenerate_FlagErrors(t *testing.T) {
	dir := t.TempDir()
	img := writeTestImage(t, dir, 300, 200)
	cfgDir := filepath.Join(dir, "cfg")

	_, err := execute(t, cfgDir, "generate", img, "--columns", "3")
	assert.ErrorContains(t, err, "--columns and --rows")

	_, err = execute(t, cfgDir, "generate", img, "--columns", "3", "--rows", "2", "--pieces", "6")
	assert.ErrorContains(t, err, "either --pieces")

	_, err = execute(t, cfgDir, "generate", img, "--columns", "4", "--rows", "-1")
	assert.ErrorContains(t, err, "--columns and --rows must be at least 1, got 4x-1")

	_, err = execute(t, cfgDir, "generate", img, "--columns", "0", "--rows", "2")
	assert.ErrorContains(t, err, "got 0x2")

	_, err = execute(t, cfgDir, "generate", img, "--pieces", "0")
	assert.ErrorContains(t, err, "--pieces must be at least 1")

	_, err = execute(t, cfgDir, "presets", "save", "broken", "--columns", "3", "--rows", "0")
	assert.ErrorContains(t, err, "must be at least 1")

	_, err = execute(t, cfgDir, "generate", img, "--pieces", "6", "--mode", "hexagon")
	assert.Error(t, err)

	_, err = execute(t, cfgDir, "generate", img, "--preset", "nope")
	assert.ErrorContains(t, err, `preset "nope" not found`)

	_, err = execute(t, cfgDir, "generate", filepath.Join(dir, "missing.png"), "--pieces", "4")
	assert.Error(t, err)
}

func TestGenerate_PresetThenFlags(t *testing.T) {
	dir := t.TempDir()
	img := writeTestImage(t, dir, 300, 200)
	cfgDir := filepath.Join(dir, "cfg")

	_, err := execute(t, cfgDir, "presets", "save", "kids", "--columns", "2", "--rows", "2", "--seed", "9")
	require.NoError(t, err)

	stdout, err := execute(t, cfgDir, "generate", img, "--preset", "kids", "--out", filepath.Join(dir, "a"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "2x2 grid, 4 pieces")
	assert.Contains(t, stdout, "seed 9")

	stdout, err = execute(t, cfgDir, "generate", img, "--preset", "kids", "--pieces", "6", "--out", filepath.Join(dir, "b"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "3x2 grid, 6 pieces")
	assert.Contains(t, stdout, "seed 9")
}

func TestPresets_ListAndDelete(t *testing.T) {
	cfgDir := t.TempDir()

	stdout, err := execute(t, cfgDir, "presets", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No presets saved")

	_, err = execute(t, cfgDir, "presets", "save", "poster", "--pieces", "500", "-d", "Wall poster")
	require.NoError(t, err)

	stdout, err = execute(t, cfgDir, "presets", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "poster")
	assert.Contains(t, stdout, "500 pieces")
	assert.Contains(t, stdout, "Wall poster")

	_, err = execute(t, cfgDir, "presets", "delete", "poster")
	require.NoError(t, err)

	_, err = execute(t, cfgDir, "presets", "delete", "poster")
	assert.ErrorContains(t, err, "not found")
}

func TestLayouts(t *testing.T) {
	cfgDir := t.TempDir()

	stdout, err := execute(t, cfgDir, "layouts", "300x200", "--pieces", "6")
	require.NoError(t, err)
	assert.Contains(t, stdout, "GRID")
	assert.Contains(t, stdout, "3x2")
	assert.Contains(t, stdout, "6x1")
	assert.Contains(t, stdout, "*")

	stdout, err = execute(t, cfgDir, "layouts", "300x200", "--pieces", "6", "--suggest", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "PIECES")

	_, err = execute(t, cfgDir, "layouts", "wide", "--pieces", "6")
	assert.Error(t, err)

	_, err = execute(t, cfgDir, "layouts", "300x0", "--pieces", "6")
	assert.Error(t, err)
}

func TestLayouts_FromImage(t *testing.T) {
	dir := t.TempDir()
	img := writeTestImage(t, dir, 300, 200)

	stdout, err := execute(t, filepath.Join(dir, "cfg"), "layouts", img, "--pieces", "6")
	require.NoError(t, err)
	assert.Contains(t, stdout, "100.0")
}

func TestBatch_ContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeTestImage(t, dir, 300, 200)
	list := filepath.Join(dir, "jobs.csv")
	content := "Image,Pieces,Seed,Output\nphoto.png,6,1,first\nmissing.png,4,2,second\nphoto.png,2x2,3,third\n"
	require.NoError(t, os.WriteFile(list, []byte(content), 0644))

	stdout, err := execute(t, filepath.Join(dir, "cfg"), "batch", list, "--svg")
	assert.ErrorContains(t, err, "1 problem(s)")
	assert.Contains(t, stdout, "2 of 3 jobs completed")

	assert.FileExists(t, filepath.Join(dir, "first", "puzzle_piece_5.png"))
	assert.FileExists(t, filepath.Join(dir, "first", svgFile))
	assert.FileExists(t, filepath.Join(dir, "third", "puzzle_piece_3.png"))
	assert.NoDirExists(t, filepath.Join(dir, "second"))
}

func TestBatch_NoJobs(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(list, []byte("Image,Seed\nphoto.png,1\n"), 0644))

	_, err := execute(t, filepath.Join(dir, "cfg"), "batch", list)
	assert.ErrorContains(t, err, "no jobs to run")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	img := writeTestImage(t, dir, 300, 200)
	out := filepath.Join(dir, "out")
	cfgDir := filepath.Join(dir, "cfg")

	_, err := execute(t, cfgDir, "generate", img, "--pieces", "6", "--dxf", "--gcode", "--manifest", "--out", out)
	require.NoError(t, err)

	stdout, err := execute(t, cfgDir, "inspect", filepath.Join(out, manifestFile), "--pieces")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Grid:    3x2 (6 pieces, 6 on the border)")
	assert.Contains(t, stdout, "puzzle_piece_5.png")
	assert.Contains(t, stdout, "Left=0")

	stdout, err = execute(t, cfgDir, "inspect", filepath.Join(out, dxfFile))
	require.NoError(t, err)
	assert.Contains(t, stdout, "6 closed outlines")

	stdout, err = execute(t, cfgDir, "inspect", filepath.Join(out, gcodeFile))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Plunges:        8")

	_, err = execute(t, cfgDir, "inspect", img)
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestConfig_ShowResetBackup(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "cfg")

	stdout, err := execute(t, cfgDir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"default_tab_size": 20`)

	_, err = execute(t, cfgDir, "config", "reset")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfgDir, project.ConfigFile))

	_, err = execute(t, cfgDir, "presets", "save", "poster", "--pieces", "500")
	require.NoError(t, err)
	backup := filepath.Join(dir, "backup.json")
	stdout, err = execute(t, cfgDir, "config", "export", backup)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 presets and 0 profiles")

	other := filepath.Join(dir, "other")
	_, err = execute(t, other, "config", "import", backup)
	require.NoError(t, err)
	stdout, err = execute(t, other, "presets", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "poster")
}

// runLogged executes the CLI without --quiet and returns what it logged.
func runLogged(t *testing.T, configDir string, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config-dir", configDir}, args...))
	require.NoError(t, cmd.Execute())
	logging.SetLogger(nil)
	return errOut.String()
}

func TestLogging_Levels(t *testing.T) {
	dir := t.TempDir()
	img := writeTestImage(t, dir, 300, 200)
	cfgDir := filepath.Join(dir, "cfg")

	logged := runLogged(t, cfgDir, "generate", img, "--pieces", "6", "--out", filepath.Join(dir, "a"))
	assert.Contains(t, logged, "image loaded")
	assert.Contains(t, logged, "generating puzzle")
	assert.Contains(t, logged, "puzzle generated")
	assert.NotContains(t, logged, "piece assembled")

	logged = runLogged(t, cfgDir, "generate", img, "--pieces", "6", "-v", "--out", filepath.Join(dir, "b"))
	assert.Contains(t, logged, "piece assembled")

	logged = runLogged(t, cfgDir, "-q", "generate", img, "--pieces", "6", "--out", filepath.Join(dir, "c"))
	assert.Empty(t, logged)
}
