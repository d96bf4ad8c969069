package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Job is one entry of a batch run: an image to cut and how to cut it.
// Either PieceCount or Grid is set; a non-zero Grid wins.
type Job struct {
	Image      string             `json:"image"`
	PieceCount int                `json:"piece_count,omitempty"`
	Grid       Grid               `json:"grid"`
	Settings   GenerationSettings `json:"settings"`
	Output     string             `json:"output,omitempty"`
}

// HasGrid reports whether the job fixes columns and rows explicitly.
func (j Job) HasGrid() bool {
	return j.Grid.Columns > 0 && j.Grid.Rows > 0
}

// OutputDir returns Output, or a directory next to the image named after
// it when Output is empty.
func (j Job) OutputDir() string {
	if j.Output != "" {
		return j.Output
	}
	base := filepath.Base(j.Image)
	return filepath.Join(filepath.Dir(j.Image), strings.TrimSuffix(base, filepath.Ext(base))+"_pieces")
}

func (j Job) String() string {
	if j.HasGrid() {
		return fmt.Sprintf("%s (%s)", j.Image, j.Grid)
	}
	return fmt.Sprintf("%s (%d pieces)", j.Image, j.PieceCount)
}
