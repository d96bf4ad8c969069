package model

import (
	"image"

	"github.com/gogpu/gg"
)

// Piece is one jigsaw piece of a generated template.
type Piece struct {
	Index  int `json:"index"`
	Column int `json:"column"`
	Row    int `json:"row"`

	// Start is the nominal top-left corner, End the nominal bottom-right
	// corner. The last column and row end on the image border.
	Start Point `json:"start"`
	End   Point `json:"end"`

	// Width and Height are the nominal piece size shared by the grid.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Outline is the closed clockwise path starting at Start:
	// top, right, reversed bottom, reversed left.
	Outline Path `json:"outline"`

	CropX      int `json:"crop_x"`
	CropY      int `json:"crop_y"`
	CropWidth  int `json:"crop_width"`
	CropHeight int `json:"crop_height"`

	// Indices into Edges.Horizontal (top, bottom) and Edges.Vertical
	// (right, left).
	TopIndex    int `json:"top_index"`
	RightIndex  int `json:"right_index"`
	BottomIndex int `json:"bottom_index"`
	LeftIndex   int `json:"left_index"`

	Edges *EdgeGrid `json:"-"`
}

func (p *Piece) TopEdge() Edge    { return p.Edges.Horizontal[p.TopIndex] }
func (p *Piece) RightEdge() Edge  { return p.Edges.Vertical[p.RightIndex] }
func (p *Piece) BottomEdge() Edge { return p.Edges.Horizontal[p.BottomIndex] }
func (p *Piece) LeftEdge() Edge   { return p.Edges.Vertical[p.LeftIndex] }

// Edge returns the edge on the given side.
func (p *Piece) Edge(s Side) Edge {
	switch s {
	case SideTop:
		return p.TopEdge()
	case SideRight:
		return p.RightEdge()
	case SideBottom:
		return p.BottomEdge()
	default:
		return p.LeftEdge()
	}
}

// CropRect returns the crop rectangle in image coordinates.
func (p *Piece) CropRect() image.Rectangle {
	return image.Rect(p.CropX, p.CropY, p.CropX+p.CropWidth, p.CropY+p.CropHeight)
}

// NominalRect returns the rectangle between Start and End.
func (p *Piece) NominalRect() gg.Rect {
	return gg.NewRect(p.Start.GG(), p.End.GG())
}

// Offset returns the position of the nominal top-left corner inside the
// cropped image.
func (p *Piece) Offset() Point {
	return Point{X: p.Start.X - float64(p.CropX), Y: p.Start.Y - float64(p.CropY)}
}

// Neighbor returns the grid index of the piece adjacent on side s, or
// false when that side is on the border.
func (p *Piece) Neighbor(s Side) (int, bool) {
	g := p.Edges.Grid
	col, row := p.Column, p.Row
	switch s {
	case SideTop:
		row--
	case SideRight:
		col++
	case SideBottom:
		row++
	case SideLeft:
		col--
	}
	if col < 0 || row < 0 || col >= g.Columns || row >= g.Rows {
		return 0, false
	}
	return row*g.Columns + col, true
}

// Template is the result of one generation run.
type Template struct {
	Pieces []Piece `json:"pieces"`

	// Image is the image the geometry was built for, after optional
	// scaling. Nil for geometry-only runs.
	Image image.Image `json:"-"`

	Width       int                `json:"width"`
	Height      int                `json:"height"`
	PieceWidth  float64            `json:"piece_width"`
	PieceHeight float64            `json:"piece_height"`
	Grid        Grid               `json:"grid"`
	Settings    GenerationSettings `json:"settings"`
	Edges       *EdgeGrid          `json:"-"`
}

// PieceCount returns the number of pieces.
func (t *Template) PieceCount() int {
	return len(t.Pieces)
}

// PieceAt returns the piece at the given grid position, or nil.
func (t *Template) PieceAt(column, row int) *Piece {
	if column < 0 || row < 0 || column >= t.Grid.Columns || row >= t.Grid.Rows {
		return nil
	}
	return &t.Pieces[row*t.Grid.Columns+column]
}
