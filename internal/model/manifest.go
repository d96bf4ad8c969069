package model

// ManifestVersion is written into every manifest.
const ManifestVersion = 1

// Manifest describes a generated puzzle for consumers that place the
// cropped piece images: the layout, where each piece sits and how the
// pieces fit together.
type Manifest struct {
	Version     int                `json:"version"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Grid        Grid               `json:"grid"`
	PieceWidth  float64            `json:"piece_width"`
	PieceHeight float64            `json:"piece_height"`
	Settings    GenerationSettings `json:"settings"`
	Pieces      []ManifestPiece    `json:"pieces"`
}

// ManifestPiece is one piece entry of a Manifest.
type ManifestPiece struct {
	Index     int            `json:"index"`
	Column    int            `json:"column"`
	Row       int            `json:"row"`
	Start     Point          `json:"start"`
	End       Point          `json:"end"`
	CropX     int            `json:"crop_x"`
	CropY     int            `json:"crop_y"`
	CropW     int            `json:"crop_width"`
	CropH     int            `json:"crop_height"`
	Offset    Point          `json:"offset"`
	Edge      bool           `json:"edge"`
	Neighbors map[string]int `json:"neighbors"`
	Image     string         `json:"image,omitempty"` // File name of the cropped piece
	Outline   Path           `json:"outline"`
}

// NewManifest describes t. imageName maps a piece index to the file name
// of its cropped image; nil leaves the names empty.
func NewManifest(t *Template, imageName func(index int) string) Manifest {
	m := Manifest{
		Version:     ManifestVersion,
		Width:       t.Width,
		Height:      t.Height,
		Grid:        t.Grid,
		PieceWidth:  t.PieceWidth,
		PieceHeight: t.PieceHeight,
		Settings:    t.Settings,
		Pieces:      make([]ManifestPiece, 0, len(t.Pieces)),
	}
	for i := range t.Pieces {
		p := &t.Pieces[i]
		mp := ManifestPiece{
			Index:     p.Index,
			Column:    p.Column,
			Row:       p.Row,
			Start:     p.Start,
			End:       p.End,
			CropX:     p.CropX,
			CropY:     p.CropY,
			CropW:     p.CropWidth,
			CropH:     p.CropHeight,
			Offset:    p.Offset(),
			Edge:      p.IsEdge(),
			Neighbors: make(map[string]int, 4),
			Outline:   p.Outline,
		}
		for _, s := range Sides {
			if n, ok := p.Neighbor(s); ok {
				mp.Neighbors[s.String()] = n
			}
		}
		if imageName != nil {
			mp.Image = imageName(p.Index)
		}
		m.Pieces = append(m.Pieces, mp)
	}
	return m
}
