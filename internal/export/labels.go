package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	Index     int            `json:"index"`
	Column    int            `json:"column"`
	Row       int            `json:"row"`
	Grid      string         `json:"grid"`
	Seed      uint64         `json:"seed"`
	Width     float64        `json:"width_mm"`
	Height    float64        `json:"height_mm"`
	Edge      bool           `json:"edge"`
	Neighbors map[string]int `json:"neighbors"`
}

// Avery 5160 sheet: 3 x 10 labels of 66.7 x 25.4 mm on US Letter.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelsPerPage   = labelCols * 10
	qrSize          = 20.0
	labelPadding    = 2.0
	compassCell     = 5.0
)

// ExportLabels generates a PDF of QR-coded labels, one per piece, laid out
// on Avery 5160 sheets. The QR code encodes the piece's LabelInfo as JSON
// and a small compass shows the neighbouring piece numbers, so a loose
// piece can be put back in place with or without a scanner.
func ExportLabels(path string, t *model.Template, settings model.CutSettings) error {
	labels := CollectLabelInfos(t, settings)
	if len(labels) == 0 {
		return fmt.Errorf("no pieces to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	for i, info := range labels {
		slot := i % labelsPerPage
		if slot == 0 {
			pdf.AddPage()
		}
		x := labelMarginLeft + float64(slot%labelCols)*labelWidth
		y := labelMarginTop + float64(slot/labelCols)*labelHeight
		if err := drawLabel(pdf, x, y, info); err != nil {
			return fmt.Errorf("label for piece %d: %w", info.Index, err)
		}
	}
	return pdf.OutputFileAndClose(path)
}

func drawLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}
	name := fmt.Sprintf("qr_%d", info.Index)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize, false, opts, 0, "")

	tx := x + labelPadding
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(tx, y+labelPadding)
	pdf.CellFormat(16, 5, fmt.Sprintf("#%d", info.Index), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(90, 90, 90)
	pdf.SetXY(tx, y+labelPadding+6)
	pdf.CellFormat(16, 3, fmt.Sprintf("c%d r%d", info.Column+1, info.Row+1), "", 2, "L", false, 0, "")
	pdf.CellFormat(16, 3, info.Grid, "", 2, "L", false, 0, "")
	pdf.CellFormat(16, 3, fmt.Sprintf("%.0fx%.0f mm", info.Width, info.Height), "", 2, "L", false, 0, "")
	pdf.CellFormat(16, 3, fmt.Sprintf("seed %d", info.Seed), "", 0, "L", false, 0, "")

	drawCompass(pdf, tx+18, y+(labelHeight-3*compassCell)/2, info)
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// drawCompass draws a plus of cells: the piece in the middle, each
// neighbour's number on its side, and a thick bar on border sides.
func drawCompass(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) {
	cx, cy := x+compassCell, y+compassCell
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetFillColor(230, 230, 230)
	pdf.Rect(cx, cy, compassCell, compassCell, "FD")

	offsets := map[model.Side][2]float64{
		model.SideTop:    {0, -1},
		model.SideRight:  {1, 0},
		model.SideBottom: {0, 1},
		model.SideLeft:   {-1, 0},
	}
	pdf.SetFont("Helvetica", "", 5)
	pdf.SetTextColor(0, 0, 0)
	for _, s := range model.Sides {
		d := offsets[s]
		sx, sy := cx+d[0]*compassCell, cy+d[1]*compassCell
		n, ok := info.Neighbors[s.String()]
		if !ok {
			pdf.SetLineWidth(0.6)
			switch s {
			case model.SideTop:
				pdf.Line(cx, cy, cx+compassCell, cy)
			case model.SideRight:
				pdf.Line(cx+compassCell, cy, cx+compassCell, cy+compassCell)
			case model.SideBottom:
				pdf.Line(cx, cy+compassCell, cx+compassCell, cy+compassCell)
			case model.SideLeft:
				pdf.Line(cx, cy, cx, cy+compassCell)
			}
			pdf.SetLineWidth(0.1)
			continue
		}
		pdf.Rect(sx, sy, compassCell, compassCell, "D")
		pdf.SetXY(sx, sy)
		pdf.CellFormat(compassCell, compassCell, fmt.Sprint(n), "", 0, "C", false, 0, "")
	}
}

// CollectLabelInfos extracts label information for every piece of t, in
// piece order.
func CollectLabelInfos(t *model.Template, settings model.CutSettings) []LabelInfo {
	labels := make([]LabelInfo, 0, len(t.Pieces))
	for i := range t.Pieces {
		p := &t.Pieces[i]
		info := LabelInfo{
			Index:     p.Index,
			Column:    p.Column,
			Row:       p.Row,
			Grid:      t.Grid.String(),
			Seed:      t.Settings.Seed,
			Width:     p.Width * settings.MillimetersPerPixel,
			Height:    p.Height * settings.MillimetersPerPixel,
			Edge:      p.IsEdge(),
			Neighbors: make(map[string]int, 4),
		}
		for _, s := range model.Sides {
			if n, ok := p.Neighbor(s); ok {
				info.Neighbors[s.String()] = n
			}
		}
		labels = append(labels, info)
	}
	return labels
}
