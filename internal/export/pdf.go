// Package export writes generated puzzles to files: PDF cut sheets and
// labels, vector outlines, piece images and manifests.
package export

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// pieceColor represents an RGB fill color for a piece.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// colorFor never gives two neighbouring pieces the same color.
func colorFor(p *model.Piece) pieceColor {
	return pieceColors[(p.Column+3*p.Row)%len(pieceColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 10.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a cut sheet for t: one page with every piece outline
// drawn over the source image (or filled with colors when there is none),
// followed by a summary page with the generation parameters and the cut
// estimate.
func ExportPDF(path string, t *model.Template, settings model.CutSettings) error {
	if len(t.Pieces) == 0 {
		return fmt.Errorf("no pieces to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	if err := renderPuzzlePage(pdf, t, settings); err != nil {
		return err
	}

	pdf.AddPage()
	renderSummaryPage(pdf, t, settings)

	return pdf.OutputFileAndClose(path)
}

// renderPuzzlePage draws the whole puzzle on the current page.
func renderPuzzlePage(pdf *fpdf.Fpdf, t *model.Template, settings model.CutSettings) error {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Puzzle %s: %d pieces", t.Grid, t.PieceCount())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Image: %d x %d px | Piece: %.2f x %.2f px | Seed: %d | Tab size: %.0f | Jitter: %.0f",
		t.Width, t.Height, t.PieceWidth, t.PieceHeight, t.Settings.Seed, t.Settings.TabSize, t.Settings.Jitter)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale := math.Min(drawWidth/float64(t.Width), drawHeight/float64(t.Height))
	canvasW := float64(t.Width) * scale
	canvasH := float64(t.Height) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	withImage := t.Image != nil
	if withImage {
		var buf bytes.Buffer
		if err := png.Encode(&buf, t.Image); err != nil {
			return fmt.Errorf("encode puzzle image: %w", err)
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("puzzle", opts, &buf)
		pdf.ImageOptions("puzzle", offsetX, offsetY, canvasW, canvasH, false, opts, 0, "")
	}

	for i := range t.Pieces {
		p := &t.Pieces[i]
		style := "D"
		if !withImage {
			col := colorFor(p)
			pdf.SetFillColor(col.R, col.G, col.B)
			style = "FD"
		}
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		tracePath(pdf, p.Outline, scale, offsetX, offsetY)
		pdf.DrawPath(style)
	}

	// Piece numbers, only when they fit.
	pw, ph := t.PieceWidth*scale, t.PieceHeight*scale
	if pw > 6 && ph > 4 {
		pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
		pdf.SetTextColor(0, 0, 0)
		for i := range t.Pieces {
			p := &t.Pieces[i]
			label := fmt.Sprintf("%d", p.Index)
			lw := pdf.GetStringWidth(label)
			cx := offsetX + (p.Start.X+p.End.X)/2*scale
			cy := offsetY + (p.Start.Y+p.End.Y)/2*scale
			pdf.SetXY(cx-lw/2, cy-2)
			pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
		}
	}

	drawDimensionAnnotations(pdf, t, settings, offsetX, offsetY, canvasW, canvasH)
	return pdf.Error()
}

// tracePath adds outline to the current PDF path, scaled into page space.
func tracePath(pdf *fpdf.Fpdf, outline model.Path, scale, offsetX, offsetY float64) {
	if len(outline) == 0 {
		return
	}
	px := func(p model.Point) (float64, float64) {
		return offsetX + p.X*scale, offsetY + p.Y*scale
	}
	pdf.MoveTo(px(outline[0].Start))
	for _, b := range outline {
		x, y := px(b.End)
		if b.Linear {
			pdf.LineTo(x, y)
			continue
		}
		c1x, c1y := px(b.Control1)
		c2x, c2y := px(b.Control2)
		pdf.CurveBezierCubicTo(c1x, c1y, c2x, c2y, x, y)
	}
	pdf.ClosePath()
}

// drawDimensionAnnotations adds the physical width and height outside the
// puzzle rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, t *model.Template, settings model.CutSettings, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", float64(t.Width)*settings.MillimetersPerPixel)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", float64(t.Height)*settings.MillimetersPerPixel)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

type summaryItem struct {
	label string
	value string
}

// renderSummaryPage lists the generation parameters and the cut estimate.
func renderSummaryPage(pdf *fpdf.Fpdf, t *model.Template, settings model.CutSettings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Puzzle Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	mm := settings.MillimetersPerPixel
	y := marginTop + 18
	y = renderSection(pdf, y, "Layout", []summaryItem{
		{"Grid", fmt.Sprintf("%d columns x %d rows", t.Grid.Columns, t.Grid.Rows)},
		{"Pieces", fmt.Sprintf("%d", t.PieceCount())},
		{"Image Size", fmt.Sprintf("%d x %d px", t.Width, t.Height)},
		{"Puzzle Size", fmt.Sprintf("%.1f x %.1f mm", float64(t.Width)*mm, float64(t.Height)*mm)},
		{"Piece Size", fmt.Sprintf("%.2f x %.2f px (%.1f x %.1f mm)", t.PieceWidth, t.PieceHeight, t.PieceWidth*mm, t.PieceHeight*mm)},
		{"Game Mode", t.Settings.GameMode.String()},
	})

	y = renderSection(pdf, y, "Contour", []summaryItem{
		{"Seed", fmt.Sprintf("%d", t.Settings.Seed)},
		{"Tab Size", fmt.Sprintf("%.0f", t.Settings.TabSize)},
		{"Jitter", fmt.Sprintf("%.0f", t.Settings.Jitter)},
	})

	if t.Edges != nil {
		est := model.CalculateCutEstimate(t.Edges, settings)
		y = renderSection(pdf, y, "Cut Estimate", []summaryItem{
			{"Border Length", fmt.Sprintf("%.0f mm", est.BorderLengthPx*mm)},
			{"Interior Length", fmt.Sprintf("%.0f mm", est.InteriorLengthPx*mm)},
			{"Total Length", fmt.Sprintf("%.0f mm", est.TotalLengthMM)},
			{"Passes", fmt.Sprintf("%d", est.Passes)},
			{"Estimated Time", fmt.Sprintf("%.1f min", est.EstimatedMinutes)},
		})
	}

	renderSection(pdf, y, "Cut Settings", []summaryItem{
		{"Scale", fmt.Sprintf("%.3f mm/px", mm)},
		{"Tool Diameter", fmt.Sprintf("%.1f mm", settings.ToolDiameter)},
		{"Material Thickness", fmt.Sprintf("%.1f mm", settings.CutDepth)},
		{"Pass Depth", fmt.Sprintf("%.1f mm", settings.PassDepth)},
		{"Feed Rate", fmt.Sprintf("%.0f mm/min", settings.FeedRate)},
		{"GCode Profile", settings.GCodeProfile},
	})

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PuzzleCut", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderSection writes a titled list of label/value rows and returns the
// next free y position.
func renderSection(pdf *fpdf.Fpdf, y float64, title string, items []summaryItem) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 8

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(80, 5, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		y += 5
	}
	return y + 4
}

// labelFontSize returns an appropriate font size based on the piece size on the page.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 20:
		return 8
	case minDim > 10:
		return 7
	default:
		return 5
	}
}
