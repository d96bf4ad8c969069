package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// ExportDXF writes every piece outline as a closed LWPOLYLINE in
// millimetres. Curves are flattened with settings.FlattenSteps and Y is
// flipped, so the drawing matches the G-code coordinates.
func ExportDXF(path string, t *model.Template, settings model.CutSettings) error {
	if len(t.Pieces) == 0 {
		return fmt.Errorf("no pieces to export")
	}
	mm := settings.MillimetersPerPixel
	if mm <= 0 {
		mm = 1
	}
	steps := settings.FlattenSteps
	if steps < 1 {
		steps = model.DefaultFlattenSteps
	}

	d := dxf.NewDrawing()
	for i := range t.Pieces {
		p := &t.Pieces[i]
		outline := p.Outline.Flatten(steps)
		vertices := make([][]float64, len(outline))
		for j, pt := range outline {
			vertices[j] = []float64{pt.X * mm, (float64(t.Height) - pt.Y) * mm}
		}
		if _, err := d.LwPolyline(true, vertices...); err != nil {
			return fmt.Errorf("piece %d: %w", p.Index, err)
		}
	}
	return d.SaveAs(path)
}
