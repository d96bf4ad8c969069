package gcode

import (
	"fmt"
	"strings"

	"github.com/piwi3910/PuzzleCut/internal/logging"
	"github.com/piwi3910/PuzzleCut/internal/model"
)

// Generator produces GCode that cuts a puzzle template out of a sheet.
// Image coordinates are scaled by MillimetersPerPixel and Y is flipped so
// the machine origin sits at the bottom-left corner of the image.
type Generator struct {
	Settings model.CutSettings
	profile  model.GCodeProfile
}

func New(settings model.CutSettings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.GCodeProfile),
	}
}

// cut is one continuous toolpath in image coordinates.
type cut struct {
	label  string
	points []model.Point
}

// GenerateTemplate cuts the whole puzzle. Every interior grid line is one
// continuous toolpath, so an edge shared by two pieces is cut exactly once.
// Interior lines come first, alternating direction, and the outer border is
// cut last while the sheet is still held in one piece.
func (g *Generator) GenerateTemplate(t *model.Template) string {
	var b strings.Builder

	cuts := g.templateCuts(t)
	g.writeHeader(&b, t, fmt.Sprintf("%s puzzle, %d pieces", t.Grid, t.PieceCount()))
	for i, c := range cuts {
		g.writeCut(&b, t, c, i+1, len(cuts))
	}
	g.writeFooter(&b)

	logging.Logger().Info("gcode generated", "grid", t.Grid.String(), "paths", len(cuts), "profile", g.profile.Name)
	return b.String()
}

// GeneratePiece cuts the closed outline of a single piece.
func (g *Generator) GeneratePiece(t *model.Template, p *model.Piece) string {
	var b strings.Builder

	g.writeHeader(&b, t, fmt.Sprintf("piece %d (column %d, row %d)", p.Index, p.Column, p.Row))
	g.writeCut(&b, t, cut{
		label:  fmt.Sprintf("Piece %d outline", p.Index),
		points: g.polyline(p.Outline),
	}, 1, 1)
	g.writeFooter(&b)
	return b.String()
}

func (g *Generator) templateCuts(t *model.Template) []cut {
	grid := t.Edges.Grid
	var cuts []cut

	reverse := false
	for row := 1; row < grid.Rows; row++ {
		var path model.Path
		for col := 0; col < grid.Columns; col++ {
			path = append(path, t.Edges.HorizontalAt(col, row).Beziers(false)...)
		}
		cuts = append(cuts, g.chain(fmt.Sprintf("Row line %d", row), path, reverse))
		reverse = !reverse
	}
	for col := 1; col < grid.Columns; col++ {
		var path model.Path
		for row := 0; row < grid.Rows; row++ {
			path = append(path, t.Edges.VerticalAt(col, row).Beziers(false)...)
		}
		cuts = append(cuts, g.chain(fmt.Sprintf("Column line %d", col), path, reverse))
		reverse = !reverse
	}

	// Clockwise around the frame from the top-left corner.
	var border model.Path
	for col := 0; col < grid.Columns; col++ {
		border = append(border, t.Edges.HorizontalAt(col, 0).Beziers(false)...)
	}
	for row := 0; row < grid.Rows; row++ {
		border = append(border, t.Edges.VerticalAt(grid.Columns, row).Beziers(false)...)
	}
	for col := grid.Columns - 1; col >= 0; col-- {
		border = append(border, t.Edges.HorizontalAt(col, grid.Rows).Beziers(true)...)
	}
	for row := grid.Rows - 1; row >= 0; row-- {
		border = append(border, t.Edges.VerticalAt(0, row).Beziers(true)...)
	}
	return append(cuts, g.chain("Border", border, false))
}

func (g *Generator) chain(label string, path model.Path, reverse bool) cut {
	pts := g.polyline(path)
	if reverse {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	return cut{label: label, points: pts}
}

// polyline flattens path and keeps its final end point, so a closed path
// returns to where it started.
func (g *Generator) polyline(path model.Path) []model.Point {
	if len(path) == 0 {
		return nil
	}
	steps := g.Settings.FlattenSteps
	if steps < 1 {
		steps = model.DefaultFlattenSteps
	}
	pts := path.Flatten(steps)
	return append(pts, path[len(path)-1].End)
}

func (g *Generator) writeHeader(b *strings.Builder, t *model.Template, subject string) {
	p := g.profile
	w, h := float64(t.Width)*g.scale(), float64(t.Height)*g.scale()

	b.WriteString(g.comment("PuzzleCut GCode: " + subject))
	b.WriteString(g.comment(fmt.Sprintf("Image: %d x %d px, %.1f x %.1f mm", t.Width, t.Height, w, h)))
	b.WriteString(g.comment(fmt.Sprintf("Seed: %d, tab size: %.0f, jitter: %.0f",
		t.Settings.Seed, t.Settings.TabSize, t.Settings.Jitter)))
	if p.Laser {
		b.WriteString(g.comment(fmt.Sprintf("Laser power: S%d, feed: %.0f mm/min, passes: %d",
			g.Settings.SpindleSpeed, g.Settings.FeedRate, g.Settings.Passes())))
	} else {
		b.WriteString(g.comment(fmt.Sprintf("Tool: %.2fmm, feed: %.0f mm/min, plunge: %.0f mm/min",
			g.Settings.ToolDiameter, g.Settings.FeedRate, g.Settings.PlungeRate)))
		b.WriteString(g.comment(fmt.Sprintf("Depth: %.2fmm in %d passes", g.Settings.CutDepth, g.Settings.Passes())))
	}
	b.WriteString(g.comment("Profile: " + p.Name))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart+"\n", g.Settings.SpindleSpeed))
	}
	if !p.Laser {
		b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	}
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString(g.comment("=== Job complete ==="))
	for _, code := range p.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}
	if p.SpindleStop != "" {
		b.WriteString(p.SpindleStop + "\n")
	}
}

// writeCut follows c once per depth pass. A laser fires on feed moves only,
// so it skips the plunge and retract.
func (g *Generator) writeCut(b *strings.Builder, t *model.Template, c cut, num, total int) {
	if len(c.points) < 2 {
		b.WriteString(g.comment("WARNING: " + c.label + " has no length, skipping"))
		return
	}
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("--- Path %d/%d: %s ---", num, total, c.label)))

	passes := g.Settings.Passes()
	for pass := 1; pass <= passes; pass++ {
		depth := float64(pass) * g.Settings.PassDepth
		if depth > g.Settings.CutDepth || pass == passes {
			depth = g.Settings.CutDepth
		}
		if passes > 1 {
			b.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, passes, depth)))
		}

		x, y := g.machine(t, c.points[0])
		b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(x), g.format(y)))
		if !p.Laser {
			b.WriteString(fmt.Sprintf("%s Z%s F%s\n", p.FeedMove,
				g.format(-depth), g.format(g.Settings.PlungeRate)))
		}
		for _, pt := range c.points[1:] {
			x, y := g.machine(t, pt)
			b.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", p.FeedMove,
				g.format(x), g.format(y), g.format(g.Settings.FeedRate)))
		}
		if !p.Laser {
			b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
		}
	}
	b.WriteString("\n")
}

// machine converts an image point to machine coordinates in millimetres.
func (g *Generator) machine(t *model.Template, pt model.Point) (x, y float64) {
	s := g.scale()
	return pt.X * s, (float64(t.Height) - pt.Y) * s
}

func (g *Generator) scale() float64 {
	if g.Settings.MillimetersPerPixel <= 0 {
		return 1
	}
	return g.Settings.MillimetersPerPixel
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(format, v)
}
