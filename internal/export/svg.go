package export

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// svgWriter keeps the first write error so callers check once at the end.
type svgWriter struct {
	w   io.Writer
	err error
}

func (s *svgWriter) printf(format string, a ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, a...)
}

// WriteSVG writes the outlines of t in image coordinates, one <path> per
// piece. Indented edges become cubic C commands, border edges L commands.
func WriteSVG(w io.Writer, t *model.Template) error {
	s := &svgWriter{w: w}
	s.printf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d">
`, t.Width, t.Height, t.Width, t.Height)
	s.printf("<g fill=\"none\" stroke=\"black\" stroke-width=\"1\">\n")
	for i := range t.Pieces {
		p := &t.Pieces[i]
		s.printf("<path id=\"piece-%d\" d=\"%s\"/>\n", p.Index, PathData(p.Outline))
	}
	s.printf("</g>\n</svg>\n")
	return s.err
}

// SaveSVG writes t to an SVG file at path.
func SaveSVG(path string, t *model.Template) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// PathData returns the SVG path data of a closed outline.
func PathData(outline model.Path) string {
	if len(outline) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M")
	writePoint(&b, outline[0].Start)
	for _, seg := range outline {
		if seg.Linear {
			b.WriteString(" L")
			writePoint(&b, seg.End)
			continue
		}
		b.WriteString(" C")
		writePoint(&b, seg.Control1)
		b.WriteString(" ")
		writePoint(&b, seg.Control2)
		b.WriteString(" ")
		writePoint(&b, seg.End)
	}
	b.WriteString(" Z")
	return b.String()
}

func writePoint(b *strings.Builder, p model.Point) {
	b.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
}
