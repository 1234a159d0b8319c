package render

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/chalktalk/chalktalk/pkg/scene"
)

// SVG is a Surface that accumulates primitives into an SVG document sized to
// the logical canvas. Use [SVG.String] to obtain the document.
type SVG struct {
	width, height int
	body          strings.Builder
}

// NewSVG creates an SVG surface at the logical canvas size.
func NewSVG() *SVG {
	return &SVG{width: scene.CanvasWidth, height: scene.CanvasHeight}
}

func (s *SVG) Clear() {
	s.body.Reset()
}

func (s *SVG) Circle(c Circle) {
	fmt.Fprintf(&s.body, `<circle cx="%s" cy="%s" r="%s"%s/>`+"\n",
		ftoa(c.X), ftoa(c.Y), ftoa(c.R),
		s.paint(c.Fill, c.Stroke, c.StrokeWidth, c.Opacity))
}

func (s *SVG) Rect(r Rect) {
	fmt.Fprintf(&s.body, `<rect x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
		ftoa(r.X), ftoa(r.Y), ftoa(r.Width), ftoa(r.Height),
		s.paint(r.Fill, r.Stroke, r.StrokeWidth, r.Opacity))
}

func (s *SVG) Arrow(a Arrow) {
	tipX, tipY := a.X+a.DX, a.Y+a.DY
	lx, ly, rx, ry := a.HeadPoints()
	fmt.Fprintf(&s.body, `<g stroke="%s" fill="%s" stroke-width="%s"%s>`+"\n",
		escape(a.Color), escape(a.Color), ftoa(a.Width), opacityAttr(a.Opacity))
	fmt.Fprintf(&s.body, `<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
		ftoa(a.X), ftoa(a.Y), ftoa(tipX), ftoa(tipY))
	fmt.Fprintf(&s.body, `<polygon points="%s,%s %s,%s %s,%s"/>`+"\n",
		ftoa(tipX), ftoa(tipY), ftoa(lx), ftoa(ly), ftoa(rx), ftoa(ry))
	s.body.WriteString("</g>\n")
}

func (s *SVG) Text(t Text) {
	fmt.Fprintf(&s.body, `<text x="%s" y="%s" fill="%s" text-anchor="%s" dominant-baseline="%s" style="font: %s"%s>%s</text>`+"\n",
		ftoa(t.X), ftoa(t.Y), escape(t.Color),
		anchor(t.Align), baseline(t.Baseline), escape(t.Font),
		opacityAttr(t.Opacity), escape(t.Content))
}

func (s *SVG) Line(l Line) {
	fmt.Fprintf(&s.body, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"%s/>`+"\n",
		ftoa(l.X1), ftoa(l.Y1), ftoa(l.X2), ftoa(l.Y2),
		escape(l.Color), ftoa(l.Width), opacityAttr(l.Opacity))
}

// String returns the complete SVG document for everything drawn since the
// last Clear.
func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		s.width, s.height, s.width, s.height)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) paint(fill, stroke string, strokeWidth, op float64) string {
	var sb strings.Builder
	if fill != "" {
		fmt.Fprintf(&sb, ` fill="%s"`, escape(fill))
	} else {
		sb.WriteString(` fill="none"`)
	}
	if stroke != "" {
		fmt.Fprintf(&sb, ` stroke="%s" stroke-width="%s"`, escape(stroke), ftoa(strokeWidth))
	}
	sb.WriteString(opacityAttr(op))
	return sb.String()
}

func opacityAttr(op float64) string {
	if op >= 1 {
		return ""
	}
	return fmt.Sprintf(` opacity="%s"`, ftoa(op))
}

func anchor(align string) string {
	switch align {
	case "left":
		return "start"
	case "right":
		return "end"
	}
	return "middle"
}

func baseline(b string) string {
	switch b {
	case "top":
		return "hanging"
	case "bottom":
		return "text-after-edge"
	}
	return "middle"
}

// ftoa formats coordinates compactly (no trailing zeros).
func ftoa(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func escape(s string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
