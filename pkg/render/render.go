// Package render draws resolved scene frames onto a drawing surface.
//
// The evaluator hands over untyped property bags; this package decodes each
// bag into the shape struct matching its layer type and dispatches to the
// [Surface] primitive for that shape. Two surfaces are provided: [SVG] for
// file export and [Canvas] for terminal playback.
package render

import (
	"log/slog"
	"math"

	"github.com/chalktalk/chalktalk/pkg/scene"
)

// Arrow head geometry, in logical canvas units.
const (
	arrowHeadLength    = 15
	arrowHeadHalfAngle = 30 * math.Pi / 180
)

// Circle is drawn around a center point. Radius is always non-negative.
type Circle struct {
	X, Y, R     float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
}

// Rect is drawn from its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
	Fill          string
	Stroke        string
	StrokeWidth   float64
	Opacity       float64
}

// Arrow is a line from (X,Y) displaced by (DX,DY) plus a triangular head.
type Arrow struct {
	X, Y    float64
	DX, DY  float64
	Color   string
	Width   float64
	Opacity float64
}

// Text is a filled string anchored at (X,Y).
type Text struct {
	X, Y     float64
	Content  string
	Color    string
	Font     string
	Align    string
	Baseline string
	Opacity  float64
}

// Line is a stroked segment.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Width          float64
	Opacity        float64
}

// Surface is a drawing target with one primitive per shape kind.
// Implementations are not required to be safe for concurrent use.
type Surface interface {
	Clear()
	Circle(Circle)
	Rect(Rect)
	Arrow(Arrow)
	Text(Text)
	Line(Line)
}

// Frame draws every layer of a resolved frame in order. Layers with unknown
// types draw nothing, and a failure in one layer never aborts the rest.
func Frame(s Surface, f scene.Frame) {
	for _, l := range f {
		drawLayer(s, l)
	}
}

func drawLayer(s Surface, l scene.ResolvedLayer) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("render: layer draw failed", "type", l.Type, "panic", r)
		}
	}()

	switch l.Type {
	case scene.TypeCircle:
		s.Circle(decodeCircle(l.Props))
	case scene.TypeRectangle:
		s.Rect(decodeRect(l.Props))
	case scene.TypeArrow:
		s.Arrow(decodeArrow(l.Props))
	case scene.TypeText:
		s.Text(decodeText(l.Props))
	case scene.TypeLine:
		s.Line(decodeLine(l.Props))
	}
}

func decodeCircle(p map[string]any) Circle {
	return Circle{
		X:           num(p, "x", 0),
		Y:           num(p, "y", 0),
		R:           math.Abs(num(p, "r", 0)),
		Fill:        str(p, "fill", ""),
		Stroke:      str(p, "stroke", ""),
		StrokeWidth: num(p, "strokeWidth", 1),
		Opacity:     opacity(p),
	}
}

func decodeRect(p map[string]any) Rect {
	return Rect{
		X:           num(p, "x", 0),
		Y:           num(p, "y", 0),
		Width:       num(p, "width", 0),
		Height:      num(p, "height", 0),
		Fill:        str(p, "fill", ""),
		Stroke:      str(p, "stroke", ""),
		StrokeWidth: num(p, "strokeWidth", 1),
		Opacity:     opacity(p),
	}
}

func decodeArrow(p map[string]any) Arrow {
	return Arrow{
		X:       num(p, "x", 0),
		Y:       num(p, "y", 0),
		DX:      num(p, "dx", 50),
		DY:      num(p, "dy", 0),
		Color:   str(p, "color", "#000"),
		Width:   num(p, "strokeWidth", 2),
		Opacity: opacity(p),
	}
}

func decodeText(p map[string]any) Text {
	return Text{
		X:        num(p, "x", 0),
		Y:        num(p, "y", 0),
		Content:  str(p, "text", ""),
		Color:    str(p, "color", "#000"),
		Font:     str(p, "font", "16px sans-serif"),
		Align:    str(p, "align", "center"),
		Baseline: str(p, "baseline", "middle"),
		Opacity:  opacity(p),
	}
}

func decodeLine(p map[string]any) Line {
	return Line{
		X1:      num(p, "x1", 0),
		Y1:      num(p, "y1", 0),
		X2:      num(p, "x2", 0),
		Y2:      num(p, "y2", 0),
		Color:   str(p, "color", "#000"),
		Width:   num(p, "strokeWidth", 2),
		Opacity: opacity(p),
	}
}

// HeadPoints returns the two back corners of the arrow head for the line
// angle of a. The head has a fixed length and half-angle.
func (a Arrow) HeadPoints() (lx, ly, rx, ry float64) {
	tipX, tipY := a.X+a.DX, a.Y+a.DY
	angle := math.Atan2(a.DY, a.DX)
	lx = tipX - arrowHeadLength*math.Cos(angle-arrowHeadHalfAngle)
	ly = tipY - arrowHeadLength*math.Sin(angle-arrowHeadHalfAngle)
	rx = tipX - arrowHeadLength*math.Cos(angle+arrowHeadHalfAngle)
	ry = tipY - arrowHeadLength*math.Sin(angle+arrowHeadHalfAngle)
	return
}

func num(p map[string]any, key string, def float64) float64 {
	if v, ok := scene.PropFloat(p, key); ok {
		return v
	}
	return def
}

func str(p map[string]any, key, def string) string {
	if s, ok := p[key].(string); ok && s != "" {
		return s
	}
	return def
}

func opacity(p map[string]any) float64 {
	if v, ok := scene.PropFloat(p, "opacity"); ok {
		return math.Min(1, math.Max(0, v))
	}
	return 1
}
