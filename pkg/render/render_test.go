package render

import (
	"math"
	"strings"
	"testing"

	"github.com/chalktalk/chalktalk/pkg/scene"
)

// recordingSurface captures which primitives were invoked.
type recordingSurface struct {
	circles []Circle
	rects   []Rect
	arrows  []Arrow
	texts   []Text
	lines   []Line
	cleared int
	panicOn string
}

func (r *recordingSurface) Clear() { r.cleared++ }

func (r *recordingSurface) Circle(c Circle) {
	if r.panicOn == scene.TypeCircle {
		panic("surface failure")
	}
	r.circles = append(r.circles, c)
}
func (r *recordingSurface) Rect(v Rect)   { r.rects = append(r.rects, v) }
func (r *recordingSurface) Arrow(a Arrow) { r.arrows = append(r.arrows, a) }
func (r *recordingSurface) Text(t Text)   { r.texts = append(r.texts, t) }
func (r *recordingSurface) Line(l Line)   { r.lines = append(r.lines, l) }

func TestFrameDispatch(t *testing.T) {
	s := &recordingSurface{}
	Frame(s, scene.Frame{
		{Type: scene.TypeCircle, Props: map[string]any{"x": 10.0, "y": 20.0, "r": -5.0, "fill": "#f00"}},
		{Type: scene.TypeRectangle, Props: map[string]any{"x": 1.0, "y": 2.0, "width": 3.0, "height": 4.0}},
		{Type: scene.TypeArrow, Props: map[string]any{"x": 0.0, "y": 0.0}},
		{Type: scene.TypeText, Props: map[string]any{"x": 350.0, "y": 225.0, "text": "hi"}},
		{Type: scene.TypeLine, Props: map[string]any{"x1": 0.0, "y1": 0.0, "x2": 9.0, "y2": 9.0}},
		{Type: "hologram", Props: map[string]any{"x": 1.0}},
	})

	if len(s.circles) != 1 || len(s.rects) != 1 || len(s.arrows) != 1 || len(s.texts) != 1 || len(s.lines) != 1 {
		t.Fatalf("dispatch counts: %d/%d/%d/%d/%d, want 1 each",
			len(s.circles), len(s.rects), len(s.arrows), len(s.texts), len(s.lines))
	}
	if got := s.circles[0].R; got != 5 {
		t.Errorf("negative radius not sign-stripped: r = %v", got)
	}
	if dx, dy := s.arrows[0].DX, s.arrows[0].DY; dx != 50 || dy != 0 {
		t.Errorf("arrow displacement defaults = (%v,%v), want (50,0)", dx, dy)
	}
}

func TestFrameIsolatesLayerFailure(t *testing.T) {
	s := &recordingSurface{panicOn: scene.TypeCircle}
	Frame(s, scene.Frame{
		{Type: scene.TypeCircle, Props: map[string]any{"r": 1.0}},
		{Type: scene.TypeLine, Props: map[string]any{"x2": 5.0}},
	})
	if len(s.lines) != 1 {
		t.Fatalf("layer after failing layer not drawn: lines = %d", len(s.lines))
	}
}

func TestArrowHeadGeometry(t *testing.T) {
	a := Arrow{X: 0, Y: 0, DX: 100, DY: 0}
	lx, ly, rx, ry := a.HeadPoints()

	// Head corners sit arrowHeadLength back from the tip at ±30°.
	wantX := 100 - 15*math.Cos(math.Pi/6)
	wantY := 15 * math.Sin(math.Pi/6)
	if math.Abs(lx-wantX) > 1e-9 || math.Abs(ly+wantY) > 1e-9 {
		t.Errorf("left corner = (%v,%v), want (%v,%v)", lx, ly, wantX, -wantY)
	}
	if math.Abs(rx-wantX) > 1e-9 || math.Abs(ry-wantY) > 1e-9 {
		t.Errorf("right corner = (%v,%v), want (%v,%v)", rx, ry, wantX, wantY)
	}
}

func TestSVGDocument(t *testing.T) {
	s := NewSVG()
	Frame(s, scene.Frame{
		{Type: scene.TypeCircle, Props: map[string]any{"x": 350.0, "y": 225.0, "r": 40.0, "fill": "#4af"}},
		{Type: scene.TypeText, Props: map[string]any{"x": 10.0, "y": 10.0, "text": "a < b"}},
	})
	doc := s.String()

	for _, want := range []string{
		`viewBox="0 0 700 450"`,
		`<circle cx="350" cy="225" r="40" fill="#4af"/>`,
		`a &lt; b`,
		`</svg>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("svg missing %q:\n%s", want, doc)
		}
	}

	s.Clear()
	if doc := s.String(); strings.Contains(doc, "circle") {
		t.Error("Clear did not drop drawn elements")
	}
}

func TestCanvasRaster(t *testing.T) {
	c := NewCanvas(70, 22)
	Frame(c, scene.Frame{
		{Type: scene.TypeLine, Props: map[string]any{"x1": 0.0, "y1": 0.0, "x2": 699.0, "y2": 449.0}},
		{Type: scene.TypeText, Props: map[string]any{"x": 350.0, "y": 225.0, "text": "ok", "align": "left"}},
	})
	out := c.String()

	if !strings.Contains(out, "ok") {
		t.Error("text overlay missing")
	}
	var dots int
	for _, r := range out {
		if r > 0x2800 && r <= 0x28FF {
			dots++
		}
	}
	if dots == 0 {
		t.Error("line drew no braille dots")
	}

	c.Clear()
	for _, r := range c.String() {
		if r != 0x2800 && r != '\n' {
			t.Fatalf("Clear left non-empty cell %q", r)
		}
	}
}

func TestCanvasIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(10, 5)
	// Must not panic on coordinates far outside the logical canvas.
	Frame(c, scene.Frame{
		{Type: scene.TypeCircle, Props: map[string]any{"x": -4000.0, "y": 9000.0, "r": 50.0}},
		{Type: scene.TypeLine, Props: map[string]any{"x1": -100.0, "y1": -100.0, "x2": 5000.0, "y2": 5000.0}},
	})
}
