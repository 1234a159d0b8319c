package llm

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

const explainPrompt = `You are a friendly teacher explaining concepts on a chalkboard.
Answer the question in 3-6 short sentences of plain spoken language, the way
you would narrate over a diagram. No markdown, no lists, no code.`

const scenePrompt = `You design simple 2D animated diagrams on a 700x450 canvas.
Given a question and its narration, produce a scene that illustrates the
answer. Use a handful of layers, keep coordinates inside the canvas, and
animate the properties that carry the explanation. Durations are in
milliseconds.`

func sceneUserPrompt(question, narration string) string {
	return fmt.Sprintf("Question: %s\n\nNarration: %s\n\nProduce the scene.", question, narration)
}

// layerProps declares the union of shape properties across all layer
// types, all optional. Which keys matter depends on the layer type; the
// renderer ignores the rest. An enumerated set (rather than an open map)
// keeps the schema usable with strict structured outputs.
func layerProps() *jsonschema.Schema {
	number := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "number", Description: desc}
	}
	str := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "string", Description: desc}
	}
	return &jsonschema.Schema{
		Type:        "object",
		Description: "initial shape properties, keys depend on type",
		Properties: map[string]*jsonschema.Schema{
			"x":           number("x position (circle/rect/arrow/text)"),
			"y":           number("y position"),
			"r":           number("circle radius"),
			"width":       number("rectangle width"),
			"height":      number("rectangle height"),
			"dx":          number("arrow x extent"),
			"dy":          number("arrow y extent"),
			"x1":          number("line start x"),
			"y1":          number("line start y"),
			"x2":          number("line end x"),
			"y2":          number("line end y"),
			"opacity":     number("0..1"),
			"strokeWidth": number("stroke width in px"),
			"fill":        str("fill color (circle/rect)"),
			"stroke":      str("stroke color (circle/rect)"),
			"color":       str("color (arrow/text/line)"),
			"text":        str("text content"),
			"font":        str("CSS font for text"),
			"align":       str("text-anchor: start/middle/end"),
			"baseline":    str("dominant-baseline"),
		},
	}
}

// sceneSchema describes the scene document accepted by the scene package.
// It is built by hand rather than derived from the Go types because layer
// props depend on the shape type.
func sceneSchema() *jsonschema.Schema {
	number := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "number", Description: desc}
	}
	animation := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"property", "start", "end"},
		Properties: map[string]*jsonschema.Schema{
			"property": {
				Type:        "string",
				Description: "layer property to animate",
				Enum:        []any{"x", "y", "r", "width", "height", "opacity", "orbit"},
			},
			"from":  number("starting value, omitted for orbit"),
			"to":    number("ending value, omitted for orbit"),
			"start": number("window start in ms"),
			"end":   number("window end in ms"),
			"easing": {
				Type: "string",
				Enum: []any{"linear", "ease-in", "ease-out", "ease-in-out"},
			},
			"centerX": number("orbit center x"),
			"centerY": number("orbit center y"),
			"radius":  number("orbit radius"),
		},
	}
	layer := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"id", "type", "props"},
		Properties: map[string]*jsonschema.Schema{
			"id": {Type: "string"},
			"type": {
				Type: "string",
				Enum: []any{"circle", "rectangle", "arrow", "text", "line"},
			},
			"props": layerProps(),
			"animations": {Type: "array", Items: animation},
		},
	}
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"id", "duration", "fps", "layers"},
		Properties: map[string]*jsonschema.Schema{
			"id":       {Type: "string"},
			"duration": number("total duration in ms"),
			"fps":      number("playback frame rate"),
			"layers":   {Type: "array", Items: layer},
		},
	}
}
