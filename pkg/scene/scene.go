// Package scene defines the declarative animated-scene format produced by the
// generation backends and consumed by the timeline evaluator.
//
// A [Visualization] is an ordered stack of [Layer] values, each carrying a
// shape type, a bag of base properties, and a list of time-windowed
// [Animation] transitions. The format is deliberately permissive: backends
// are unreliable, so malformed layers or animations degrade to no-ops
// instead of failing playback (see [Decode] and [Normalize]).
package scene

// Logical canvas size. Scenes address a fixed coordinate space regardless of
// the surface they are eventually drawn on.
const (
	CanvasWidth  = 700
	CanvasHeight = 450
)

// Defaults substituted by Normalize for missing or invalid top-level fields.
const (
	DefaultDuration = 8000 // milliseconds
	DefaultFPS      = 30
)

// Layer shape types. Unknown types are tolerated and draw nothing.
const (
	TypeCircle    = "circle"
	TypeRectangle = "rectangle"
	TypeArrow     = "arrow"
	TypeText      = "text"
	TypeLine      = "line"
)

// Animatable property names.
const (
	PropX       = "x"
	PropY       = "y"
	PropR       = "r"
	PropWidth   = "width"
	PropHeight  = "height"
	PropOpacity = "opacity"
	PropOrbit   = "orbit"
)

// Easing curve names. Unknown names fall back to linear.
const (
	EaseLinear = "linear"
	EaseIn     = "ease-in"
	EaseOut    = "ease-out"
	EaseInOut  = "ease-in-out"
)

// Visualization is a complete declarative scene.
type Visualization struct {
	// ID uniquely identifies the scene.
	ID string `json:"id" msgpack:"id"`

	// Duration is the playback length in milliseconds. Always > 0 after
	// Normalize.
	Duration int `json:"duration" msgpack:"duration"`

	// FPS is advisory only. The evaluator is continuous-time, not
	// frame-quantized; schedulers may use FPS to pick a tick interval.
	FPS int `json:"fps" msgpack:"fps"`

	// Layers are drawn in declaration order; later layers draw on top.
	Layers []Layer `json:"layers" msgpack:"layers"`
}

// Layer is one drawable element.
type Layer struct {
	// ID is unique within a Visualization.
	ID string `json:"id" msgpack:"id"`

	// Type is one of the Type* constants. Unknown values produce no drawing.
	Type string `json:"type" msgpack:"type"`

	// Props holds the base property values. Which keys are meaningful
	// depends on Type; extra keys are ignored by the renderer.
	Props map[string]any `json:"props" msgpack:"props"`

	// Animations apply in declared order; later entries overwrite earlier
	// ones for the same property.
	Animations []Animation `json:"animations" msgpack:"animations"`
}

// Animation is a time-windowed transition of one property.
type Animation struct {
	// Property names the animated property (one of the Prop* constants).
	Property string `json:"property" msgpack:"property"`

	// From and To are the endpoint values. Absent values default to 0.
	// Ignored when Property is "orbit".
	From *float64 `json:"from" msgpack:"from"`
	To   *float64 `json:"to" msgpack:"to"`

	// Start and End bound the active window in milliseconds. A window
	// outside [0, duration] is never active and is effectively a no-op.
	Start float64 `json:"start" msgpack:"start"`
	End   float64 `json:"end" msgpack:"end"`

	// Easing names the easing curve. Empty or unknown means linear.
	Easing string `json:"easing" msgpack:"easing"`

	// Orbit parameters, meaningful only when Property is "orbit".
	CenterX float64 `json:"centerX" msgpack:"centerX"`
	CenterY float64 `json:"centerY" msgpack:"centerY"`
	Radius  float64 `json:"radius" msgpack:"radius"`
}
