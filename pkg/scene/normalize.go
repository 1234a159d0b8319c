package scene

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"
)

// Normalize fills missing or invalid top-level fields with defaults and
// returns the result. A nil input yields an empty scene with a fresh id.
// Layer and Animation contents are not deep-validated; malformed entries
// survive normalization and render as no-ops.
func Normalize(v *Visualization) *Visualization {
	if v == nil {
		v = &Visualization{}
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.Duration <= 0 {
		v.Duration = DefaultDuration
	}
	if v.FPS <= 0 {
		v.FPS = DefaultFPS
	}
	if v.Layers == nil {
		v.Layers = []Layer{}
	}
	return v
}

// Decode parses raw scene JSON into a normalized Visualization.
//
// Backends emit JSON of varying quality: truncated objects, trailing commas,
// string-typed numbers. Decode unmarshals leniently, repairing syntax errors
// with jsonrepair before retrying, and coercing mistyped top-level fields.
// A layer that cannot be parsed at all is dropped rather than failing the
// whole scene.
func Decode(data []byte) (*Visualization, error) {
	var raw struct {
		ID       any               `json:"id"`
		Duration any               `json:"duration"`
		FPS      any               `json:"fps"`
		Layers   []json.RawMessage `json:"layers"`
	}
	if err := unmarshalRepaired(data, &raw); err != nil {
		return nil, err
	}

	v := &Visualization{
		ID:       asString(raw.ID),
		Duration: asInt(raw.Duration),
		FPS:      asInt(raw.FPS),
	}
	for _, lr := range raw.Layers {
		var rl struct {
			ID         string            `json:"id"`
			Type       string            `json:"type"`
			Props      map[string]any    `json:"props"`
			Animations []json.RawMessage `json:"animations"`
		}
		if err := json.Unmarshal(lr, &rl); err != nil {
			continue
		}
		l := Layer{ID: rl.ID, Type: rl.Type, Props: rl.Props}
		for _, ar := range rl.Animations {
			var a Animation
			if err := json.Unmarshal(ar, &a); err != nil {
				continue
			}
			l.Animations = append(l.Animations, a)
		}
		v.Layers = append(v.Layers, l)
	}
	return Normalize(v), nil
}

// DecodeValue decodes an already-parsed document (for example from a
// YAML loader) through the same lenient path as Decode.
func DecodeValue(doc any) (*Visualization, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// unmarshalRepaired unmarshals JSON into v, retrying through jsonrepair when
// the input has syntax errors.
func unmarshalRepaired(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return rerr
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return int(f)
	}
	return 0
}
