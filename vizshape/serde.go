package vizshape

import (
	"encoding/json"
	"fmt"

	"oss.terrastruct.com/vizb/lib/color"
)

// rectJSON is the wire form consumed by the bundled browser renderer.
type rectJSON struct {
	Width           float64  `json:"width"`
	Height          float64  `json:"height"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	RX              float64  `json:"rx"`
	RY              float64  `json:"ry"`
	Color           string   `json:"color"`
	Roughness       float64  `json:"roughness"`
	StrokeColor     string   `json:"stroke_color"`
	StrokeDashArray string   `json:"stroke_dasharray"`
	StrokeWidth     *float64 `json:"stroke_width"`
	Text            string   `json:"text"`
	FontSize        string   `json:"font_size"`
	TextColor       string   `json:"text_color"`
	TextOrientation string   `json:"text_orientation"`
}

func (r Rect) MarshalJSON() ([]byte, error) {
	return json.Marshal(rectJSON{
		Width:           r.Width,
		Height:          r.Height,
		X:               r.X,
		Y:               r.Y,
		RX:              r.RX,
		RY:              r.RY,
		Color:           r.Fill,
		Roughness:       r.Roughness,
		StrokeColor:     r.StrokeColor,
		StrokeDashArray: r.StrokeDashArray,
		StrokeWidth:     r.StrokeWidth,
		Text:            r.Text,
		FontSize:        r.FontSize,
		TextColor:       r.TextColor,
		TextOrientation: r.TextOrientation,
	})
}

// UnmarshalJSON fills missing fields with the NewRect defaults, including a
// derived font size.
func (r *Rect) UnmarshalJSON(b []byte) error {
	def := NewRect(0, 0)
	rj := rectJSON{
		Color:           def.Fill,
		StrokeColor:     def.StrokeColor,
		StrokeDashArray: def.StrokeDashArray,
		TextColor:       def.TextColor,
		TextOrientation: def.TextOrientation,
	}
	if err := json.Unmarshal(b, &rj); err != nil {
		return err
	}
	*r = NewRect(rj.Width, rj.Height,
		WithPos(rj.X, rj.Y),
		WithRadius(rj.RX, rj.RY),
		WithFill(rj.Color),
		WithRoughness(rj.Roughness),
		WithStrokeColor(rj.StrokeColor),
		WithStrokeDashArray(rj.StrokeDashArray),
		WithText(rj.Text),
		WithFontSize(rj.FontSize),
		WithTextColor(rj.TextColor),
		func(r *Rect) {
			r.StrokeWidth = rj.StrokeWidth
			r.TextOrientation = rj.TextOrientation
		},
	)
	return nil
}

// ToJSON encodes a Rect as an object and a Rects as an array.
func ToJSON(s Shape) ([]byte, error) {
	return json.Marshal(s)
}

// Validate checks geometry, text orientation and every color of r.
func (r Rect) Validate() error {
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("negative size %vx%v", r.Width, r.Height)
	}
	switch r.TextOrientation {
	case Horizontal, Vertical:
	default:
		return fmt.Errorf("text_orientation must be %q or %q, got %q", Horizontal, Vertical, r.TextOrientation)
	}
	if r.StrokeWidth != nil && *r.StrokeWidth < 0 {
		return fmt.Errorf("negative stroke_width %v", *r.StrokeWidth)
	}
	for _, c := range []struct{ name, value string }{
		{"color", r.Fill},
		{"stroke_color", r.StrokeColor},
		{"text_color", r.TextColor},
	} {
		if _, err := color.Normalize(c.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", c.name, c.value, err)
		}
	}
	return nil
}

// Validate validates every leaf of s.
func Validate(s Shape) error {
	for i, r := range s.Shapes() {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rect %d: %w", i, err)
		}
	}
	return nil
}
