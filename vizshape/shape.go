// Package vizshape models rectangles and the layouts composed from them.
//
// Shapes are immutable values. Translate and the stacking functions always
// return fresh copies, so one template Rect can be reused across a Grid
// without any cell aliasing another.
package vizshape

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	Horizontal = "horizontal"
	Vertical   = "vertical"
)

// Shape is a Rect or a collection of Rects.
type Shape interface {
	// Translate returns a copy offset by (dx, dy).
	Translate(dx, dy float64) Shape
	// BoundingRect returns the minimal rectangle covering the shape with
	// opts applied on top.
	BoundingRect(opts ...Option) Rect
	// Shapes flattens the shape to its leaf rectangles.
	Shapes() []Rect
}

type Rect struct {
	Width  float64
	Height float64
	X      float64
	Y      float64
	RX     float64
	RY     float64

	Fill      string
	Roughness float64

	StrokeColor     string
	StrokeDashArray string
	// nil leaves the stroke width to the renderer.
	StrokeWidth *float64

	Text            string
	FontSize        string
	TextColor       string
	TextOrientation string
}

// Option overrides a Rect field. Options are applied to a copy, never to the
// original.
type Option func(*Rect)

func WithWidth(w float64) Option  { return func(r *Rect) { r.Width = w } }
func WithHeight(h float64) Option { return func(r *Rect) { r.Height = h } }
func WithX(x float64) Option      { return func(r *Rect) { r.X = x } }
func WithY(y float64) Option      { return func(r *Rect) { r.Y = y } }
func WithPos(x, y float64) Option {
	return func(r *Rect) { r.X, r.Y = x, y }
}
func WithRadius(rx, ry float64) Option {
	return func(r *Rect) { r.RX, r.RY = rx, ry }
}
func WithFill(c string) Option        { return func(r *Rect) { r.Fill = c } }
func WithRoughness(v float64) Option  { return func(r *Rect) { r.Roughness = v } }
func WithStrokeColor(c string) Option { return func(r *Rect) { r.StrokeColor = c } }
func WithStrokeDashArray(d string) Option {
	return func(r *Rect) { r.StrokeDashArray = d }
}
func WithStrokeWidth(w float64) Option {
	return func(r *Rect) { r.StrokeWidth = &w }
}
func WithText(t string) Option      { return func(r *Rect) { r.Text = t } }
func WithFontSize(s string) Option  { return func(r *Rect) { r.FontSize = s } }
func WithTextColor(c string) Option { return func(r *Rect) { r.TextColor = c } }

// WithVerticalText lays the label out rotated by -90 degrees.
func WithVerticalText() Option {
	return func(r *Rect) { r.TextOrientation = Vertical }
}

// NewRect returns a width by height rect at the origin with defaults filled
// in. FontSize is derived from the final geometry and text unless an option
// sets it.
func NewRect(width, height float64, opts ...Option) Rect {
	r := Rect{
		Width:           width,
		Height:          height,
		Fill:            "#000000",
		StrokeColor:     "black",
		StrokeDashArray: "none",
		TextColor:       "black",
		TextOrientation: Horizontal,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.FontSize == "" {
		r.FontSize = DefaultFontSize(r.Width, r.Height, r.Text, r.TextOrientation)
	}
	return r
}

// DefaultFontSize estimates a font size that fits text inside a width by
// height box, e.g. "12.5px" or "12.0px".
func DefaultFontSize(width, height float64, text, orientation string) string {
	est := math.Max(0.6*float64(utf8.RuneCountInString(text)), 1)
	w, h := width, height
	if orientation == Vertical {
		w, h = height, width
	}
	size := math.Min(0.9*(w/est), h*0.3)
	s := strconv.FormatFloat(size, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		// Whole sizes keep a fractional digit, e.g. "12.0px".
		s += ".0"
	}
	return s + "px"
}

// With returns a copy of r with opts applied. FontSize is kept.
func (r Rect) With(opts ...Option) Rect {
	if r.StrokeWidth != nil {
		sw := *r.StrokeWidth
		r.StrokeWidth = &sw
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r Rect) Translate(dx, dy float64) Shape {
	return r.Offset(dx, dy)
}

// Offset is Translate without losing the concrete type.
func (r Rect) Offset(dx, dy float64) Rect {
	return r.With(WithPos(r.X+dx, r.Y+dy))
}

func (r Rect) BoundingRect(opts ...Option) Rect {
	return r.With(opts...)
}

func (r Rect) Shapes() []Rect {
	return []Rect{r.With()}
}

func (r Rect) Right() float64 {
	return r.X + r.Width
}

func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Equal compares every field, including the pointed-to stroke width.
func (r Rect) Equal(o Rect) bool {
	if (r.StrokeWidth == nil) != (o.StrokeWidth == nil) {
		return false
	}
	if r.StrokeWidth != nil && *r.StrokeWidth != *o.StrokeWidth {
		return false
	}
	r.StrokeWidth, o.StrokeWidth = nil, nil
	return r == o
}

// Rects is an ordered collection of rectangles forming one composite shape.
type Rects []Rect

func (rs Rects) Translate(dx, dy float64) Shape {
	out := make(Rects, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Offset(dx, dy))
	}
	return out
}

// BoundingRect of an empty collection is a zero sized rect at the origin.
// Otherwise opts are applied over the computed geometry and FontSize is
// derived for the result unless an option sets it.
func (rs Rects) BoundingRect(opts ...Option) Rect {
	if len(rs) == 0 {
		return NewRect(0, 0, opts...)
	}
	minX, minY := rs[0].X, rs[0].Y
	maxX, maxY := rs[0].Right(), rs[0].Bottom()
	for _, r := range rs[1:] {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	geometry := []Option{WithPos(minX, minY)}
	return NewRect(maxX-minX, maxY-minY, append(geometry, opts...)...)
}

func (rs Rects) Shapes() []Rect {
	out := make([]Rect, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.With())
	}
	return out
}
