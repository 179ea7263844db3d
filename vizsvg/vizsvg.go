// Package vizsvg renders vizshape shapes to a standalone SVG document.
// Roughness is not drawn here. It is recorded as data-roughness for the
// browser renderer, which uses rough.js.
package vizsvg

import (
	"bytes"
	"fmt"
	"strconv"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/vizb/lib/color"
	"oss.terrastruct.com/vizb/lib/version"
	"oss.terrastruct.com/vizb/vizhtml"
	"oss.terrastruct.com/vizb/vizshape"
)

const (
	DEFAULT_PADDING = 10
	DEFAULT_FONT    = "sans-serif"
)

type RenderOpts struct {
	Pad *float64
	// Background fills the whole canvas when set.
	Background string
	// AutoTextColor replaces each label color with black or white depending
	// on the luminance of the fill.
	AutoTextColor bool
	Font          string
	NoXMLTag      bool
	OmitVersion   bool
}

func Render(shape vizshape.Shape, opts *RenderOpts) (_ []byte, err error) {
	defer xdefer.Errorf(&err, "failed to render svg")

	if opts == nil {
		opts = &RenderOpts{}
	}
	pad := float64(DEFAULT_PADDING)
	if opts.Pad != nil {
		pad = *opts.Pad
	}
	font := opts.Font
	if font == "" {
		font = DEFAULT_FONT
	}

	rects := shape.Shapes()
	if err := vizshape.Validate(vizshape.Rects(rects)); err != nil {
		return nil, err
	}

	b := vizshape.Rects(rects).BoundingRect()
	left, top := b.X-pad, b.Y-pad
	width, height := b.Width+2*pad, b.Height+2*pad

	root := vizhtml.SVG("svg", nil).
		Set("xmlns", "http://www.w3.org/2000/svg").
		Set("version", "1.1")
	if !opts.OmitVersion {
		root.Set("data-vizb-version", version.Version)
	}
	root.Set("width", num(width)).
		Set("height", num(height)).
		Set("viewBox", fmt.Sprintf("%s %s %s %s", num(left), num(top), num(width), num(height))).
		Set("font-family", font)

	defs := newDefs()
	var body []interface{}
	if opts.Background != "" {
		fill, err := defs.paint(opts.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		body = append(body, vizhtml.TagRect.New(nil).
			Set("x", num(left)).
			Set("y", num(top)).
			Set("width", num(width)).
			Set("height", num(height)).
			Set("fill", fill))
	}
	for i, r := range rects {
		g, err := renderRect(defs, r, opts)
		if err != nil {
			return nil, fmt.Errorf("rect %d: %w", i, err)
		}
		body = append(body, g)
	}
	if len(defs.els) > 0 {
		root.Append(vizhtml.TagDefs.New(nil, defs.els))
	}
	root.Append(body)

	buf := &bytes.Buffer{}
	if !opts.NoXMLTag {
		buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	}
	buf.WriteString(root.String())
	return buf.Bytes(), nil
}

func renderRect(defs *defs, r vizshape.Rect, opts *RenderOpts) (*vizhtml.Element, error) {
	fill, err := defs.paint(r.Fill)
	if err != nil {
		return nil, err
	}
	stroke, err := strokeColor(defs, r)
	if err != nil {
		return nil, err
	}

	rect := vizhtml.TagRect.New(nil).
		Set("x", num(r.X)).
		Set("y", num(r.Y)).
		Set("width", num(r.Width)).
		Set("height", num(r.Height))
	if r.RX != 0 || r.RY != 0 {
		rect.Set("rx", num(r.RX)).Set("ry", num(r.RY))
	}
	rect.Set("fill", fill).Set("stroke", stroke)
	if r.StrokeWidth != nil {
		rect.Set("stroke-width", num(*r.StrokeWidth))
	}
	if r.StrokeDashArray != "" && r.StrokeDashArray != color.None {
		rect.Set("stroke-dasharray", r.StrokeDashArray)
	}
	if r.Roughness > 0 {
		rect.Set("data-roughness", num(r.Roughness))
	}

	g := vizhtml.TagG.New(vizhtml.Attrs{"class_": "vizb-rect"}, rect)
	if r.Text == "" {
		return g, nil
	}

	textColor := r.TextColor
	if opts.AutoTextColor {
		textColor = color.ContrastText(r.Fill)
	}
	textColor, err = defs.paint(textColor)
	if err != nil {
		return nil, err
	}
	cx, cy := r.X+r.Width/2, r.Y+r.Height/2
	text := vizhtml.TagText.New(nil).
		Set("x", num(cx)).
		Set("y", num(cy)).
		Set("text-anchor", "middle").
		Set("dominant-baseline", "central").
		Set("font-size", r.FontSize).
		Set("fill", textColor)
	if r.TextOrientation == vizshape.Vertical {
		text.Set("transform", fmt.Sprintf("rotate(-90 %s %s)", num(cx), num(cy)))
	}
	return g.Append(text.Append(r.Text)), nil
}

// strokeColor resolves "auto" to a darker shade of the fill.
func strokeColor(defs *defs, r vizshape.Rect) (string, error) {
	if r.StrokeColor != color.Auto {
		return defs.paint(r.StrokeColor)
	}
	if color.IsPassthrough(r.Fill) {
		return color.Black, nil
	}
	return color.Darken(r.Fill)
}

// defs collects gradient definitions, one per distinct gradient.
type defs struct {
	seen map[string]struct{}
	els  []*vizhtml.Element
}

func newDefs() *defs {
	return &defs{seen: make(map[string]struct{})}
}

// paint normalizes c into an SVG paint value, defining gradients as needed.
func (d *defs) paint(c string) (string, error) {
	if !color.IsGradient(c) {
		return color.Normalize(c)
	}
	g, err := color.ParseGradient(c)
	if err != nil {
		return "", err
	}
	if _, ok := d.seen[g.ID]; !ok {
		d.seen[g.ID] = struct{}{}
		d.els = append(d.els, g.Element())
	}
	return g.URL(), nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
