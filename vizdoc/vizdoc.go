// Package vizdoc reads layout documents: a tree of rect, hstack, vstack and
// grid nodes written in JSON or TOML, and turns them into vizshape shapes.
//
//	{
//	  "title": "boxes",
//	  "root": {"hstack": {"padding": 4, "items": [
//	    {"rect": {"width": 10, "height": 5, "color": "red"}},
//	    {"grid": {"item": {"rect": {"width": 2, "height": 2}}, "rows": 2, "cols": 2}}
//	  ]}}
//	}
package vizdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/vizb/vizshape"
)

type Document struct {
	Title string `json:"title,omitempty" toml:"title"`
	Root  *Node  `json:"root" toml:"root"`
}

// Node holds exactly one of its fields.
type Node struct {
	Rect   *Rect  `json:"rect,omitempty" toml:"rect"`
	HStack *Stack `json:"hstack,omitempty" toml:"hstack"`
	VStack *Stack `json:"vstack,omitempty" toml:"vstack"`
	Grid   *Grid  `json:"grid,omitempty" toml:"grid"`
}

type Rect struct {
	Width           *float64 `json:"width" toml:"width"`
	Height          *float64 `json:"height" toml:"height"`
	X               float64  `json:"x,omitempty" toml:"x"`
	Y               float64  `json:"y,omitempty" toml:"y"`
	RX              float64  `json:"rx,omitempty" toml:"rx"`
	RY              float64  `json:"ry,omitempty" toml:"ry"`
	Color           string   `json:"color,omitempty" toml:"color"`
	Roughness       float64  `json:"roughness,omitempty" toml:"roughness"`
	StrokeColor     string   `json:"stroke_color,omitempty" toml:"stroke_color"`
	StrokeDashArray string   `json:"stroke_dasharray,omitempty" toml:"stroke_dasharray"`
	StrokeWidth     *float64 `json:"stroke_width,omitempty" toml:"stroke_width"`
	Text            string   `json:"text,omitempty" toml:"text"`
	FontSize        string   `json:"font_size,omitempty" toml:"font_size"`
	TextColor       string   `json:"text_color,omitempty" toml:"text_color"`
	TextOrientation string   `json:"text_orientation,omitempty" toml:"text_orientation"`
}

type Stack struct {
	Padding float64 `json:"padding,omitempty" toml:"padding"`
	Center  bool    `json:"center,omitempty" toml:"center"`
	Items   []*Node `json:"items" toml:"items"`
}

type Grid struct {
	Item       *Node   `json:"item" toml:"item"`
	Rows       int     `json:"rows" toml:"rows"`
	Cols       int     `json:"cols" toml:"cols"`
	RowPadding float64 `json:"row_padding,omitempty" toml:"row_padding"`
	ColPadding float64 `json:"col_padding,omitempty" toml:"col_padding"`
}

type Format string

const (
	JSON Format = "json"
	TOML Format = "toml"
)

// FormatOf picks the format from a file extension. Anything other than
// .toml is read as JSON.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return TOML
	}
	return JSON
}

// Parse reads a JSON document. Unknown fields are rejected.
func Parse(r io.Reader) (*Document, error) {
	return ParseFormat(r, JSON)
}

func ParseFormat(r io.Reader, f Format) (_ *Document, err error) {
	defer xdefer.Errorf(&err, "failed to parse %s layout", f)

	doc := &Document{}
	switch f {
	case TOML:
		md, err := toml.NewDecoder(r).Decode(doc)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown field %s", undecoded[0])
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, err
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseBytes reads data in the format implied by path.
func ParseBytes(path string, data []byte) (*Document, error) {
	return ParseFormat(bytes.NewReader(data), FormatOf(path))
}

// Validate checks the whole tree, reporting the first problem with the path
// of the offending node, e.g. root.hstack.items[1].rect.
func (d *Document) Validate() error {
	if d.Root == nil {
		return fmt.Errorf("root: missing")
	}
	_, err := d.Root.shape("root")
	return err
}

// Shape builds the shape tree of the document.
func (d *Document) Shape() (vizshape.Shape, error) {
	if d.Root == nil {
		return nil, fmt.Errorf("root: missing")
	}
	return d.Root.shape("root")
}

func (n *Node) shape(path string) (vizshape.Shape, error) {
	if n == nil {
		return nil, fmt.Errorf("%s: null node", path)
	}
	set := 0
	for _, ok := range []bool{n.Rect != nil, n.HStack != nil, n.VStack != nil, n.Grid != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%s: node must have exactly one of rect, hstack, vstack or grid, got %d", path, set)
	}

	switch {
	case n.Rect != nil:
		return n.Rect.shape(path + ".rect")
	case n.HStack != nil:
		return n.HStack.shape(path+".hstack", vizshape.HStack)
	case n.VStack != nil:
		return n.VStack.shape(path+".vstack", vizshape.VStack)
	default:
		return n.Grid.shape(path + ".grid")
	}
}

func (r *Rect) shape(path string) (vizshape.Shape, error) {
	if r.Width == nil || r.Height == nil {
		return nil, fmt.Errorf("%s: width and height are required", path)
	}
	opts := []vizshape.Option{
		vizshape.WithPos(r.X, r.Y),
		vizshape.WithRadius(r.RX, r.RY),
		vizshape.WithRoughness(r.Roughness),
		vizshape.WithText(r.Text),
		vizshape.WithFontSize(r.FontSize),
	}
	if r.Color != "" {
		opts = append(opts, vizshape.WithFill(r.Color))
	}
	if r.StrokeColor != "" {
		opts = append(opts, vizshape.WithStrokeColor(r.StrokeColor))
	}
	if r.StrokeDashArray != "" {
		opts = append(opts, vizshape.WithStrokeDashArray(r.StrokeDashArray))
	}
	if r.StrokeWidth != nil {
		opts = append(opts, vizshape.WithStrokeWidth(*r.StrokeWidth))
	}
	if r.TextColor != "" {
		opts = append(opts, vizshape.WithTextColor(r.TextColor))
	}
	if r.TextOrientation == vizshape.Vertical {
		opts = append(opts, vizshape.WithVerticalText())
	} else if r.TextOrientation != "" && r.TextOrientation != vizshape.Horizontal {
		return nil, fmt.Errorf("%s: text_orientation must be %q or %q", path, vizshape.Horizontal, vizshape.Vertical)
	}

	rect := vizshape.NewRect(*r.Width, *r.Height, opts...)
	if err := rect.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rect, nil
}

type stackFunc func([]vizshape.Shape, float64, bool) (vizshape.Rects, error)

func (s *Stack) shape(path string, stack stackFunc) (vizshape.Shape, error) {
	items := make([]vizshape.Shape, 0, len(s.Items))
	for i, item := range s.Items {
		shape, err := item.shape(fmt.Sprintf("%s.items[%d]", path, i))
		if err != nil {
			return nil, err
		}
		items = append(items, shape)
	}
	rs, err := stack(items, s.Padding, s.Center)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

func (g *Grid) shape(path string) (vizshape.Shape, error) {
	if g.Rows < 0 || g.Cols < 0 {
		return nil, fmt.Errorf("%s: rows and cols must not be negative", path)
	}
	item, err := g.Item.shape(path + ".item")
	if err != nil {
		return nil, err
	}
	return vizshape.Grid(item, g.Rows, g.Cols, g.RowPadding, g.ColPadding), nil
}
