package vizshape

import (
	"errors"

	"oss.terrastruct.com/util-go/go2"
)

var ErrEmptyInput = errors.New("empty input: no shapes to center")

// HStack lays shapes out left to right. Each shape's left edge is placed at
// a running offset that starts at 0 and advances by the shape's width plus
// padding. With center, shapes are first moved down so that they are
// vertically centered against the tallest one.
func HStack(shapes []Shape, padding float64, center bool) (Rects, error) {
	return stack(shapes, padding, center, true)
}

// VStack is the vertical counterpart of HStack: shapes go top to bottom and
// center aligns them horizontally against the widest one.
func VStack(shapes []Shape, padding float64, center bool) (Rects, error) {
	return stack(shapes, padding, center, false)
}

// Grid repeats shape cols times per row and rows times overall. Each cell is
// an independent copy. Non-positive rows or cols yield an empty collection.
func Grid(shape Shape, rows, cols int, rowPadding, colPadding float64) Rects {
	if rows <= 0 || cols <= 0 {
		return Rects{}
	}
	// Stacking only fails when centering an empty list.
	row, _ := HStack(repeat(shape, cols), colPadding, false)
	grid, _ := VStack(repeat(row, rows), rowPadding, false)
	return grid
}

func repeat(s Shape, n int) []Shape {
	out := make([]Shape, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func stack(shapes []Shape, padding float64, center, horizontal bool) (Rects, error) {
	if center {
		if len(shapes) == 0 {
			return nil, ErrEmptyInput
		}
		shapes = centerShapes(shapes, horizontal)
	}

	out := Rects{}
	offset := 0.
	for _, s := range shapes {
		b := s.BoundingRect()
		if horizontal {
			s = s.Translate(offset-b.X, 0)
			offset += b.Width + padding
		} else {
			s = s.Translate(0, offset-b.Y)
			offset += b.Height + padding
		}
		out = append(out, s.Shapes()...)
	}
	return out, nil
}

// centerShapes moves every shape along the cross axis by half the difference
// between its extent and the largest extent.
func centerShapes(shapes []Shape, horizontal bool) []Shape {
	crossExtent := func(b Rect) float64 {
		if horizontal {
			return b.Height
		}
		return b.Width
	}

	largest := 0.
	for _, s := range shapes {
		largest = go2.Max(largest, crossExtent(s.BoundingRect()))
	}

	centered := make([]Shape, 0, len(shapes))
	for _, s := range shapes {
		d := (largest - crossExtent(s.BoundingRect())) / 2
		if horizontal {
			centered = append(centered, s.Translate(0, d))
		} else {
			centered = append(centered, s.Translate(d, 0))
		}
	}
	return centered
}
