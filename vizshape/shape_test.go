package vizshape_test

import (
	"errors"
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/vizb/vizshape"
)

func TestNewRect(t *testing.T) {
	t.Parallel()

	r := vizshape.NewRect(100, 40)
	assert.Equal(t, 0., r.X)
	assert.Equal(t, 0., r.Y)
	assert.String(t, "#000000", r.Fill)
	assert.String(t, "black", r.StrokeColor)
	assert.String(t, "none", r.StrokeDashArray)
	assert.String(t, "black", r.TextColor)
	assert.String(t, vizshape.Horizontal, r.TextOrientation)
	tassert.Nil(t, r.StrokeWidth)
	assert.String(t, "12.0px", r.FontSize)

	r = vizshape.NewRect(100, 40, vizshape.WithFontSize("9px"), vizshape.WithText("hello"))
	assert.String(t, "9px", r.FontSize)
}

func TestDefaultFontSize(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name        string
		w, h        float64
		text        string
		orientation string
		exp         string
	}{
		{
			name: "no_text_height_bound",
			w:    100,
			h:    40,
			exp:  "12.0px",
		},
		{
			name: "width_bound",
			w:    30,
			h:    100,
			text: "abcdefghij",
			exp:  "4.5px",
		},
		{
			name:        "vertical_swaps_axes",
			w:           40,
			h:           100,
			orientation: vizshape.Vertical,
			exp:         "12.0px",
		},
		{
			name: "counts_runes",
			w:    300,
			h:    100,
			text: "héllo",
			exp:  "30.0px",
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.String(t, tc.exp, vizshape.DefaultFontSize(tc.w, tc.h, tc.text, tc.orientation))
		})
	}
}

func TestBoundingRectOfRect(t *testing.T) {
	t.Parallel()

	r := vizshape.NewRect(10, 20, vizshape.WithPos(3, 4), vizshape.WithStrokeWidth(2), vizshape.WithText("x"))
	b := r.BoundingRect()
	assert.True(t, r.Equal(b))

	b = r.BoundingRect(vizshape.WithFill("red"))
	assert.String(t, "red", b.Fill)
	assert.String(t, "#000000", r.Fill)
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	r := vizshape.NewRect(10, 10, vizshape.WithPos(1, 2))
	moved := r.Translate(3, 4).Translate(-1, 5)
	direct := r.Translate(2, 9)
	assert.Equal(t, direct.BoundingRect().X, moved.BoundingRect().X)
	assert.Equal(t, direct.BoundingRect().Y, moved.BoundingRect().Y)
	assert.Equal(t, 1., r.X)
	assert.Equal(t, 2., r.Y)

	rs := vizshape.Rects{vizshape.NewRect(1, 1), vizshape.NewRect(1, 1, vizshape.WithPos(5, 5))}
	got := rs.Translate(10, 20).Shapes()
	assert.Equal(t, 10., got[0].X)
	assert.Equal(t, 20., got[0].Y)
	assert.Equal(t, 15., got[1].X)
	assert.Equal(t, 25., got[1].Y)
	assert.Equal(t, 0., rs[0].X)
}

func TestTranslateDoesNotAlias(t *testing.T) {
	t.Parallel()

	r := vizshape.NewRect(1, 1, vizshape.WithStrokeWidth(2))
	moved := r.Offset(1, 1)
	*moved.StrokeWidth = 5
	assert.Equal(t, 2., *r.StrokeWidth)
}

func TestRectsBoundingRect(t *testing.T) {
	t.Parallel()

	rs := vizshape.Rects{
		vizshape.NewRect(10, 5, vizshape.WithPos(-2, 3)),
		vizshape.NewRect(4, 20, vizshape.WithPos(6, -1)),
	}
	b := rs.BoundingRect()
	assert.Equal(t, -2., b.X)
	assert.Equal(t, -1., b.Y)
	assert.Equal(t, 12., b.Width)
	assert.Equal(t, 21., b.Height)

	b = rs.BoundingRect(vizshape.WithFill("blue"), vizshape.WithText("box"))
	assert.String(t, "blue", b.Fill)
	assert.String(t, "box", b.Text)

	empty := vizshape.Rects{}.BoundingRect()
	assert.Equal(t, 0., empty.Width)
	assert.Equal(t, 0., empty.Height)
}

func TestHStack(t *testing.T) {
	t.Parallel()

	rs, err := vizshape.HStack([]vizshape.Shape{vizshape.NewRect(10, 5), vizshape.NewRect(20, 5)}, 0, false)
	assert.Success(t, err)
	b := rs.BoundingRect()
	assert.Equal(t, 30., b.Width)
	assert.Equal(t, 5., b.Height)
	assert.Equal(t, 0., rs[0].X)
	assert.Equal(t, 10., rs[1].X)

	rs, err = vizshape.HStack([]vizshape.Shape{
		vizshape.NewRect(10, 4, vizshape.WithPos(50, 0)),
		vizshape.NewRect(10, 10),
	}, 3, true)
	assert.Success(t, err)
	assert.Equal(t, 0., rs[0].X)
	assert.Equal(t, 3., rs[0].Y)
	assert.Equal(t, 13., rs[1].X)
	assert.Equal(t, 0., rs[1].Y)
}

func TestVStack(t *testing.T) {
	t.Parallel()

	rs, err := vizshape.VStack([]vizshape.Shape{vizshape.NewRect(10, 5), vizshape.NewRect(10, 20)}, 2, true)
	assert.Success(t, err)
	assert.Equal(t, 0., rs[0].Y)
	assert.Equal(t, 7., rs[1].Y)
	assert.Equal(t, 0., rs[0].X)
	assert.Equal(t, 0., rs[1].X)

	rs, err = vizshape.VStack([]vizshape.Shape{vizshape.NewRect(4, 1), vizshape.NewRect(10, 1)}, 0, true)
	assert.Success(t, err)
	assert.Equal(t, 3., rs[0].X)
	assert.Equal(t, 0., rs[1].X)
}

func TestStackNested(t *testing.T) {
	t.Parallel()

	row, err := vizshape.HStack([]vizshape.Shape{vizshape.NewRect(5, 5), vizshape.NewRect(5, 5)}, 1, false)
	assert.Success(t, err)
	col, err := vizshape.VStack([]vizshape.Shape{row, vizshape.NewRect(3, 3)}, 1, false)
	assert.Success(t, err)
	assert.Equal(t, 3, len(col))
	assert.Equal(t, 6., col[2].Y)
}

func TestStackEmpty(t *testing.T) {
	t.Parallel()

	_, err := vizshape.HStack(nil, 0, true)
	if !errors.Is(err, vizshape.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	tassert.Contains(t, err.Error(), "empty input")

	_, err = vizshape.VStack([]vizshape.Shape{}, 0, true)
	tassert.ErrorIs(t, err, vizshape.ErrEmptyInput)

	rs, err := vizshape.HStack(nil, 5, false)
	assert.Success(t, err)
	assert.Equal(t, 0, len(rs))
}

func TestGrid(t *testing.T) {
	t.Parallel()

	rs := vizshape.Grid(vizshape.NewRect(10, 10), 2, 3, 0, 0)
	assert.Equal(t, 6, len(rs))
	exp := [][2]float64{{0, 0}, {10, 0}, {20, 0}, {0, 10}, {10, 10}, {20, 10}}
	for i, r := range rs {
		assert.Equal(t, exp[i][0], r.X)
		assert.Equal(t, exp[i][1], r.Y)
	}

	rs = vizshape.Grid(vizshape.NewRect(10, 10), 2, 2, 5, 1)
	assert.Equal(t, 11., rs[1].X)
	assert.Equal(t, 15., rs[2].Y)

	assert.Equal(t, 0, len(vizshape.Grid(vizshape.NewRect(1, 1), 0, 3, 0, 0)))
	assert.Equal(t, 0, len(vizshape.Grid(vizshape.NewRect(1, 1), 3, -1, 0, 0)))
}

func TestJSON(t *testing.T) {
	t.Parallel()

	r := vizshape.NewRect(10, 20, vizshape.WithPos(1, 2), vizshape.WithText("hi"), vizshape.WithFill("red"))
	b, err := vizshape.ToJSON(r)
	assert.Success(t, err)
	assert.String(t, `{"width":10,"height":20,"x":1,"y":2,"rx":0,"ry":0,"color":"red","roughness":0,"stroke_color":"black","stroke_dasharray":"none","stroke_width":null,"text":"hi","font_size":"6.0px","text_color":"black","text_orientation":"horizontal"}`, string(b))

	b, err = vizshape.ToJSON(vizshape.Rects{r, r.Offset(5, 0)})
	assert.Success(t, err)
	tassert.True(t, b[0] == '[')

	var got vizshape.Rect
	assert.Success(t, got.UnmarshalJSON([]byte(`{"width":40,"height":10,"stroke_width":2}`)))
	assert.Equal(t, 40., got.Width)
	assert.String(t, "#000000", got.Fill)
	assert.String(t, "3.0px", got.FontSize)
	assert.Equal(t, 2., *got.StrokeWidth)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.Success(t, vizshape.Validate(vizshape.Rects{vizshape.NewRect(1, 1, vizshape.WithFill("rebeccapurple"))}))

	err := vizshape.Validate(vizshape.Rects{vizshape.NewRect(1, 1), vizshape.NewRect(1, 1, vizshape.WithFill("notacolor"))})
	tassert.Error(t, err)
	tassert.Contains(t, err.Error(), `rect 1: invalid color "notacolor"`)

	// The first bad color in field order is reported.
	for i := 0; i < 10; i++ {
		err = vizshape.NewRect(1, 1, vizshape.WithFill("nope"), vizshape.WithStrokeColor("nada"), vizshape.WithTextColor("zilch")).Validate()
		tassert.Error(t, err)
		tassert.Contains(t, err.Error(), `invalid color "nope"`)
	}

	err = vizshape.NewRect(-1, 1).Validate()
	tassert.Error(t, err)
	tassert.Contains(t, err.Error(), "negative size")

	r := vizshape.NewRect(1, 1)
	r.TextOrientation = "diagonal"
	err = r.Validate()
	tassert.Error(t, err)
	tassert.Contains(t, err.Error(), "text_orientation")
}
