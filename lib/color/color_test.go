package color_test

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/vizb/lib/color"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		in  string
		exp string
	}{
		{in: "red", exp: "#ff0000"},
		{in: "#ABC", exp: "#aabbcc"},
		{in: "rgb(0, 128, 0)", exp: "#008000"},
		{in: "none", exp: "none"},
		{in: "", exp: ""},
		{in: "linear-gradient(red, blue)", exp: "linear-gradient(red, blue)"},
	}
	for _, tc := range tcs {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := color.Normalize(tc.in)
			assert.Success(t, err)
			assert.String(t, tc.exp, got)
		})
	}

	_, err := color.Normalize("nocolor")
	tassert.Error(t, err)
}

func TestContrastText(t *testing.T) {
	t.Parallel()

	assert.String(t, color.White, color.ContrastText("#000000"))
	assert.String(t, color.White, color.ContrastText("navy"))
	assert.String(t, color.Black, color.ContrastText("#ffffff"))
	assert.String(t, color.Black, color.ContrastText("yellow"))
	assert.String(t, color.Black, color.ContrastText("not a color"))
}

func TestDarken(t *testing.T) {
	t.Parallel()

	d, err := color.Darken("#ffffff")
	assert.Success(t, err)
	assert.String(t, "#e6e6e6", d)

	l1, err := color.Luminance("#4488cc")
	assert.Success(t, err)
	d, err = color.Darken("#4488cc")
	assert.Success(t, err)
	l2, err := color.Luminance(d)
	assert.Success(t, err)
	tassert.Less(t, l2, l1)
}

func TestGradient(t *testing.T) {
	t.Parallel()

	g, err := color.ParseGradient("linear-gradient(to right, red, rgb(0, 0, 255) 80%)")
	assert.Success(t, err)
	assert.String(t, "linear", g.Type)
	assert.String(t, "to right", g.Direction)
	tassert.Equal(t, []color.Stop{{Color: "red"}, {Color: "rgb(0, 0, 255)", Position: "80%"}}, g.Stops)
	assert.True(t, color.IsURLGradientID(g.URL()))
	assert.True(t, color.IsPassthrough(g.URL()))

	el := g.Element()
	assert.String(t, `<linearGradient id="`+g.ID+`" x1="0%" y1="50%" x2="100%" y2="50%"><stop offset="0.00%" stop-color="red" /><stop offset="80%" stop-color="rgb(0, 0, 255)" /></linearGradient>`, el.String())

	g, err = color.ParseGradient("radial-gradient(circle, white, black)")
	assert.Success(t, err)
	assert.String(t, `<radialGradient id="`+g.ID+`"><stop offset="0.00%" stop-color="white" /><stop offset="100.00%" stop-color="black" /></radialGradient>`, g.Element().String())

	_, err = color.ParseGradient("conic-gradient(red, blue)")
	tassert.Error(t, err)
	_, err = color.ParseGradient("linear-gradient(45deg)")
	tassert.Error(t, err)
}
