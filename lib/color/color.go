package color

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

const (
	Black = "#000000"
	White = "#ffffff"

	// Special
	Empty = ""
	None  = "none"
	Auto  = "auto"
)

// IsPassthrough reports whether colorString is a value SVG understands but
// that is not a plain CSS color, e.g. "none" or a gradient.
func IsPassthrough(colorString string) bool {
	switch strings.TrimSpace(colorString) {
	case Empty, None, Auto, "transparent", "currentColor":
		return true
	}
	return IsGradient(colorString) || IsURLGradientID(colorString)
}

// Normalize converts any CSS color to its hex form. Passthrough values are
// returned unchanged.
func Normalize(colorString string) (string, error) {
	if IsPassthrough(colorString) {
		return colorString, nil
	}
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	return c.HexString(), nil
}

func Darken(colorString string) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	// decrease luminance by 10%
	return colorful.Hsl(h, s, l-.1).Clamped().Hex(), nil
}

func LuminanceCategory(colorString string) (string, error) {
	l, err := Luminance(colorString)
	if err != nil {
		return "", err
	}

	switch {
	case l >= .88:
		return "bright", nil
	case l >= .55:
		return "normal", nil
	case l >= .30:
		return "dark", nil
	default:
		return "darker", nil
	}
}

func Luminance(colorString string) (float64, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return 0, err
	}

	l := float64(
		float64(0.299)*float64(c.R) +
			float64(0.587)*float64(c.G) +
			float64(0.114)*float64(c.B),
	)
	return l, nil
}

// ContrastText picks black or white text for legibility on fill.
func ContrastText(fill string) string {
	cat, err := LuminanceCategory(fill)
	if err != nil {
		return Black
	}
	switch cat {
	case "dark", "darker":
		return White
	}
	return Black
}
