package color

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"oss.terrastruct.com/vizb/vizhtml"
)

// Gradient is a parsed CSS linear-gradient or radial-gradient.
type Gradient struct {
	Type      string
	Direction string
	Stops     []Stop
	ID        string
}

type Stop struct {
	Color    string
	Position string
}

var (
	gradientRe      = regexp.MustCompile(`^(linear|radial)-gradient\((.+)\)$`)
	urlGradientIDRe = regexp.MustCompile(`^url\('#grad-[a-f0-9]{40}'\)$`)
)

func IsGradient(colorString string) bool {
	return gradientRe.MatchString(strings.TrimSpace(colorString))
}

func IsURLGradientID(colorString string) bool {
	return urlGradientIDRe.MatchString(colorString)
}

// ParseGradient parses css. The ID is derived from css so equal gradients
// share one definition.
func ParseGradient(css string) (Gradient, error) {
	css = strings.TrimSpace(css)
	m := gradientRe.FindStringSubmatch(css)
	if m == nil {
		return Gradient{}, errors.New("invalid gradient syntax")
	}
	g := Gradient{
		Type: m[1],
		ID:   GradientID(css),
	}

	params := splitTopLevel(m[2])
	first := strings.TrimSpace(params[0])
	switch {
	case g.Type == "linear" && (strings.HasSuffix(first, "deg") || strings.HasPrefix(first, "to ")),
		g.Type == "radial" && (first == "circle" || first == "ellipse"):
		g.Direction = first
		params = params[1:]
	}
	for _, p := range params {
		p = strings.TrimSpace(p)
		stop := Stop{Color: p}
		if i := strings.LastIndexByte(p, ' '); i > 0 && isPosition(p[i+1:]) {
			stop = Stop{Color: strings.TrimSpace(p[:i]), Position: p[i+1:]}
		}
		if stop.Color != "" {
			g.Stops = append(g.Stops, stop)
		}
	}
	if len(g.Stops) == 0 {
		return Gradient{}, errors.New("no color stops in gradient")
	}
	return g, nil
}

// splitTopLevel splits on commas outside parentheses, so rgb(...) stops
// stay whole.
func splitTopLevel(s string) []string {
	var parts []string
	var buf strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case ',':
			if depth == 0 {
				parts = append(parts, buf.String())
				buf.Reset()
				continue
			}
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
		buf.WriteRune(r)
	}
	return append(parts, buf.String())
}

func isPosition(s string) bool {
	s = strings.TrimSuffix(strings.TrimSuffix(s, "%"), "px")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func GradientID(css string) string {
	h := sha1.Sum([]byte(css))
	return "grad-" + hex.EncodeToString(h[:])
}

// URL is the fill value referencing g's definition.
func (g Gradient) URL() string {
	return fmt.Sprintf("url('#%s')", g.ID)
}

// Element returns the SVG definition of g, to be placed in <defs>.
func (g Gradient) Element() *vizhtml.Element {
	var el *vizhtml.Element
	if g.Type == "radial" {
		el = vizhtml.SVG("radialGradient", vizhtml.Attrs{"id": g.ID})
	} else {
		x1, y1, x2, y2 := linearVector(g.Direction)
		el = vizhtml.SVG("linearGradient", nil).
			Set("id", g.ID).
			Set("x1", x1).Set("y1", y1).
			Set("x2", x2).Set("y2", y2)
	}
	for i, s := range g.Stops {
		offset := s.Position
		if offset == "" {
			offset = "0%"
			if len(g.Stops) > 1 {
				offset = fmt.Sprintf("%.2f%%", float64(i)/float64(len(g.Stops)-1)*100)
			}
		}
		el.Append(vizhtml.SVG("stop", nil).Set("offset", offset).Set("stop-color", s.Color))
	}
	return el
}

// linearVector maps a CSS direction to SVG gradient coordinates. The CSS
// default is top to bottom.
func linearVector(direction string) (x1, y1, x2, y2 string) {
	direction = strings.TrimSpace(direction)
	switch {
	case strings.HasPrefix(direction, "to "):
		x1, y1, x2, y2 = "50%", "50%", "50%", "50%"
		for _, side := range strings.Fields(strings.TrimPrefix(direction, "to ")) {
			switch side {
			case "left":
				x1, x2 = "100%", "0%"
			case "right":
				x1, x2 = "0%", "100%"
			case "top":
				y1, y2 = "100%", "0%"
			case "bottom":
				y1, y2 = "0%", "100%"
			}
		}
		return x1, y1, x2, y2
	case strings.HasSuffix(direction, "deg"):
		deg, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(direction, "deg")), 64)
		if err != nil {
			break
		}
		rad := (deg - 90) * math.Pi / 180
		dx, dy := 50*math.Cos(rad), 50*math.Sin(rad)
		pct := func(v float64) string { return fmt.Sprintf("%.2f%%", v) }
		return pct(50 - dx), pct(50 - dy), pct(50 + dx), pct(50 + dy)
	}
	return "0%", "0%", "0%", "100%"
}
