package vizhtml

// Tag names a common element. Any string works with New; these exist for
// readability at call sites.
type Tag string

const (
	TagA      Tag = "a"
	TagBody   Tag = "body"
	TagBr     Tag = "br"
	TagCode   Tag = "code"
	TagDiv    Tag = "div"
	TagH1     Tag = "h1"
	TagH2     Tag = "h2"
	TagHead   Tag = "head"
	TagHTML   Tag = "html"
	TagImg    Tag = "img"
	TagLink   Tag = "link"
	TagMeta   Tag = "meta"
	TagP      Tag = "p"
	TagPre    Tag = "pre"
	TagScript Tag = "script"
	TagSpan   Tag = "span"
	TagStyle  Tag = "style"
	TagTable  Tag = "table"
	TagTd     Tag = "td"
	TagTitle  Tag = "title"
	TagTr     Tag = "tr"

	// SVG
	TagSVG  Tag = "svg"
	TagG    Tag = "g"
	TagRect Tag = "rect"
	TagText Tag = "text"
	TagDefs Tag = "defs"
)

func (t Tag) New(attrs Attrs, children ...interface{}) *Element {
	return New(string(t), attrs, children...)
}

func Div(attrs Attrs, children ...interface{}) *Element {
	return TagDiv.New(attrs, children...)
}

func Span(attrs Attrs, children ...interface{}) *Element {
	return TagSpan.New(attrs, children...)
}

// Script wraps JavaScript source in a script element.
func Script(code string) *Element {
	return TagScript.New(Attrs{"type": "text/javascript"}, code)
}

func Style(css string) *Element {
	return TagStyle.New(nil, css)
}

// SVG is New without case normalization, for case sensitive SVG names such
// as linearGradient.
func SVG(tag string, attrs Attrs, children ...interface{}) *Element {
	e := New(tag, attrs, children...)
	e.Tag = tag
	return e
}
