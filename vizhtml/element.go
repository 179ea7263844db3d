// Package vizhtml builds HTML (and SVG) element trees programmatically and
// serializes them to markup.
//
// Any tag name is accepted:
//
//	div := vizhtml.New("div", vizhtml.Attrs{"class_": "box"}, "Hello")
//	div.Append(vizhtml.New("br", nil))
//
// Attribute names lose trailing underscores when serialized so that names
// such as class_ or for_ can be used where the bare word is awkward.
package vizhtml

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"
)

// Attrs maps attribute names to values. Values are converted with fmt.Sprint
// and escaped when serialized.
type Attrs map[string]interface{}

// Raw is trusted markup that is written verbatim.
type Raw string

var ErrVoidChildren = errors.New("void element cannot have children")

var voidTags = map[string]struct{}{
	"area":   {},
	"base":   {},
	"br":     {},
	"col":    {},
	"embed":  {},
	"hr":     {},
	"img":    {},
	"input":  {},
	"link":   {},
	"meta":   {},
	"param":  {},
	"source": {},
	"track":  {},
	"wbr":    {},
}

// Contents of these elements are raw text in HTML and are never entity
// escaped.
var rawTextTags = map[string]struct{}{
	"script": {},
	"style":  {},
}

func IsVoid(tag string) bool {
	_, ok := voidTags[strings.ToLower(tag)]
	return ok
}

type Element struct {
	Tag      string
	Children []interface{}

	keys  []string
	attrs map[string]interface{}
}

// New returns an element with the given tag, attributes and children. The
// tag is lowercased and nil children are dropped. Initial attributes are
// serialized in sorted key order, so of class and class_ the latter wins.
func New(tag string, attrs Attrs, children ...interface{}) *Element {
	e := &Element{
		Tag:   strings.ToLower(tag),
		attrs: make(map[string]interface{}, len(attrs)),
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Set(k, attrs[k])
	}
	return e.Append(children...)
}

// Append adds children to e and returns e. Slices of children are
// flattened and nil entries are dropped.
func (e *Element) Append(children ...interface{}) *Element {
	for _, c := range children {
		e.appendChild(c)
	}
	return e
}

func (e *Element) appendChild(c interface{}) {
	switch c := c.(type) {
	case nil:
	case *Element:
		if c != nil {
			e.Children = append(e.Children, c)
		}
	case []interface{}:
		e.Append(c...)
	case []*Element:
		for _, el := range c {
			e.appendChild(el)
		}
	case []string:
		for _, s := range c {
			e.Children = append(e.Children, s)
		}
	case []Raw:
		for _, r := range c {
			e.Children = append(e.Children, r)
		}
	default:
		e.Children = append(e.Children, c)
	}
}

// Set sets an attribute. New keys are serialized after existing ones. Keys
// that serialize to the same name are one attribute: Set("class_", v) after
// Set("class", u) replaces u in place.
func (e *Element) Set(key string, value interface{}) *Element {
	if e.attrs == nil {
		e.attrs = make(map[string]interface{})
	}
	k, ok := e.key(key)
	if !ok {
		e.keys = append(e.keys, key)
		k = key
	}
	e.attrs[k] = value
	return e
}

func (e *Element) Get(key string) (interface{}, bool) {
	k, ok := e.key(key)
	if !ok {
		return nil, false
	}
	return e.attrs[k], true
}

// key returns the stored key serializing to the same name as key.
func (e *Element) key(key string) (string, bool) {
	name := AttrName(key)
	for _, k := range e.keys {
		if AttrName(k) == name {
			return k, true
		}
	}
	return "", false
}

// AttrKeys returns attribute keys in serialization order, as given (before
// trailing underscores are stripped).
func (e *Element) AttrKeys() []string {
	return append([]string(nil), e.keys...)
}

// Validate reports void elements that were given children anywhere in the
// tree. Serialization itself drops such children silently.
func (e *Element) Validate() error {
	if IsVoid(e.Tag) && len(e.Children) > 0 {
		return fmt.Errorf("%w: <%s> has %d", ErrVoidChildren, e.Tag, len(e.Children))
	}
	for _, c := range e.Children {
		if ce, ok := c.(*Element); ok {
			if err := ce.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Element) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

// HTML is the display hook used by notebook hosts and html/template. It
// returns the unformatted markup.
func (e *Element) HTML() template.HTML {
	return template.HTML(e.String())
}

func (e *Element) write(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(e.Tag)
	e.writeAttrs(sb)

	if IsVoid(e.Tag) {
		sb.WriteString(" />")
		return
	}
	sb.WriteByte('>')

	_, rawText := rawTextTags[e.Tag]
	for _, c := range e.Children {
		writeChild(sb, c, rawText)
	}

	sb.WriteString("</")
	sb.WriteString(e.Tag)
	sb.WriteByte('>')
}

func (e *Element) writeAttrs(sb *strings.Builder) {
	for _, k := range e.keys {
		sb.WriteByte(' ')
		sb.WriteString(AttrName(k))
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(fmt.Sprint(e.attrs[k])))
		sb.WriteByte('"')
	}
}

func writeChild(sb *strings.Builder, c interface{}, rawText bool) {
	switch c := c.(type) {
	case *Element:
		c.write(sb)
	case Raw:
		sb.WriteString(string(c))
	case template.HTML:
		sb.WriteString(string(c))
	default:
		s := fmt.Sprint(c)
		if rawText {
			sb.WriteString(EscapeRawText(s))
		} else {
			sb.WriteString(html.EscapeString(s))
		}
	}
}

// AttrName strips the trailing underscores used to avoid reserved words.
func AttrName(k string) string {
	return strings.TrimRight(k, "_")
}

// EscapeRawText neutralises closing tag sequences so that s cannot end the
// script or style element it is embedded in.
func EscapeRawText(s string) string {
	return strings.ReplaceAll(s, "</", `<\/`)
}
