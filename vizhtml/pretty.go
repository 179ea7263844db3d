package vizhtml

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"cdr.dev/slog"
	"github.com/PuerkitoBio/goquery"
	"github.com/ditashi/jsbeautifier-go/jsbeautifier"
	tparse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"oss.terrastruct.com/vizb/lib/log"
)

const indentUnit = "  "

var errUnbalanced = errors.New("unbalanced brackets")

// Render returns the markup of e, indented when pretty is set.
func (e *Element) Render(ctx context.Context, pretty bool) string {
	if pretty {
		return e.Pretty(ctx)
	}
	return e.String()
}

// Pretty returns the indented markup of e. See Prettify.
func (e *Element) Pretty(ctx context.Context) string {
	return Prettify(ctx, e.String())
}

// Prettify re-indents markup and beautifies the contents of style and script
// elements. It is cosmetic and best effort: on any failure a warning is
// logged and s is returned unchanged.
func Prettify(ctx context.Context, s string) string {
	out, err := prettify(s)
	if err != nil {
		log.Warn(ctx, "failed to prettify html, returning it unformatted", slog.Error(err))
		return s
	}
	return out
}

func prettify(s string) (string, error) {
	root, nodes, err := parse(s)
	if err != nil {
		return "", err
	}

	doc := goquery.NewDocumentFromNode(root)
	err = beautifyEach(doc.Find("style"), beautifyCSS)
	if err != nil {
		return "", fmt.Errorf("style: %w", err)
	}
	err = beautifyEach(doc.Find("script"), beautifyJS)
	if err != nil {
		return "", fmt.Errorf("script: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		writePretty(&sb, n, 0)
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// parse returns a root to search from and the top level nodes of s. Documents
// and html, head or body elements are parsed as a whole document so that
// their structure survives. Anything else is parsed as a fragment in the
// context its leading tag needs, e.g. a tr inside a tbody.
func parse(s string) (*xhtml.Node, []*xhtml.Node, error) {
	tag := leadingTag(s)
	switch tag {
	case "!doctype", "html", "head", "body":
		doc, err := xhtml.Parse(strings.NewReader(s))
		if err != nil {
			return nil, nil, err
		}
		if tag == "!doctype" || tag == "html" {
			var nodes []*xhtml.Node
			for c := doc.FirstChild; c != nil; c = c.NextSibling {
				nodes = append(nodes, c)
			}
			return doc, nodes, nil
		}
		var nodes []*xhtml.Node
		for _, name := range []string{"head", "body"} {
			if name != tag && !strings.Contains(strings.ToLower(s), "<"+name) {
				continue
			}
			if n := goquery.NewDocumentFromNode(doc).Find(name).First(); n.Length() > 0 {
				nodes = append(nodes, n.Get(0))
			}
		}
		return doc, nodes, nil
	}

	parent := fragmentContext(tag)
	root := &xhtml.Node{
		Type:     xhtml.ElementNode,
		Data:     parent,
		DataAtom: atom.Lookup([]byte(parent)),
	}
	nodes, err := xhtml.ParseFragment(strings.NewReader(s), root)
	if err != nil {
		return nil, nil, err
	}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nodes, nil
}

// leadingTag returns the lowercased name of the first tag in s, "!doctype"
// for a doctype or "" when s does not start with a tag.
func leadingTag(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") {
		return ""
	}
	s = strings.ToLower(s[1:])
	if strings.HasPrefix(s, "!doctype") {
		return "!doctype"
	}
	end := strings.IndexAny(s, " \t\n\r\f/>")
	if end == -1 {
		return s
	}
	return s[:end]
}

func fragmentContext(tag string) string {
	switch tag {
	case "tr":
		return "tbody"
	case "td", "th":
		return "tr"
	case "thead", "tbody", "tfoot", "caption", "colgroup":
		return "table"
	case "col":
		return "colgroup"
	case "option", "optgroup":
		return "select"
	default:
		return "body"
	}
}

func beautifyEach(sel *goquery.Selection, fn func(string) (string, error)) (err error) {
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, n := range s.Nodes {
			text := n.FirstChild
			if text == nil || text.Type != xhtml.TextNode || text.NextSibling != nil {
				continue
			}
			var out string
			out, err = fn(text.Data)
			if err != nil {
				return false
			}
			text.Data = out
		}
		return true
	})
	return err
}

func writePretty(sb *strings.Builder, n *xhtml.Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	switch n.Type {
	case xhtml.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return
		}
		sb.WriteString(indent)
		sb.WriteString(html.EscapeString(text))
		sb.WriteByte('\n')
	case xhtml.CommentNode:
		fmt.Fprintf(sb, "%s<!--%s-->\n", indent, n.Data)
	case xhtml.DoctypeNode:
		fmt.Fprintf(sb, "%s<!DOCTYPE %s>\n", indent, n.Data)
	case xhtml.ElementNode:
		writePrettyElement(sb, n, depth)
	}
}

func writePrettyElement(sb *strings.Builder, n *xhtml.Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	sb.WriteString(indent)
	sb.WriteByte('<')
	sb.WriteString(n.Data)
	for _, a := range n.Attr {
		sb.WriteByte(' ')
		if a.Namespace != "" {
			sb.WriteString(a.Namespace)
			sb.WriteByte(':')
		}
		fmt.Fprintf(sb, `%s="%s"`, a.Key, html.EscapeString(a.Val))
	}
	if IsVoid(n.Data) {
		sb.WriteString(" />\n")
		return
	}
	sb.WriteByte('>')

	switch n.Data {
	case "pre", "textarea":
		// Whitespace is significant.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			_ = xhtml.Render(sb, c)
		}
		fmt.Fprintf(sb, "</%s>\n", n.Data)
		return
	case "script", "style":
		if n.FirstChild == nil || strings.TrimSpace(n.FirstChild.Data) == "" {
			fmt.Fprintf(sb, "</%s>\n", n.Data)
			return
		}
		sb.WriteByte('\n')
		data := n.FirstChild.Data
		var continued []bool
		if n.Data == "script" {
			_, continued = scanJS(data)
		}
		for i, line := range strings.Split(data, "\n") {
			// Lines inside a template literal or comment are written as is.
			if i < len(continued) && continued[i] {
				sb.WriteString(line)
				sb.WriteByte('\n')
				continue
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			sb.WriteString(indent)
			sb.WriteString(indentUnit)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		fmt.Fprintf(sb, "%s</%s>\n", indent, n.Data)
		return
	}

	if n.FirstChild == nil {
		fmt.Fprintf(sb, "</%s>\n", n.Data)
		return
	}
	if c := n.FirstChild; c.NextSibling == nil && c.Type == xhtml.TextNode && !strings.Contains(strings.TrimSpace(c.Data), "\n") {
		fmt.Fprintf(sb, "%s</%s>\n", html.EscapeString(strings.TrimSpace(c.Data)), n.Data)
		return
	}

	sb.WriteByte('\n')
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writePretty(sb, c, depth+1)
	}
	fmt.Fprintf(sb, "%s</%s>\n", indent, n.Data)
}

// beautifyCSS puts every declaration and brace on its own line, indented by
// nesting depth.
func beautifyCSS(src string) (string, error) {
	l := css.NewLexer(tparse.NewInputString(src))
	var lines []string
	var cur strings.Builder
	depth := 0
	space := false

	flush := func() {
		if line := strings.TrimSpace(cur.String()); line != "" {
			lines = append(lines, strings.Repeat(indentUnit, depth)+line)
		}
		cur.Reset()
		space = false
	}
	write := func(b []byte) {
		if space && cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		space = false
		cur.Write(b)
	}

	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if !errors.Is(l.Err(), io.EOF) {
				return "", l.Err()
			}
			flush()
			if depth != 0 {
				return "", errUnbalanced
			}
			return strings.Join(lines, "\n"), nil
		case css.WhitespaceToken:
			space = true
		case css.LeftBraceToken:
			space = true
			write(data)
			flush()
			depth++
		case css.RightBraceToken:
			flush()
			depth--
			if depth < 0 {
				return "", errUnbalanced
			}
			write(data)
			flush()
		case css.SemicolonToken:
			space = false
			write(data)
			flush()
		default:
			write(data)
		}
	}
}

// beautifyJS formats src with jsbeautifier. When formatting would change any
// string or template literal, src is returned as is.
func beautifyJS(src string) (string, error) {
	opts := make(map[string]interface{})
	for k, v := range jsbeautifier.DefaultOptions() {
		opts[k] = v
	}
	opts["indent_size"] = len(indentUnit)
	opts["indent_char"] = " "

	out, err := jsbeautifier.Beautify(&src, opts)
	if err != nil {
		return "", err
	}
	before, _ := scanJS(src)
	after, _ := scanJS(out)
	if !equalStrings(before, after) {
		return src, nil
	}
	return out, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

const (
	jsCode = iota
	jsSingle
	jsDouble
	jsTemplate
	jsLineComment
	jsBlockComment
)

// scanJS returns the contents of the string and template literals of src,
// template parts split at substitutions, and for every line whether it
// starts inside a template literal or block comment. Regular expression
// literals are not recognized.
func scanJS(src string) (literals []string, continued []bool) {
	rs := []rune(src)
	state := jsCode
	depth := 0
	// Brace depths at which open template substitutions resume the template.
	var resume []int
	var cur strings.Builder

	continued = append(continued, false)
	newline := func() {
		continued = append(continued, state == jsTemplate || state == jsBlockComment ||
			state == jsSingle || state == jsDouble)
	}
	next := func(i int) rune {
		if i+1 < len(rs) {
			return rs[i+1]
		}
		return 0
	}

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch state {
		case jsCode:
			switch {
			case r == '\'':
				state = jsSingle
				cur.Reset()
			case r == '"':
				state = jsDouble
				cur.Reset()
			case r == '`':
				state = jsTemplate
				cur.Reset()
			case r == '/' && next(i) == '/':
				state = jsLineComment
				i++
			case r == '/' && next(i) == '*':
				state = jsBlockComment
				i++
			case r == '{':
				depth++
			case r == '}':
				depth--
				if len(resume) > 0 && resume[len(resume)-1] == depth {
					resume = resume[:len(resume)-1]
					state = jsTemplate
					cur.Reset()
				}
			case r == '\n':
				newline()
			}
		case jsSingle, jsDouble, jsTemplate:
			quote := map[int]rune{jsSingle: '\'', jsDouble: '"', jsTemplate: '`'}[state]
			switch {
			case r == '\\' && i+1 < len(rs):
				cur.WriteRune(r)
				cur.WriteRune(rs[i+1])
				i++
				if rs[i] == '\n' {
					newline()
				}
			case r == quote:
				literals = append(literals, cur.String())
				state = jsCode
			case state == jsTemplate && r == '$' && next(i) == '{':
				literals = append(literals, cur.String())
				resume = append(resume, depth)
				depth++
				i++
				state = jsCode
			default:
				cur.WriteRune(r)
				if r == '\n' {
					newline()
				}
			}
		case jsLineComment:
			if r == '\n' {
				state = jsCode
				newline()
			}
		case jsBlockComment:
			if r == '*' && next(i) == '/' {
				state = jsCode
				i++
			} else if r == '\n' {
				newline()
			}
		}
	}
	return literals, continued
}
