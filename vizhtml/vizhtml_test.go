package vizhtml_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/vizb/lib/log"
	"oss.terrastruct.com/vizb/vizhtml"
)

func TestString(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		el   *vizhtml.Element
		exp  string
	}{
		{
			name: "empty",
			el:   vizhtml.New("div", nil),
			exp:  `<div></div>`,
		},
		{
			name: "lowercase_tag",
			el:   vizhtml.New("DIV", nil, "x"),
			exp:  `<div>x</div>`,
		},
		{
			name: "attrs_sorted",
			el:   vizhtml.New("div", vizhtml.Attrs{"id": "a", "class_": "box"}, "hi"),
			exp:  `<div class="box" id="a">hi</div>`,
		},
		{
			name: "trailing_underscore_stripped",
			el:   vizhtml.New("label", vizhtml.Attrs{"for_": "name"}),
			exp:  `<label for="name"></label>`,
		},
		{
			name: "stripped_duplicate_merged",
			el:   vizhtml.New("div", vizhtml.Attrs{"class": "a", "class_": "b"}),
			exp:  `<div class="b"></div>`,
		},
		{
			name: "attr_value_escaped",
			el:   vizhtml.New("a", vizhtml.Attrs{"title": `"quoted" & <b>`}),
			exp:  `<a title="&#34;quoted&#34; &amp; &lt;b&gt;"></a>`,
		},
		{
			name: "attr_value_coerced",
			el:   vizhtml.New("rect", vizhtml.Attrs{"width": 12.5, "height": 3, "visible": true}),
			exp:  `<rect height="3" visible="true" width="12.5"></rect>`,
		},
		{
			name: "text_escaped",
			el:   vizhtml.New("div", nil, "<script>"),
			exp:  `<div>&lt;script&gt;</div>`,
		},
		{
			name: "nil_children_dropped",
			el:   vizhtml.New("p", nil, nil, "a", (*vizhtml.Element)(nil), "b"),
			exp:  `<p>ab</p>`,
		},
		{
			name: "nested",
			el:   vizhtml.New("ul", nil, vizhtml.New("li", nil, "one"), vizhtml.New("li", nil, 2)),
			exp:  `<ul><li>one</li><li>2</li></ul>`,
		},
		{
			name: "void",
			el:   vizhtml.New("img", vizhtml.Attrs{"src": "a.png"}),
			exp:  `<img src="a.png" />`,
		},
		{
			name: "void_drops_children",
			el:   vizhtml.New("br", vizhtml.Attrs{"class_": "x"}, "child", vizhtml.New("span", nil)),
			exp:  `<br class="x" />`,
		},
		{
			name: "raw",
			el:   vizhtml.New("div", nil, vizhtml.Raw("<b>bold</b>")),
			exp:  `<div><b>bold</b></div>`,
		},
		{
			name: "script_raw_text",
			el:   vizhtml.Script(`if (a < b && c) { x = "</script>"; }`),
			exp:  `<script type="text/javascript">if (a < b && c) { x = "<\/script>"; }</script>`,
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.String(t, tc.exp, tc.el.String())
			assert.String(t, tc.exp, string(tc.el.HTML()))
		})
	}
}

func TestAppend(t *testing.T) {
	t.Parallel()

	div := vizhtml.Div(nil)
	got := div.Append("a").Append([]interface{}{"b", nil, vizhtml.Span(nil, "c")}, []string{"d", "e"})
	if got != div {
		t.Fatal("Append must return the receiver")
	}
	assert.String(t, `<div>ab<span>c</span>de</div>`, div.String())
	assert.Equal(t, 5, len(div.Children))
}

func TestSet(t *testing.T) {
	t.Parallel()

	el := vizhtml.New("div", vizhtml.Attrs{"b": 1, "a": 2})
	el.Set("z", 3).Set("c", 4).Set("a", 5)
	assert.String(t, `<div a="5" b="1" z="3" c="4"></div>`, el.String())
	tassert.Equal(t, []string{"a", "b", "z", "c"}, el.AttrKeys())

	v, ok := el.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	el = vizhtml.Div(vizhtml.Attrs{"class_": "x"}).Set("class", "y")
	assert.String(t, `<div class="y"></div>`, el.String())
	tassert.Equal(t, []string{"class_"}, el.AttrKeys())
	v, ok = el.Get("class")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	ok := vizhtml.Div(nil, vizhtml.New("br", nil), "text")
	assert.Success(t, ok.Validate())

	bad := vizhtml.Div(nil, vizhtml.Span(nil, vizhtml.New("input", nil, "nope")))
	err := bad.Validate()
	if !errors.Is(err, vizhtml.ErrVoidChildren) {
		t.Fatalf("expected ErrVoidChildren, got %v", err)
	}
	assert.ErrorString(t, err, "void element cannot have children: <input> has 1")
}

func TestPrettify(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   string
		exp  string
	}{
		{
			name: "nested",
			in:   `<div><p>hi</p><br /></div>`,
			exp: `<div>
  <p>hi</p>
  <br />
</div>`,
		},
		{
			name: "escapes_text",
			in:   `<p>a &lt; b</p>`,
			exp:  `<p>a &lt; b</p>`,
		},
		{
			name: "script",
			in:   "<div><script>function f(){return 1}</script></div>",
			exp: `<div>
  <script>
    function f() {
      return 1
    }
  </script>
</div>`,
		},
		{
			name: "style",
			in:   `<style>a{color:red;b:c}</style>`,
			exp: `<style>
  a {
    color:red;
    b:c
  }
</style>`,
		},
		{
			name: "document",
			in:   "<html><head><title>t</title></head><body><div>x</div></body></html>",
			exp: `<html>
  <head>
    <title>t</title>
  </head>
  <body>
    <div>x</div>
  </body>
</html>`,
		},
		{
			name: "doctype",
			in:   "<!doctype html><html><body><p>x</p></body></html>",
			exp: `<!DOCTYPE html>
<html>
  <head></head>
  <body>
    <p>x</p>
  </body>
</html>`,
		},
		{
			name: "body",
			in:   "<body><p>x</p></body>",
			exp: `<body>
  <p>x</p>
</body>`,
		},
		{
			name: "table_row",
			in:   "<tr><td>1</td><td>2</td></tr>",
			exp: `<tr>
  <td>1</td>
  <td>2</td>
</tr>`,
		},
		{
			name: "pre_untouched",
			in:   "<pre>  a\n   b</pre>",
			exp:  "<pre>  a\n   b</pre>",
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx := log.WithTB(context.Background(), t, nil)
			assert.String(t, tc.exp, vizhtml.Prettify(ctx, tc.in))
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	el := vizhtml.Div(vizhtml.Attrs{"class_": "box"}, vizhtml.New("p", nil, "hi"))
	assert.String(t, `<div class="box"><p>hi</p></div>`, el.Render(ctx, false))
	assert.String(t, "<div class=\"box\">\n  <p>hi</p>\n</div>", el.Render(ctx, true))
}

func TestPrettifyTemplateLiteral(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	lit := "`a\n    b\n\nc`"
	out := vizhtml.Prettify(ctx, "<div><script>var s = "+lit+";</script></div>")
	tassert.Contains(t, out, lit)
	tassert.True(t, strings.HasPrefix(out, "<div>\n  <script>\n    var s = `a\n"), out)

	out = vizhtml.Prettify(ctx, "<script>var s = 'x  y';</script>")
	tassert.Contains(t, out, "'x  y'")
}

func TestPrettifyDegrades(t *testing.T) {
	t.Parallel()

	ctx := log.WithTB(context.Background(), t, nil)
	in := `<style>a { color: red; }}</style>`
	assert.String(t, in, vizhtml.Prettify(ctx, in))

	el := vizhtml.Div(nil, vizhtml.Style("a { color: red; "))
	assert.String(t, el.String(), el.Pretty(ctx))
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	md, err := vizhtml.Markdown("# Title\n\nsome ~~old~~ *text*")
	assert.Success(t, err)

	div := vizhtml.Div(nil, md)
	assert.String(t, "<div><h1>Title</h1>\n<p>some <del>old</del> <em>text</em></p>\n</div>", div.String())
}

func TestCode(t *testing.T) {
	t.Parallel()

	el, err := vizhtml.Code("go", "package main\n")
	assert.Success(t, err)
	s := el.String()
	tassert.True(t, strings.HasPrefix(s, `<div class="vizb-code" data-language="go"><pre`))
	tassert.Contains(t, s, "package")

	el, err = vizhtml.Code("not-a-language", "plain text")
	assert.Success(t, err)
	tassert.Contains(t, el.String(), "plain text")
}
