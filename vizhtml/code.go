package vizhtml

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"oss.terrastruct.com/util-go/xdefer"
)

const CodeStyle = "github"

// Code returns a syntax highlighted block for src. Unknown languages are
// rendered as plain text.
func Code(lang, src string) (_ *Element, err error) {
	defer xdefer.Errorf(&err, "failed to highlight %s code", lang)

	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	formatter := chromahtml.New(chromahtml.TabWidth(4))
	err = formatter.Format(&sb, styles.Get(CodeStyle), it)
	if err != nil {
		return nil, err
	}
	return Div(Attrs{"class_": "vizb-code", "data-language": lang}, Raw(sb.String())), nil
}
