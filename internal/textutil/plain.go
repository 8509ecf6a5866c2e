// Package textutil turns slide text with inline markdown or HTML into the
// plain strings placed on a slide.
package textutil

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

// inline only knows paragraphs, so list numbers, quote markers, heading
// hashes and rules stay as written.
var inline = parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
	parser.WithInlineParsers(parser.DefaultInlineParsers()...),
)

// Plain renders inline markdown to its visible text: emphasis markers,
// code backticks, link targets and HTML tags are dropped, entities decoded
// and whitespace collapsed. Block syntax is left untouched.
func Plain(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if !strings.ContainsAny(s, "*_`[]<&\\~#>!") {
		return strings.Join(strings.Fields(s), " ")
	}

	src := []byte(s)
	doc := inline.Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(util.UnescapePunctuations(node.Segment.Value(src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			buf.WriteByte(' ')
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	out := html.UnescapeString(buf.String())
	return strings.Join(strings.Fields(out), " ")
}
