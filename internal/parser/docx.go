package parser

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dgallion1/slidecast/internal/deck"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading 1/2 paragraphs start slides,
// list-styled paragraphs become bullets.
type DOCXParser struct {
	Log *slog.Logger
}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*deck.Deck, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	d := &deck.Deck{Title: deckTitle(filename), Literal: true}
	b := newSlideBuilder(orDiscard(p.Log))

	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text := docxParagraphText(it)
			if text == "" {
				continue
			}
			if level := docxHeadingLevel(it); level > 0 {
				b.heading(level, text)
			} else if docxIsListItem(it) {
				b.bullet(strings.TrimSpace(strings.TrimLeft(text, "•-*")))
			} else {
				b.paragraph(text)
			}
		case *docx.Table:
			b.table(docxTableRows(it))
		}
	}

	d.Slides = b.finish()
	return d, nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxHeadingLevel(para *docx.Paragraph) int {
	style := strings.ToLower(strings.ReplaceAll(docxStyle(para), " ", ""))
	if !strings.HasPrefix(style, "heading") || len(style) != len("heading")+1 {
		return 0
	}
	n := int(style[len(style)-1] - '0')
	if n < 1 || n > 6 {
		return 0
	}
	return n
}

func docxIsListItem(para *docx.Paragraph) bool {
	style := strings.ToLower(docxStyle(para))
	if strings.Contains(style, "list") {
		return true
	}
	text := docxParagraphText(para)
	return strings.HasPrefix(text, "• ") || strings.HasPrefix(text, "- ")
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func docxTableRows(tbl *docx.Table) [][]string {
	var rows [][]string
	for _, tr := range tbl.TableRows {
		var cells []string
		for _, tc := range tr.TableCells {
			var parts []string
			for _, para := range tc.Paragraphs {
				if t := docxParagraphText(para); t != "" {
					parts = append(parts, t)
				}
			}
			cells = append(cells, strings.Join(parts, " "))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}
