package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dgallion1/slidecast/internal/deck"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. <hr> separates slides; h1/h2 also start a
// new slide once the current one has content.
type HTMLParser struct {
	Log *slog.Logger
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*deck.Deck, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	d := &deck.Deck{Title: deckTitle(filename), Literal: true}
	// Extract title from <title> tag if present.
	if title := findTitle(doc); title != "" {
		d.Title = title
	}

	b := newSlideBuilder(orDiscard(p.Log))

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				b.heading(level, textContent(n))
				return
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head":
				return
			case "hr":
				b.breakSlide()
				return
			case "img":
				b.image(attr(n, "alt"), attr(n, "src"))
				return
			case "li":
				b.bullet(textContent(n))
				return
			case "p", "blockquote", "pre":
				b.paragraph(textContent(n))
				collectImages(n, b)
				return
			case "table":
				b.table(tableRows(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	d.Slides = b.finish()
	return d, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func collectImages(n *html.Node, b *slideBuilder) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "img" {
			b.image(attr(c, "alt"), attr(c, "src"))
			continue
		}
		collectImages(c, b)
	}
}

// tableRows returns the text of every th/td, row by row. The first row is
// treated as the header.
func tableRows(n *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
					cells = append(cells, textContent(c))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return rows
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
