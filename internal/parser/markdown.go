package parser

import (
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dgallion1/slidecast/internal/deck"
)

// MarkdownParser splits a markdown document into slides on "---" lines and
// extracts each slide's content with the ordered Stages pipeline.
type MarkdownParser struct {
	Log *slog.Logger
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*deck.Deck, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	d := ParseMarkdown(string(src), p.Log)
	d.Title = deckTitle(filename)
	return d, nil
}

var separatorRe = regexp.MustCompile(`\n\s*-{3,}\s*\n`)

// ParseMarkdown parses a whole document. It always yields at least one
// slide; an empty document is one empty slide.
func ParseMarkdown(src string, log *slog.Logger) *deck.Deck {
	log = orDiscard(log)
	src = strings.ReplaceAll(src, "\r\n", "\n")

	segments := separatorRe.Split(src, -1)
	d := &deck.Deck{Slides: make([]deck.Slide, 0, len(segments))}
	for i, seg := range segments {
		d.Slides = append(d.Slides, ParseSegment(seg, log.With("slide", i)))
	}
	return d
}

// ParseSegment runs every stage over one slide segment, in order.
func ParseSegment(seg string, log *slog.Logger) deck.Slide {
	log = orDiscard(log)
	if seg != "" && !strings.HasSuffix(seg, "\n") {
		// Table rows are newline-terminated; the separator split eats the last one.
		seg += "\n"
	}

	s := deck.NewSlide()
	rest := seg
	for _, st := range Stages {
		rest = st.Extract(rest, &s, log)
	}
	return s
}
