package parser

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dgallion1/slidecast/internal/deck"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. Each page with text becomes one slide: the
// first line is the title, the remaining lines are paragraphs.
type PDFParser struct {
	Log *slog.Logger
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*deck.Deck, error) {
	log := orDiscard(p.Log)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	d := &deck.Deck{Title: deckTitle(filename), Literal: true}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn("skipping unreadable pdf page", "page", i, "error", err)
			continue
		}
		if s, ok := pageSlide(text); ok {
			d.Slides = append(d.Slides, s)
		}
	}
	if len(d.Slides) == 0 {
		d.Slides = []deck.Slide{deck.NewSlide()}
	}
	return d, nil
}

// pageSlide turns the text of one page into a slide. Pages without text
// yield no slide.
func pageSlide(text string) (deck.Slide, bool) {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return deck.Slide{}, false
	}

	s := deck.NewSlide()
	s.HasTitle = true
	s.TitleLevel = 2
	s.Title = lines[0]
	s.Paragraphs = append(s.Paragraphs, lines[1:]...)
	return s, true
}
