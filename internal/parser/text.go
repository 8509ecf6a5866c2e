package parser

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/dgallion1/slidecast/internal/deck"
)

// TextParser handles plain text files. Each blank-line separated block is
// one slide: its first line is the title, the rest are paragraphs.
type TextParser struct {
	Log *slog.Logger
}

func (p *TextParser) Parse(r io.Reader, filename string) (*deck.Deck, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var blocks [][]string
	var current []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	d := &deck.Deck{Title: deckTitle(filename), Literal: true}
	for _, block := range blocks {
		s := deck.NewSlide()
		s.HasTitle = true
		s.TitleLevel = 2
		s.Title = block[0]
		s.Paragraphs = append(s.Paragraphs, block[1:]...)
		d.Slides = append(d.Slides, s)
	}
	if len(d.Slides) == 0 {
		d.Slides = []deck.Slide{deck.NewSlide()}
	}

	return d, nil
}
