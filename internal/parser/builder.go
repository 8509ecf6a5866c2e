package parser

import (
	"log/slog"
	"strings"

	"github.com/dgallion1/slidecast/internal/deck"
)

// slideBuilder accumulates slides from structured (non-markdown) sources
// using the same rules the markdown stages apply: first heading is the
// title, later level-3 headings are subtitles, one table per slide.
type slideBuilder struct {
	log     *slog.Logger
	slides  []deck.Slide
	current deck.Slide
	dirty   bool
}

func newSlideBuilder(log *slog.Logger) *slideBuilder {
	return &slideBuilder{log: log, current: deck.NewSlide()}
}

// heading starts a new slide for a level 1-2 heading once the current slide
// already holds content.
func (b *slideBuilder) heading(level int, text string) {
	if text == "" {
		return
	}
	if level <= 2 && b.dirty {
		b.breakSlide()
	}
	switch {
	case !b.current.HasTitle:
		b.current.HasTitle = true
		b.current.Title = text
		b.current.TitleLevel = level
	case level == 3:
		b.current.Subtitles = append(b.current.Subtitles, text)
	default:
		b.current.Paragraphs = append(b.current.Paragraphs, text)
	}
	b.dirty = true
}

func (b *slideBuilder) bullet(text string) {
	if text == "" {
		return
	}
	b.current.Bullets = append(b.current.Bullets, text)
	b.dirty = true
}

func (b *slideBuilder) paragraph(text string) {
	if text == "" {
		return
	}
	b.current.Paragraphs = append(b.current.Paragraphs, text)
	b.dirty = true
}

func (b *slideBuilder) image(alt, url string) {
	if url == "" {
		return
	}
	b.current.Images = append(b.current.Images, deck.Image{Alt: alt, URL: url})
	b.dirty = true
}

// table sets the slide table. Only the first table per slide is kept as a
// table; later ones fall back to one paragraph per row.
func (b *slideBuilder) table(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	b.dirty = true
	if b.current.Table == nil {
		b.current.Table = newTable(rows[0], rows[1:], b.log)
		return
	}
	for _, row := range rows {
		b.paragraph(strings.Join(row, " | "))
	}
}

// breakSlide closes the current slide. Empty slides between separators are
// kept, matching the markdown splitter.
func (b *slideBuilder) breakSlide() {
	b.slides = append(b.slides, b.current)
	b.current = deck.NewSlide()
	b.dirty = false
}

func (b *slideBuilder) finish() []deck.Slide {
	if b.dirty || len(b.slides) == 0 {
		b.breakSlide()
	}
	return b.slides
}
