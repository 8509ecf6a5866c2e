package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/slidecast/internal/deck"
	"github.com/dgallion1/slidecast/internal/textutil"
)

// 16:9 canvas and the fixed layout boxes, in inches.
var (
	slideWidth  = Inches(10)
	slideHeight = Inches(5.625)

	titleBox       = Rect{X: Inches(0.5), Y: Inches(0.5), W: Inches(9), H: Inches(1)}
	contentBox     = Rect{X: Inches(0.8), Y: Inches(1.8), W: Inches(8.4), H: Inches(3.5)}
	firstSlideBox  = Rect{X: Inches(1.5), Y: Inches(2.5), W: Inches(7), H: Inches(2.5)}
	footerBox      = Rect{X: Inches(0.5), Y: Inches(5.1), W: Inches(9), H: Inches(0.3)}
	tableRowHeight = Inches(0.5)
)

// Renderer lays slide records out on the canvas.
type Renderer struct {
	theme Theme
	log   *slog.Logger
}

func New(theme Theme, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Renderer{theme: theme, log: log}
}

// Render maps every slide to a page, in order.
func (r *Renderer) Render(d *deck.Deck) *Presentation {
	p := &Presentation{
		Title:  d.Title,
		Width:  slideWidth,
		Height: slideHeight,
		Pages:  make([]Page, 0, len(d.Slides)),
	}
	text := textutil.Plain
	if d.Literal {
		text = literal
	}
	for i, s := range d.Slides {
		p.Pages = append(p.Pages, r.renderSlide(i, s, text))
	}
	return p
}

// literal keeps text from non-markdown sources verbatim.
func literal(s string) string {
	return strings.TrimSpace(s)
}

func (r *Renderer) renderSlide(i int, s deck.Slide, text func(string) string) Page {
	page := Page{Index: i}

	if s.HasTitle {
		size := r.theme.TitleSize
		if i == 0 || s.IsTitleLevel() {
			size = r.theme.TitleSlideSize
		}
		page.Shapes = append(page.Shapes, Shape{
			Name:     "Title",
			Frame:    titleBox,
			WordWrap: true,
			Text: []Paragraph{{
				Text:  text(s.Title),
				Align: AlignCenter,
				Font:  Font{Size: size, Bold: true, Color: r.theme.TitleColor},
			}},
		})
	}

	switch {
	case s.Table != nil:
		if shape, ok := r.tableShape(s.Table, text); ok {
			page.Shapes = append(page.Shapes, shape)
		} else {
			r.log.Warn("skipping table without columns", "slide", i)
		}
	case s.HasBody():
		frame := contentBox
		if i == 0 && !s.IsTitleLevel() {
			frame = firstSlideBox
		}
		page.Shapes = append(page.Shapes, Shape{
			Name:     "Content",
			Frame:    frame,
			WordWrap: true,
			Text:     r.bodyParagraphs(s, text),
		})
	}

	if i > 0 {
		page.Shapes = append(page.Shapes, Shape{
			Name:  "Footer",
			Frame: footerBox,
			Text: []Paragraph{{
				Text:  r.footerText(i + 1),
				Align: AlignRight,
				Font:  Font{Size: r.theme.FooterSize, Color: r.theme.FooterColor},
			}},
		})
	}
	return page
}

func (r *Renderer) tableShape(t *deck.Table, text func(string) string) (Shape, bool) {
	cols := len(t.Headers)
	if cols == 0 {
		return Shape{}, false
	}
	rows := len(t.Rows) + 1

	colWidth := contentBox.W / EMU(cols)
	widths := make([]EMU, cols)
	for c := range widths {
		widths[c] = colWidth
	}

	cells := make([][]Paragraph, 0, rows)
	header := make([]Paragraph, cols)
	for c, h := range t.Headers {
		header[c] = Paragraph{
			Text:  text(h),
			Align: AlignCenter,
			Font:  Font{Size: r.theme.TableHeaderSize, Bold: true, Color: r.theme.TextColor},
		}
	}
	cells = append(cells, header)
	for _, row := range t.Rows {
		line := make([]Paragraph, cols)
		for c := range line {
			var cell string
			if c < len(row) {
				cell = row[c]
			}
			line[c] = Paragraph{
				Text:  text(cell),
				Align: AlignLeft,
				Font:  Font{Size: r.theme.TableCellSize, Color: r.theme.TextColor},
			}
		}
		cells = append(cells, line)
	}

	return Shape{
		Name: "Table",
		Frame: Rect{
			X: contentBox.X,
			Y: contentBox.Y,
			W: contentBox.W,
			H: tableRowHeight * EMU(rows),
		},
		Table: &Grid{ColWidths: widths, RowHeight: tableRowHeight, Cells: cells},
	}, true
}

// bodyParagraphs puts bullets before paragraphs.
func (r *Renderer) bodyParagraphs(s deck.Slide, text func(string) string) []Paragraph {
	out := make([]Paragraph, 0, len(s.Bullets)+len(s.Paragraphs))
	for _, b := range s.Bullets {
		out = append(out, Paragraph{
			Text:  r.theme.BulletMarker + text(b),
			Align: AlignLeft,
			Font:  Font{Size: r.theme.BulletSize, Color: r.theme.TextColor},
		})
	}
	for _, p := range s.Paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, Paragraph{
			Text:  text(p),
			Align: AlignLeft,
			Font:  Font{Size: r.theme.ParagraphSize, Color: r.theme.TextColor},
		})
	}
	return out
}

func (r *Renderer) footerText(page int) string {
	format := r.theme.FooterFormat
	if footerVerbs(format) == 0 {
		format += " %d"
	}
	return fmt.Sprintf(format, page)
}
