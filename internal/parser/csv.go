package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/slidecast/internal/deck"
)

// csvRowsPerSlide is how many data rows fit under the header row between
// the content top and the footer.
const csvRowsPerSlide = 5

// CSVParser handles CSV files. The first record is the header; data rows are
// paged across slides, one table per slide.
type CSVParser struct {
	Log *slog.Logger
}

func (p *CSVParser) Parse(r io.Reader, filename string) (*deck.Deck, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := deckTitle(filename)
	d := &deck.Deck{Title: title, Literal: true}
	log := orDiscard(p.Log)

	if len(records) == 0 {
		d.Slides = []deck.Slide{deck.NewSlide()}
		return d, nil
	}

	headers := records[0]
	dataRows := records[1:]
	if len(dataRows) == 0 {
		s := deck.NewSlide()
		s.HasTitle, s.Title, s.TitleLevel = true, title, 1
		s.Table = newTable(headers, nil, log)
		d.Slides = append(d.Slides, s)
		return d, nil
	}

	for i := 0; i < len(dataRows); i += csvRowsPerSlide {
		end := min(i+csvRowsPerSlide, len(dataRows))

		s := deck.NewSlide()
		s.HasTitle = true
		s.TitleLevel = 2
		s.Title = fmt.Sprintf("%s: rows %d-%d", title, i+2, end+1) // 1-indexed, skip header
		s.Table = newTable(headers, dataRows[i:end], log.With("slide", len(d.Slides)))
		d.Slides = append(d.Slides, s)
	}

	return d, nil
}
