package parser

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/slidecast/internal/deck"
)

// Parser converts raw document bytes into a Deck.
type Parser interface {
	Parse(r io.Reader, filename string) (*deck.Deck, error)
}

// SupportedExtensions lists file extensions this service can turn into slides.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".pdf":      true,
	".csv":      true,
	".txt":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, log *slog.Logger) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{Log: log}, nil
	case ".html", ".htm":
		return &HTMLParser{Log: log}, nil
	case ".docx":
		return &DOCXParser{Log: log}, nil
	case ".pdf":
		return &PDFParser{Log: log}, nil
	case ".csv":
		return &CSVParser{Log: log}, nil
	case ".txt":
		return &TextParser{Log: log}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func deckTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return log
}

// newTable builds a table, dropping rows whose cell count differs from the
// header count.
func newTable(headers []string, rows [][]string, log *slog.Logger) *deck.Table {
	t := &deck.Table{Headers: headers, Rows: [][]string{}}
	for _, row := range rows {
		if len(row) != len(headers) {
			log.Warn("skipping malformed table row",
				"cells", len(row),
				"headers", len(headers),
				"row", strings.Join(row, " | "),
			)
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
