package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/dgallion1/slidecast/internal/deck"
)

// Stage extracts one kind of content from the remaining segment text and
// returns the text left for the stages after it.
type Stage struct {
	Name    string
	Extract func(rest string, s *deck.Slide, log *slog.Logger) string
}

// Stages is the fixed extraction order for a markdown slide segment.
// Heading, table and subheadings consume what they match. Bullets and images
// only read; the paragraph stage strips both before collecting lines.
var Stages = []Stage{
	{Name: "heading", Extract: extractHeading},
	{Name: "table", Extract: extractTable},
	{Name: "subheadings", Extract: extractSubheadings},
	{Name: "bullets", Extract: extractBullets},
	{Name: "images", Extract: extractImages},
	{Name: "paragraphs", Extract: extractParagraphs},
}

var (
	headingRe    = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)
	subheadingRe = regexp.MustCompile(`(?m)^###[ \t]+(.+)$`)
	bulletRe     = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+(.+)$`)
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	tableRe      = regexp.MustCompile(`(?m)^\|[^\n]*\|[ \t]*\n^\|(?:[- :|]*\|)+[ \t]*\n(?:^\|[^\n]*\|[ \t]*\n)*`)
)

func extractHeading(rest string, s *deck.Slide, _ *slog.Logger) string {
	m := headingRe.FindStringSubmatchIndex(rest)
	if m == nil {
		return rest
	}
	s.HasTitle = true
	s.TitleLevel = m[3] - m[2]
	s.Title = strings.TrimSpace(rest[m[4]:m[5]])
	return cutLine(rest, m[0], m[1])
}

func extractTable(rest string, s *deck.Slide, log *slog.Logger) string {
	loc := tableRe.FindStringIndex(rest)
	if loc == nil {
		return rest
	}
	lines := strings.Split(strings.TrimSpace(rest[loc[0]:loc[1]]), "\n")
	headers := splitRow(lines[0])

	var rows [][]string
	for _, line := range lines[2:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitRow(line))
	}
	s.Table = newTable(headers, rows, log)
	return rest[:loc[0]] + rest[loc[1]:]
}

func extractSubheadings(rest string, s *deck.Slide, _ *slog.Logger) string {
	matches := subheadingRe.FindAllStringSubmatchIndex(rest, -1)
	if matches == nil {
		return rest
	}
	var b strings.Builder
	prev := 0
	for _, m := range matches {
		s.Subtitles = append(s.Subtitles, strings.TrimSpace(rest[m[2]:m[3]]))
		end := m[1]
		if end < len(rest) && rest[end] == '\n' {
			end++
		}
		b.WriteString(rest[prev:m[0]])
		prev = end
	}
	b.WriteString(rest[prev:])
	return b.String()
}

func extractBullets(rest string, s *deck.Slide, _ *slog.Logger) string {
	for _, m := range bulletRe.FindAllStringSubmatch(rest, -1) {
		s.Bullets = append(s.Bullets, strings.TrimSpace(m[1]))
	}
	return rest
}

func extractImages(rest string, s *deck.Slide, _ *slog.Logger) string {
	for _, m := range imageRe.FindAllStringSubmatch(rest, -1) {
		s.Images = append(s.Images, deck.Image{Alt: m[1], URL: m[2]})
	}
	return rest
}

func extractParagraphs(rest string, s *deck.Slide, _ *slog.Logger) string {
	cleaned := bulletRe.ReplaceAllString(rest, "")
	cleaned = imageRe.ReplaceAllString(cleaned, "")
	for _, line := range strings.Split(cleaned, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			s.Paragraphs = append(s.Paragraphs, t)
		}
	}
	return ""
}

// cutLine removes text[start:end] plus one trailing newline.
func cutLine(text string, start, end int) string {
	if end < len(text) && text[end] == '\n' {
		end++
	}
	return text[:start] + text[end:]
}

func splitRow(line string) []string {
	line = strings.Trim(strings.TrimSpace(line), "|")
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}
