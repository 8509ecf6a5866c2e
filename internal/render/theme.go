package render

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Theme holds every font size, color and label the renderer uses.
type Theme struct {
	TitleSlideSize  float64 `toml:"title_slide_size"`
	TitleSize       float64 `toml:"title_size"`
	TitleColor      string  `toml:"title_color"`
	TableHeaderSize float64 `toml:"table_header_size"`
	TableCellSize   float64 `toml:"table_cell_size"`
	BulletSize      float64 `toml:"bullet_size"`
	ParagraphSize   float64 `toml:"paragraph_size"`
	TextColor       string  `toml:"text_color"`
	BulletMarker    string  `toml:"bullet_marker"`
	FooterSize      float64 `toml:"footer_size"`
	FooterColor     string  `toml:"footer_color"`
	FooterFormat    string  `toml:"footer_format"` // at most one %d, which receives the 1-based page number
}

// DefaultTheme returns the built-in look: dark blue bold titles, black body
// text, gray page numbers.
func DefaultTheme() Theme {
	return Theme{
		TitleSlideSize:  44,
		TitleSize:       32,
		TitleColor:      "1F497D",
		TableHeaderSize: 18,
		TableCellSize:   16,
		BulletSize:      20,
		ParagraphSize:   18,
		TextColor:       "000000",
		BulletMarker:    "• ",
		FooterSize:      12,
		FooterColor:     "808080",
		FooterFormat:    "第 %d 页",
	}
}

var hexColorRe = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// LoadTheme reads a TOML file over the defaults. Keys absent from the file
// keep their default value.
func LoadTheme(path string) (Theme, error) {
	t := DefaultTheme()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read theme: %w", err)
	}
	if err := toml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}

func (t Theme) Validate() error {
	for name, c := range map[string]string{
		"title_color":  t.TitleColor,
		"text_color":   t.TextColor,
		"footer_color": t.FooterColor,
	} {
		if !hexColorRe.MatchString(c) {
			return fmt.Errorf("%s must be RRGGBB hex, got %q", name, c)
		}
	}
	for name, s := range map[string]float64{
		"title_slide_size":  t.TitleSlideSize,
		"title_size":        t.TitleSize,
		"table_header_size": t.TableHeaderSize,
		"table_cell_size":   t.TableCellSize,
		"bullet_size":       t.BulletSize,
		"paragraph_size":    t.ParagraphSize,
		"footer_size":       t.FooterSize,
	} {
		if s <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if n := footerVerbs(t.FooterFormat); n > 1 || (n == 1 && !strings.Contains(strings.ReplaceAll(t.FooterFormat, "%%", ""), "%d")) {
		return fmt.Errorf("footer_format may only contain a single %%d, got %q", t.FooterFormat)
	}
	return nil
}

// footerVerbs counts formatting verbs, ignoring %% escapes.
func footerVerbs(format string) int {
	return strings.Count(strings.ReplaceAll(format, "%%", ""), "%")
}
