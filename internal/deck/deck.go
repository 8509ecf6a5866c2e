package deck

// Deck is the ordered list of slides parsed from one document.
// Slide 0 gets title-slide treatment when rendered.
type Deck struct {
	Title  string  `json:"title"`  // Document title (from metadata or filename)
	Slides []Slide `json:"slides"` // Document order

	// Literal marks slide text that is not markdown (HTML, DOCX, CSV, text
	// and PDF sources). The renderer places it as-is.
	Literal bool `json:"literal,omitempty"`
}

// Slide is the parsed content of a single slide, prior to rendering.
type Slide struct {
	Title      string   `json:"title,omitempty"`
	HasTitle   bool     `json:"has_title"`
	TitleLevel int      `json:"title_level,omitempty"` // Count of leading '#' (0 when untitled)
	Subtitles  []string `json:"subtitles"`
	Bullets    []string `json:"bullets"`
	Paragraphs []string `json:"paragraphs"`
	Images     []Image  `json:"images"`
	Table      *Table   `json:"table,omitempty"`
}

// Image is an inline ![alt](url) reference.
type Image struct {
	Alt string `json:"alt"`
	URL string `json:"url"`
}

// Table is a header row plus data rows. Every row has len(Headers) cells.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// NewSlide returns a slide with all collections empty but non-nil, so the
// JSON form always carries arrays.
func NewSlide() Slide {
	return Slide{
		Subtitles:  []string{},
		Bullets:    []string{},
		Paragraphs: []string{},
		Images:     []Image{},
	}
}

// IsTitleLevel reports whether the slide heading is a top-level (#) heading.
func (s Slide) IsTitleLevel() bool {
	return s.HasTitle && s.TitleLevel == 1
}

// HasBody reports whether the slide has bullet or paragraph content.
func (s Slide) HasBody() bool {
	return len(s.Bullets) > 0 || len(s.Paragraphs) > 0
}

// Len returns the number of slides.
func (d *Deck) Len() int {
	return len(d.Slides)
}
