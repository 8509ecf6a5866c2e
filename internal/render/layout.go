package render

// EMU is an English Metric Unit, the coordinate unit of OOXML drawings.
type EMU int64

const EMUPerInch EMU = 914400

// Inches converts inches to EMU.
func Inches(in float64) EMU {
	return EMU(in * float64(EMUPerInch))
}

// Rect positions a shape on the slide, origin top-left.
type Rect struct {
	X, Y, W, H EMU
}

// Align is horizontal paragraph alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Font is the run formatting of a paragraph. Color is RRGGBB hex.
type Font struct {
	Size  float64 // points
	Bold  bool
	Color string
}

// Paragraph is one line of text with uniform formatting.
type Paragraph struct {
	Text  string
	Align Align
	Font  Font
}

// Grid is a table shape. Cells[0] is the header row.
type Grid struct {
	ColWidths []EMU
	RowHeight EMU
	Cells     [][]Paragraph
}

// Shape is a text box, or a table when Table is set.
type Shape struct {
	Name     string
	Frame    Rect
	WordWrap bool
	Text     []Paragraph
	Table    *Grid
}

// Page is one rendered slide.
type Page struct {
	Index  int
	Shapes []Shape
}

// Presentation is the device-independent result of rendering a deck; the
// export package encodes it to a file format.
type Presentation struct {
	Title  string
	Width  EMU
	Height EMU
	Pages  []Page
}
