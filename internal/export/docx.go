package export

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dgallion1/slidecast/internal/render"
	"github.com/fumiama/go-docx"
)

// DOCXEncoder writes a printable handout: one page per slide, shapes in
// slide order, tables as Word tables.
type DOCXEncoder struct {
	Log *slog.Logger
}

func (e *DOCXEncoder) Extension() string { return ".docx" }

func (e *DOCXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (e *DOCXEncoder) Encode(w io.Writer, p *render.Presentation) error {
	doc := docx.New().WithDefaultTheme()

	for i, page := range p.Pages {
		if i > 0 {
			doc.AddParagraph().AddPageBreaks()
		}
		for _, sh := range page.Shapes {
			if sh.Table != nil {
				e.addTable(doc, page.Index, sh)
				continue
			}
			for _, para := range sh.Text {
				addParagraph(doc.AddParagraph(), para)
			}
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func (e *DOCXEncoder) addTable(doc *docx.Docx, slide int, sh render.Shape) {
	g := sh.Table
	cols := len(g.ColWidths)
	if cols == 0 || len(g.Cells) == 0 {
		if e.Log != nil {
			e.Log.Warn("skipping empty table shape", "slide", slide+1, "shape", sh.Name)
		}
		return
	}
	tbl := doc.AddTable(len(g.Cells), cols, 0, nil)
	for r, row := range tbl.TableRows {
		for c, cell := range row.TableCells {
			if c >= len(g.Cells[r]) {
				continue
			}
			addParagraph(cell.AddParagraph(), g.Cells[r][c])
		}
	}
}

func addParagraph(dp *docx.Paragraph, p render.Paragraph) {
	dp.Justification(justification(p.Align))
	run := dp.AddText(p.Text)
	if p.Font.Size > 0 {
		// w:sz is in half-points.
		run.Size(strconv.Itoa(int(p.Font.Size * 2)))
	}
	if p.Font.Color != "" {
		run.Color(p.Font.Color)
	}
	if p.Font.Bold {
		run.Bold()
	}
}

func justification(a render.Align) string {
	switch a {
	case render.AlignCenter:
		return "center"
	case render.AlignRight:
		return "end"
	default:
		return "start"
	}
}
