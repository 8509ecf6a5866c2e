package parser

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
)

func buildDocx(t *testing.T) []byte {
	t.Helper()
	doc := docx.New().WithDefaultTheme()
	doc.AddParagraph().AddText("Launch plan")
	doc.AddParagraph().AddText("• Ship beta")
	doc.AddParagraph().AddText("- Collect feedback")

	tbl := doc.AddTable(2, 2, 0, nil)
	cells := [][]string{{"Week", "Goal"}, {"1", "Beta"}}
	for r, row := range tbl.TableRows {
		for c, cell := range row.TableCells {
			cell.AddParagraph().AddText(cells[r][c])
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return buf.Bytes()
}

func TestDOCXParser(t *testing.T) {
	p := &DOCXParser{}
	d, err := p.Parse(bytes.NewReader(buildDocx(t)), "plan.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "plan" {
		t.Errorf("expected deck title %q, got %q", "plan", d.Title)
	}
	if len(d.Slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(d.Slides))
	}

	s := d.Slides[0]
	if !reflect.DeepEqual(s.Paragraphs, []string{"Launch plan"}) {
		t.Errorf("unexpected paragraphs %v", s.Paragraphs)
	}
	if !reflect.DeepEqual(s.Bullets, []string{"Ship beta", "Collect feedback"}) {
		t.Errorf("unexpected bullets %v", s.Bullets)
	}
	if s.Table == nil {
		t.Fatal("expected table")
	}
	if !reflect.DeepEqual(s.Table.Headers, []string{"Week", "Goal"}) {
		t.Errorf("unexpected headers %v", s.Table.Headers)
	}
	if !reflect.DeepEqual(s.Table.Rows, [][]string{{"1", "Beta"}}) {
		t.Errorf("unexpected rows %v", s.Table.Rows)
	}
}

func TestDOCXParser_Invalid(t *testing.T) {
	p := &DOCXParser{}
	if _, err := p.Parse(strings.NewReader("not a zip"), "broken.docx"); err == nil {
		t.Fatal("expected error for invalid docx")
	}
}
