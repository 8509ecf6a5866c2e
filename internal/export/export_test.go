package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dgallion1/slidecast/internal/deck"
	"github.com/dgallion1/slidecast/internal/render"
)

func samplePresentation() *render.Presentation {
	d := &deck.Deck{
		Title: "Quarterly <Review>",
		Slides: []deck.Slide{
			{HasTitle: true, Title: "Intro & Goals", TitleLevel: 1, Bullets: []string{"one", "two"}},
			{HasTitle: true, Title: "Numbers", TitleLevel: 2, Table: &deck.Table{
				Headers: []string{"h1", "h2"},
				Rows:    [][]string{{"1", "2"}, {"3", "4"}},
			}},
		},
	}
	return render.New(render.DefaultTheme(), nil).Render(d)
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		files[f.Name] = string(b)
	}
	return files
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"", ".pptx"},
		{"pptx", ".pptx"},
		{".PPTX", ".pptx"},
		{"docx", ".docx"},
	}
	for _, tt := range tests {
		enc, err := ForFormat(tt.format, nil)
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", tt.format, err)
		}
		if enc.Extension() != tt.ext {
			t.Errorf("ForFormat(%q) extension = %q, want %q", tt.format, enc.Extension(), tt.ext)
		}
	}
	_, err := ForFormat("key", nil)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "pptx, docx") {
		t.Errorf("expected supported formats in error, got %q", err)
	}
}

func TestPPTXEncoder_Parts(t *testing.T) {
	var buf bytes.Buffer
	if err := (&PPTXEncoder{}).Encode(&buf, samplePresentation()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	files := readZip(t, buf.Bytes())

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/_rels/slide2.xml.rels",
	} {
		if _, ok := files[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
	if _, ok := files["ppt/slides/slide3.xml"]; ok {
		t.Error("unexpected third slide")
	}

	pres := files["ppt/presentation.xml"]
	if n := strings.Count(pres, "<p:sldId "); n != 2 {
		t.Errorf("expected 2 slide ids, got %d", n)
	}
	if !strings.Contains(pres, `<p:sldSz cx="9144000" cy="5143500"/>`) {
		t.Errorf("expected 16:9 slide size, got %s", pres)
	}
}

func TestPPTXEncoder_WellFormedXML(t *testing.T) {
	var buf bytes.Buffer
	if err := (&PPTXEncoder{}).Encode(&buf, samplePresentation()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	for name, body := range readZip(t, buf.Bytes()) {
		dec := xml.NewDecoder(strings.NewReader(body))
		for {
			_, err := dec.Token()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("%s is not well-formed: %v", name, err)
			}
		}
	}
}

func TestPPTXEncoder_SlideContent(t *testing.T) {
	var buf bytes.Buffer
	if err := (&PPTXEncoder{}).Encode(&buf, samplePresentation()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	files := readZip(t, buf.Bytes())

	s1 := files["ppt/slides/slide1.xml"]
	if !strings.Contains(s1, "<a:t>Intro &amp; Goals</a:t>") {
		t.Errorf("expected escaped title in slide 1")
	}
	if !strings.Contains(s1, `sz="4400" b="1"`) {
		t.Errorf("expected 44pt bold title on slide 1")
	}
	if !strings.Contains(s1, "<a:t>• one</a:t>") {
		t.Errorf("expected bullet text in slide 1")
	}

	s2 := files["ppt/slides/slide2.xml"]
	if strings.Count(s2, "<a:gridCol ") != 2 {
		t.Errorf("expected 2 grid columns in slide 2")
	}
	if strings.Count(s2, "<a:tr ") != 3 {
		t.Errorf("expected 3 table rows (header + 2) in slide 2")
	}
	if !strings.Contains(s2, "<a:t>第 2 页</a:t>") {
		t.Errorf("expected page footer in slide 2")
	}

	core := files["docProps/core.xml"]
	if !strings.Contains(core, "Quarterly &lt;Review&gt;") {
		t.Errorf("expected escaped deck title in core properties")
	}
}

func TestDOCXEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := (&DOCXEncoder{}).Encode(&buf, samplePresentation()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	files := readZip(t, buf.Bytes())
	body, ok := files["word/document.xml"]
	if !ok {
		t.Fatal("missing word/document.xml")
	}
	for _, want := range []string{"Intro &amp; Goals", "• two", "h2", "第 2 页"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected document to contain %q", want)
		}
	}
}
