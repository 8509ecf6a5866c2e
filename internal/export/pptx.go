package export

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/slidecast/internal/render"
)

// PPTXEncoder writes PresentationML (.pptx). Every page uses a single blank
// layout, so slides carry only the shapes the renderer produced.
type PPTXEncoder struct {
	Log *slog.Logger
	Now func() time.Time
}

type zipPart struct {
	name string
	body string
}

func (e *PPTXEncoder) Extension() string { return ".pptx" }

func (e *PPTXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
}

func (e *PPTXEncoder) Encode(w io.Writer, p *render.Presentation) error {
	now := time.Now().UTC()
	if e.Now != nil {
		now = e.Now().UTC()
	}

	parts := []zipPart{
		{"[Content_Types].xml", contentTypes(len(p.Pages))},
		{"_rels/.rels", rootRels},
		{"docProps/core.xml", coreProps(p.Title, now)},
		{"docProps/app.xml", appProps(len(p.Pages))},
		{"ppt/presentation.xml", presentation(p)},
		{"ppt/_rels/presentation.xml.rels", presentationRels(len(p.Pages))},
		{"ppt/slideMasters/slideMaster1.xml", slideMaster},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRels},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayout},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRels},
		{"ppt/theme/theme1.xml", theme},
		{"ppt/presProps.xml", presProps},
		{"ppt/viewProps.xml", viewProps},
		{"ppt/tableStyles.xml", tableStyles},
	}
	for i, page := range p.Pages {
		n := strconv.Itoa(i + 1)
		parts = append(parts,
			zipPart{"ppt/slides/slide" + n + ".xml", e.slide(page)},
			zipPart{"ppt/slides/_rels/slide" + n + ".xml.rels", slideRels},
		)
	}

	zw := zip.NewWriter(w)
	for _, part := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := io.WriteString(fw, part.body); err != nil {
			return fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close pptx: %w", err)
	}
	return nil
}

func (e *PPTXEncoder) logger() *slog.Logger {
	if e.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Log
}

func contentTypes(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	override := func(part, ct string) {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, part, ct)
	}
	override("/ppt/presentation.xml", ctPresentation)
	override("/ppt/slideMasters/slideMaster1.xml", ctSlideMaster)
	override("/ppt/slideLayouts/slideLayout1.xml", ctSlideLayout)
	override("/ppt/theme/theme1.xml", ctTheme)
	override("/ppt/presProps.xml", ctPresProps)
	override("/ppt/viewProps.xml", ctViewProps)
	override("/ppt/tableStyles.xml", ctTableStyles)
	override("/docProps/core.xml", ctCoreProps)
	override("/docProps/app.xml", ctExtProps)
	for i := 1; i <= slides; i++ {
		override(fmt.Sprintf("/ppt/slides/slide%d.xml", i), ctSlide)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func coreProps(title string, created time.Time) string {
	return xmlHeader +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(title) + `</dc:title>` +
		`<dc:creator>slidecast</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + created.Format(time.RFC3339) + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + created.Format(time.RFC3339) + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

func appProps(slides int) string {
	return xmlHeader +
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		`<Application>slidecast</Application>` +
		`<Slides>` + strconv.Itoa(slides) + `</Slides>` +
		`</Properties>`
}

// Relationship ids in presentation.xml.rels: rId1-rId5 are fixed parts,
// slides start at rId6.
const firstSlideRel = 6

func presentation(p *render.Presentation) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `" saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if len(p.Pages) > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := range p.Pages {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, firstSlideRel+i)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, p.Width, p.Height)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRels(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="` + nsRel + `">`)
	rel := func(id int, typ, target string) {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="%s"/>`, id, typ, target)
	}
	rel(1, relSlideMaster, "slideMasters/slideMaster1.xml")
	rel(2, relPresProps, "presProps.xml")
	rel(3, relViewProps, "viewProps.xml")
	rel(4, relTheme, "theme/theme1.xml")
	rel(5, relTableStyles, "tableStyles.xml")
	for i := 0; i < slides; i++ {
		rel(firstSlideRel+i, relSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (e *PPTXEncoder) slide(page render.Page) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(emptyGroup)

	// Shape id 1 is the group root.
	id := 2
	for _, sh := range page.Shapes {
		if sh.Table != nil {
			if len(sh.Table.ColWidths) == 0 || len(sh.Table.Cells) == 0 {
				e.logger().Warn("skipping empty table shape", "slide", page.Index+1, "shape", sh.Name)
				continue
			}
			writeTable(&b, id, sh)
		} else {
			writeTextBox(&b, id, sh)
		}
		id++
	}

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func writeTextBox(b *strings.Builder, id int, sh render.Shape) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`,
		id, escape(shapeName(sh, id)))
	fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		sh.Frame.X, sh.Frame.Y, sh.Frame.W, sh.Frame.H)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)
	b.WriteString(`<p:txBody>`)
	if sh.WordWrap {
		b.WriteString(`<a:bodyPr wrap="square" rtlCol="0"><a:noAutofit/></a:bodyPr>`)
	} else {
		b.WriteString(`<a:bodyPr wrap="none" rtlCol="0"><a:noAutofit/></a:bodyPr>`)
	}
	b.WriteString(`<a:lstStyle/>`)
	writeParagraphs(b, sh.Text)
	b.WriteString(`</p:txBody></p:sp>`)
}

func writeTable(b *strings.Builder, id int, sh render.Shape) {
	g := sh.Table
	fmt.Fprintf(b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/>`, id, escape(shapeName(sh, id)))
	b.WriteString(`<p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`)
	fmt.Fprintf(b, `<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`,
		sh.Frame.X, sh.Frame.Y, sh.Frame.W, sh.Frame.H)
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">`)
	b.WriteString(`<a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`)
	for _, w := range g.ColWidths {
		fmt.Fprintf(b, `<a:gridCol w="%d"/>`, w)
	}
	b.WriteString(`</a:tblGrid>`)
	for _, row := range g.Cells {
		fmt.Fprintf(b, `<a:tr h="%d">`, g.RowHeight)
		for c := range g.ColWidths {
			b.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>`)
			if c < len(row) {
				writeParagraphs(b, []render.Paragraph{row[c]})
			} else {
				writeParagraphs(b, nil)
			}
			b.WriteString(`</a:txBody><a:tcPr/></a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}

// writeParagraphs emits a:p elements. A text body needs at least one.
func writeParagraphs(b *strings.Builder, paras []render.Paragraph) {
	if len(paras) == 0 {
		b.WriteString(`<a:p><a:endParaRPr lang="en-US" dirty="0"/></a:p>`)
		return
	}
	for _, p := range paras {
		fmt.Fprintf(b, `<a:p><a:pPr algn="%s"/>`, alignAttr(p.Align))
		rpr := fmt.Sprintf(`lang="en-US" sz="%d"`, int(p.Font.Size*100))
		if p.Font.Bold {
			rpr += ` b="1"`
		}
		rpr += ` dirty="0"`
		fill := ""
		if p.Font.Color != "" {
			fill = `<a:solidFill><a:srgbClr val="` + escape(p.Font.Color) + `"/></a:solidFill>`
		}
		if p.Text != "" {
			fmt.Fprintf(b, `<a:r><a:rPr %s>%s</a:rPr><a:t>%s</a:t></a:r>`, rpr, fill, escape(p.Text))
		}
		fmt.Fprintf(b, `<a:endParaRPr %s>%s</a:endParaRPr></a:p>`, rpr, fill)
	}
}

func alignAttr(a render.Align) string {
	switch a {
	case render.AlignCenter:
		return "ctr"
	case render.AlignRight:
		return "r"
	default:
		return "l"
	}
}

func shapeName(sh render.Shape, id int) string {
	if sh.Name != "" {
		return fmt.Sprintf("%s %d", sh.Name, id)
	}
	return fmt.Sprintf("Shape %d", id)
}

func escape(s string) string {
	var b strings.Builder
	// xml.EscapeText only fails on writer errors; strings.Builder never errors.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
