package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const docxFontSize = 11

// renderDOCX writes the editable form of v: heading, info table, one
// heading and paragraph run per present section, and the attendee table.
func renderDOCX(v MeetingView, fontName string) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, err
	}

	title := v.Title
	if title == "" {
		title = "회의록"
	}
	if _, err := doc.AddHeading(title, 1); err != nil {
		return nil, err
	}

	info := doc.AddTable()
	info.Style("TableGrid")
	for _, kv := range infoRows(v) {
		row := info.AddRow()
		addCellText(row.AddCell(), kv[0], fontName)
		addCellText(row.AddCell(), kv[1], fontName)
	}

	for _, b := range contentBlocks {
		if !v.Sections.Has(b.section) {
			continue
		}
		doc.AddParagraph("")
		if _, err := doc.AddHeading(b.title, 2); err != nil {
			return nil, err
		}
		for _, line := range strings.Split(v.Sections.Text(b.section), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				addRun(doc.AddParagraph(""), line, fontName)
			}
		}
	}

	if v.ShowAttendees() {
		doc.AddParagraph("")
		if _, err := doc.AddHeading("참석자", 2); err != nil {
			return nil, err
		}
		if len(v.Attendees) == 0 {
			addRun(doc.AddParagraph(""), "참석자 정보가 없습니다.", fontName)
		} else {
			table := doc.AddTable()
			table.Style("TableGrid")
			header := table.AddRow()
			for _, h := range []string{"소 속", "성 명", "소 속", "성 명"} {
				addCellText(header.AddCell(), h, fontName)
			}
			rows := AttendeeRows(len(v.Attendees))
			for i := 0; i < rows; i++ {
				left, right := v.AttendeeRow(i, rows)
				row := table.AddRow()
				for _, a := range []*AttendeeView{left, right} {
					var dept, name string
					if a != nil {
						dept, name = a.Dept, a.Name
					}
					addCellText(row.AddCell(), dept, fontName)
					addCellText(row.AddCell(), name, fontName)
				}
			}
		}
	}

	return docxBytes(doc)
}

func infoRows(v MeetingView) [][2]string {
	orDash := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	}
	return [][2]string{
		{"제목", orDash(v.Title)},
		{"일시", orDash(v.When)},
		{"장소", orDash(v.Place)},
		{"주최자", orDash(v.Host)},
		{"주요안건", orDash(v.MajorAgenda)},
		{"참석자 수", strconv.Itoa(len(v.Attendees))},
	}
}

func addRun(p *docx.Paragraph, text, fontName string) {
	run := p.AddText(text).Size(docxFontSize).Color("000000")
	if fontName != "" {
		run.Font(fontName)
	}
}

func addCellText(cell *docx.Cell, text, fontName string) {
	addRun(cell.AddParagraph(""), text, fontName)
}

// docxBytes saves doc to a temp file and reads it back.
func docxBytes(doc *docx.RootDoc) ([]byte, error) {
	f, err := os.CreateTemp("", "minutes-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp docx: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("save docx: %w", err)
	}
	return os.ReadFile(path)
}
