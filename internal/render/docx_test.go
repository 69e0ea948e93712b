package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"testing"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

const noAttendeesText = "참석자 정보가 없습니다."

// docxTexts returns the text of every w:t element in word/document.xml, in order.
func docxTexts(t *testing.T, v MeetingView) []string {
	t.Helper()

	out, err := renderDOCX(v, "NanumGothic")
	if err != nil {
		t.Fatalf("renderDOCX() error = %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("open docx archive: %v", err)
	}

	var body []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		body, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
	}
	if body == nil {
		t.Fatal("word/document.xml missing")
	}

	var texts []string
	dec := xml.NewDecoder(bytes.NewReader(body))
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("parse document.xml: %v", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			inText = el.Name.Local == "t"
		case xml.EndElement:
			inText = false
		case xml.CharData:
			if inText {
				texts = append(texts, string(el))
			}
		}
	}
	return texts
}

func hasText(texts []string, s string) bool {
	for _, t := range texts {
		if t == s {
			return true
		}
	}
	return false
}

func TestDOCXContentsOnlyScenario(t *testing.T) {
	v := MeetingView{
		Title:     "예산 회의",
		Attendees: attendeesOf(3),
		Sections:  minutes.ParseSections(`<div data-minutes-section="contents"><p>회의 내용</p><p>예산 검토</p></div>`),
	}
	texts := docxTexts(t, v)

	for _, want := range []string{"예산 회의", "회의 내용", "예산 검토"} {
		if !hasText(texts, want) {
			t.Errorf("%q missing from document", want)
		}
	}
	for _, absent := range []string{"회의 결과", "해야 할 일", "참석자", noAttendeesText, "user00"} {
		if hasText(texts, absent) {
			t.Errorf("%q should not be in the document", absent)
		}
	}
}

func TestDOCXEmptySectionKeepsHeading(t *testing.T) {
	texts := docxTexts(t, MeetingView{Sections: minutes.Sections{minutes.SectionResults: ""}})
	if !hasText(texts, "회의 결과") {
		t.Error("present but empty section should keep its heading")
	}
	if hasText(texts, "회의 내용") {
		t.Error("absent section rendered")
	}
}

func TestDOCXAttendees(t *testing.T) {
	tests := []struct {
		name            string
		view            MeetingView
		wantHeading     bool
		wantPlaceholder bool
		wantNames       []string
	}{
		{
			name:            "section present without attendees",
			view:            MeetingView{Sections: minutes.Sections{minutes.SectionAttendees: ""}},
			wantHeading:     true,
			wantPlaceholder: true,
		},
		{
			name:            "no markers at all",
			view:            MeetingView{Sections: minutes.Sections{}},
			wantHeading:     true,
			wantPlaceholder: true,
		},
		{
			name:        "attendees listed",
			view:        MeetingView{Attendees: attendeesOf(2), Sections: minutes.Sections{minutes.SectionAttendees: ""}},
			wantHeading: true,
			wantNames:   []string{"user00", "user01"},
		},
		{
			name: "attendee section absent",
			view: MeetingView{Attendees: attendeesOf(2), Sections: minutes.Sections{minutes.SectionContents: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texts := docxTexts(t, tt.view)
			if got := hasText(texts, "참석자"); got != tt.wantHeading {
				t.Errorf("attendee heading = %v, want %v", got, tt.wantHeading)
			}
			if got := hasText(texts, noAttendeesText); got != tt.wantPlaceholder {
				t.Errorf("placeholder = %v, want %v", got, tt.wantPlaceholder)
			}
			for _, name := range tt.wantNames {
				if !hasText(texts, name) {
					t.Errorf("attendee %q missing", name)
				}
			}
		})
	}
}

// Both formats show the same set of blocks for the same view.
func TestDOCXSectionsMatchPDF(t *testing.T) {
	views := map[string]MeetingView{
		"contents only": {Sections: minutes.Sections{minutes.SectionContents: "a"}},
		"results and todos": {Sections: minutes.Sections{
			minutes.SectionResults: "b",
			minutes.SectionTodos:   "",
		}},
		"everything": {Attendees: attendeesOf(1), Sections: minutes.Sections{
			minutes.SectionBase:      "",
			minutes.SectionContents:  "a",
			minutes.SectionResults:   "b",
			minutes.SectionTodos:     "c",
			minutes.SectionAttendees: "",
		}},
		"no markers": {Sections: minutes.Sections{}},
	}

	titles := []string{"참석자"}
	for _, b := range contentBlocks {
		titles = append(titles, b.title)
	}

	for name, v := range views {
		t.Run(name, func(t *testing.T) {
			c := &recordCanvas{}
			layoutFixedPage(c, v)
			texts := docxTexts(t, v)

			for _, title := range titles {
				_, inPDF := c.find(title)
				if inDOCX := hasText(texts, title); inDOCX != inPDF {
					t.Errorf("%q: docx %v, pdf %v", title, inDOCX, inPDF)
				}
			}
		})
	}
}
