package render

import (
	"math"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

const dateLayout = "2006.01.02 15:04"

// MeetingView is everything a minutes document shows. Both output formats
// are drawn from the same view.
type MeetingView struct {
	MeetingID   int64                `json:"meeting_id"`
	Title       string               `json:"title"`
	When        string               `json:"when"`
	Place       string               `json:"place"`
	Host        string               `json:"host"`
	MajorAgenda string               `json:"major_agenda"`
	Attendees   []AttendeeView       `json:"attendees"`
	Sections    minutes.Sections     `json:"sections"`
	Tasks       []domain.TaskDisplay `json:"tasks"`
}

type AttendeeView struct {
	Dept string `json:"dept"`
	Name string `json:"name"`
}

// NewView builds the document view of a meeting from its saved minutes.
func NewView(m domain.Meeting, attendees []domain.Attendee, tasks []domain.Task) MeetingView {
	sections := minutes.ParseSections(m.Notes)

	v := MeetingView{
		MeetingID:   m.ID,
		Title:       m.Title,
		Place:       m.Place,
		Host:        m.HostName(),
		MajorAgenda: majorAgenda(m.Notes, sections),
		Attendees:   make([]AttendeeView, 0, len(attendees)),
		Sections:    sections,
		Tasks:       make([]domain.TaskDisplay, 0, len(tasks)),
	}
	if !m.MeetAt.IsZero() {
		v.When = m.MeetAt.Format(dateLayout)
	}
	for _, a := range attendees {
		v.Attendees = append(v.Attendees, AttendeeView{Dept: a.User.Dept, Name: a.User.Name})
	}
	for _, t := range tasks {
		v.Tasks = append(v.Tasks, t.Display())
	}
	return v
}

// majorAgenda prefers the 주요안건 cell, then the first line of the base
// section, then the first line of the contents section.
func majorAgenda(body string, sections minutes.Sections) string {
	if agenda := minutes.ExtractMajorAgenda(body); agenda != "" {
		return agenda
	}
	for _, name := range []string{minutes.SectionBase, minutes.SectionContents} {
		for _, line := range strings.Split(sections.Text(name), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				return line
			}
		}
	}
	return ""
}

// ShowAttendees reports whether the attendee block is part of the document:
// the minutes mark it, or carry no section markers at all.
func (v MeetingView) ShowAttendees() bool {
	return v.Sections.Has(minutes.SectionAttendees) || v.Sections.Empty()
}

// AttendeeRows is the number of rows per side of the attendee grid.
func AttendeeRows(n int) int {
	return max(4, int(math.Ceil(float64(n)/2)))
}

// AttendeeRow returns the left and right attendee of a grid row. Missing
// entries are nil.
func (v MeetingView) AttendeeRow(row, rows int) (left, right *AttendeeView) {
	if row < len(v.Attendees) {
		left = &v.Attendees[row]
	}
	if r := row + rows; r < len(v.Attendees) {
		right = &v.Attendees[r]
	}
	return left, right
}

// contentBlock is one titled free-text block of the minutes.
type contentBlock struct {
	section string
	title   string
	height  float64
}

var contentBlocks = []contentBlock{
	{minutes.SectionContents, "회의 내용", 200},
	{minutes.SectionResults, "회의 결과", 200},
	{minutes.SectionTodos, "해야 할 일", 150},
}
