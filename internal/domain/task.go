package domain

import "time"

const manualEntry = "직접입력"

type Task struct {
	ID           int64
	Description  string
	AssigneeText string
	Assignee     *User
	DueText      string
	DueDate      *time.Time
}

// TaskDisplay is the who/what/when triple shown to users.
type TaskDisplay struct {
	Who  string `json:"who"`
	What string `json:"what"`
	When string `json:"when"`
}

func (t Task) Display() TaskDisplay {
	d := TaskDisplay{What: t.Description, Who: manualEntry, When: manualEntry}
	switch {
	case t.Assignee != nil:
		d.Who = t.Assignee.Label()
	case t.AssigneeText != "":
		d.Who = t.AssigneeText
	}
	if t.DueText != "" {
		d.When = t.DueText
	} else if t.DueDate != nil {
		d.When = t.DueDate.Format("2006-01-02")
	}
	return d
}

// AgendaItem is one discussion topic of a summary.
type AgendaItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}
