package domain

import "time"

// Status is the pipeline state persisted on a meeting.
type Status string

const (
	StatusCreated      Status = "created"
	StatusRecorded     Status = "recorded"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusSummarizing  Status = "summarizing"
	StatusFinalized    Status = "finalized"
	StatusFailed       Status = "failed"
)

// Stage names the remote step a failure happened in.
type Stage string

const (
	StageTranscribe Stage = "transcribe"
	StageSummarize  Stage = "summarize"
)

type Meeting struct {
	ID            int64
	Title         string
	MeetAt        time.Time
	Place         string
	Private       bool
	Domain        string
	Host          *User
	Transcript    string
	Summary       string
	Notes         string
	AudioKey      string
	Status        Status
	FailedStage   Stage
	FailureReason string
	UpdatedAt     time.Time
}

// IsOwner reports whether userID hosts the meeting.
func (m Meeting) IsOwner(userID string) bool {
	return m.Host != nil && userID != "" && m.Host.ID == userID
}

func (m Meeting) HostName() string {
	if m.Host == nil {
		return ""
	}
	return m.Host.Name
}

// HasAudio reports whether an audio object is linked.
func (m Meeting) HasAudio() bool {
	return m.AudioKey != ""
}

type User struct {
	ID   string
	Name string
	Dept string
}

// Label renders "name (dept)", or the bare name without a department.
func (u User) Label() string {
	if u.Dept == "" {
		return u.Name
	}
	return u.Name + " (" + u.Dept + ")"
}

type Attendee struct {
	MeetingID int64
	User      User
}

// Event is published whenever a meeting changes pipeline state.
type Event struct {
	MeetingID int64     `json:"meeting_id"`
	Status    Status    `json:"status"`
	Stage     Stage     `json:"stage,omitempty"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}
