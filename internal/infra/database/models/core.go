package models

import (
	"time"

	"gorm.io/datatypes"
)

type Dept struct {
	ID   string `json:"id" gorm:"primaryKey;type:text"`
	Name string `json:"name" gorm:"type:text;not null"`
}

type User struct {
	ID     string  `json:"id" gorm:"primaryKey;type:text"`
	Name   string  `json:"name" gorm:"type:text;index;not null"`
	DeptID *string `json:"deptID" gorm:"type:text"`
	Dept   *Dept   `json:"dept" gorm:"foreignKey:DeptID;constraint:OnDelete:SET NULL;"`
}

// AudioObject is the registry row of a stored recording. The reaper deletes
// rows once ExpiresAt has passed.
type AudioObject struct {
	ObjectKey    string    `json:"key" gorm:"primaryKey;type:text"`
	OriginalName string    `json:"originalName" gorm:"type:text"`
	ContentType  string    `json:"contentType" gorm:"type:text"`
	URL          string    `json:"url" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt" gorm:"type:timestamp with time zone;not null"`
	ExpiresAt    time.Time `json:"expiresAt" gorm:"type:timestamp with time zone;not null;index"`
}

type Meeting struct {
	ID            int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string       `json:"title" gorm:"type:text"`
	MeetAt        time.Time    `json:"meetAt" gorm:"type:timestamp with time zone;index"`
	Place         string       `json:"place" gorm:"type:text"`
	Private       bool         `json:"private" gorm:"type:boolean;not null;default:false"`
	Domain        string       `json:"domain" gorm:"type:text"`
	HostID        *string      `json:"hostID" gorm:"type:text;index"`
	Host          *User        `json:"host" gorm:"foreignKey:HostID;constraint:OnDelete:SET NULL;"`
	Transcript    string       `json:"transcript" gorm:"type:text"`
	Summary       string       `json:"summary" gorm:"type:text"`
	Notes         string       `json:"notes" gorm:"type:text"`
	AudioKey      *string      `json:"audioKey" gorm:"type:text;index"`
	Audio         *AudioObject `json:"-" gorm:"foreignKey:AudioKey;references:ObjectKey;constraint:OnDelete:SET NULL;"`
	Status        string       `json:"status" gorm:"type:text;not null;default:'created'"`
	FailedStage   string       `json:"failedStage" gorm:"type:text"`
	FailureReason string       `json:"failureReason" gorm:"type:text"`
	UpdatedAt     time.Time    `json:"updatedAt" gorm:"type:timestamp with time zone"`
}

type Attendee struct {
	MeetingID int64   `json:"meetingID" gorm:"primaryKey"`
	Meeting   Meeting `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	UserID    string  `json:"userID" gorm:"primaryKey;type:text"`
	User      User    `json:"user" gorm:"constraint:OnDelete:CASCADE;"`
}

// TaskContent is the serialized part of a task row.
type TaskContent struct {
	Description string `json:"description"`
	Assignee    string `json:"assignee,omitempty"`
	Due         string `json:"due,omitempty"`
}

type Task struct {
	ID         int64                           `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetingID  int64                           `json:"meetingID" gorm:"index;not null"`
	Meeting    Meeting                         `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	AssigneeID *string                         `json:"assigneeID" gorm:"type:text"`
	Assignee   *User                           `json:"assignee" gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL;"`
	Content    datatypes.JSONType[TaskContent] `json:"content" gorm:"type:jsonb"`
	DueDate    *datatypes.Date                 `json:"dueDate" gorm:"type:date"`
}
