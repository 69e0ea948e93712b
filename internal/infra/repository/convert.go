package repository

import (
	"time"

	"gorm.io/datatypes"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/infra/database/models"
)

func toDomainUser(u models.User) domain.User {
	out := domain.User{ID: u.ID, Name: u.Name}
	if u.Dept != nil {
		out.Dept = u.Dept.Name
	}
	return out
}

func toDomainMeeting(m models.Meeting) domain.Meeting {
	out := domain.Meeting{
		ID:            m.ID,
		Title:         m.Title,
		MeetAt:        m.MeetAt,
		Place:         m.Place,
		Private:       m.Private,
		Domain:        m.Domain,
		Transcript:    m.Transcript,
		Summary:       m.Summary,
		Notes:         m.Notes,
		Status:        domain.Status(m.Status),
		FailedStage:   domain.Stage(m.FailedStage),
		FailureReason: m.FailureReason,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Host != nil {
		host := toDomainUser(*m.Host)
		out.Host = &host
	} else if m.HostID != nil {
		out.Host = &domain.User{ID: *m.HostID}
	}
	if m.AudioKey != nil {
		out.AudioKey = *m.AudioKey
	}
	return out
}

func toAudioModel(a domain.AudioObject) models.AudioObject {
	return models.AudioObject{
		ObjectKey:    a.Key,
		OriginalName: a.OriginalName,
		ContentType:  a.ContentType,
		URL:          a.URL,
		CreatedAt:    a.CreatedAt,
		ExpiresAt:    a.ExpiresAt,
	}
}

func toDomainAudio(a models.AudioObject) domain.AudioObject {
	return domain.AudioObject{
		Key:          a.ObjectKey,
		OriginalName: a.OriginalName,
		ContentType:  a.ContentType,
		URL:          a.URL,
		CreatedAt:    a.CreatedAt,
		ExpiresAt:    a.ExpiresAt,
	}
}

func toTaskModel(meetingID int64, t domain.Task) models.Task {
	row := models.Task{
		MeetingID: meetingID,
		Content: datatypes.NewJSONType(models.TaskContent{
			Description: t.Description,
			Assignee:    t.AssigneeText,
			Due:         t.DueText,
		}),
	}
	if t.Assignee != nil && t.Assignee.ID != "" {
		id := t.Assignee.ID
		row.AssigneeID = &id
	}
	if t.DueDate != nil {
		d := datatypes.Date(*t.DueDate)
		row.DueDate = &d
	}
	return row
}

func toDomainTask(t models.Task) domain.Task {
	content := t.Content.Data()
	out := domain.Task{
		ID:           t.ID,
		Description:  content.Description,
		AssigneeText: content.Assignee,
		DueText:      content.Due,
	}
	if t.Assignee != nil {
		u := toDomainUser(*t.Assignee)
		out.Assignee = &u
	}
	if t.DueDate != nil {
		d := time.Time(*t.DueDate)
		out.DueDate = &d
	}
	return out
}
