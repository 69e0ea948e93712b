package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/infra/database/models"
)

type MeetingRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db, now: time.Now}
}

func (r *MeetingRepository) GetMeeting(ctx context.Context, id int64) (domain.Meeting, error) {
	var m models.Meeting
	err := r.db.WithContext(ctx).
		Preload("Host.Dept").
		Where("id = ?", id).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Meeting{}, domain.ErrMeetingNotFound
	}
	if err != nil {
		return domain.Meeting{}, err
	}
	return toDomainMeeting(m), nil
}

func (r *MeetingRepository) ListAttendees(ctx context.Context, meetingID int64) ([]domain.Attendee, error) {
	var rows []models.Attendee
	err := r.db.WithContext(ctx).
		Preload("User.Dept").
		Where("meeting_id = ?", meetingID).
		Order("user_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	attendees := make([]domain.Attendee, 0, len(rows))
	for _, a := range rows {
		attendees = append(attendees, domain.Attendee{MeetingID: a.MeetingID, User: toDomainUser(a.User)})
	}
	return attendees, nil
}

func (r *MeetingRepository) ListTasks(ctx context.Context, meetingID int64) ([]domain.Task, error) {
	var rows []models.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee.Dept").
		Where("meeting_id = ?", meetingID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, t := range rows {
		tasks = append(tasks, toDomainTask(t))
	}
	return tasks, nil
}

// LinkAudio points the meeting at key and marks it recorded.
func (r *MeetingRepository) LinkAudio(ctx context.Context, meetingID int64, key string) error {
	return r.update(ctx, meetingID, map[string]any{
		"audio_key":      key,
		"status":         string(domain.StatusRecorded),
		"failed_stage":   "",
		"failure_reason": "",
	})
}

// UpdateStatus records a pipeline transition. stage and reason are only
// meaningful for the failed state and are cleared otherwise.
func (r *MeetingRepository) UpdateStatus(ctx context.Context, meetingID int64, status domain.Status, stage domain.Stage, reason string) error {
	if status != domain.StatusFailed {
		stage, reason = "", ""
	}
	return r.update(ctx, meetingID, map[string]any{
		"status":         string(status),
		"failed_stage":   string(stage),
		"failure_reason": reason,
	})
}

// SaveTranscript stores the plain transcript and marks the meeting transcribed.
func (r *MeetingRepository) SaveTranscript(ctx context.Context, meetingID int64, transcript string) error {
	return r.update(ctx, meetingID, map[string]any{
		"transcript":     transcript,
		"status":         string(domain.StatusTranscribed),
		"failed_stage":   "",
		"failure_reason": "",
	})
}

func (r *MeetingRepository) SaveNotes(ctx context.Context, meetingID int64, notes string) error {
	return r.update(ctx, meetingID, map[string]any{"notes": notes})
}

// SaveSummary stores the summary, swaps the task set and finalizes the
// meeting in one transaction.
func (r *MeetingRepository) SaveSummary(ctx context.Context, meetingID int64, summary string, tasks []domain.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockMeeting(tx, meetingID); err != nil {
			return err
		}
		err := tx.Model(&models.Meeting{}).
			Where("id = ?", meetingID).
			Updates(map[string]any{
				"summary":        summary,
				"status":         string(domain.StatusFinalized),
				"failed_stage":   "",
				"failure_reason": "",
				"updated_at":     r.now(),
			}).Error
		if err != nil {
			return err
		}
		return replaceTasks(tx, meetingID, tasks)
	})
}

// ReplaceTasks swaps the whole task set so readers never see a partial list.
func (r *MeetingRepository) ReplaceTasks(ctx context.Context, meetingID int64, tasks []domain.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockMeeting(tx, meetingID); err != nil {
			return err
		}
		return replaceTasks(tx, meetingID, tasks)
	})
}

func (r *MeetingRepository) update(ctx context.Context, meetingID int64, values map[string]any) error {
	values["updated_at"] = r.now()
	res := r.db.WithContext(ctx).
		Model(&models.Meeting{}).
		Where("id = ?", meetingID).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}

func lockMeeting(tx *gorm.DB, meetingID int64) error {
	var m models.Meeting
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", meetingID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrMeetingNotFound
	}
	return err
}

func replaceTasks(tx *gorm.DB, meetingID int64, tasks []domain.Task) error {
	if err := tx.Where("meeting_id = ?", meetingID).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	rows := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, toTaskModel(meetingID, t))
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}
