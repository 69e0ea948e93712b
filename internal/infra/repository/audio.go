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

// AudioRepository is the registry of stored recordings.
type AudioRepository struct {
	db *gorm.DB
}

func NewAudioRepository(db *gorm.DB) *AudioRepository {
	return &AudioRepository{db: db}
}

func (r *AudioRepository) CreateAudio(ctx context.Context, obj domain.AudioObject) error {
	row := toAudioModel(obj)
	return r.db.WithContext(ctx).Create(&row).Error
}

// UpsertAudio inserts obj or replaces the stored row's metadata and expiry.
func (r *AudioRepository) UpsertAudio(ctx context.Context, obj domain.AudioObject) error {
	row := toAudioModel(obj)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "object_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"original_name", "content_type", "url", "expires_at"}),
	}).Create(&row).Error
}

func (r *AudioRepository) GetAudio(ctx context.Context, key string) (domain.AudioObject, error) {
	var row models.AudioObject
	err := r.db.WithContext(ctx).Where("object_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AudioObject{}, domain.ErrAudioNotFound
	}
	if err != nil {
		return domain.AudioObject{}, err
	}
	return toDomainAudio(row), nil
}

func (r *AudioRepository) ListExpiredAudio(ctx context.Context, before time.Time) ([]domain.AudioObject, error) {
	var rows []models.AudioObject
	err := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Order("expires_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.AudioObject, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainAudio(row))
	}
	return out, nil
}

// DeleteAudio removes key only if it still expired before expiredBefore,
// unlinking it from any meeting in the same transaction. It reports whether
// a row was deleted.
func (r *AudioRepository) DeleteAudio(ctx context.Context, key string, expiredBefore time.Time) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.AudioObject
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("object_key = ? AND expires_at < ?", key, expiredBefore).
			Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Meeting{}).
			Where("audio_key = ?", key).
			Update("audio_key", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("object_key = ?", key).Delete(&models.AudioObject{}).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}
