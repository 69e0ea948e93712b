package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/infra/database/models"
)

var errUserNotFound = domain.NotFoundError{Resource: "user"}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindUserByName returns the first user with exactly name, or (nil, nil).
func (r *UserRepository) FindUserByName(ctx context.Context, name string) (*domain.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Preload("Dept").
		Where("name = ?", name).
		Order("id").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := toDomainUser(row)
	return &u, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Preload("Dept").
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u := toDomainUser(row)
	return &u, nil
}
