package database

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nguyentantai21042004/minutes-flow/internal/infra/database/models"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

// NewPostgres opens the database with gorm's own logger writing through log.
func NewPostgres(dsn string, log logger.Logger) (*gorm.DB, error) {
	gormLogger := gormlogger.New(
		logger.Writer(log),
		gormlogger.Config{
			SlowThreshold:             300 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	return db, err
}

func MigratePostgres(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Dept{},
		&models.User{},
		&models.AudioObject{},
		&models.Meeting{},
		&models.Attendee{},
		&models.Task{},
	)
}
