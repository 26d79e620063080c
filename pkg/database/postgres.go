package database

import (
	"errors"
	"fmt"

	"github.com/dkl25/admin-api/pkg/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config returns the gorm settings shared by the server and the tests.
// The schema belongs to Supabase, so AutoMigrate only adds missing columns
// and never creates foreign keys.
func Config() *gorm.Config {
	return &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

func NewDatabase(databaseURL string, log *zap.Logger) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), Config())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	log.Info("database connected")
	return db, nil
}

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Album{},
		&models.AlbumPhoto{},
		&models.Photo{},
		&models.Sponsor{},
		&models.Partner{},
		&models.Video{},
		&models.TitleSection{},
		&models.Notulen{},
		&models.NotulenVersion{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// The title section is a singleton; make sure the row exists.
	var count int64
	if err := db.Model(&models.TitleSection{}).Where("id = ?", models.TitleSectionID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		section := models.TitleSection{ID: models.TitleSectionID, Title: "De Koninklijke Loop", EventDetails: []models.EventDetail{}}
		if err := db.Create(&section).Error; err != nil {
			return fmt.Errorf("failed to seed title section: %w", err)
		}
	}
	return nil
}
