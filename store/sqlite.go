package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"meteo/manager"
)

type setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

type SQLite struct {
	db *gorm.DB
}

func NewSQLite(dsn string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	return NewSQLiteFromDB(db)
}

func NewSQLiteFromDB(db *gorm.DB) (*SQLite, error) {
	if err := db.AutoMigrate(&setting{}); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Load(ctx context.Context) (manager.Location, bool, error) {
	var row setting
	err := s.db.WithContext(ctx).Where(&setting{Key: Key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return manager.Location{}, false, nil
	}
	if err != nil {
		return manager.Location{}, false, err
	}

	location, err := decode([]byte(row.Value))
	if err != nil {
		return manager.Location{}, false, err
	}
	return location, true, nil
}

func (s *SQLite) Save(ctx context.Context, location manager.Location) error {
	data, err := encode(location)
	if err != nil {
		return err
	}

	row := setting{Key: Key, Value: string(data), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
