package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/weiawesome/room-lobby/pkg/database"
)

// EntryModel is the GORM model for the kv_entries table.
type EntryModel struct {
	Key       string    `gorm:"column:entry_key;type:varchar(191);primaryKey"`
	Value     string    `gorm:"column:entry_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for EntryModel.
func (EntryModel) TableName() string {
	return "kv_entries"
}

// GormStore keeps values as rows of kv_entries in a relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the database and migrates kv_entries.
func NewGormStore(cfg *database.Config) (*GormStore, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewGormStoreFromDB(db)
}

// NewGormStoreFromDB wraps an already opened database.
func NewGormStoreFromDB(db *gorm.DB) (*GormStore, error) {
	if err := database.AutoMigrate(db, &EntryModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	var model EntryModel
	result := s.db.WithContext(ctx).First(&model, "entry_key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get entry: %w", result.Error)
	}
	return model.Value, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	model := EntryModel{Key: key, Value: value}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert entry: %w", result.Error)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Delete(&EntryModel{}, "entry_key = ?", key)
	if result.Error != nil {
		return fmt.Errorf("failed to delete entry: %w", result.Error)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
