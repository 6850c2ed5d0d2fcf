package repository

import (
	"assessment_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AISettingRepository struct {
	DB *gorm.DB
}

func NewAISettingRepository(db *gorm.DB) *AISettingRepository {
	return &AISettingRepository{DB: db}
}

// Get 未设置覆盖值时返回 (nil, nil)
func (r *AISettingRepository) Get(ctx context.Context, key string) (*model.AISetting, error) {
	var s model.AISetting
	err := r.DB.WithContext(ctx).First(&s, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AISettingRepository) Upsert(ctx context.Context, s *model.AISetting) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_by", "updated_at"}),
	}).Create(s).Error
}
