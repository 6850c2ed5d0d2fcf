package repository

import (
	"assessment_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *model.QuizSubmission) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	err := r.DB.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *SubmissionRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]model.QuizSubmission, int64, error) {
	var ss []model.QuizSubmission
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.QuizSubmission{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}
