package repository

import (
	"assessment_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]model.QuestionCategory, error) {
	var cats []model.QuestionCategory
	err := r.DB.WithContext(ctx).Order("name asc").Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*model.QuestionCategory, error) {
	var c model.QuestionCategory
	err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.QuestionCategory) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.QuestionCategory) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.QuestionCategory{}).Count(&n).Error
	return n, err
}
