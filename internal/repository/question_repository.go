package repository

import (
	"assessment_backend/internal/model"
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagMatchMode int

const (
	// TagMatchOverlap tags && levelTags（任意一个命中）
	TagMatchOverlap TagMatchMode = iota
	// TagMatchContains tags @> levelTags（全部包含）
	TagMatchContains
)

// QuestionFilter 题目查询条件，零值字段表示不过滤
type QuestionFilter struct {
	CategoryID   string
	CategoryName string
	Difficulty   model.Difficulty
	AdminOnly    bool
	LevelTags    []string
	TagMatch     TagMatchMode
	IDs          []string
	// RestrictToIDs 为 true 且 IDs 为空时直接返回空结果
	RestrictToIDs bool
	Limit         int
}

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// escapeLike 转义 ILIKE 通配符，使其做精确的大小写不敏感匹配
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *QuestionRepository) buildQuery(ctx context.Context, f QuestionFilter) *gorm.DB {
	query := r.DB.WithContext(ctx).Model(&model.Question{}).Where("is_active = ?", true)

	switch {
	case f.CategoryID != "" && model.IsUUID(f.CategoryID):
		query = query.Where("category_id = ?", f.CategoryID)
	case f.CategoryName != "":
		query = query.Where("category ILIKE ?", escapeLike(f.CategoryName))
	case f.CategoryID != "":
		query = query.Where("category ILIKE ?", escapeLike(f.CategoryID))
	}

	if f.Difficulty != "" {
		query = query.Where("difficulty ILIKE ?", escapeLike(string(f.Difficulty)))
	}
	if f.AdminOnly {
		query = query.Where("created_by = ?", model.CreatedByAdmin)
	}
	if len(f.LevelTags) > 0 {
		if f.TagMatch == TagMatchContains {
			query = query.Where("tags @> ?", pq.Array(f.LevelTags))
		} else {
			query = query.Where("tags && ?", pq.Array(f.LevelTags))
		}
	}
	if len(f.IDs) > 0 {
		query = query.Where("id IN ?", f.IDs)
	}

	query = query.Order("random()")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	return query
}

func (r *QuestionRepository) FindQuestions(ctx context.Context, f QuestionFilter) ([]model.Question, error) {
	if f.RestrictToIDs && len(f.IDs) == 0 {
		return []model.Question{}, nil
	}
	var qs []model.Question
	if err := r.buildQuery(ctx, f).Find(&qs).Error; err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	return qs, nil
}

func (r *QuestionRepository) FindQuestionIDsByField(ctx context.Context, fieldID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.FieldQuestionMapping{}).
		Where("field_id = ?", fieldID).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load field mappings for %s: %w", fieldID, err)
	}
	return ids, nil
}

func (r *QuestionRepository) FindQuestionsByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	var qs []model.Question
	if len(ids) == 0 {
		return qs, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&qs).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions by ids: %w", err)
	}
	return qs, nil
}

// SaveGeneratedQuestions 按 text_hash upsert AI 生成的题目，并写入领域映射
func (r *QuestionRepository) SaveGeneratedQuestions(ctx context.Context, qs []model.Question, fieldID string) error {
	if len(qs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range qs {
			q := &qs[i]
			if q.ID == "" {
				q.ID = model.GenerateUUID()
			}
			q.TextHash = model.HashQuestionText(q.QuestionText)
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "text_hash"}},
				DoNothing: true,
			}).Create(q).Error; err != nil {
				return fmt.Errorf("failed to save generated question: %w", err)
			}
			// 冲突时取回已存在记录的 id
			var existing model.Question
			if err := tx.Select("id").Where("text_hash = ?", q.TextHash).First(&existing).Error; err != nil {
				return fmt.Errorf("failed to reload generated question: %w", err)
			}
			q.ID = existing.ID
			if fieldID == "" {
				continue
			}
			mapping := model.FieldQuestionMapping{FieldID: fieldID, QuestionID: q.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mapping).Error; err != nil {
				return fmt.Errorf("failed to save field mapping: %w", err)
			}
		}
		return nil
	})
}

// Admin 题库维护

func (r *QuestionRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindQuestionByID(id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, "id = ?", id).Error
	return &q, err
}

func (r *QuestionRepository) ListQuestions(category string, difficulty model.Difficulty, createdBy string, page, limit int) ([]model.Question, int64, error) {
	var qs []model.Question
	var total int64
	query := r.DB.Model(&model.Question{})
	if category != "" {
		if model.IsUUID(category) {
			query = query.Where("category_id = ?", category)
		} else {
			query = query.Where("category ILIKE ?", escapeLike(category))
		}
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

func (r *QuestionRepository) UpdateQuestion(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuestionRepository) SetQuestionActive(id string, active bool) error {
	return r.DB.Model(&model.Question{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *QuestionRepository) AssignField(fieldID, questionID string) error {
	mapping := model.FieldQuestionMapping{FieldID: fieldID, QuestionID: questionID}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&mapping).Error
}
