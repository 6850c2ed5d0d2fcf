package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"assessment_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// QuestionBankService 管理端题库维护
type QuestionBankService struct {
	Repo       *repository.QuestionRepository
	Categories *CategoryService
}

func NewQuestionBankService(repo *repository.QuestionRepository, categories *CategoryService) *QuestionBankService {
	return &QuestionBankService{Repo: repo, Categories: categories}
}

type QuestionRequest struct {
	Category          string   `json:"category"`
	CategoryID        string   `json:"category_id"`
	Difficulty        string   `json:"difficulty" binding:"required"`
	QuestionText      string   `json:"question_text" binding:"required"`
	Options           []string `json:"options" binding:"required"`
	CorrectAnswer     string   `json:"correct_answer" binding:"required"`
	Explanation       string   `json:"explanation"`
	LearningObjective string   `json:"learning_objective"`
	Context           string   `json:"context"`
	Tags              []string `json:"tags"`
	IsActive          *bool    `json:"is_active"`
}

func (s *QuestionBankService) applyRequest(ctx context.Context, q *model.Question, req QuestionRequest) error {
	d, ok := model.ParseDifficulty(req.Difficulty)
	if !ok {
		return fmt.Errorf("%w: unknown difficulty %q", util.ErrInvalidQuestion, req.Difficulty)
	}
	q.Difficulty = d
	q.QuestionText = strings.TrimSpace(req.QuestionText)
	q.Options = req.Options
	q.CorrectAnswer = req.CorrectAnswer
	q.Explanation = req.Explanation
	q.LearningObjective = req.LearningObjective
	q.Context = req.Context
	q.Tags = req.Tags
	if req.IsActive != nil {
		q.IsActive = *req.IsActive
	}

	// 分类以目录为准，id 与名称互相补全
	switch {
	case req.CategoryID != "":
		c, err := s.Categories.ResolveByID(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		q.CategoryID, q.Category = c.ID, c.Name
	case req.Category != "":
		q.Category = req.Category
		if c, err := s.Categories.ResolveByName(ctx, req.Category); err == nil {
			q.CategoryID, q.Category = c.ID, c.Name
		}
	default:
		return fmt.Errorf("%w: category is required", util.ErrInvalidQuestion)
	}
	return q.Validate()
}

func (s *QuestionBankService) CreateQuestion(ctx context.Context, req QuestionRequest) (*model.Question, error) {
	q := &model.Question{CreatedBy: model.CreatedByAdmin, IsActive: true}
	if err := s.applyRequest(ctx, q, req); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionBankService) GetQuestion(id string) (*model.Question, error) {
	q, err := s.Repo.FindQuestionByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionBankService) ListQuestions(category, difficulty, createdBy string, page, limit int) ([]model.Question, int64, error) {
	page, limit = util.NormalizePage(page, limit)
	d, _ := model.ParseDifficulty(difficulty)
	return s.Repo.ListQuestions(category, d, createdBy, page, limit)
}

func (s *QuestionBankService) UpdateQuestion(ctx context.Context, id string, req QuestionRequest) (*model.Question, error) {
	q, err := s.GetQuestion(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyRequest(ctx, q, req); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

// DeactivateQuestion 软删除：只关闭 is_active
func (s *QuestionBankService) DeactivateQuestion(id string) error {
	if _, err := s.GetQuestion(id); err != nil {
		return err
	}
	return s.Repo.SetQuestionActive(id, false)
}

func (s *QuestionBankService) AssignField(questionID, fieldID string) error {
	if !IsKnownField(fieldID) {
		return util.ErrInvalidFieldID
	}
	if _, err := s.GetQuestion(questionID); err != nil {
		return err
	}
	return s.Repo.AssignField(fieldID, questionID)
}

// ImportCuratedBank 把内置题库写入数据库，按题干去重，可重复执行
func (s *QuestionBankService) ImportCuratedBank(ctx context.Context, bank *CuratedBank) (int, error) {
	qs := bank.All()
	for i := range qs {
		// 内置题 id 不是 UUID，入库时重新生成
		qs[i].ID = ""
		if c, err := s.Categories.ResolveByName(ctx, qs[i].Category); err == nil {
			qs[i].CategoryID, qs[i].Category = c.ID, c.Name
		}
	}
	if err := s.Repo.SaveGeneratedQuestions(ctx, qs, ""); err != nil {
		return 0, err
	}
	return len(qs), nil
}
