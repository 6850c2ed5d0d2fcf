package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/util"
	"assessment_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStore interface {
	Create(ctx context.Context, s *model.QuizSubmission) error
	FindByID(ctx context.Context, id string) (*model.QuizSubmission, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]model.QuizSubmission, int64, error)
}

type AnswerSubmission struct {
	QuestionID       string `json:"question_id" binding:"required"`
	Answer           string `json:"answer"`
	Explanation      string `json:"explanation"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

type SubmitRequest struct {
	FieldID string               `json:"field_id"`
	Profile model.LearnerProfile `json:"profile"`
	Answers []AnswerSubmission   `json:"answers" binding:"required"`
}

type SubmittedResponse struct {
	EvaluatedResponse
	Suspicion SuspicionAnalysis `json:"suspicion"`
}

type SubmitResult struct {
	SubmissionID     string              `json:"submission_id"`
	FieldID          string              `json:"field_id"`
	Responses        []SubmittedResponse `json:"responses"`
	TotalScore       float64             `json:"total_score"`
	AverageScore     float64             `json:"average_score"`
	AverageSuspicion float64             `json:"average_suspicion"`
}

type QuizService struct {
	questions   QuestionStore
	submissions SubmissionStore
	scoring     *ScoringService
	detection   *AIDetectionService
	bank        *CuratedBank
}

func NewQuizService(questions QuestionStore, submissions SubmissionStore, scoring *ScoringService, detection *AIDetectionService, bank *CuratedBank) *QuizService {
	return &QuizService{
		questions:   questions,
		submissions: submissions,
		scoring:     scoring,
		detection:   detection,
		bank:        bank,
	}
}

// loadQuestions curated-* 题目来自内置题库，其余合法 uuid 查库；找不到的 id 不出现在结果里
func (s *QuizService) loadQuestions(ctx context.Context, answers []AnswerSubmission) (map[string]model.Question, error) {
	byID := make(map[string]model.Question, len(answers))
	var dbIDs []string
	for _, a := range answers {
		if IsCuratedID(a.QuestionID) {
			if s.bank == nil {
				continue
			}
			if q, ok := s.bank.Get(a.QuestionID); ok {
				byID[q.ID] = q
			}
			continue
		}
		// id 列是 uuid，非法 id 查库会报错而不是查不到
		if !model.IsUUID(a.QuestionID) {
			continue
		}
		dbIDs = append(dbIDs, a.QuestionID)
	}
	if len(dbIDs) > 0 {
		qs, err := s.questions.FindQuestionsByIDs(ctx, dbIDs)
		if err != nil {
			return nil, err
		}
		for _, q := range qs {
			byID[q.ID] = q
		}
	}
	return byID, nil
}

func (s *QuizService) Submit(ctx context.Context, userID string, req SubmitRequest) (*SubmitResult, error) {
	if len(req.Answers) == 0 {
		return nil, fmt.Errorf("%w: no answers", util.ErrInvalidSubmission)
	}
	questions, err := s.loadQuestions(ctx, req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to load submitted questions: %w", err)
	}

	fieldID := req.FieldID
	if !IsKnownField(fieldID) {
		fieldID = DetectStudyField(req.Profile)
	}

	result := &SubmitResult{FieldID: fieldID}
	suspicionSum := 0
	for _, a := range req.Answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", util.ErrQuestionNotFound, a.QuestionID)
		}
		eval := s.scoring.EvaluateWithFeedback(ctx, q, a.Answer, a.Explanation)
		suspicion := s.detection.Analyze(a.Explanation, q.QuestionText, time.Duration(a.TimeSpentSeconds)*time.Second)
		result.Responses = append(result.Responses, SubmittedResponse{EvaluatedResponse: eval, Suspicion: suspicion})
		result.TotalScore += eval.TotalScore
		suspicionSum += suspicion.Score
	}
	n := float64(len(result.Responses))
	result.AverageScore = result.TotalScore / n
	result.AverageSuspicion = float64(suspicionSum) / n

	profileJSON, err := json.Marshal(req.Profile)
	if err != nil {
		return nil, err
	}
	responsesJSON, err := json.Marshal(result.Responses)
	if err != nil {
		return nil, err
	}
	sub := &model.QuizSubmission{
		UserID:           userID,
		FieldID:          fieldID,
		Profile:          datatypes.JSON(profileJSON),
		Responses:        datatypes.JSON(responsesJSON),
		QuestionCount:    len(result.Responses),
		TotalScore:       result.TotalScore,
		AverageSuspicion: result.AverageSuspicion,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}
	result.SubmissionID = sub.ID

	logger.Log.Info("答卷已提交",
		zap.String("user", userID),
		zap.String("field", fieldID),
		zap.Int("answers", len(result.Responses)),
		zap.Float64("total_score", result.TotalScore))
	return result, nil
}

// Evaluate 单题即时评分，不落库
func (s *QuizService) Evaluate(ctx context.Context, a AnswerSubmission) (*SubmittedResponse, error) {
	questions, err := s.loadQuestions(ctx, []AnswerSubmission{a})
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	q, ok := questions[a.QuestionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrQuestionNotFound, a.QuestionID)
	}
	return &SubmittedResponse{
		EvaluatedResponse: s.scoring.EvaluateWithFeedback(ctx, q, a.Answer, a.Explanation),
		Suspicion:         s.detection.Analyze(a.Explanation, q.QuestionText, time.Duration(a.TimeSpentSeconds)*time.Second),
	}, nil
}

func (s *QuizService) GetSubmission(ctx context.Context, userID, id string) (*model.QuizSubmission, error) {
	sub, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission %s: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, err
	}
	if sub.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return sub, nil
}

func (s *QuizService) ListSubmissions(ctx context.Context, userID string, page, limit int) ([]model.QuizSubmission, int64, error) {
	page, limit = util.NormalizePage(page, limit)
	return s.submissions.ListByUser(ctx, userID, page, limit)
}
