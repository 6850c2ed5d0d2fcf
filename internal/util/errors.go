package util

import (
	"assessment_backend/internal/model"
	"errors"
)

var (
	ErrPermissionDenied     = errors.New("permission denied")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrInvalidQuestion      = model.ErrInvalidQuestion
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrInvalidSubmission    = errors.New("invalid submission")
	ErrInvalidFieldID       = errors.New("unknown study field")
	ErrInvalidCategory      = errors.New("invalid category")
)
