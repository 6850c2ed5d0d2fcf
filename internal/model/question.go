package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties 固定顺序：easy, medium, hard
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy, true
	case DifficultyMedium:
		return DifficultyMedium, true
	case DifficultyHard:
		return DifficultyHard, true
	}
	return "", false
}

const (
	CreatedByAdmin = "admin"
	CreatedByAI    = "ai"
)

const QuestionOptionCount = 4

var ErrInvalidQuestion = errors.New("invalid question")

// Question 题库中的一道选择题
// swagger:model Question
type Question struct {
	UUIDBase
	Category          string         `gorm:"size:100;index" json:"category"`
	CategoryID        string         `gorm:"size:64;index" json:"category_id"`
	Difficulty        Difficulty     `gorm:"size:20;index" json:"difficulty"`
	QuestionText      string         `gorm:"type:text;not null" json:"question_text"`
	TextHash          string         `gorm:"size:64;uniqueIndex" json:"-"`
	Options           pq.StringArray `gorm:"type:text[]" json:"options" swaggertype:"array,string"`
	CorrectAnswer     string         `gorm:"type:text;not null" json:"correct_answer"`
	Explanation       string         `gorm:"type:text" json:"explanation"`
	LearningObjective string         `gorm:"type:text" json:"learning_objective,omitempty"`
	Context           string         `gorm:"type:text" json:"context,omitempty"`
	Tags              pq.StringArray `gorm:"type:text[]" json:"tags" swaggertype:"array,string"`
	CreatedBy         string         `gorm:"size:20;index;default:'admin'" json:"created_by"`
	IsActive          bool           `gorm:"default:true;index" json:"is_active"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeSave(tx *gorm.DB) error {
	q.TextHash = HashQuestionText(q.QuestionText)
	return nil
}

// Validate 四个选项且恰好一个等于正确答案
func (q *Question) Validate() error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("%w: empty question text", ErrInvalidQuestion)
	}
	if len(q.Options) != QuestionOptionCount {
		return fmt.Errorf("%w: expected %d options, got %d", ErrInvalidQuestion, QuestionOptionCount, len(q.Options))
	}
	if _, ok := ParseDifficulty(string(q.Difficulty)); !ok {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidQuestion, q.Difficulty)
	}
	matches := 0
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("%w: correct answer must match exactly one option, matched %d", ErrInvalidQuestion, matches)
	}
	return nil
}

// NormalizeQuestionText 小写、去标点、压缩空白
func NormalizeQuestionText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func HashQuestionText(s string) string {
	sum := sha256.Sum256([]byte(NormalizeQuestionText(s)))
	return hex.EncodeToString(sum[:])
}
