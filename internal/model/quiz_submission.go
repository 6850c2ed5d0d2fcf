package model

import "gorm.io/datatypes"

// QuizSubmission 一次答题提交及其评分结果
// swagger:model QuizSubmission
type QuizSubmission struct {
	UUIDBase
	UserID           string         `gorm:"size:64;index" json:"user_id"`
	FieldID          string         `gorm:"size:50;index" json:"field_id"`
	Profile          datatypes.JSON `gorm:"type:jsonb" json:"profile,omitempty" swaggertype:"object"`
	Responses        datatypes.JSON `gorm:"type:jsonb" json:"responses" swaggertype:"array,object"`
	QuestionCount    int            `json:"question_count"`
	TotalScore       float64        `json:"total_score"`
	AverageSuspicion float64        `json:"average_suspicion"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}
