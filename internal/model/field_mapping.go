package model

import "time"

// FieldQuestionMapping 学科领域与题目的多对多映射
type FieldQuestionMapping struct {
	FieldID    string    `gorm:"primaryKey;size:50" json:"field_id"`
	QuestionID string    `gorm:"primaryKey;type:uuid;index" json:"question_id"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (FieldQuestionMapping) TableName() string {
	return "field_question_mappings"
}
