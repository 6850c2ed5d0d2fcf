package model

import "time"

// QuestionCategory 题目分类，ID 可以是 UUID 也可以是 slug
// swagger:model QuestionCategory
type QuestionCategory struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	LegacyName  string    `gorm:"size:100;index" json:"legacy_name,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (QuestionCategory) TableName() string {
	return "question_categories"
}
