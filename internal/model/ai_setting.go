package model

import "time"

const AISettingGenerationEnabled = "ai_generation_enabled"

// AISetting AI 开关的持久化覆盖值
type AISetting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Enabled   bool      `json:"enabled"`
	UpdatedBy string    `gorm:"size:100" json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AISetting) TableName() string {
	return "ai_settings"
}
