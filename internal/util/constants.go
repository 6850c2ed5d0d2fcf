package util

// 单次组卷题量
const (
	DefaultQuestionTotal = 10
	MaxQuestionTotal     = 50
)
