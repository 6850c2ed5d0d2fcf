package model

// LearnerProfile 调用方提供的学习者资料，结构不固定，只读
type LearnerProfile map[string]interface{}
