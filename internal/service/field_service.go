package service

import "assessment_backend/internal/model"

type FieldDetection struct {
	FieldID         string                 `json:"field_id"`
	FieldName       string                 `json:"field_name"`
	LevelTags       []string               `json:"level_tags"`
	PrimaryCategory string                 `json:"primary_category"`
	Weights         []CategoryWeight       `json:"weights"`
	Difficulty      DifficultyDistribution `json:"difficulty"`
}

type FieldService struct{}

func NewFieldService() *FieldService {
	return &FieldService{}
}

func (s *FieldService) List() []StudyField {
	return StudyFields()
}

func (s *FieldService) Detect(profile model.LearnerProfile) FieldDetection {
	f := GetStudyField(DetectStudyField(profile))
	primary, _ := PrimaryCategory(f.ID, "")
	tags := DeriveLevelTags(profile)
	if tags == nil {
		tags = []string{}
	}
	return FieldDetection{
		FieldID:         f.ID,
		FieldName:       f.Name,
		LevelTags:       tags,
		PrimaryCategory: primary,
		Weights:         f.Weights,
		Difficulty:      f.Difficulty,
	}
}
