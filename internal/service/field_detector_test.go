package service

import (
	"assessment_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectStudyField(t *testing.T) {
	tests := []struct {
		name    string
		profile model.LearnerProfile
		want    string
	}{
		{"machine learning interest", model.LearnerProfile{"interests": "machine learning"}, FieldSTEM},
		{"explicit selection wins", model.LearnerProfile{"selected_field": "business", "major": "physics"}, FieldBusiness},
		{"explicit display name", model.LearnerProfile{"study_field_id": "Health/Medicine"}, FieldHealthMedicine},
		{"unknown explicit ignored", model.LearnerProfile{"field_id": "astrology", "major": "Nursing"}, FieldHealthMedicine},
		{"array of skills", model.LearnerProfile{"skills": []interface{}{"Excel", "Accounting"}}, FieldBusiness},
		{"nested background", model.LearnerProfile{"background": map[string]interface{}{"hobby": "painting", "years": 3.0}}, FieldCreativeArts},
		{"priority stem before creative", model.LearnerProfile{"interests": []string{"music", "programming"}}, FieldSTEM},
		{"priority business before social", model.LearnerProfile{"goals": "study economics and psychology"}, FieldBusiness},
		{"word boundary", model.LearnerProfile{"interests": "martial arts history"}, FieldSocialSciences},
		{"underscore separated", model.LearnerProfile{"field_of_study": "social_work"}, FieldSocialSciences},
		{"nothing indicative", model.LearnerProfile{"interests": "gardening", "grade": "10"}, FieldOther},
		{"empty profile", model.LearnerProfile{}, FieldOther},
		{"nil profile", nil, FieldOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectStudyField(tt.profile))
		})
	}
}

func TestDeriveLevelTags(t *testing.T) {
	tests := []struct {
		name    string
		profile model.LearnerProfile
		want    []string
	}{
		{"numeric grade string", model.LearnerProfile{"grade": "10"}, []string{"level_10", "grade_10"}},
		{"numeric grade number", model.LearnerProfile{"grade_level": 12.0}, []string{"level_12", "grade_12"}},
		{"ordinal grade", model.LearnerProfile{"education_level": "11th grade"}, []string{"level_11", "grade_11"}},
		{"legacy grade tag", model.LearnerProfile{"level": "grade_9"}, []string{"level_9", "grade_9"}},
		{"numeric wins over coarse", model.LearnerProfile{"education_level": "high_school", "grade": "9"}, []string{"level_9", "grade_9"}},
		{"high school", model.LearnerProfile{"education_level": "high_school"}, []string{
			"level_9", "grade_9", "level_10", "grade_10", "level_11", "grade_11", "level_12", "grade_12",
		}},
		{"undergraduate", model.LearnerProfile{"education_level": "Undergraduate"}, []string{"level_undergraduate"}},
		{"graduate", model.LearnerProfile{"education_level": "graduate"}, []string{"level_graduate"}},
		{"postgraduate before graduate", model.LearnerProfile{"education_level": "post-graduate"}, []string{"level_postgraduate"}},
		{"phd", model.LearnerProfile{"level": "PhD"}, []string{"level_postgraduate"}},
		{"out of range grade", model.LearnerProfile{"grade": "7"}, nil},
		{"no level info", model.LearnerProfile{"interests": "grade 10 math"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveLevelTags(tt.profile))
		})
	}
}

func TestNormalizeProfile(t *testing.T) {
	bag := NormalizeProfile(model.LearnerProfile{
		" Skills ": []interface{}{"Go", map[string]interface{}{"b": "SQL", "a": "Docker"}, nil, true},
		"grade":    10.0,
		"empty":    "   ",
	})
	assert.Equal(t, []string{"Go", "Docker", "SQL"}, bag["skills"])
	assert.Equal(t, []string{"10"}, bag["grade"])
	assert.Empty(t, bag["empty"])
	assert.Equal(t, "go docker sql 10", bag.Text("skills", "grade"))
}

func TestPrimaryCategory(t *testing.T) {
	cat, strict := PrimaryCategory(FieldSTEM, "")
	assert.Equal(t, CategoryCoding, cat)
	assert.False(t, strict)

	cat, strict = PrimaryCategory(FieldSTEM, " Science ")
	assert.Equal(t, "Science", cat)
	assert.True(t, strict)

	cat, _ = PrimaryCategory("unknown", "")
	assert.Equal(t, CategoryLogic, cat)
}

func TestFieldWeightsUnknownFallsBackToOther(t *testing.T) {
	assert.Equal(t, FieldWeights(FieldOther), FieldWeights("does-not-exist"))
	for _, f := range StudyFields() {
		sum := 0
		for _, w := range f.Weights {
			sum += w.Weight
		}
		assert.Equal(t, 100, sum, f.ID)
		d := f.Difficulty
		assert.Equal(t, 100, d.Easy+d.Medium+d.Hard, f.ID)
	}
}
