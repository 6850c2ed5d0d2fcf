package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateDifficulty_SumsExactly(t *testing.T) {
	for _, f := range StudyFields() {
		for _, count := range []int{0, 1, 2, 3, 5, 10, 20} {
			split := AllocateDifficulty(f.Difficulty, count)
			assert.Equal(t, count, split.Total(), "field %s count %d", f.ID, count)
			if count > 0 {
				assert.GreaterOrEqual(t, split.Medium, 1, "field %s count %d", f.ID, count)
			}
		}
	}
}

func TestAllocateDifficulty_OtherField(t *testing.T) {
	other := FieldDifficultyDistribution(FieldOther)
	tests := []struct {
		count int
		want  DifficultySplit
	}{
		{0, DifficultySplit{}},
		{1, DifficultySplit{Medium: 1}},
		{3, DifficultySplit{Easy: 1, Medium: 1, Hard: 1}},
		{5, DifficultySplit{Easy: 2, Medium: 2, Hard: 1}},
		{10, DifficultySplit{Easy: 3, Medium: 5, Hard: 2}},
		{20, DifficultySplit{Easy: 6, Medium: 10, Hard: 4}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AllocateDifficulty(other, tt.count), "count %d", tt.count)
	}
}

func TestAllocateDifficulty_EdgeDistributions(t *testing.T) {
	assert.Equal(t, DifficultySplit{Medium: 4}, AllocateDifficulty(DifficultyDistribution{}, 4))
	assert.Equal(t, DifficultySplit{Easy: 2}, AllocateDifficulty(DifficultyDistribution{Easy: 100}, 2))

	// 向上取整溢出时优先从 medium 扣，但不低于 1
	split := AllocateDifficulty(DifficultyDistribution{Easy: 50, Medium: 1, Hard: 50}, 2)
	assert.Equal(t, 2, split.Total())
	assert.Equal(t, 1, split.Medium)
}
