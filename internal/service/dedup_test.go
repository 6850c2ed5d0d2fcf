package service

import (
	"assessment_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicationContext(t *testing.T) {
	d := NewDeduplicationContext()
	q1 := mkQuestion("1", "Logic", model.DifficultyEasy, model.CreatedByAdmin)
	q1.QuestionText = "What is 2 + 2?"

	require.True(t, d.Accept(q1))
	assert.False(t, d.Accept(q1), "same id")

	sameText := q1
	sameText.ID = "2"
	sameText.QuestionText = "  what IS 2 2 "
	assert.True(t, d.Seen(sameText))
	assert.False(t, d.Accept(sameText), "same normalized text")

	sameID := q1
	sameID.QuestionText = "A different question"
	assert.False(t, d.Accept(sameID), "same id with different text")

	blank := mkQuestion("3", "Logic", model.DifficultyEasy, model.CreatedByAdmin)
	blank.QuestionText = "?!"
	assert.False(t, d.Accept(blank))

	assert.Equal(t, 1, d.Len())
	assert.Equal(t, []string{"what is 2 2"}, d.Texts())
}

func TestDeduplicationContext_AcceptsUnsavedQuestions(t *testing.T) {
	d := NewDeduplicationContext()
	a := model.Question{QuestionText: "First generated"}
	b := model.Question{QuestionText: "Second generated"}
	assert.True(t, d.Accept(a))
	assert.True(t, d.Accept(b), "empty ids are not treated as duplicates")
}
