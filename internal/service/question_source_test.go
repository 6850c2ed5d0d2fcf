package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelaxations_Order(t *testing.T) {
	tests := []struct {
		name  string
		retry bool
		req   SourceRequest
		want  []QueryRelaxation
	}{
		{
			name: "admin with level tags and ai relaxation",
			req:  SourceRequest{Difficulty: model.DifficultyEasy, LevelTags: []string{"level_10"}, AdminOnly: true, AllowAIRelaxation: true},
			want: []QueryRelaxation{ExactMatch, LevelRelaxed, CategoryOnly, AdminRelaxed},
		},
		{
			name:  "tags contain retry enabled",
			retry: true,
			req:   SourceRequest{Difficulty: model.DifficultyEasy, LevelTags: []string{"level_10"}},
			want:  []QueryRelaxation{ExactMatch, TagsContainRetry, LevelRelaxed, CategoryOnly},
		},
		{
			name: "no level tags skips level steps",
			req:  SourceRequest{Difficulty: model.DifficultyHard, AdminOnly: true},
			want: []QueryRelaxation{ExactMatch, CategoryOnly},
		},
		{
			name: "any difficulty skips category only",
			req:  SourceRequest{LevelTags: []string{"level_9"}},
			want: []QueryRelaxation{ExactMatch, LevelRelaxed},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewQuestionSourceLadder(newFakeStore(), 3, tt.retry)
			assert.Equal(t, tt.want, l.relaxations(tt.req))
		})
	}
}

func TestFetch_StopsWhenExactMatchSuffices(t *testing.T) {
	store := newFakeStore(mkQuestions(12, "l", "Logic", model.DifficultyEasy, model.CreatedByAdmin, "level_10")...)
	l := NewQuestionSourceLadder(store, 3, false)

	got := l.Fetch(context.Background(), SourceRequest{
		Category: "logic", Difficulty: model.DifficultyEasy, Count: 4,
		LevelTags: []string{"level_10", "grade_10"}, AdminOnly: true,
	}, NewDeduplicationContext(), fixedRand(), &SourceStats{})

	assert.Len(t, got, 4)
	require.Equal(t, 1, store.queryCount())
	assert.Equal(t, 12, store.queries[0].Limit)
	assert.Equal(t, repository.TagMatchOverlap, store.queries[0].TagMatch)
}

func TestFetch_RelaxesLevelThenDifficulty(t *testing.T) {
	var qs []model.Question
	qs = append(qs, mkQuestions(1, "tagged", "Logic", model.DifficultyMedium, model.CreatedByAdmin, "level_10")...)
	qs = append(qs, mkQuestions(1, "untagged", "Logic", model.DifficultyMedium, model.CreatedByAdmin)...)
	qs = append(qs, mkQuestions(3, "hard", "Logic", model.DifficultyHard, model.CreatedByAdmin)...)
	store := newFakeStore(qs...)
	l := NewQuestionSourceLadder(store, 2, false)

	got := l.Fetch(context.Background(), SourceRequest{
		Category: "Logic", Difficulty: model.DifficultyMedium, Count: 4,
		LevelTags: []string{"level_10"}, AdminOnly: true,
	}, NewDeduplicationContext(), fixedRand(), &SourceStats{})

	assert.Len(t, got, 4)
	require.Len(t, store.queries, 3)
	assert.Nil(t, store.queries[1].LevelTags)
	// admin-only 的 CategoryOnly 不带等级过滤
	assert.Equal(t, model.Difficulty(""), store.queries[2].Difficulty)
	assert.Nil(t, store.queries[2].LevelTags)
	assert.True(t, store.queries[2].AdminOnly)
}

func TestFetch_CategoryOnlyKeepsLevelTagsWhenNotAdmin(t *testing.T) {
	store := newFakeStore()
	l := NewQuestionSourceLadder(store, 1, false)

	l.Fetch(context.Background(), SourceRequest{
		Category: "Logic", Difficulty: model.DifficultyEasy, Count: 2, LevelTags: []string{"level_11"},
	}, NewDeduplicationContext(), fixedRand(), &SourceStats{})

	require.Len(t, store.queries, 3)
	assert.Equal(t, []string{"level_11"}, store.queries[2].LevelTags)
}

func TestFetch_AdminRelaxedOnlyWhenAllowed(t *testing.T) {
	store := newFakeStore(mkQuestions(3, "ai", "Logic", model.DifficultyEasy, model.CreatedByAI)...)
	l := NewQuestionSourceLadder(store, 1, false)
	req := SourceRequest{Category: "Logic", Difficulty: model.DifficultyEasy, Count: 2, AdminOnly: true}

	got := l.Fetch(context.Background(), req, NewDeduplicationContext(), fixedRand(), &SourceStats{})
	assert.Empty(t, got)

	req.AllowAIRelaxation = true
	got = l.Fetch(context.Background(), req, NewDeduplicationContext(), fixedRand(), &SourceStats{})
	assert.Len(t, got, 2)
	for _, q := range got {
		assert.Equal(t, model.CreatedByAI, q.CreatedBy)
	}
}

func TestFetch_FieldScoped(t *testing.T) {
	qs := mkQuestions(4, "q", "Coding", model.DifficultyEasy, model.CreatedByAdmin)
	store := newFakeStore(qs...)
	l := NewQuestionSourceLadder(store, 3, false)
	req := SourceRequest{Category: "Coding", Difficulty: model.DifficultyEasy, Count: 4, AdminOnly: true, FieldID: FieldSTEM}

	got := l.Fetch(context.Background(), req, NewDeduplicationContext(), fixedRand(), &SourceStats{})
	assert.Empty(t, got)
	assert.Equal(t, 0, store.queryCount(), "no mapped ids means no question query")

	store.mappings[FieldSTEM] = []string{"q-1", "q-3"}
	got = l.Fetch(context.Background(), req, NewDeduplicationContext(), fixedRand(), &SourceStats{})
	ids := []string{}
	for _, q := range got {
		ids = append(ids, q.ID)
	}
	assert.ElementsMatch(t, []string{"q-1", "q-3"}, ids)
	for _, f := range store.queries {
		assert.True(t, f.RestrictToIDs)
	}
}

func TestFetch_SkipsSeenQuestions(t *testing.T) {
	qs := mkQuestions(3, "q", "Logic", model.DifficultyEasy, model.CreatedByAdmin)
	dup := qs[0]
	dup.ID = "other-id"
	dup.QuestionText = "  LOGIC question q-1!! "
	store := newFakeStore(append(qs, dup)...)
	l := NewQuestionSourceLadder(store, 3, false)

	dedup := NewDeduplicationContext()
	require.True(t, dedup.Accept(qs[1]))

	got := l.Fetch(context.Background(), SourceRequest{Category: "Logic", Difficulty: model.DifficultyEasy, Count: 5}, dedup, fixedRand(), &SourceStats{})
	assert.Len(t, got, 2, "q-2 already seen and the duplicate text collapses into q-1")
}

func TestFetch_RecordsFailures(t *testing.T) {
	store := newFakeStore()
	store.err = errStoreDown
	l := NewQuestionSourceLadder(store, 3, false)
	stats := &SourceStats{}

	got := l.Fetch(context.Background(), SourceRequest{Category: "Logic", Difficulty: model.DifficultyEasy, Count: 2}, NewDeduplicationContext(), fixedRand(), stats)

	assert.Empty(t, got)
	assert.Equal(t, 2, stats.Queries)
	assert.True(t, stats.AllFailed())
}

func TestShuffleQuestions_Permutation(t *testing.T) {
	qs := mkQuestions(10, "q", "Logic", model.DifficultyEasy, model.CreatedByAdmin)
	shuffled := append([]model.Question(nil), qs...)
	shuffleQuestions(fixedRand(), shuffled)
	assert.ElementsMatch(t, qs, shuffled)
}

func TestFetch_KeepsRelaxingUntilOverFetchTarget(t *testing.T) {
	store := newFakeStore(mkQuestions(6, "l", "Logic", model.DifficultyEasy, model.CreatedByAdmin, "level_10")...)
	l := NewQuestionSourceLadder(store, 3, false)

	got := l.Fetch(context.Background(), SourceRequest{
		Category: "Logic", Difficulty: model.DifficultyEasy, Count: 4,
		LevelTags: []string{"level_10"}, AdminOnly: true,
	}, NewDeduplicationContext(), fixedRand(), &SourceStats{})

	assert.Len(t, got, 4)
	assert.Equal(t, 3, store.queryCount(), "6 rows are below 4×3, so every tier runs")
}

func TestFetch_SameTextRowsDoNotEndLadderEarly(t *testing.T) {
	tagged := mkQuestions(2, "tagged", "Logic", model.DifficultyEasy, model.CreatedByAdmin, "level_10")
	tagged[1].QuestionText = tagged[0].QuestionText + "!"
	store := newFakeStore(mkQuestions(5, "plain", "Logic", model.DifficultyEasy, model.CreatedByAdmin)...)
	store.questions = append(store.questions, tagged...)
	l := NewQuestionSourceLadder(store, 1, false)

	got := l.Fetch(context.Background(), SourceRequest{
		Category: "Logic", Difficulty: model.DifficultyEasy, Count: 2,
		LevelTags: []string{"level_10"}, AdminOnly: true,
	}, NewDeduplicationContext(), fixedRand(), &SourceStats{})

	require.Len(t, got, 2)
	assert.GreaterOrEqual(t, store.queryCount(), 2)
	for text, n := range normalizedTexts(lo.Map(got, func(q model.Question, _ int) AssembledQuestion {
		return AssembledQuestion{Question: q}
	})) {
		assert.Equal(t, 1, n, text)
	}
}

func TestDistinctTexts_IgnoresBlankText(t *testing.T) {
	qs := mkQuestions(3, "q", "Logic", model.DifficultyEasy, model.CreatedByAdmin)
	qs[2].QuestionText = " ?! "
	dup := qs[0]
	dup.ID = "dup"
	assert.Equal(t, 2, distinctTexts(append(qs, dup)))
}
