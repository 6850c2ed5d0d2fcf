package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/lib/pq"
)

var errStoreDown = errors.New("connection refused")

type fakeStore struct {
	mu        sync.Mutex
	questions []model.Question
	mappings  map[string][]string
	err       error
	queries   []repository.QuestionFilter
	saved     []model.Question
	savedFor  []string
	byIDs     [][]string
}

func newFakeStore(qs ...model.Question) *fakeStore {
	return &fakeStore{questions: qs, mappings: map[string][]string{}}
}

func matchesCategory(q model.Question, f repository.QuestionFilter) bool {
	switch {
	case f.CategoryID != "" && model.IsUUID(f.CategoryID):
		return q.CategoryID == f.CategoryID
	case f.CategoryName != "":
		return strings.EqualFold(q.Category, f.CategoryName)
	case f.CategoryID != "":
		return strings.EqualFold(q.Category, f.CategoryID)
	}
	return true
}

func matchesTags(tags []string, want []string, mode repository.TagMatchMode) bool {
	if len(want) == 0 {
		return true
	}
	have := map[string]bool{}
	for _, t := range tags {
		have[t] = true
	}
	hits := 0
	for _, w := range want {
		if have[w] {
			hits++
		}
	}
	if mode == repository.TagMatchContains {
		return hits == len(want)
	}
	return hits > 0
}

func (s *fakeStore) FindQuestions(ctx context.Context, f repository.QuestionFilter) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, f)
	if s.err != nil {
		return nil, s.err
	}
	if f.RestrictToIDs && len(f.IDs) == 0 {
		return nil, nil
	}
	idSet := map[string]bool{}
	for _, id := range f.IDs {
		idSet[id] = true
	}
	var out []model.Question
	for _, q := range s.questions {
		if !q.IsActive || !matchesCategory(q, f) {
			continue
		}
		if f.Difficulty != "" && !strings.EqualFold(string(q.Difficulty), string(f.Difficulty)) {
			continue
		}
		if f.AdminOnly && q.CreatedBy != model.CreatedByAdmin {
			continue
		}
		if !matchesTags(q.Tags, f.LevelTags, f.TagMatch) {
			continue
		}
		if len(f.IDs) > 0 && !idSet[q.ID] {
			continue
		}
		out = append(out, q)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) FindQuestionIDsByField(ctx context.Context, fieldID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.mappings[fieldID], nil
}

func (s *fakeStore) FindQuestionsByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byIDs = append(s.byIDs, ids)
	if s.err != nil {
		return nil, s.err
	}
	var out []model.Question
	for _, q := range s.questions {
		for _, id := range ids {
			if q.ID == id {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (s *fakeStore) SaveGeneratedQuestions(ctx context.Context, qs []model.Question, fieldID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for i := range qs {
		if qs[i].ID == "" {
			qs[i].ID = model.GenerateUUID()
		}
		s.saved = append(s.saved, qs[i])
		s.savedFor = append(s.savedFor, fieldID)
	}
	return nil
}

func (s *fakeStore) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

type fakeToggle bool

func (t fakeToggle) IsEnabled(ctx context.Context) bool { return bool(t) }

type fakeGenerator struct {
	mu       sync.Mutex
	err      error
	calls    []GenerationRequest
	produced int
	// repeat 为 true 时每次都返回同一批题目
	repeat bool
}

func (g *fakeGenerator) GenerateQuestions(ctx context.Context, req GenerationRequest) ([]model.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	var out []model.Question
	for i := 0; i < req.Count; i++ {
		n := g.produced
		if g.repeat {
			n = i
		} else {
			g.produced++
		}
		answer := fmt.Sprintf("answer %d", n)
		out = append(out, model.Question{
			Category:      req.Category,
			Difficulty:    req.Difficulty,
			QuestionText:  fmt.Sprintf("Generated %s question number %d?", req.Category, n),
			Options:       pq.StringArray{answer, "wrong a", "wrong b", "wrong c"},
			CorrectAnswer: answer,
			CreatedBy:     model.CreatedByAI,
			IsActive:      true,
		})
	}
	return out, nil
}

func mkQuestion(id, category string, d model.Difficulty, createdBy string, tags ...string) model.Question {
	q := model.Question{
		Category:      category,
		Difficulty:    d,
		QuestionText:  fmt.Sprintf("%s question %s", category, id),
		Options:       pq.StringArray{"a", "b", "c", "d"},
		CorrectAnswer: "a",
		Tags:          tags,
		CreatedBy:     createdBy,
		IsActive:      true,
	}
	q.ID = id
	return q
}

// mkQuestions 生成 n 道同分类同难度的题目，id 形如 prefix-1
func mkQuestions(n int, prefix, category string, d model.Difficulty, createdBy string, tags ...string) []model.Question {
	var out []model.Question
	for i := 1; i <= n; i++ {
		out = append(out, mkQuestion(fmt.Sprintf("%s-%d", prefix, i), category, d, createdBy, tags...))
	}
	return out
}

func fixedRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func normalizedTexts(qs []AssembledQuestion) map[string]int {
	out := map[string]int{}
	for _, q := range qs {
		out[model.NormalizeQuestionText(q.QuestionText)]++
	}
	return out
}
