package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/repository"
	"assessment_backend/pkg/logger"
	"context"
	"math/rand"

	"go.uber.org/zap"
)

// QuestionStore 题目存储的查询/持久化能力
type QuestionStore interface {
	FindQuestions(ctx context.Context, f repository.QuestionFilter) ([]model.Question, error)
	FindQuestionIDsByField(ctx context.Context, fieldID string) ([]string, error)
	FindQuestionsByIDs(ctx context.Context, ids []string) ([]model.Question, error)
	SaveGeneratedQuestions(ctx context.Context, qs []model.Question, fieldID string) error
}

// QueryRelaxation 逐级放宽的查询策略
type QueryRelaxation int

const (
	ExactMatch QueryRelaxation = iota
	TagsContainRetry
	LevelRelaxed
	CategoryOnly
	AdminRelaxed
)

func (r QueryRelaxation) String() string {
	switch r {
	case ExactMatch:
		return "exact_match"
	case TagsContainRetry:
		return "tags_contain_retry"
	case LevelRelaxed:
		return "level_relaxed"
	case CategoryOnly:
		return "category_only"
	case AdminRelaxed:
		return "admin_relaxed"
	}
	return "unknown"
}

// SourceRequest 一次取题请求；Difficulty 为空表示不限难度
type SourceRequest struct {
	Category   string
	CategoryID string
	Difficulty model.Difficulty
	Count      int
	LevelTags  []string
	AdminOnly  bool
	// AllowAIRelaxation 仅在 AdminOnly 时有意义：池子不足时允许 AI 题补位
	AllowAIRelaxation bool
	// FieldID 非空时只在该领域映射的题目内查询
	FieldID string
}

// SourceStats 统计存储查询次数与失败次数，用于识别整体故障
type SourceStats struct {
	Queries  int
	Failures int
}

func (s *SourceStats) record(err error) {
	if s == nil {
		return
	}
	s.Queries++
	if err != nil {
		s.Failures++
	}
}

// AllFailed 至少发起过一次查询且全部失败
func (s *SourceStats) AllFailed() bool {
	return s != nil && s.Queries > 0 && s.Failures == s.Queries
}

type QuestionSourceLadder struct {
	store            QuestionStore
	overFetch        int
	tagsContainRetry bool
}

func NewQuestionSourceLadder(store QuestionStore, overFetch int, tagsContainRetry bool) *QuestionSourceLadder {
	if overFetch < 1 {
		overFetch = 1
	}
	return &QuestionSourceLadder{store: store, overFetch: overFetch, tagsContainRetry: tagsContainRetry}
}

func (l *QuestionSourceLadder) relaxations(req SourceRequest) []QueryRelaxation {
	steps := []QueryRelaxation{ExactMatch}
	hasLevel := len(req.LevelTags) > 0
	if hasLevel && l.tagsContainRetry {
		steps = append(steps, TagsContainRetry)
	}
	if hasLevel {
		steps = append(steps, LevelRelaxed)
	}
	// 不限难度时 CategoryOnly 与前面的步骤等价
	if req.Difficulty != "" {
		steps = append(steps, CategoryOnly)
	}
	if req.AdminOnly && req.AllowAIRelaxation {
		steps = append(steps, AdminRelaxed)
	}
	return steps
}

func (l *QuestionSourceLadder) filterFor(req SourceRequest, relax QueryRelaxation, ids []string) repository.QuestionFilter {
	f := repository.QuestionFilter{
		CategoryID:    req.CategoryID,
		CategoryName:  req.Category,
		Difficulty:    req.Difficulty,
		AdminOnly:     req.AdminOnly,
		LevelTags:     req.LevelTags,
		TagMatch:      repository.TagMatchOverlap,
		IDs:           ids,
		RestrictToIDs: req.FieldID != "",
		Limit:         req.Count * l.overFetch,
	}
	switch relax {
	case TagsContainRetry:
		f.TagMatch = repository.TagMatchContains
	case LevelRelaxed:
		f.LevelTags = nil
	case CategoryOnly:
		f.Difficulty = ""
		// admin-only 时保留等级过滤容易在任何等级都没有 admin 题时返回空
		if req.AdminOnly {
			f.LevelTags = nil
		}
	case AdminRelaxed:
		f.AdminOnly = false
	}
	return f
}

// Fetch 按放宽顺序取题，直到候选池够 Count×overFetch 道不同题干或策略用尽；返回的题目已登记到 dedup
func (l *QuestionSourceLadder) Fetch(ctx context.Context, req SourceRequest, dedup *DeduplicationContext, rnd *rand.Rand, stats *SourceStats) []model.Question {
	return pickQuestions(l.Pool(ctx, req, dedup, stats), req.Count, dedup, rnd)
}

// Pool 只收集候选，不登记 dedup
func (l *QuestionSourceLadder) Pool(ctx context.Context, req SourceRequest, dedup *DeduplicationContext, stats *SourceStats) []model.Question {
	if req.Count <= 0 {
		return nil
	}

	var ids []string
	if req.FieldID != "" {
		mapped, err := l.store.FindQuestionIDsByField(ctx, req.FieldID)
		stats.record(err)
		if err != nil {
			logger.Log.Warn("加载领域题目映射失败", zap.String("field", req.FieldID), zap.Error(err))
			return nil
		}
		if len(mapped) == 0 {
			return nil
		}
		ids = mapped
	}

	target := req.Count * l.overFetch
	var pool []model.Question
	inPool := make(map[string]struct{})
	for _, relax := range l.relaxations(req) {
		// 同题干不同 id 的行会在 pick 时被去重，按不同题干计数
		if distinctTexts(pool) >= target {
			break
		}
		qs, err := l.store.FindQuestions(ctx, l.filterFor(req, relax, ids))
		stats.record(err)
		if err != nil {
			logger.Log.Warn("题目查询失败",
				zap.String("relaxation", relax.String()),
				zap.String("category", req.Category),
				zap.String("difficulty", string(req.Difficulty)),
				zap.Error(err))
			continue
		}
		for _, q := range qs {
			if _, ok := inPool[q.ID]; ok || dedup.Seen(q) {
				continue
			}
			inPool[q.ID] = struct{}{}
			pool = append(pool, q)
		}
	}
	return pool
}

// pickQuestions 洗牌后无放回地取 n 道，逐一经过 dedup
func pickQuestions(pool []model.Question, n int, dedup *DeduplicationContext, rnd *rand.Rand) []model.Question {
	shuffleQuestions(rnd, pool)
	var out []model.Question
	for _, q := range pool {
		if len(out) >= n {
			break
		}
		if dedup.Accept(q) {
			out = append(out, q)
		}
	}
	return out
}

// distinctTexts 池内不同归一化题干的数量；空题干不会被 dedup 接受，不计入
func distinctTexts(pool []model.Question) int {
	seen := make(map[string]struct{}, len(pool))
	for _, q := range pool {
		if text := model.NormalizeQuestionText(q.QuestionText); text != "" {
			seen[text] = struct{}{}
		}
	}
	return len(seen)
}

// shuffleQuestions Fisher–Yates 原地洗牌
func shuffleQuestions(rnd *rand.Rand, qs []model.Question) {
	if rnd == nil {
		return
	}
	for i := len(qs) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
}
