package service

import (
	"assessment_backend/internal/config"
	"assessment_backend/internal/model"
	"assessment_backend/internal/util"
	"assessment_backend/pkg/logger"
	"assessment_backend/pkg/monitoring"
	"assessment_backend/pkg/tracing"
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const QuestionTypeMultipleChoice = "multiple_choice"

// 组卷各阶段的来源标记
const (
	SourceFastPath      = "fast_path"
	SourceAdmin         = "admin"
	SourceAI            = "ai"
	SourceCurated       = "curated"
	SourceDBTopUp       = "db_topup"
	SourceCrossCategory = "cross_category"
	SourceLegacy        = "legacy"
)

// 单次 AI 请求携带的去重题干上限
const maxAvoidTexts = 50

// 补位阶段的难度顺序
var topUpOrder = []model.Difficulty{model.DifficultyMedium, model.DifficultyEasy, model.DifficultyHard}

// AssembledQuestion 组卷结果中的一道题及其展示元数据
type AssembledQuestion struct {
	model.Question
	Type             string `json:"type"`
	Points           int    `json:"points"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
	Source           string `json:"source"`
}

type SelectionRequest struct {
	Profile model.LearnerProfile `json:"profile"`
	// FieldID 可选，已知领域时跳过检测
	FieldID string `json:"field_id"`
	// Category 显式指定分类（id 或名称），指定后不跨分类补题
	Category string `json:"category"`
	Total    int    `json:"total"`
}

type SelectionResult struct {
	FieldID         string              `json:"field_id"`
	FieldName       string              `json:"field_name"`
	PrimaryCategory string              `json:"primary_category"`
	Strict          bool                `json:"strict"`
	LevelTags       []string            `json:"level_tags"`
	AIEnabled       bool                `json:"ai_enabled"`
	Split           DifficultySplit     `json:"difficulty_split"`
	Questions       []AssembledQuestion `json:"questions"`
	UsedLegacy      bool                `json:"used_legacy"`
}

type QuestionSelectionService struct {
	store      QuestionStore
	generator  QuestionGenerator
	toggle     AIToggle
	categories CategoryResolver
	bank       *CuratedBank

	mu      sync.RWMutex
	ladder  *QuestionSourceLadder
	newRand func() *rand.Rand
}

func NewQuestionSelectionService(store QuestionStore, generator QuestionGenerator, toggle AIToggle, categories CategoryResolver, bank *CuratedBank, cfg config.SelectionConfig) *QuestionSelectionService {
	return &QuestionSelectionService{
		store:      store,
		generator:  generator,
		toggle:     toggle,
		categories: categories,
		bank:       bank,
		ladder:     NewQuestionSourceLadder(store, cfg.OverFetchMultiplier, cfg.TagsContainRetry),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// UpdateSelectionConfig 配置热更新
func (s *QuestionSelectionService) UpdateSelectionConfig(cfg config.SelectionConfig) {
	s.mu.Lock()
	s.ladder = NewQuestionSourceLadder(s.store, cfg.OverFetchMultiplier, cfg.TagsContainRetry)
	s.mu.Unlock()
}

func (s *QuestionSelectionService) currentLadder() *QuestionSourceLadder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ladder
}

func questionPoints(d model.Difficulty) int {
	switch d {
	case model.DifficultyEasy:
		return 1
	case model.DifficultyHard:
		return 3
	}
	return 2
}

func questionTimeLimit(d model.Difficulty) int {
	switch d {
	case model.DifficultyEasy:
		return 60
	case model.DifficultyHard:
		return 120
	}
	return 90
}

func newAssembledQuestion(q model.Question, source string) AssembledQuestion {
	return AssembledQuestion{
		Question:         q,
		Type:             QuestionTypeMultipleChoice,
		Points:           questionPoints(q.Difficulty),
		TimeLimitSeconds: questionTimeLimit(q.Difficulty),
		Source:           source,
	}
}

// assembly 单次组卷的状态，不跨请求共享
type assembly struct {
	svc       *QuestionSelectionService
	ladder    *QuestionSourceLadder
	dedup     *DeduplicationContext
	rnd       *rand.Rand
	stats     *SourceStats
	total     int
	field     StudyField
	category  string
	catID     string
	strict    bool
	levelTags []string
	aiEnabled bool
	out       []AssembledQuestion
}

func (a *assembly) short() int {
	return a.total - len(a.out)
}

func (a *assembly) add(qs []model.Question, source string) {
	added := 0
	for _, q := range qs {
		if a.short() <= 0 {
			break
		}
		a.out = append(a.out, newAssembledQuestion(q, source))
		added++
	}
	if added > 0 {
		monitoring.QuestionsSelected.WithLabelValues(source).Add(float64(added))
	}
}

// addAdmin admin 优先阶段放宽到 AI 题时，AI 题按数据库补位记录来源
func (a *assembly) addAdmin(qs []model.Question) {
	for _, q := range qs {
		source := SourceAdmin
		if q.CreatedBy == model.CreatedByAI {
			source = SourceDBTopUp
		}
		a.add([]model.Question{q}, source)
	}
}

// request AI 关闭时 admin-only 不允许放宽到 AI 题
func (a *assembly) request(d model.Difficulty, count int, adminOnly bool) SourceRequest {
	return SourceRequest{
		Category:          a.category,
		CategoryID:        a.catID,
		Difficulty:        d,
		Count:             count,
		LevelTags:         a.levelTags,
		AdminOnly:         adminOnly,
		AllowAIRelaxation: adminOnly && a.aiEnabled,
	}
}

// GenerateQuestionsForStudent 组卷：快速路径 → admin 优先 → AI/admin 补余 → 数据库补位 → 严格分类 AI 补位 → 内置题库 → 跨分类
func (s *QuestionSelectionService) GenerateQuestionsForStudent(ctx context.Context, req SelectionRequest) (*SelectionResult, error) {
	start := time.Now()
	total := req.Total
	if total <= 0 {
		total = util.DefaultQuestionTotal
	}
	if total > util.MaxQuestionTotal {
		total = util.MaxQuestionTotal
	}

	fieldID := req.FieldID
	if !IsKnownField(fieldID) {
		fieldID = DetectStudyField(req.Profile)
	}
	field := GetStudyField(fieldID)
	primary, strict := PrimaryCategory(field.ID, req.Category)

	ctx, span := tracing.Tracer.Start(ctx, "QuestionSelection.GenerateQuestionsForStudent")
	defer span.End()
	span.SetAttributes(
		attribute.String("field", field.ID),
		attribute.String("category", primary),
		attribute.Bool("strict", strict),
		attribute.Int("total", total),
	)

	a := &assembly{
		svc:       s,
		ladder:    s.currentLadder(),
		dedup:     NewDeduplicationContext(),
		rnd:       s.newRand(),
		stats:     &SourceStats{},
		total:     total,
		field:     field,
		strict:    strict,
		levelTags: DeriveLevelTags(req.Profile),
		aiEnabled: s.generator != nil && s.toggle != nil && s.toggle.IsEnabled(ctx),
	}
	a.category, a.catID = s.resolveCategory(ctx, primary)

	result := &SelectionResult{
		FieldID:         field.ID,
		FieldName:       field.Name,
		PrimaryCategory: a.category,
		Strict:          strict,
		LevelTags:       a.levelTags,
		AIEnabled:       a.aiEnabled,
		Split:           AllocateDifficulty(field.Difficulty, total),
	}

	if !s.fastPath(ctx, a) {
		s.adminPriority(ctx, a)
		s.fillRemaining(ctx, a)
		s.dbTopUp(ctx, a)
		if a.strict && a.aiEnabled && a.short() > 0 {
			s.generateSplit(ctx, a, a.short())
		}
		if !a.strict && a.aiEnabled && a.short() > 0 {
			s.curatedTopUp(a, []string{a.category}, SourceCurated)
		}
		if !a.strict && a.aiEnabled && a.short() > 0 {
			s.curatedTopUp(a, field.CategoriesByWeight(), SourceCrossCategory)
		}
	}
	if len(a.out) > total {
		a.out = a.out[:total]
	}

	if a.stats.AllFailed() && a.short() > 0 {
		logger.Log.Error("题目来源全部不可用，使用旧版分配策略",
			zap.String("field", field.ID),
			zap.Int("queries", a.stats.Queries))
		legacy, err := s.generateLegacy(field, total, a.rnd)
		if err != nil {
			monitoring.PipelineFallbacks.WithLabelValues("failed").Inc()
			span.RecordError(err)
			return nil, err
		}
		monitoring.PipelineFallbacks.WithLabelValues("succeeded").Inc()
		a.out = legacy
		result.UsedLegacy = true
	}

	result.Questions = a.out
	if result.Questions == nil {
		result.Questions = []AssembledQuestion{}
	}
	monitoring.PipelineDuration.WithLabelValues(field.ID).Observe(time.Since(start).Seconds())
	logger.Log.Info("组卷完成",
		zap.String("field", field.ID),
		zap.String("category", a.category),
		zap.Bool("ai_enabled", a.aiEnabled),
		zap.Int("requested", total),
		zap.Int("returned", len(result.Questions)),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// resolveCategory 返回分类名称与 id；目录不可用时按原值处理
func (s *QuestionSelectionService) resolveCategory(ctx context.Context, category string) (string, string) {
	if s.categories == nil {
		return category, ""
	}
	if c, err := s.categories.ResolveByID(ctx, category); err == nil {
		return c.Name, c.ID
	}
	if c, err := s.categories.ResolveByName(ctx, category); err == nil {
		return c.Name, c.ID
	}
	// 旧版客户端仍会传 snake_case 分类名
	if id, err := s.categories.LegacyNameToID(ctx, category); err == nil {
		if c, err := s.categories.ResolveByID(ctx, id); err == nil {
			return c.Name, c.ID
		}
	}
	return category, ""
}

// fastPath 分类下（不限难度与等级）的候选已足够时直接随机抽取
func (s *QuestionSelectionService) fastPath(ctx context.Context, a *assembly) bool {
	req := a.request("", a.total, !a.aiEnabled)
	req.LevelTags = nil
	pool := a.ladder.Pool(ctx, req, a.dedup, a.stats)
	if distinctTexts(pool) < a.total {
		return false
	}
	a.add(pickQuestions(pool, a.total, a.dedup, a.rnd), SourceFastPath)
	return true
}

func highPriorityCount(total int) int {
	if total <= 10 {
		return min(5, total)
	}
	return min(10, total)
}

// adminPriority 先取领域映射的 admin 题，再用分类内 admin 题补足
func (s *QuestionSelectionService) adminPriority(ctx context.Context, a *assembly) {
	split := AllocateDifficulty(a.field.Difficulty, highPriorityCount(a.total))
	for _, d := range model.Difficulties {
		need := split.Get(d)
		if need <= 0 {
			continue
		}
		req := a.request(d, need, true)
		req.FieldID = a.field.ID
		got := a.ladder.Fetch(ctx, req, a.dedup, a.rnd, a.stats)
		a.addAdmin(got)
		if rest := need - len(got); rest > 0 {
			a.addAdmin(a.ladder.Fetch(ctx, a.request(d, rest, true), a.dedup, a.rnd, a.stats))
		}
	}
}

// fillRemaining AI 开启时按难度生成；关闭时只用 admin 题且不限难度
func (s *QuestionSelectionService) fillRemaining(ctx context.Context, a *assembly) {
	remaining := a.short()
	if remaining <= 0 {
		return
	}
	if !a.aiEnabled {
		a.add(a.ladder.Fetch(ctx, a.request("", remaining, true), a.dedup, a.rnd, a.stats), SourceAdmin)
		return
	}

	split := AllocateDifficulty(a.field.Difficulty, remaining)
	for _, d := range model.Difficulties {
		n := split.Get(d)
		if n <= 0 {
			continue
		}
		if _, err := s.generateAI(ctx, a, d, n); err != nil && s.bank != nil {
			a.add(s.bank.Take(a.category, d, n, a.dedup, a.rnd), SourceCurated)
		}
	}
}

// generateAI 生成并去重，接受的题目回写存储供复用
func (s *QuestionSelectionService) generateAI(ctx context.Context, a *assembly, d model.Difficulty, n int) (int, error) {
	avoid := a.dedup.Texts()
	if len(avoid) > maxAvoidTexts {
		avoid = avoid[len(avoid)-maxAvoidTexts:]
	}
	qs, err := s.generator.GenerateQuestions(ctx, GenerationRequest{
		Category:   a.category,
		Difficulty: d,
		Count:      n,
		LevelTags:  a.levelTags,
		FieldName:  a.field.Name,
		Avoid:      avoid,
	})
	if err != nil {
		monitoring.AIGenerationFailures.WithLabelValues(a.category).Inc()
		logger.Log.Warn("AI 出题失败",
			zap.String("category", a.category),
			zap.String("difficulty", string(d)),
			zap.Error(err))
		return 0, err
	}

	var accepted []model.Question
	for _, q := range qs {
		if len(accepted) >= n {
			break
		}
		q.Category = a.category
		q.CategoryID = a.catID
		q.Difficulty = d
		q.CreatedBy = model.CreatedByAI
		if len(q.Tags) == 0 {
			q.Tags = append(q.Tags, a.levelTags...)
		}
		if a.dedup.Accept(q) {
			accepted = append(accepted, q)
		}
	}
	if len(accepted) == 0 {
		return 0, nil
	}

	if err := s.store.SaveGeneratedQuestions(ctx, accepted, a.field.ID); err != nil {
		logger.Log.Warn("保存 AI 题目失败", zap.Int("count", len(accepted)), zap.Error(err))
		for i := range accepted {
			if accepted[i].ID == "" {
				accepted[i].ID = model.GenerateUUID()
			}
		}
	}
	a.add(accepted, SourceAI)
	return len(accepted), nil
}

// generateSplit 严格分类下按难度分布继续生成
func (s *QuestionSelectionService) generateSplit(ctx context.Context, a *assembly, n int) {
	split := AllocateDifficulty(a.field.Difficulty, n)
	for _, d := range topUpOrder {
		if k := min(split.Get(d), a.short()); k > 0 {
			_, _ = s.generateAI(ctx, a, d, k)
		}
	}
}

// dbTopUp AI 关闭时仍然只取 admin 题
func (s *QuestionSelectionService) dbTopUp(ctx context.Context, a *assembly) {
	for _, d := range topUpOrder {
		if a.short() <= 0 {
			return
		}
		a.add(a.ladder.Fetch(ctx, a.request(d, a.short(), !a.aiEnabled), a.dedup, a.rnd, a.stats), SourceDBTopUp)
	}
}

func (s *QuestionSelectionService) curatedTopUp(a *assembly, categories []string, source string) {
	if s.bank == nil {
		return
	}
	for _, cat := range categories {
		for _, d := range topUpOrder {
			if a.short() <= 0 {
				return
			}
			a.add(s.bank.Take(cat, d, a.short(), a.dedup, a.rnd), source)
		}
	}
}

// calculateQuestionDistribution 按权重百分比四舍五入，误差一次性修正到权重最高的分类
func calculateQuestionDistribution(weights []CategoryWeight, total int) map[string]int {
	counts := make(map[string]int, len(weights))
	if total <= 0 || len(weights) == 0 {
		return counts
	}
	weightSum := 0
	for _, w := range weights {
		weightSum += w.Weight
	}
	if weightSum <= 0 {
		return counts
	}

	allocated := 0
	top := weights[0]
	for _, w := range weights {
		n := int(math.Round(float64(w.Weight*total) / float64(weightSum)))
		counts[w.Category] = n
		allocated += n
		if w.Weight > top.Weight {
			top = w
		}
	}
	counts[top.Category] += total - allocated
	if counts[top.Category] < 0 {
		counts[top.Category] = 0
	}
	return counts
}

// generateLegacy 整体故障时的兜底：按权重分配后全部取自内置题库
func (s *QuestionSelectionService) generateLegacy(field StudyField, total int, rnd *rand.Rand) ([]AssembledQuestion, error) {
	if s.bank == nil {
		return nil, fmt.Errorf("legacy question generation unavailable: %w", util.ErrNoQuestionsAvailable)
	}
	dedup := NewDeduplicationContext()
	counts := calculateQuestionDistribution(field.Weights, total)

	var out []AssembledQuestion
	for _, cat := range field.CategoriesByWeight() {
		split := AllocateDifficulty(field.Difficulty, counts[cat])
		for _, d := range model.Difficulties {
			for _, q := range s.bank.Take(cat, d, split.Get(d), dedup, rnd) {
				out = append(out, newAssembledQuestion(q, SourceLegacy))
			}
		}
	}
	if len(out) > total {
		out = out[:total]
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("legacy question generation for field %s produced no questions: %w", field.ID, util.ErrNoQuestionsAvailable)
	}
	monitoring.QuestionsSelected.WithLabelValues(SourceLegacy).Add(float64(len(out)))
	return out, nil
}
