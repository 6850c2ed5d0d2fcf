package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/util"
	"assessment_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CategoryStore interface {
	FindAll(ctx context.Context) ([]model.QuestionCategory, error)
	FindByID(ctx context.Context, id string) (*model.QuestionCategory, error)
	Create(ctx context.Context, c *model.QuestionCategory) error
	Update(ctx context.Context, c *model.QuestionCategory) error
	Count(ctx context.Context) (int64, error)
}

// CategoryResolver 选题流水线只需要按 id/名称/旧版名称查分类
type CategoryResolver interface {
	ResolveByID(ctx context.Context, id string) (*model.QuestionCategory, error)
	ResolveByName(ctx context.Context, name string) (*model.QuestionCategory, error)
	LegacyNameToID(ctx context.Context, legacy string) (string, error)
}

type CategoryRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LegacyName  string `json:"legacy_name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// CategoryService 带 TTL 的分类目录缓存
type CategoryService struct {
	repo CategoryStore
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	byID     map[string]model.QuestionCategory
	byName   map[string]model.QuestionCategory
	byLegacy map[string]model.QuestionCategory
	loadedAt time.Time
}

func NewCategoryService(repo CategoryStore, ttl time.Duration) *CategoryService {
	return &CategoryService{repo: repo, ttl: ttl, now: time.Now}
}

func categoryKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *CategoryService) SetTTL(ttl time.Duration) {
	s.mu.Lock()
	s.ttl = ttl
	s.mu.Unlock()
}

func (s *CategoryService) Refresh(ctx context.Context) error {
	cats, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[string]model.QuestionCategory, len(cats))
	byName := make(map[string]model.QuestionCategory, len(cats))
	byLegacy := make(map[string]model.QuestionCategory)
	for _, c := range cats {
		byID[c.ID] = c
		byName[categoryKey(c.Name)] = c
		if c.LegacyName != "" {
			byLegacy[categoryKey(c.LegacyName)] = c
		}
	}

	s.mu.Lock()
	s.byID, s.byName, s.byLegacy = byID, byName, byLegacy
	s.loadedAt = s.now()
	s.mu.Unlock()
	logger.Log.Debug("分类目录已刷新", zap.Int("count", len(cats)))
	return nil
}

func (s *CategoryService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	fresh := s.byID != nil && (s.ttl <= 0 || s.now().Sub(s.loadedAt) < s.ttl)
	s.mu.RUnlock()
	if fresh {
		return nil
	}
	if err := s.Refresh(ctx); err != nil {
		s.mu.RLock()
		stale := s.byID != nil
		s.mu.RUnlock()
		// 刷新失败时继续使用旧数据
		if stale {
			logger.Log.Warn("刷新分类目录失败，使用缓存", zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}

func (s *CategoryService) lookup(ctx context.Context, pick func() (model.QuestionCategory, bool)) (*model.QuestionCategory, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	c, ok := pick()
	s.mu.RUnlock()
	if !ok {
		return nil, util.ErrCategoryNotFound
	}
	return &c, nil
}

func (s *CategoryService) ResolveByID(ctx context.Context, id string) (*model.QuestionCategory, error) {
	return s.lookup(ctx, func() (model.QuestionCategory, bool) {
		c, ok := s.byID[strings.TrimSpace(id)]
		return c, ok
	})
}

func (s *CategoryService) ResolveByName(ctx context.Context, name string) (*model.QuestionCategory, error) {
	return s.lookup(ctx, func() (model.QuestionCategory, bool) {
		c, ok := s.byName[categoryKey(name)]
		return c, ok
	})
}

// LegacyNameToID 旧版分类名（或当前名称）映射到分类 id
func (s *CategoryService) LegacyNameToID(ctx context.Context, legacy string) (string, error) {
	c, err := s.lookup(ctx, func() (model.QuestionCategory, bool) {
		if c, ok := s.byLegacy[categoryKey(legacy)]; ok {
			return c, true
		}
		c, ok := s.byName[categoryKey(legacy)]
		return c, ok
	})
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.QuestionCategory, error) {
	return s.repo.FindAll(ctx)
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*model.QuestionCategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", util.ErrInvalidCategory)
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = slugify(name)
	}
	c := &model.QuestionCategory{
		ID:          id,
		Name:        name,
		LegacyName:  req.LegacyName,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate()
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req CategoryRequest) (*model.QuestionCategory, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCategoryNotFound
		}
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		c.Name = name
	}
	if req.LegacyName != "" {
		c.LegacyName = req.LegacyName
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate()
	return c, nil
}

func (s *CategoryService) invalidate() {
	s.mu.Lock()
	s.byID, s.byName, s.byLegacy = nil, nil, nil
	s.mu.Unlock()
}

// SeedDefaults 分类表为空时按领域权重表初始化
func (s *CategoryService) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, name := range AllCategoryNames() {
		if _, err := s.Create(ctx, CategoryRequest{Name: name}); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", name, err)
		}
	}
	logger.Log.Info("已初始化默认分类", zap.Int("count", len(AllCategoryNames())))
	return nil
}
