package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/pkg/logger"
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const aiSettingsRedisKey = "assessment:ai_settings:generation_enabled"

// AIToggle AI 出题总开关
type AIToggle interface {
	IsEnabled(ctx context.Context) bool
}

type AISettingStore interface {
	Get(ctx context.Context, key string) (*model.AISetting, error)
	Upsert(ctx context.Context, s *model.AISetting) error
}

// AISettingsStatus 管理端查看的开关状态
type AISettingsStatus struct {
	Enabled        bool       `json:"enabled"`
	Source         string     `json:"source"`
	DefaultEnabled bool       `json:"default_enabled"`
	UpdatedBy      string     `json:"updated_by,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// AISettingsService 本地 TTL 缓存 → Redis（可选）→ 数据库覆盖值 → 配置默认值
type AISettingsService struct {
	repo AISettingStore
	rdb  *redis.Client

	mu             sync.Mutex
	defaultEnabled bool
	ttl            time.Duration
	cached         *bool
	expiresAt      time.Time
	now            func() time.Time
}

func NewAISettingsService(repo AISettingStore, rdb *redis.Client, defaultEnabled bool, ttl time.Duration) *AISettingsService {
	return &AISettingsService{
		repo:           repo,
		rdb:            rdb,
		defaultEnabled: defaultEnabled,
		ttl:            ttl,
		now:            time.Now,
	}
}

// UpdateConfig 配置热更新时调用
func (s *AISettingsService) UpdateConfig(defaultEnabled bool, ttl time.Duration) {
	s.mu.Lock()
	s.defaultEnabled = defaultEnabled
	s.ttl = ttl
	s.cached = nil
	s.mu.Unlock()
}

func (s *AISettingsService) IsEnabled(ctx context.Context) bool {
	s.mu.Lock()
	if s.cached != nil && s.now().Before(s.expiresAt) {
		v := *s.cached
		s.mu.Unlock()
		return v
	}
	def, ttl := s.defaultEnabled, s.ttl
	s.mu.Unlock()

	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, aiSettingsRedisKey).Result()
		switch {
		case err == nil:
			enabled := val == "1"
			s.store(enabled, ttl)
			return enabled
		case err != redis.Nil:
			logger.Log.Warn("读取 AI 开关缓存失败", zap.Error(err))
		}
	}

	enabled := def
	setting, err := s.repo.Get(ctx, model.AISettingGenerationEnabled)
	if err != nil {
		// 数据库不可用时不写缓存，下次继续尝试
		logger.Log.Warn("读取 AI 开关失败，使用默认值", zap.Bool("default", def), zap.Error(err))
		return def
	}
	if setting != nil {
		enabled = setting.Enabled
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, aiSettingsRedisKey, boolFlag(enabled), ttl).Err(); err != nil {
			logger.Log.Warn("写入 AI 开关缓存失败", zap.Error(err))
		}
	}
	s.store(enabled, ttl)
	return enabled
}

func (s *AISettingsService) store(enabled bool, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl <= 0 {
		s.cached = nil
		return
	}
	s.cached = &enabled
	s.expiresAt = s.now().Add(ttl)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (s *AISettingsService) Status(ctx context.Context) (*AISettingsStatus, error) {
	s.mu.Lock()
	def := s.defaultEnabled
	s.mu.Unlock()

	setting, err := s.repo.Get(ctx, model.AISettingGenerationEnabled)
	if err != nil {
		return nil, err
	}
	status := &AISettingsStatus{Enabled: def, Source: "default", DefaultEnabled: def}
	if setting != nil {
		status.Enabled = setting.Enabled
		status.Source = "override"
		status.UpdatedBy = setting.UpdatedBy
		updatedAt := setting.UpdatedAt
		status.UpdatedAt = &updatedAt
	}
	return status, nil
}

// SetEnabled 写入覆盖值并使各级缓存失效
func (s *AISettingsService) SetEnabled(ctx context.Context, enabled bool, updatedBy string) error {
	if err := s.repo.Upsert(ctx, &model.AISetting{
		Key:       model.AISettingGenerationEnabled,
		Enabled:   enabled,
		UpdatedBy: updatedBy,
	}); err != nil {
		return err
	}
	s.Invalidate(ctx)
	logger.Log.Info("AI 出题开关已更新", zap.Bool("enabled", enabled), zap.String("by", updatedBy))
	return nil
}

func (s *AISettingsService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, aiSettingsRedisKey).Err(); err != nil {
			logger.Log.Warn("清除 AI 开关缓存失败", zap.Error(err))
		}
	}
}
