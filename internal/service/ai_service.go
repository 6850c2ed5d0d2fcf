package service

import (
	"assessment_backend/internal/config"
	"assessment_backend/internal/model"
	"assessment_backend/pkg/logger"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxRetryAfter = 30 * time.Second

// QuestionGenerator AI 出题能力
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req GenerationRequest) ([]model.Question, error)
}

// GenerationRequest Avoid 为已出现过的题干，提示模型不要重复
type GenerationRequest struct {
	Category   string
	Difficulty model.Difficulty
	Count      int
	LevelTags  []string
	FieldName  string
	Avoid      []string
}

type AIService struct {
	config  config.AIConfig
	client  *http.Client
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	return &AIService{
		config:  cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []AIChatMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AIAPIError 上游返回的非 200 响应
type AIAPIError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *AIAPIError) Error() string {
	return fmt.Sprintf("AI API error (status %d): %s", e.StatusCode, e.Body)
}

func (e *AIAPIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Chat 单轮对话，systemContext 为空时使用默认评估助手设定
func (s *AIService) Chat(ctx context.Context, prompt string, systemContext string) (string, error) {
	system := "You are a helpful assessment assistant for students."
	if systemContext != "" {
		system = systemContext
	}
	return s.complete(ctx, ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	})
}

// complete 带限流与重试：429 指数退避，其他可重试错误固定退避
func (s *AIService) complete(ctx context.Context, reqBody ChatCompletionRequest) (string, error) {
	if s.config.APIKey == "" {
		return "", errors.New("AI API key not configured")
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	attempts := s.config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
		content, err := s.doRequest(ctx, jsonData)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		var apiErr *AIAPIError
		wait := s.config.ErrorBackoff()
		if errors.As(err, &apiErr) {
			if !apiErr.retryable() {
				return "", err
			}
			if apiErr.StatusCode == http.StatusTooManyRequests {
				wait = s.config.RateLimitBackoff() * time.Duration(1<<(attempt-1))
				if apiErr.RetryAfter > wait {
					wait = apiErr.RetryAfter
				}
			}
		}
		if attempt == attempts {
			break
		}
		logger.Log.Warn("AI 请求失败，准备重试",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))
		if err := s.sleep(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("AI request failed after %d attempts: %w", attempts, lastErr)
}

func (s *AIService) doRequest(ctx context.Context, jsonData []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.config.BaseURL, "/")+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		apiErr := &AIAPIError{StatusCode: resp.StatusCode, Body: string(body)}
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				apiErr.RetryAfter = time.Duration(secs) * time.Second
				if apiErr.RetryAfter > maxRetryAfter {
					apiErr.RetryAfter = maxRetryAfter
				}
			}
		}
		return "", apiErr
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("AI returned no choices")
}

const generatedQuestionsSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["question", "options", "correct_answer", "explanation"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "options": {"type": "array", "minItems": 4, "maxItems": 4, "items": {"type": "string"}},
          "correct_answer": {"type": "string", "minLength": 1},
          "explanation": {"type": "string"},
          "learning_objective": {"type": "string"}
        }
      }
    }
  }
}`

type generatedQuestion struct {
	Question          string   `json:"question"`
	Options           []string `json:"options"`
	CorrectAnswer     string   `json:"correct_answer"`
	Explanation       string   `json:"explanation"`
	LearningObjective string   `json:"learning_objective"`
}

func buildGenerationPrompt(req GenerationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d unique multiple-choice questions for the category %q at %s difficulty.\n",
		req.Count, req.Category, req.Difficulty)
	if req.FieldName != "" {
		fmt.Fprintf(&b, "The learner studies %s.\n", req.FieldName)
	}
	if len(req.LevelTags) > 0 {
		fmt.Fprintf(&b, "Target education level tags: %s.\n", strings.Join(req.LevelTags, ", "))
	}
	b.WriteString("Each question must have exactly 4 options and exactly one option must equal correct_answer verbatim.\n")
	if len(req.Avoid) > 0 {
		b.WriteString("Do not repeat or paraphrase any of these questions:\n")
		for _, t := range req.Avoid {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	b.WriteString(`Respond with JSON only: {"questions":[{"question":"...","options":["..","..","..",".."],"correct_answer":"...","explanation":"...","learning_objective":"..."}]}`)
	return b.String()
}

// stripCodeFence 去掉模型偶尔包裹的 ```json 代码块
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseGeneratedQuestions 校验 schema 后转换为题目，单题不合法时丢弃
func parseGeneratedQuestions(content string, req GenerationRequest) ([]model.Question, error) {
	raw := []byte(stripCodeFence(content))
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(generatedQuestionsSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate AI output: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("AI output failed schema validation: %s", strings.Join(msgs, "; "))
	}

	var payload struct {
		Questions []generatedQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	var out []model.Question
	for _, g := range payload.Questions {
		q := model.Question{
			Category:          req.Category,
			Difficulty:        req.Difficulty,
			QuestionText:      strings.TrimSpace(g.Question),
			Options:           g.Options,
			CorrectAnswer:     g.CorrectAnswer,
			Explanation:       g.Explanation,
			LearningObjective: g.LearningObjective,
			Tags:              append([]string(nil), req.LevelTags...),
			CreatedBy:         model.CreatedByAI,
			IsActive:          true,
		}
		if err := q.Validate(); err != nil {
			logger.Log.Debug("丢弃不合法的 AI 题目", zap.String("question", q.QuestionText), zap.Error(err))
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, errors.New("AI returned no valid questions")
	}
	return out, nil
}

func (s *AIService) GenerateQuestions(ctx context.Context, req GenerationRequest) ([]model.Question, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	content, err := s.complete(ctx, ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []AIChatMessage{
			{Role: "system", Content: "You write high quality assessment questions and answer strictly in JSON."},
			{Role: "user", Content: buildGenerationPrompt(req)},
		},
		Temperature:    0.8,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}
	return parseGeneratedQuestions(content, req)
}
