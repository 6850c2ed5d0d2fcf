package service

import (
	"assessment_backend/internal/config"
	"assessment_backend/internal/model"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validQuestionsJSON = `{"questions":[
 {"question":"What is 3 + 4?","options":["6","7","8","9"],"correct_answer":"7","explanation":"Add them."},
 {"question":"Broken item","options":["a","b","c","d"],"correct_answer":"z","explanation":"Answer not in options."}
]}`

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func newTestAIService(t *testing.T, handler http.HandlerFunc) (*AIService, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := NewAIService(config.AIConfig{
		BaseURL:            srv.URL,
		APIKey:             "test-key",
		Model:              "test-model",
		MaxAttempts:        3,
		RateLimitBackoffMS: 1,
		ErrorBackoffMS:     1,
		TimeoutSeconds:     5,
	})
	var waits []time.Duration
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return svc, &waits
}

func TestAIService_RetriesRateLimit(t *testing.T) {
	var calls int32
	svc, waits := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(chatReply("hello")))
	})

	got, err := svc.Chat(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{time.Millisecond}, *waits)
}

func TestAIService_RateLimitBackoffDoublesAndHonoursRetryAfter(t *testing.T) {
	var calls int32
	svc, waits := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 2 {
			w.Header().Set("Retry-After", "2")
		}
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Chat(context.Background(), "hi", "")
	require.Error(t, err)

	var apiErr *AIAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Second}, *waits)
}

func TestAIService_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	svc, waits := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad"}`))
	})

	_, err := svc.Chat(context.Background(), "hi", "")
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.Empty(t, *waits)
}

func TestAIService_MissingAPIKey(t *testing.T) {
	svc := NewAIService(config.AIConfig{BaseURL: "http://127.0.0.1:0"})
	_, err := svc.Chat(context.Background(), "hi", "")
	assert.Error(t, err)
}

func TestAIService_GenerateQuestions(t *testing.T) {
	svc, _ := newTestAIService(t, func(w http.ResponseWriter, r *http.Request) {
		var body ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.ResponseFormat)
		assert.Equal(t, "json_object", body.ResponseFormat.Type)
		assert.Contains(t, body.Messages[1].Content, "Already asked?")
		w.Write([]byte(chatReply("```json\n" + validQuestionsJSON + "\n```")))
	})

	qs, err := svc.GenerateQuestions(context.Background(), GenerationRequest{
		Category:   CategoryMathematics,
		Difficulty: model.DifficultyEasy,
		Count:      2,
		LevelTags:  []string{"level_10"},
		Avoid:      []string{"Already asked?"},
	})
	require.NoError(t, err)
	require.Len(t, qs, 1, "item whose answer is not an option is dropped")
	assert.Equal(t, "What is 3 + 4?", qs[0].QuestionText)
	assert.Equal(t, model.CreatedByAI, qs[0].CreatedBy)
	assert.Equal(t, CategoryMathematics, qs[0].Category)
	assert.Equal(t, []string{"level_10"}, []string(qs[0].Tags))
}

func TestParseGeneratedQuestions_SchemaViolation(t *testing.T) {
	_, err := parseGeneratedQuestions(`{"questions":[{"question":"x","options":["a","b"],"correct_answer":"a","explanation":""}]}`,
		GenerationRequest{Category: CategoryLogic, Difficulty: model.DifficultyEasy})
	assert.ErrorContains(t, err, "schema")

	_, err = parseGeneratedQuestions("not json at all", GenerationRequest{})
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1} "))
}
