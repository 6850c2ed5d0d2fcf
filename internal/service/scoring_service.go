package service

import (
	"assessment_backend/internal/model"
	"assessment_backend/pkg/logger"
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	accuracyWeight    = 0.4
	explanationWeight = 0.3
	reasoningWeight   = 0.3
	maxSubScore       = 10.0
)

const (
	FeedbackSourceHeuristic = "heuristic"
	FeedbackSourceAI        = "ai"
)

var wordPattern = regexp.MustCompile(`[a-z0-9']+`)

var stopwords = lo.SliceToMap([]string{
	"about", "above", "after", "again", "also", "because", "been", "before", "being", "below",
	"between", "both", "could", "does", "doing", "down", "during", "each", "following", "from",
	"further", "have", "having", "here", "into", "just", "more", "most", "only", "other", "over",
	"same", "should", "some", "such", "than", "that", "their", "them", "then", "there", "these",
	"they", "this", "those", "through", "under", "until", "very", "what", "when", "where",
	"which", "while", "whom", "will", "with", "would", "your", "statement", "true", "must",
}, func(w string) (string, struct{}) { return w, struct{}{} })

var reasoningConnectives = []string{
	"because", "therefore", "since", "first", "second", "however", "thus", "hence",
	"consequently", "as a result", "for example", "which means", "this means",
}

var reasoningPatterns = lo.Map(reasoningConnectives, func(c string, _ int) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(c) + `\b`)
})

// extractKeywords 长度大于 3 的非停用词，保持首次出现顺序
func extractKeywords(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	words = lo.Filter(words, func(w string, _ int) bool {
		_, stop := stopwords[w]
		return len(w) > 3 && !stop
	})
	return lo.Uniq(words)
}

func wordSet(text string) map[string]struct{} {
	return lo.SliceToMap(wordPattern.FindAllString(strings.ToLower(text), -1), func(w string) (string, struct{}) {
		return w, struct{}{}
	})
}

// EvaluatedResponse 单题评分结果
// swagger:model EvaluatedResponse
type EvaluatedResponse struct {
	QuestionID          string   `json:"question_id"`
	Answer              string   `json:"answer"`
	IsCorrect           bool     `json:"is_correct"`
	AccuracyScore       float64  `json:"accuracy_score"`
	ExplanationScore    float64  `json:"explanation_score"`
	ReasoningScore      float64  `json:"reasoning_score"`
	TotalScore          float64  `json:"total_score"`
	MatchedKeywords     []string `json:"matched_keywords"`
	ReasoningIndicators []string `json:"reasoning_indicators"`
	Feedback            string   `json:"feedback"`
	FeedbackSource      string   `json:"feedback_source"`
}

// ChatCompleter 生成评语所需的对话能力
type ChatCompleter interface {
	Chat(ctx context.Context, prompt string, systemContext string) (string, error)
}

type ScoringService struct {
	ai     ChatCompleter
	toggle AIToggle
}

func NewScoringService(ai ChatCompleter, toggle AIToggle) *ScoringService {
	return &ScoringService{ai: ai, toggle: toggle}
}

// answerMatches 忽略大小写与首尾空白；选项本身不含单个字母时也接受 A-D 选项字母
func answerMatches(q model.Question, answer string) bool {
	a := strings.TrimSpace(answer)
	correct := strings.TrimSpace(q.CorrectAnswer)
	if a == "" {
		return false
	}
	if strings.EqualFold(a, correct) {
		return true
	}
	if len(a) == 1 && !hasLetterOption(q.Options) {
		idx := int(strings.ToUpper(a)[0]) - 'A'
		if idx >= 0 && idx < len(q.Options) {
			return strings.EqualFold(strings.TrimSpace(q.Options[idx]), correct)
		}
	}
	return false
}

// hasLetterOption 选项里有单个字母时，字母作答只按原文比较
func hasLetterOption(options []string) bool {
	for _, o := range options {
		o = strings.TrimSpace(o)
		if len(o) == 1 && unicode.IsLetter(rune(o[0])) {
			return true
		}
	}
	return false
}

// EvaluateResponse 纯本地规则评分，不调用模型
func (s *ScoringService) EvaluateResponse(q model.Question, answer, explanation string) EvaluatedResponse {
	r := EvaluatedResponse{
		QuestionID:     q.ID,
		Answer:         answer,
		IsCorrect:      answerMatches(q, answer),
		FeedbackSource: FeedbackSourceHeuristic,
	}
	if r.IsCorrect {
		r.AccuracyScore = maxSubScore
	}

	text := strings.TrimSpace(explanation)
	length := utf8.RuneCountInString(text)
	lower := strings.ToLower(text)

	if length > 0 {
		score := 3.0
		for _, threshold := range []int{20, 50, 100} {
			if length > threshold {
				score += 2
			}
		}
		words := wordSet(lower)
		for _, kw := range extractKeywords(q.QuestionText + " " + q.CorrectAnswer) {
			if _, ok := words[kw]; ok {
				r.MatchedKeywords = append(r.MatchedKeywords, kw)
				score += 0.5
			}
		}
		r.ExplanationScore = math.Min(score, maxSubScore)

		reasoning := 2.0
		for i, p := range reasoningPatterns {
			if p.MatchString(lower) {
				r.ReasoningIndicators = append(r.ReasoningIndicators, reasoningConnectives[i])
			}
		}
		reasoning += float64(min(len(r.ReasoningIndicators), 4))
		if r.IsCorrect && length > 30 {
			reasoning += 2
		}
		r.ReasoningScore = math.Min(reasoning, maxSubScore)
	}

	r.TotalScore = r.AccuracyScore*accuracyWeight + r.ExplanationScore*explanationWeight + r.ReasoningScore*reasoningWeight
	r.Feedback = heuristicFeedback(q, r)
	return r
}

func heuristicFeedback(q model.Question, r EvaluatedResponse) string {
	var parts []string
	if r.IsCorrect {
		parts = append(parts, "Correct answer.")
	} else {
		parts = append(parts, fmt.Sprintf("Not quite. The correct answer is %q.", q.CorrectAnswer))
	}
	switch {
	case r.ExplanationScore == 0:
		parts = append(parts, "Add an explanation to show how you reached your answer.")
	case r.ExplanationScore < 6:
		parts = append(parts, "Try to explain your thinking in more detail.")
	default:
		parts = append(parts, "Your explanation is well developed.")
	}
	if r.ExplanationScore > 0 && len(r.ReasoningIndicators) == 0 {
		parts = append(parts, "Use words like \"because\" or \"therefore\" to connect your reasoning steps.")
	}
	if !r.IsCorrect && q.Explanation != "" {
		parts = append(parts, q.Explanation)
	}
	return strings.Join(parts, " ")
}

// EvaluateWithFeedback 规则评分后尝试用模型生成评语，失败时保留规则评语
func (s *ScoringService) EvaluateWithFeedback(ctx context.Context, q model.Question, answer, explanation string) EvaluatedResponse {
	r := s.EvaluateResponse(q, answer, explanation)
	if s.ai == nil || s.toggle == nil || !s.toggle.IsEnabled(ctx) {
		return r
	}

	prompt := fmt.Sprintf(
		"Question: %s\nCorrect answer: %s\nStudent answer: %s\nStudent explanation: %s\n"+
			"Write two or three encouraging sentences of feedback on the student's reasoning. Do not reveal a score.",
		q.QuestionText, q.CorrectAnswer, answer, explanation)
	feedback, err := s.ai.Chat(ctx, prompt, "You are a supportive tutor giving brief feedback to a student.")
	if err != nil {
		logger.Log.Warn("AI 评语生成失败，使用规则评语", zap.String("question", q.ID), zap.Error(err))
		return r
	}
	if fb := strings.TrimSpace(feedback); fb != "" {
		r.Feedback = fb
		r.FeedbackSource = FeedbackSourceAI
	}
	return r
}
