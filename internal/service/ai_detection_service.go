package service

import (
	"regexp"
	"strings"
	"time"
)

const (
	SuspicionClean           = "clean"
	SuspicionPossible        = "possible"
	SuspicionLikely          = "likely"
	SuspicionHighProbability = "high_probability"
)

const (
	FlagMinimalEffort    = "minimal effort"
	FlagVeryLong         = "unusually long response"
	FlagStockPhrases     = "multiple AI-typical phrases"
	FlagFastTyping       = "written faster than typical typing speed"
	FlagLowRelevance     = "low overlap with question"
	FlagGenericTemplate  = "generic template language"
	FlagFormatting       = "list or markdown formatting"
	FlagEssayStructure   = "intro/body/conclusion structure"
	maxSuspicion         = 100
	fastTypingWPM        = 80.0
	fastTypingMinWords   = 30
	lowOverlapMinWords   = 20
	lowOverlapMinKeyword = 3
)

var aiStockPhrases = []string{
	"as an ai", "it is important to note", "it's important to note", "it is worth noting",
	"in conclusion", "furthermore", "moreover", "additionally", "in summary", "delve",
	"plays a crucial role", "a testament to", "in today's world", "navigate the complexities",
	"multifaceted", "comprehensive understanding",
}

var genericTemplatePhrases = []string{
	"there are several factors", "there are many reasons", "on the other hand", "both sides",
	"it depends on", "various aspects", "a variety of", "a wide range of", "key factors",
	"several key", "in many ways",
}

var (
	listLinePattern = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]|[-*•])\s+\S`)
	markdownPattern = regexp.MustCompile(`(?m)\*\*[^*]+\*\*|^#{1,6}\s+\S`)
	introPattern    = regexp.MustCompile(`\b(?:firstly|to begin with|in this response|introduction)\b`)
	bodyPattern     = regexp.MustCompile(`\b(?:secondly|furthermore|additionally|moreover|another point)\b`)
	outroPattern    = regexp.MustCompile(`\b(?:in conclusion|to conclude|to summarize|in summary|overall)\b`)
)

// SuspicionAnalysis 仅作参考，误报可以接受
// swagger:model SuspicionAnalysis
type SuspicionAnalysis struct {
	Score          int      `json:"score"`
	Level          string   `json:"level"`
	Flags          []string `json:"flags"`
	WordCount      int      `json:"word_count"`
	WordsPerMinute float64  `json:"words_per_minute,omitempty"`
}

type AIDetectionService struct{}

func NewAIDetectionService() *AIDetectionService {
	return &AIDetectionService{}
}

func countPhrases(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(text, p) {
			n++
		}
	}
	return n
}

func SuspicionLevel(score int) string {
	switch {
	case score < 30:
		return SuspicionClean
	case score < 50:
		return SuspicionPossible
	case score < 70:
		return SuspicionLikely
	}
	return SuspicionHighProbability
}

// Analyze elapsed 为 0 时跳过速度判断
func (s *AIDetectionService) Analyze(response, questionText string, elapsed time.Duration) SuspicionAnalysis {
	lower := strings.ToLower(strings.TrimSpace(response))
	words := strings.Fields(lower)
	a := SuspicionAnalysis{WordCount: len(words), Flags: []string{}}
	score := 0

	switch {
	case len(words) < 5:
		score += 15
		a.Flags = append(a.Flags, FlagMinimalEffort)
	case len(words) > 300:
		score += 10
		a.Flags = append(a.Flags, FlagVeryLong)
	}

	if n := countPhrases(lower, aiStockPhrases); n > 0 {
		score += 5 * n
		if n >= 3 {
			score += 15
			a.Flags = append(a.Flags, FlagStockPhrases)
		}
	}

	if elapsed > 0 {
		a.WordsPerMinute = float64(len(words)) / elapsed.Minutes()
		if len(words) > fastTypingMinWords && a.WordsPerMinute > fastTypingWPM {
			score += 20
			a.Flags = append(a.Flags, FlagFastTyping)
		}
	}

	if keywords := extractKeywords(questionText); len(keywords) >= lowOverlapMinKeyword && len(words) >= lowOverlapMinWords {
		present := wordSet(lower)
		matched := 0
		for _, kw := range keywords {
			if _, ok := present[kw]; ok {
				matched++
			}
		}
		if float64(matched)/float64(len(keywords)) < 0.1 {
			score += 10
			a.Flags = append(a.Flags, FlagLowRelevance)
		}
	}

	if countPhrases(lower, genericTemplatePhrases) >= 2 {
		score += 10
		a.Flags = append(a.Flags, FlagGenericTemplate)
	}

	if len(listLinePattern.FindAllString(response, -1)) >= 2 || markdownPattern.MatchString(response) {
		score += 10
		a.Flags = append(a.Flags, FlagFormatting)
	}

	if introPattern.MatchString(lower) && bodyPattern.MatchString(lower) && outroPattern.MatchString(lower) {
		score += 10
		a.Flags = append(a.Flags, FlagEssayStructure)
	}

	a.Score = min(score, maxSuspicion)
	a.Level = SuspicionLevel(a.Score)
	return a
}
