package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_MinimalEffort(t *testing.T) {
	a := NewAIDetectionService().Analyze("it is ten", "What comes next?", 0)
	assert.GreaterOrEqual(t, a.Score, 15)
	assert.Contains(t, a.Flags, FlagMinimalEffort)
	assert.Equal(t, SuspicionClean, a.Level)
}

func TestAnalyze_StockPhrases(t *testing.T) {
	svc := NewAIDetectionService()
	plain := "I think the answer is ten because the numbers keep going up by two every single time we look"
	stock := "It is important to note that the numbers rise by two. Furthermore the pattern is steady. Moreover the answer is ten in every case we look"

	base := svc.Analyze(plain, "", 0)
	flagged := svc.Analyze(stock, "", 0)

	assert.NotContains(t, base.Flags, FlagStockPhrases)
	assert.Contains(t, flagged.Flags, FlagStockPhrases)
	// 3 个短语各 5 分，另加 15 分
	assert.GreaterOrEqual(t, flagged.Score-base.Score, 15)
	assert.Equal(t, 30, flagged.Score)
	assert.Equal(t, SuspicionPossible, flagged.Level)
}

func TestAnalyze_FastTyping(t *testing.T) {
	response := strings.Repeat("word ", 60)
	a := NewAIDetectionService().Analyze(response, "", 20*time.Second)
	assert.Contains(t, a.Flags, FlagFastTyping)
	assert.InDelta(t, 180.0, a.WordsPerMinute, 1e-9)

	slow := NewAIDetectionService().Analyze(response, "", 5*time.Minute)
	assert.NotContains(t, slow.Flags, FlagFastTyping)
}

func TestAnalyze_LowOverlapAndFormatting(t *testing.T) {
	question := "Explain how photosynthesis converts sunlight into chemical energy inside plant cells"
	response := "1. Cats enjoy sleeping during warm afternoons\n2. Dogs usually prefer playing fetch outside\n" +
		"**Summary** animals have different habits and routines that people often find amusing"
	a := NewAIDetectionService().Analyze(response, question, 0)

	assert.Contains(t, a.Flags, FlagLowRelevance)
	assert.Contains(t, a.Flags, FlagFormatting)
}

func TestAnalyze_GenericTemplateAndStructure(t *testing.T) {
	response := "Firstly, there are several factors to consider. Furthermore, on the other hand the evidence varies. In conclusion, it depends on the situation."
	a := NewAIDetectionService().Analyze(response, "", 0)

	assert.Contains(t, a.Flags, FlagGenericTemplate)
	assert.Contains(t, a.Flags, FlagEssayStructure)
}

func TestAnalyze_ScoreCappedAt100(t *testing.T) {
	response := "# Answer\n1. It is important to note this\n2. Furthermore, moreover, additionally\n" +
		"Firstly there are several factors, on the other hand a wide range of key factors. In conclusion, in summary, delve into it. " +
		strings.Repeat("extra ", 300)
	a := NewAIDetectionService().Analyze(response, "How do volcanoes erupt under pressure from magma chambers", 30*time.Second)
	assert.Equal(t, 100, a.Score)
	assert.Equal(t, SuspicionHighProbability, a.Level)
}

func TestSuspicionLevel(t *testing.T) {
	assert.Equal(t, SuspicionClean, SuspicionLevel(29))
	assert.Equal(t, SuspicionPossible, SuspicionLevel(30))
	assert.Equal(t, SuspicionPossible, SuspicionLevel(49))
	assert.Equal(t, SuspicionLikely, SuspicionLevel(50))
	assert.Equal(t, SuspicionLikely, SuspicionLevel(69))
	assert.Equal(t, SuspicionHighProbability, SuspicionLevel(70))
}
