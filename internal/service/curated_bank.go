package service

import (
	"assessment_backend/internal/model"
	_ "embed"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/curated_bank.yaml
var curatedBankYAML []byte

const CuratedIDPrefix = "curated-"

type curatedEntry struct {
	Question    string   `yaml:"question"`
	Options     []string `yaml:"options"`
	Answer      string   `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

type curatedCategory struct {
	Category  string                    `yaml:"category"`
	Questions map[string][]curatedEntry `yaml:"questions"`
}

// CuratedBank 内置静态题库，只读
type CuratedBank struct {
	byKey      map[string][]model.Question
	byID       map[string]model.Question
	categories []string
}

var (
	curatedOnce sync.Once
	curatedBank *CuratedBank
	curatedErr  error
)

// DefaultCuratedBank 懒加载内嵌题库
func DefaultCuratedBank() (*CuratedBank, error) {
	curatedOnce.Do(func() {
		curatedBank, curatedErr = ParseCuratedBank(curatedBankYAML)
	})
	return curatedBank, curatedErr
}

func curatedKey(category string, d model.Difficulty) string {
	return strings.ToLower(strings.TrimSpace(category)) + "|" + string(d)
}

func curatedSlug(category string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "-")
}

func ParseCuratedBank(data []byte) (*CuratedBank, error) {
	var cats []curatedCategory
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("failed to parse curated bank: %w", err)
	}

	bank := &CuratedBank{
		byKey: make(map[string][]model.Question),
		byID:  make(map[string]model.Question),
	}
	for _, c := range cats {
		bank.categories = append(bank.categories, c.Category)
		for diffName, entries := range c.Questions {
			d, ok := model.ParseDifficulty(diffName)
			if !ok {
				return nil, fmt.Errorf("curated bank %s: unknown difficulty %q", c.Category, diffName)
			}
			for i, e := range entries {
				q := model.Question{
					Category:      c.Category,
					Difficulty:    d,
					QuestionText:  e.Question,
					Options:       e.Options,
					CorrectAnswer: e.Answer,
					Explanation:   e.Explanation,
					CreatedBy:     model.CreatedByAdmin,
					IsActive:      true,
				}
				q.ID = fmt.Sprintf("%s%s-%s-%d", CuratedIDPrefix, curatedSlug(c.Category), d, i+1)
				if err := q.Validate(); err != nil {
					return nil, fmt.Errorf("curated bank %s: %w", q.ID, err)
				}
				key := curatedKey(c.Category, d)
				bank.byKey[key] = append(bank.byKey[key], q)
				bank.byID[q.ID] = q
			}
		}
	}
	return bank, nil
}

func IsCuratedID(id string) bool {
	return strings.HasPrefix(id, CuratedIDPrefix)
}

func (b *CuratedBank) Get(id string) (model.Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

func (b *CuratedBank) Categories() []string {
	return append([]string(nil), b.categories...)
}

// Take 取最多 n 道未出现过的题；rnd 为 nil 时保持题库顺序
func (b *CuratedBank) Take(category string, d model.Difficulty, n int, dedup *DeduplicationContext, rnd *rand.Rand) []model.Question {
	if n <= 0 {
		return nil
	}
	src := b.byKey[curatedKey(category, d)]
	pool := make([]model.Question, len(src))
	copy(pool, src)
	if rnd != nil {
		shuffleQuestions(rnd, pool)
	}

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

// All 按分类、难度顺序返回全部内置题
func (b *CuratedBank) All() []model.Question {
	var out []model.Question
	for _, c := range b.categories {
		for _, d := range model.Difficulties {
			out = append(out, b.byKey[curatedKey(c, d)]...)
		}
	}
	return out
}
