package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

const (
	FieldSTEM           = "stem"
	FieldBusiness       = "business"
	FieldSocialSciences = "social_sciences"
	FieldHealthMedicine = "health_medicine"
	FieldCreativeArts   = "creative_arts"
	FieldOther          = "other"
)

const (
	CategoryLogic                = "Logic"
	CategoryCoding               = "Coding"
	CategoryMathematics          = "Mathematics"
	CategoryScience              = "Science"
	CategoryCriticalThinking     = "Critical Thinking"
	CategoryReadingComprehension = "Reading Comprehension"
	CategoryCommunication        = "Communication"
)

type CategoryWeight struct {
	Category string `json:"category"`
	Weight   int    `json:"weight"`
}

// DifficultyDistribution 各难度百分比
type DifficultyDistribution struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

type StudyField struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Keywords   []string               `json:"keywords,omitempty"`
	Weights    []CategoryWeight       `json:"weights"`
	Difficulty DifficultyDistribution `json:"difficulty"`

	matcher *regexp.Regexp
}

// 匹配优先级即声明顺序：STEM → Business → Social Sciences → Health/Medicine → Creative Arts
var studyFields = []*StudyField{
	{
		ID:   FieldSTEM,
		Name: "STEM",
		Keywords: []string{
			"stem", "computer science", "programming", "coding", "software", "developer",
			"engineering", "machine learning", "artificial intelligence", "ai", "data science",
			"statistics", "mathematics", "math", "maths", "physics", "chemistry", "biology",
			"robotics", "electronics", "cybersecurity", "technology", "web development",
		},
		Weights: []CategoryWeight{
			{CategoryCoding, 30},
			{CategoryMathematics, 25},
			{CategoryLogic, 20},
			{CategoryScience, 15},
			{CategoryCriticalThinking, 10},
		},
		Difficulty: DifficultyDistribution{Easy: 20, Medium: 50, Hard: 30},
	},
	{
		ID:   FieldBusiness,
		Name: "Business",
		Keywords: []string{
			"business", "finance", "accounting", "marketing", "management", "economics",
			"entrepreneur", "entrepreneurship", "startup", "sales", "commerce", "mba",
			"investment", "banking",
		},
		Weights: []CategoryWeight{
			{CategoryCriticalThinking, 30},
			{CategoryMathematics, 20},
			{CategoryCommunication, 20},
			{CategoryLogic, 15},
			{CategoryReadingComprehension, 15},
		},
		Difficulty: DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20},
	},
	{
		ID:   FieldSocialSciences,
		Name: "Social Sciences",
		Keywords: []string{
			"social science", "social sciences", "psychology", "sociology", "political science",
			"politics", "history", "law", "anthropology", "social work", "international relations",
			"philosophy", "geography", "journalism",
		},
		Weights: []CategoryWeight{
			{CategoryReadingComprehension, 30},
			{CategoryCriticalThinking, 25},
			{CategoryCommunication, 20},
			{CategoryLogic, 15},
			{CategoryScience, 10},
		},
		Difficulty: DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20},
	},
	{
		ID:   FieldHealthMedicine,
		Name: "Health/Medicine",
		Keywords: []string{
			"medicine", "medical", "nursing", "nurse", "health", "healthcare", "pharmacy",
			"doctor", "dentistry", "physiotherapy", "public health", "anatomy", "biomedical",
			"veterinary",
		},
		Weights: []CategoryWeight{
			{CategoryScience, 35},
			{CategoryCriticalThinking, 20},
			{CategoryReadingComprehension, 15},
			{CategoryLogic, 15},
			{CategoryMathematics, 15},
		},
		Difficulty: DifficultyDistribution{Easy: 25, Medium: 50, Hard: 25},
	},
	{
		ID:   FieldCreativeArts,
		Name: "Creative Arts",
		Keywords: []string{
			"art", "arts", "design", "graphic design", "music", "painting", "drawing", "film",
			"photography", "creative writing", "theater", "theatre", "dance", "animation",
			"fashion", "illustration",
		},
		Weights: []CategoryWeight{
			{CategoryCommunication, 30},
			{CategoryReadingComprehension, 25},
			{CategoryCriticalThinking, 25},
			{CategoryLogic, 20},
		},
		Difficulty: DifficultyDistribution{Easy: 35, Medium: 45, Hard: 20},
	},
	{
		ID:   FieldOther,
		Name: "Other",
		Weights: []CategoryWeight{
			{CategoryLogic, 25},
			{CategoryCriticalThinking, 25},
			{CategoryReadingComprehension, 20},
			{CategoryMathematics, 15},
			{CategoryCommunication, 15},
		},
		Difficulty: DifficultyDistribution{Easy: 30, Medium: 50, Hard: 20},
	},
}

var studyFieldIndex = func() map[string]*StudyField {
	idx := make(map[string]*StudyField, len(studyFields))
	for _, f := range studyFields {
		if len(f.Keywords) > 0 {
			quoted := lo.Map(f.Keywords, func(k string, _ int) string { return regexp.QuoteMeta(k) })
			f.matcher = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
		}
		idx[f.ID] = f
	}
	return idx
}()

// StudyFields 返回所有领域配置（副本）
func StudyFields() []StudyField {
	out := make([]StudyField, 0, len(studyFields))
	for _, f := range studyFields {
		out = append(out, *f)
	}
	return out
}

// GetStudyField 未知 id 回落到 Other
func GetStudyField(id string) StudyField {
	if f, ok := studyFieldIndex[id]; ok {
		return *f
	}
	return *studyFieldIndex[FieldOther]
}

func IsKnownField(id string) bool {
	_, ok := studyFieldIndex[id]
	return ok
}

func FieldWeights(fieldID string) map[string]int {
	f := GetStudyField(fieldID)
	out := make(map[string]int, len(f.Weights))
	for _, w := range f.Weights {
		out[w.Category] = w.Weight
	}
	return out
}

func FieldDifficultyDistribution(fieldID string) DifficultyDistribution {
	return GetStudyField(fieldID).Difficulty
}

// CategoriesByWeight 按权重降序，权重相同保持声明顺序
func (f StudyField) CategoriesByWeight() []string {
	ws := make([]CategoryWeight, len(f.Weights))
	copy(ws, f.Weights)
	sort.SliceStable(ws, func(i, j int) bool { return ws[i].Weight > ws[j].Weight })
	return lo.Map(ws, func(w CategoryWeight, _ int) string { return w.Category })
}

// PrimaryCategory 显式指定分类时以指定为准并进入 strict 模式
func PrimaryCategory(fieldID, pinned string) (string, bool) {
	if p := strings.TrimSpace(pinned); p != "" {
		return p, true
	}
	cats := GetStudyField(fieldID).CategoriesByWeight()
	if len(cats) == 0 {
		return CategoryLogic, false
	}
	return cats[0], false
}

// AllCategoryNames 所有领域引用到的分类，用于初始化分类目录
func AllCategoryNames() []string {
	var names []string
	for _, f := range studyFields {
		for _, w := range f.Weights {
			names = append(names, w.Category)
		}
	}
	return lo.Uniq(names)
}
