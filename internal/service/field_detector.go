package service

import (
	"assessment_backend/internal/model"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ProfileBag 归一化后的档案：小写键 → 扁平化的字符串值
type ProfileBag map[string][]string

var (
	// 显式选择的领域，命中已知领域 id 时直接采用
	explicitFieldKeys = []string{"selected_field", "selected_field_id", "study_field_id", "field_id"}

	textualProfileKeys = []string{
		"field_of_study", "field", "major", "study_field", "subject", "subjects",
		"skills", "interests", "goals", "career_goals", "aspirations",
		"education_level", "background", "background_selections", "about", "bio",
	}

	gradeProfileKeys = []string{"grade", "grade_level", "class", "class_level", "education_level", "level"}
)

var (
	gradeNumberPattern   = regexp.MustCompile(`\b(9|10|11|12)(?:st|nd|rd|th)?\b`)
	highSchoolPattern    = regexp.MustCompile(`\bhigh ?school\b|\bsecondary\b`)
	postgraduatePattern  = regexp.MustCompile(`\b(?:post ?graduate|phd|ph d|doctoral|doctorate)\b`)
	undergraduatePattern = regexp.MustCompile(`\b(?:undergraduate|under ?grad|bachelor|bachelors|college|university)\b`)
	graduatePattern      = regexp.MustCompile(`\b(?:graduate|masters|master)\b`)
	fieldIDReplacer      = strings.NewReplacer(" ", "_", "-", "_", "/", "_", "&", "and")
	levelTextReplacer    = strings.NewReplacer("_", " ", "-", " ", ".", " ")
)

// NormalizeProfile 将任意结构的档案拍平成字符串列表，嵌套 map 按键排序展开
func NormalizeProfile(p model.LearnerProfile) ProfileBag {
	bag := ProfileBag{}
	for k, v := range p {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		flattenProfileValue(v, func(s string) {
			bag[key] = append(bag[key], s)
		})
	}
	return bag
}

func flattenProfileValue(v interface{}, emit func(string)) {
	switch t := v.(type) {
	case nil, bool:
	case string:
		if s := strings.TrimSpace(t); s != "" {
			emit(s)
		}
	case []string:
		for _, s := range t {
			flattenProfileValue(s, emit)
		}
	case []interface{}:
		for _, item := range t {
			flattenProfileValue(item, emit)
		}
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenProfileValue(t[k], emit)
		}
	case float64:
		emit(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		emit(fmt.Sprint(t))
	}
}

func (b ProfileBag) Values(keys ...string) []string {
	var out []string
	for _, k := range keys {
		out = append(out, b[k]...)
	}
	return out
}

// Text 指定键的值拼接为小写文本
func (b ProfileBag) Text(keys ...string) string {
	return strings.ToLower(strings.Join(b.Values(keys...), " "))
}

func normalizeFieldID(s string) string {
	id := fieldIDReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	if IsKnownField(id) {
		return id
	}
	for _, f := range studyFields {
		if strings.EqualFold(f.Name, strings.TrimSpace(s)) {
			return f.ID
		}
	}
	return id
}

// DetectStudyField 显式选择优先，其次按关键词优先级匹配，兜底 Other
func DetectStudyField(p model.LearnerProfile) string {
	bag := NormalizeProfile(p)
	for _, v := range bag.Values(explicitFieldKeys...) {
		if id := normalizeFieldID(v); IsKnownField(id) {
			return id
		}
	}

	text := levelTextReplacer.Replace(bag.Text(textualProfileKeys...))
	if strings.TrimSpace(text) == "" {
		return FieldOther
	}
	for _, f := range studyFields {
		if f.matcher != nil && f.matcher.MatchString(text) {
			return f.ID
		}
	}
	return FieldOther
}

// DeriveLevelTags 根据年级/学历推导等级标签；无法识别时返回空（不按等级过滤）
func DeriveLevelTags(p model.LearnerProfile) []string {
	bag := NormalizeProfile(p)
	text := levelTextReplacer.Replace(bag.Text(gradeProfileKeys...))
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if m := gradeNumberPattern.FindStringSubmatch(text); m != nil {
		return gradeTags(m[1])
	}
	if highSchoolPattern.MatchString(text) {
		var tags []string
		for g := 9; g <= 12; g++ {
			tags = append(tags, gradeTags(strconv.Itoa(g))...)
		}
		return tags
	}
	// postgraduate 必须先于 graduate 判断
	switch {
	case postgraduatePattern.MatchString(text):
		return []string{"level_postgraduate"}
	case undergraduatePattern.MatchString(text):
		return []string{"level_undergraduate"}
	case graduatePattern.MatchString(text):
		return []string{"level_graduate"}
	}
	return nil
}

// gradeTags 新旧两种标签格式同时输出，兼容历史题目
func gradeTags(grade string) []string {
	return []string{"level_" + grade, "grade_" + grade}
}
