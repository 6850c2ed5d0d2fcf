package service

import (
	"assessment_backend/internal/model"
	"sync"
)

// DeduplicationContext 单次组卷内的去重状态，按题目 id 与归一化题干同时判重
type DeduplicationContext struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	texts map[string]struct{}
	order []string
}

func NewDeduplicationContext() *DeduplicationContext {
	return &DeduplicationContext{
		ids:   make(map[string]struct{}),
		texts: make(map[string]struct{}),
	}
}

func (d *DeduplicationContext) Seen(q model.Question) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seenLocked(q, model.NormalizeQuestionText(q.QuestionText))
}

func (d *DeduplicationContext) seenLocked(q model.Question, text string) bool {
	if q.ID != "" {
		if _, ok := d.ids[q.ID]; ok {
			return true
		}
	}
	_, ok := d.texts[text]
	return ok
}

// Accept 未见过则登记并返回 true；空题干一律拒绝
func (d *DeduplicationContext) Accept(q model.Question) bool {
	text := model.NormalizeQuestionText(q.QuestionText)
	if text == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seenLocked(q, text) {
		return false
	}
	if q.ID != "" {
		d.ids[q.ID] = struct{}{}
	}
	d.texts[text] = struct{}{}
	d.order = append(d.order, text)
	return true
}

func (d *DeduplicationContext) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.texts)
}

// Texts 已接受题目的归一化题干，按接受顺序
func (d *DeduplicationContext) Texts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}
