package service

import (
	"assessment_backend/internal/model"
	"math"
)

// DifficultySplit 各难度分配到的题目数
type DifficultySplit struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

func (s DifficultySplit) Total() int {
	return s.Easy + s.Medium + s.Hard
}

func (s DifficultySplit) Get(d model.Difficulty) int {
	switch d {
	case model.DifficultyEasy:
		return s.Easy
	case model.DifficultyMedium:
		return s.Medium
	case model.DifficultyHard:
		return s.Hard
	}
	return 0
}

func (s *DifficultySplit) ptr(d model.Difficulty) *int {
	switch d {
	case model.DifficultyEasy:
		return &s.Easy
	case model.DifficultyHard:
		return &s.Hard
	default:
		return &s.Medium
	}
}

// 补足/削减时的难度顺序
var splitAdjustOrder = []model.Difficulty{model.DifficultyMedium, model.DifficultyEasy, model.DifficultyHard}

// AllocateDifficulty 按百分比把 count 拆分到三个难度，保证总和恰好为 count，且 count>0 时 medium 至少 1 道
func AllocateDifficulty(dist DifficultyDistribution, count int) DifficultySplit {
	if count <= 0 {
		return DifficultySplit{}
	}
	sum := dist.Easy + dist.Medium + dist.Hard
	if sum <= 0 {
		return DifficultySplit{Medium: count}
	}

	share := func(w int) int {
		return int(math.Round(float64(w*count) / float64(sum)))
	}
	split := DifficultySplit{
		Easy:   share(dist.Easy),
		Medium: share(dist.Medium),
		Hard:   share(dist.Hard),
	}
	if split.Medium == 0 && dist.Medium > 0 {
		split.Medium = 1
	}

	for i := 0; split.Total() < count; i++ {
		*split.ptr(splitAdjustOrder[i%len(splitAdjustOrder)])++
	}
	for split.Total() > count {
		reduced := false
		for _, d := range splitAdjustOrder {
			floor := 0
			if d == model.DifficultyMedium {
				floor = 1
			}
			if p := split.ptr(d); *p > floor {
				*p--
				reduced = true
				break
			}
		}
		if !reduced {
			break
		}
	}
	return split
}
