package repository

import (
	"assessment_backend/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newDryRunDB 只生成 SQL，不连接数据库
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func buildSQL(t *testing.T, f QuestionFilter) (string, []interface{}) {
	t.Helper()
	repo := NewQuestionRepository(newDryRunDB(t))
	var qs []model.Question
	stmt := repo.buildQuery(context.Background(), f).Find(&qs).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestBuildQuery_CategoryByUUIDAndAdmin(t *testing.T) {
	id := "7d9c0c2e-2f5c-4a53-9b0e-0d1c6f3f1a11"
	sql, vars := buildSQL(t, QuestionFilter{
		CategoryID:   id,
		CategoryName: "Logic",
		Difficulty:   model.DifficultyHard,
		AdminOnly:    true,
		Limit:        9,
	})

	assert.Contains(t, sql, "is_active =")
	assert.Contains(t, sql, "category_id =")
	assert.NotContains(t, sql, "category ILIKE")
	assert.Contains(t, sql, "difficulty ILIKE")
	assert.Contains(t, sql, "created_by =")
	assert.Contains(t, sql, "ORDER BY random()")
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, vars, id)
	assert.Contains(t, vars, model.CreatedByAdmin)
}

func TestBuildQuery_CategoryNameIsEscaped(t *testing.T) {
	sql, vars := buildSQL(t, QuestionFilter{CategoryName: "100%_legit"})
	assert.Contains(t, sql, "category ILIKE")
	assert.Contains(t, vars, `100\%\_legit`)
	assert.NotContains(t, sql, "created_by")
	assert.NotContains(t, sql, "tags")
}

func TestBuildQuery_SlugCategoryIDMatchesName(t *testing.T) {
	sql, vars := buildSQL(t, QuestionFilter{CategoryID: "critical-thinking"})
	assert.Contains(t, sql, "category ILIKE")
	assert.Contains(t, vars, "critical-thinking")
}

func TestBuildQuery_TagModes(t *testing.T) {
	sql, _ := buildSQL(t, QuestionFilter{LevelTags: []string{"level_10", "grade_10"}})
	assert.Contains(t, sql, "tags &&")

	sql, _ = buildSQL(t, QuestionFilter{LevelTags: []string{"level_10"}, TagMatch: TagMatchContains})
	assert.Contains(t, sql, "tags @>")

	sql, _ = buildSQL(t, QuestionFilter{IDs: []string{"a", "b"}})
	assert.Contains(t, sql, "id IN")
}

func TestFindQuestions_RestrictToEmptyIDs(t *testing.T) {
	repo := NewQuestionRepository(newDryRunDB(t))
	qs, err := repo.FindQuestions(context.Background(), QuestionFilter{RestrictToIDs: true})
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b\%c\_d`, escapeLike(`a\b%c_d`))
}
