package controller

import (
	"assessment_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError 业务错误映射为 HTTP 状态码，其余按 500 处理
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidQuestion),
		errors.Is(err, util.ErrInvalidSubmission),
		errors.Is(err, util.ErrInvalidFieldID),
		errors.Is(err, util.ErrInvalidCategory):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrCategoryNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrNoQuestionsAvailable):
		util.ServiceUnavailable(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func pageParams(ctx *gin.Context) (int, int) {
	var q struct {
		Page  int `form:"page"`
		Limit int `form:"limit"`
	}
	_ = ctx.ShouldBindQuery(&q)
	return q.Page, q.Limit
}
