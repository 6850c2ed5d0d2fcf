package controller

import (
	"assessment_backend/internal/service"
	"assessment_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type ResponseAnalysisController struct {
	Detection *service.AIDetectionService
}

func NewResponseAnalysisController(detection *service.AIDetectionService) *ResponseAnalysisController {
	return &ResponseAnalysisController{Detection: detection}
}

type AICheckRequest struct {
	Response         string `json:"response" binding:"required"`
	QuestionText     string `json:"question_text"`
	TimeSpentSeconds int    `json:"time_spent_seconds"`
}

// @Summary 作答文本 AI 代写嫌疑分析
// @Description 启发式打分，仅供参考
// @Tags 测评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AICheckRequest true "作答文本"
// @Success 200 {object} util.Response{data=service.SuspicionAnalysis}
// @Router /responses/ai-check [post]
func (c *ResponseAnalysisController) AICheck(ctx *gin.Context) {
	var req AICheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	elapsed := time.Duration(req.TimeSpentSeconds) * time.Second
	util.Success(ctx, c.Detection.Analyze(req.Response, req.QuestionText, elapsed))
}
