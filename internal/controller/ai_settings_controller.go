package controller

import (
	"assessment_backend/internal/service"
	"assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AISettingsController struct {
	Service *service.AISettingsService
}

func NewAISettingsController(svc *service.AISettingsService) *AISettingsController {
	return &AISettingsController{Service: svc}
}

// @Summary 管理端：查看 AI 出题开关
// @Tags AI 设置
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.AISettingsStatus}
// @Router /admin/ai-settings [get]
func (c *AISettingsController) Get(ctx *gin.Context) {
	status, err := c.Service.Status(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

type UpdateAISettingsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// @Summary 管理端：设置 AI 出题开关
// @Tags AI 设置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateAISettingsRequest true "开关"
// @Success 200 {object} util.Response{data=service.AISettingsStatus}
// @Router /admin/ai-settings [put]
func (c *AISettingsController) Update(ctx *gin.Context) {
	var req UpdateAISettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updatedBy := ""
	if user := util.GetUserFromContext(ctx); user != nil {
		updatedBy = user.UserID()
	}
	if err := c.Service.SetEnabled(ctx.Request.Context(), *req.Enabled, updatedBy); err != nil {
		respondError(ctx, err)
		return
	}

	status, err := c.Service.Status(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}
