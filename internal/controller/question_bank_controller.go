package controller

import (
	"assessment_backend/internal/service"
	"assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionBankController struct {
	Service *service.QuestionBankService
}

func NewQuestionBankController(svc *service.QuestionBankService) *QuestionBankController {
	return &QuestionBankController{Service: svc}
}

// @Summary 管理端：创建题目
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /admin/questions [post]
func (c *QuestionBankController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 管理端：题目列表
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param category query string false "分类 id 或名称"
// @Param difficulty query string false "难度"
// @Param created_by query string false "admin 或 ai"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /admin/questions [get]
func (c *QuestionBankController) ListQuestions(ctx *gin.Context) {
	page, limit := pageParams(ctx)
	qs, total, err := c.Service.ListQuestions(ctx.Query("category"), ctx.Query("difficulty"), ctx.Query("created_by"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, qs, total, page, limit)
}

// @Summary 管理端：题目详情
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "题目ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /admin/questions/{id} [get]
func (c *QuestionBankController) GetQuestion(ctx *gin.Context) {
	q, err := c.Service.GetQuestion(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 管理端：更新题目
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "题目ID"
// @Param body body service.QuestionRequest true "题目信息"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /admin/questions/{id} [put]
func (c *QuestionBankController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.UpdateQuestion(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 管理端：停用题目
// @Tags 题库管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /admin/questions/{id} [delete]
func (c *QuestionBankController) DeactivateQuestion(ctx *gin.Context) {
	if err := c.Service.DeactivateQuestion(ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id"), "is_active": false})
}

type AssignFieldRequest struct {
	FieldID string `json:"field_id" binding:"required"`
}

// @Summary 管理端：题目关联学科领域
// @Tags 题库管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "题目ID"
// @Param body body AssignFieldRequest true "领域"
// @Success 200 {object} util.Response
// @Router /admin/questions/{id}/fields [post]
func (c *QuestionBankController) AssignField(ctx *gin.Context) {
	var req AssignFieldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.Service.AssignField(ctx.Param("id"), req.FieldID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"question_id": ctx.Param("id"), "field_id": req.FieldID})
}
