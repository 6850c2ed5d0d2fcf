package controller

import (
	"assessment_backend/internal/service"
	"assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	Service *service.CategoryService
}

func NewCategoryController(svc *service.CategoryService) *CategoryController {
	return &CategoryController{Service: svc}
}

// @Summary 管理端：分类列表
// @Tags 分类管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.QuestionCategory}
// @Router /admin/categories [get]
func (c *CategoryController) List(ctx *gin.Context) {
	cats, err := c.Service.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, cats)
}

// @Summary 管理端：创建分类
// @Tags 分类管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CategoryRequest true "分类"
// @Success 201 {object} util.Response{data=model.QuestionCategory}
// @Router /admin/categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	cat, err := c.Service.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, cat)
}

// @Summary 管理端：更新分类
// @Tags 分类管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类ID"
// @Param body body service.CategoryRequest true "分类"
// @Success 200 {object} util.Response{data=model.QuestionCategory}
// @Router /admin/categories/{id} [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	cat, err := c.Service.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, cat)
}

// @Summary 管理端：刷新分类缓存
// @Tags 分类管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /admin/categories/refresh [post]
func (c *CategoryController) Refresh(ctx *gin.Context) {
	if err := c.Service.Refresh(ctx.Request.Context()); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, "分类缓存已刷新")
}
