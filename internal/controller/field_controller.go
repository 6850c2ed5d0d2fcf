package controller

import (
	"assessment_backend/internal/model"
	"assessment_backend/internal/service"
	"assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FieldController struct {
	Service *service.FieldService
}

func NewFieldController(svc *service.FieldService) *FieldController {
	return &FieldController{Service: svc}
}

// @Summary 学科领域列表
// @Tags 学科领域
// @Produce json
// @Success 200 {object} util.Response{data=[]service.StudyField}
// @Router /fields [get]
func (c *FieldController) List(ctx *gin.Context) {
	util.Success(ctx, c.Service.List())
}

type DetectFieldRequest struct {
	Profile model.LearnerProfile `json:"profile"`
}

// @Summary 根据学习者资料推断学科领域与年级标签
// @Tags 学科领域
// @Accept json
// @Produce json
// @Param body body DetectFieldRequest true "学习者资料"
// @Success 200 {object} util.Response{data=service.FieldDetection}
// @Router /fields/detect [post]
func (c *FieldController) Detect(ctx *gin.Context) {
	var req DetectFieldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, c.Service.Detect(req.Profile))
}
