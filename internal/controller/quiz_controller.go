package controller

import (
	"assessment_backend/internal/service"
	"assessment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Selection *service.QuestionSelectionService
	Quiz      *service.QuizService
}

func NewQuizController(selection *service.QuestionSelectionService, quiz *service.QuizService) *QuizController {
	return &QuizController{Selection: selection, Quiz: quiz}
}

// @Summary 学生端：按学习者资料组卷
// @Description 根据资料推断学科领域与年级，按难度比例组装不重复的选择题
// @Tags 测评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SelectionRequest true "学习者资料"
// @Success 200 {object} util.Response{data=service.SelectionResult}
// @Failure 503 {object} util.Response
// @Router /quiz/questions [post]
func (c *QuizController) GetQuestions(ctx *gin.Context) {
	var req service.SelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Total < 0 {
		util.BadRequest(ctx, "total must not be negative")
		return
	}

	res, err := c.Selection.GenerateQuestionsForStudent(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 学生端：提交答卷
// @Tags 测评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SubmitRequest true "答案"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Router /quiz/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Quiz.Submit(ctx.Request.Context(), user.UserID(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 单题评分
// @Tags 测评
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.AnswerSubmission true "答案"
// @Success 200 {object} util.Response{data=service.SubmittedResponse}
// @Router /quiz/evaluate [post]
func (c *QuizController) Evaluate(ctx *gin.Context) {
	var req service.AnswerSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.Quiz.Evaluate(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary 我的答卷列表
// @Tags 测评
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /quiz/submissions [get]
func (c *QuizController) ListSubmissions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := pageParams(ctx)

	list, total, err := c.Quiz.ListSubmissions(ctx.Request.Context(), user.UserID(), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// @Summary 答卷详情
// @Tags 测评
// @Produce json
// @Security BearerAuth
// @Param id path string true "答卷ID"
// @Success 200 {object} util.Response{data=model.QuizSubmission}
// @Router /quiz/submissions/{id} [get]
func (c *QuizController) GetSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sub, err := c.Quiz.GetSubmission(ctx.Request.Context(), user.UserID(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}
