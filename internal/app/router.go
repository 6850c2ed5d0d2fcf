package app

import (
	"assessment_backend/docs"
	"assessment_backend/internal/config"
	"assessment_backend/internal/middleware"
	"assessment_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	a.registerStudentRoutes(authGroup, c)

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/fields", c.field.List)
		public.POST("/fields/detect", c.field.Detect)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	// 组卷与作答
	rg.POST("/quiz/questions", c.quiz.GetQuestions)
	rg.POST("/quiz/submit", c.quiz.Submit)
	rg.POST("/quiz/evaluate", c.quiz.Evaluate)
	rg.GET("/quiz/submissions", c.quiz.ListSubmissions)
	rg.GET("/quiz/submissions/:id", c.quiz.GetSubmission)

	rg.POST("/responses/ai-check", c.analysis.AICheck)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		// 题库
		admin.GET("/questions", c.questionBank.ListQuestions)
		admin.POST("/questions", c.questionBank.CreateQuestion)
		admin.GET("/questions/:id", c.questionBank.GetQuestion)
		admin.PUT("/questions/:id", c.questionBank.UpdateQuestion)
		admin.DELETE("/questions/:id", c.questionBank.DeactivateQuestion)
		admin.POST("/questions/:id/fields", c.questionBank.AssignField)

		// 分类
		admin.GET("/categories", c.category.List)
		admin.POST("/categories", c.category.Create)
		admin.PUT("/categories/:id", c.category.Update)
		admin.POST("/categories/refresh", c.category.Refresh)

		// AI 开关
		admin.GET("/ai-settings", c.aiSettings.Get)
		admin.PUT("/ai-settings", c.aiSettings.Update)
	}
}
