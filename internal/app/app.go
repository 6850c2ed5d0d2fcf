package app

import (
	"assessment_backend/internal/config"
	"assessment_backend/internal/controller"
	"assessment_backend/internal/repository"
	"assessment_backend/internal/service"
	"assessment_backend/pkg/configwatcher"
	"assessment_backend/pkg/database"
	"assessment_backend/pkg/logger"
	"assessment_backend/pkg/monitoring"
	"assessment_backend/pkg/security"
	"assessment_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configFile = "configs/config.yaml"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	question   *repository.QuestionRepository
	category   *repository.CategoryRepository
	aiSetting  *repository.AISettingRepository
	submission *repository.SubmissionRepository
}

type services struct {
	ai           *service.AIService
	aiSettings   *service.AISettingsService
	category     *service.CategoryService
	selection    *service.QuestionSelectionService
	scoring      *service.ScoringService
	detection    *service.AIDetectionService
	quiz         *service.QuizService
	questionBank *service.QuestionBankService
	field        *service.FieldService
}

type controllers struct {
	quiz         *controller.QuizController
	analysis     *controller.ResponseAnalysisController
	field        *controller.FieldController
	questionBank *controller.QuestionBankController
	category     *controller.CategoryController
	aiSettings   *controller.AISettingsController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	a.configCallbacks = append(a.configCallbacks, callback)
	a.mu.Unlock()
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		question:   repository.NewQuestionRepository(db),
		category:   repository.NewCategoryRepository(db),
		aiSetting:  repository.NewAISettingRepository(db),
		submission: repository.NewSubmissionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	bank, err := service.DefaultCuratedBank()
	if err != nil {
		return nil, err
	}

	s.ai = service.NewAIService(cfg.AI)
	s.aiSettings = service.NewAISettingsService(repos.aiSetting, rdb, cfg.AI.GenerationEnabled, cfg.AISettings.CacheTTL())
	s.category = service.NewCategoryService(repos.category, cfg.Selection.CategoryCacheTTL())
	s.selection = service.NewQuestionSelectionService(repos.question, s.ai, s.aiSettings, s.category, bank, cfg.Selection)
	s.scoring = service.NewScoringService(s.ai, s.aiSettings)
	s.detection = service.NewAIDetectionService()
	s.quiz = service.NewQuizService(repos.question, repos.submission, s.scoring, s.detection, bank)
	s.questionBank = service.NewQuestionBankService(repos.question, s.category)
	s.field = service.NewFieldService()

	// 配置热更新
	a.RegisterConfigCallback(func(c *config.Config) {
		s.aiSettings.UpdateConfig(c.AI.GenerationEnabled, c.AISettings.CacheTTL())
		s.selection.UpdateSelectionConfig(c.Selection)
		s.category.SetTTL(c.Selection.CategoryCacheTTL())
	})

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		quiz:         controller.NewQuizController(s.selection, s.quiz),
		analysis:     controller.NewResponseAnalysisController(s.detection),
		field:        controller.NewFieldController(s.field),
		questionBank: controller.NewQuestionBankController(s.questionBank),
		category:     controller.NewCategoryController(s.category),
		aiSettings:   controller.NewAISettingsController(s.aiSettings),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	router.Use(security.RateLimiter(cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// prepareDatabase 迁移并初始化分类目录
func (a *App) prepareDatabase(s *services) error {
	if err := database.Migrate(a.DB); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.category.SeedDefaults(ctx)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只做缓存，连不上时降级运行
		logger.Log.Warn("Failed to initialize redis, running without shared cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = services

	if cfg.ForceMigrate || cfg.Server.Mode == "debug" {
		if err := app.prepareDatabase(services); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return app
	}

	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("assessment-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := configwatcher.WatchConfig(ctx, filepath.Clean(configFile), config.LoadConfig, a.applyConfig); err != nil {
			logger.Log.Warn("配置热更新不可用", zap.Error(err))
		}
	}()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
