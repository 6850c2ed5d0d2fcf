// 手动导入内置题库脚本
//
// 内置题库默认只在内存中作为兜底使用。首次部署或需要在管理端维护这些题目时，
// 可以用此脚本把它们写入数据库（按题干去重，可重复执行）。
//
// 用法: go run scripts/import_curated_bank.go

package main

import (
	"assessment_backend/internal/config"
	"assessment_backend/internal/repository"
	"assessment_backend/internal/service"
	"assessment_backend/pkg/database"
	"assessment_backend/pkg/logger"
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	categories := service.NewCategoryService(repository.NewCategoryRepository(db), cfg.Selection.CategoryCacheTTL())
	if err := categories.SeedDefaults(ctx); err != nil {
		log.Fatalf("初始化分类失败: %v", err)
	}

	bank, err := service.DefaultCuratedBank()
	if err != nil {
		log.Fatalf("加载内置题库失败: %v", err)
	}

	bankService := service.NewQuestionBankService(repository.NewQuestionRepository(db), categories)
	log.Println("开始导入内置题库...")
	n, err := bankService.ImportCuratedBank(ctx, bank)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Printf("完成！共处理 %d 道题\n", n)
}
