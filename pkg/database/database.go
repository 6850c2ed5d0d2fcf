package database

import (
	"assessment_backend/internal/config"
	"assessment_backend/internal/model"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN 拼接 Postgres 连接串（Supabase 默认要求 sslmode=require）
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
		cfg.TimeZone,
	)
}

func InitDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: DSN(cfg),
		// Supabase 连接池（pgbouncer 事务模式）不支持预编译语句缓存
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Println("Database connection established")
	return db, nil
}

// Migrate 建表并补充 GORM 无法声明的索引
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.QuestionCategory{},
		&model.Question{},
		&model.FieldQuestionMapping{},
		&model.AISetting{},
		&model.QuizSubmission{},
	)
	if err != nil {
		return err
	}

	// tags && / @> 查询依赖 GIN 索引
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_questions_tags ON questions USING GIN (tags)`).Error; err != nil {
		return fmt.Errorf("failed to create tags index: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_questions_lookup ON questions (category_id, difficulty, created_by) WHERE is_active`).Error; err != nil {
		return fmt.Errorf("failed to create lookup index: %w", err)
	}

	log.Println("Database migration completed")
	return nil
}
