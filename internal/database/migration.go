package database

import (
	"fmt"

	"github.com/SphoenixAI/image-verse-quest/internal/logger"
	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"go.uber.org/zap"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 定义需要迁移的模型
	migrationModels := []interface{}{
		// 用户相关
		&models.User{},
		&models.UserAuth{},
		&models.UserSession{},
		&models.PlayerState{},

		// 挑战与任务相关
		&models.Prompt{},
		&models.Quest{},

		// 图片提交相关
		&models.ImageSubmission{},
		&models.UserVote{},
		&models.DiscoveredEntity{},

		// 机器人相关
		&models.RobotPart{},
		&models.Robot{},
	}

	// 执行迁移
	logger.Info("开始数据库迁移...")

	// 设置 SQLite 专用配置，避免锁定问题
	if DB.Dialector.Name() == "sqlite" {
		DB.Exec("PRAGMA foreign_keys = OFF")
		defer DB.Exec("PRAGMA foreign_keys = ON")
	}

	for _, model := range migrationModels {
		if err := DB.AutoMigrate(model); err != nil {
			logger.Error("迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err),
			)
			return err
		}
		logger.Debug("迁移成功", zap.String("model", fmt.Sprintf("%T", model)))
	}

	// 创建索引
	if err := createIndexes(); err != nil {
		return err
	}

	logger.Info("数据库迁移完成")
	return nil
}

// createIndexes 创建数据库索引
func createIndexes() error {
	// 用户表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_users_username"), zap.Error(err))
	}

	// 图片提交表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_image_submissions_user_id ON image_submissions(user_id)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_image_submissions_user_id"), zap.Error(err))
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_image_submissions_prompt_id ON image_submissions(prompt_id)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_image_submissions_prompt_id"), zap.Error(err))
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_image_submissions_moderation_status ON image_submissions(moderation_status)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_image_submissions_moderation_status"), zap.Error(err))
	}

	// 投票表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_user_votes_image_id ON user_votes(image_id)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_user_votes_image_id"), zap.Error(err))
	}

	// 机器人部件表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_robot_parts_user_id ON robot_parts(user_id)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_robot_parts_user_id"), zap.Error(err))
	}

	// 任务表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_quests_user_id ON quests(user_id)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_quests_user_id"), zap.Error(err))
	}

	logger.Info("数据库索引创建完成")
	return nil
}

// SeedDefaultData 初始化默认数据（挑战目录）
func SeedDefaultData() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 检查是否已有数据
	var count int64
	DB.Model(&models.Prompt{}).Count(&count)
	if count > 0 {
		return nil
	}

	// 创建默认挑战目录
	defaultPrompts := []models.Prompt{
		{
			PromptID:        "prompt-001",
			Text:            "Take a photo of an energy drink",
			Category:        "product",
			Difficulty:      "easy",
			Rarity:          "common",
			Icon:            "coffee",
			Status:          "active",
			RewardXP:        100,
			RewardChips:     5,
			RobotPartChance: 0.1,
		},
		{
			PromptID:        "prompt-002",
			Text:            "Capture a sunset",
			Category:        "nature",
			Difficulty:      "medium",
			Rarity:          "uncommon",
			Icon:            "sun",
			Status:          "active",
			RewardXP:        150,
			RewardChips:     8,
			RobotPartChance: 0.15,
		},
		{
			PromptID:        "prompt-003",
			Text:            "Find and photograph a bicycle",
			Category:        "transportation",
			Difficulty:      "easy",
			Rarity:          "common",
			Status:          "active",
			RewardXP:        100,
			RewardChips:     5,
			RobotPartChance: 0.1,
		},
		{
			PromptID:        "prompt-004",
			Text:            "Take a photo of a flowering plant",
			Category:        "nature",
			Difficulty:      "medium",
			Rarity:          "uncommon",
			Status:          "active",
			RewardXP:        150,
			RewardChips:     8,
			RobotPartChance: 0.15,
		},
		{
			PromptID:        "prompt-005",
			Text:            "Capture an image of street art",
			Category:        "art",
			Difficulty:      "hard",
			Rarity:          "rare",
			Status:          "active",
			RewardXP:        250,
			RewardChips:     15,
			RobotPartChance: 0.25,
		},
	}

	for _, prompt := range defaultPrompts {
		if err := DB.Create(&prompt).Error; err != nil {
			logger.Error("创建默认挑战失败",
				zap.String("prompt_id", prompt.PromptID),
				zap.Error(err),
			)
		}
	}

	logger.Info("默认数据初始化完成", zap.Int("prompts", len(defaultPrompts)))
	return nil
}

// DropAllTables 删除所有表（仅用于测试环境）
func DropAllTables() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 获取所有表名
	var tables []string
	if err := DB.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&tables).Error; err != nil {
		return err
	}

	// 删除所有表
	for _, table := range tables {
		if err := DB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			logger.Error("删除表失败", zap.String("table", table), zap.Error(err))
			return err
		}
	}

	logger.Info("所有表已删除")
	return nil
}
