package repository

import (
	"testing"
	"time"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试套件设置测试数据库
func SetupTestDB() *gorm.DB {
	// 使用内存数据库进行测试（更快，不需要文件系统，在所有环境中都能工作）
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		// 用户系统
		&models.User{},
		&models.UserAuth{},
		&models.UserSession{},
		&models.PlayerState{},

		// 挑战与任务
		&models.Prompt{},
		&models.Quest{},

		// 提交与投票
		&models.ImageSubmission{},
		&models.UserVote{},
		&models.DiscoveredEntity{},

		// 机器人
		&models.RobotPart{},
		&models.Robot{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SeedTestUsers 创建测试用户
func SeedTestUsers(t *testing.T, db *gorm.DB) []models.User {
	users := []models.User{
		{
			Username: "explorer1",
			Email:    "explorer1@example.com",
			Nickname: "测试玩家1",
			Status:   "active",
		},
		{
			Username: "explorer2",
			Email:    "explorer2@example.com",
			Nickname: "测试玩家2",
			Status:   "active",
		},
	}
	err := db.Create(&users).Error
	require.NoError(t, err)
	return users
}

// SeedTestPrompts 创建测试挑战目录
func SeedTestPrompts(t *testing.T, db *gorm.DB) []models.Prompt {
	prompts := []models.Prompt{
		{
			PromptID:        "prompt-001",
			Text:            "Take a photo of an energy drink",
			Category:        "product",
			Difficulty:      "easy",
			Rarity:          "common",
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
			Status:          "active",
			RewardXP:        150,
			RewardChips:     8,
			RobotPartChance: 0.15,
		},
	}
	err := db.Create(&prompts).Error
	require.NoError(t, err)
	return prompts
}

// CreateTestSubmission 创建测试提交记录
func CreateTestSubmission(userID uint, submissionID, promptID string) *models.ImageSubmission {
	return &models.ImageSubmission{
		SubmissionID:     submissionID,
		UserID:           userID,
		PromptID:         promptID,
		ImageURL:         "/photos/" + submissionID + ".jpg",
		SubmittedAt:      time.Now(),
		ModerationStatus: models.ModerationPending,
	}
}

// CreateTestQuest 创建测试任务
func CreateTestQuest(userID uint, questID, questType string, goal int) *models.Quest {
	return &models.Quest{
		QuestID:     questID,
		UserID:      userID,
		Title:       "测试任务 " + questID,
		Description: "测试任务描述",
		Type:        questType,
		Goal:        goal,
		Progress:    0,
		Completed:   false,
		RewardXP:    100,
		RewardChips: 10,
	}
}

// CreateTestPart 创建测试机器人部件
func CreateTestPart(userID uint, partID, partType, rarity string) *models.RobotPart {
	return &models.RobotPart{
		PartID:       partID,
		UserID:       userID,
		Type:         partType,
		Name:         "测试部件 " + partID,
		Rarity:       rarity,
		Power:        10,
		Agility:      5,
		Intelligence: 3,
	}
}
