package service

import (
	"context"
	"sync"
	"testing"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// recordPublisher 记录事件的测试广播器
type recordPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordPublisher) Publish(userID uint, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordPublisher) has(event string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e == event {
			return true
		}
	}
	return false
}

// serviceTestEnv 服务层测试环境：内存库、全量服务、事件记录器
type serviceTestEnv struct {
	db       *gorm.DB
	services *Services
	events   *recordPublisher
}

// newServiceTestEnv 搭建测试环境。
// 分析器去掉延迟并固定种子，投票验证阈值降到2方便测试。
func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.UserAuth{},
		&models.UserSession{},
		&models.PlayerState{},
		&models.Prompt{},
		&models.Quest{},
		&models.ImageSubmission{},
		&models.UserVote{},
		&models.DiscoveredEntity{},
		&models.RobotPart{},
		&models.Robot{},
	)
	require.NoError(t, err)

	prompts := []*models.Prompt{
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
	for _, p := range prompts {
		require.NoError(t, db.Create(p).Error)
	}

	config := DefaultConfig()
	config.AnalyzerMinLatency = 0
	config.AnalyzerMaxLatency = 0
	config.AnalyzerSeed = 42
	config.Game = &GameParams{
		InitialChips:    100,
		InitialXPToNext: 1000,
		VerifyThreshold: 2,
		AccurateVoteXP:  10,
	}

	events := &recordPublisher{}
	services := NewServices(db, config, events, zap.NewNop())

	return &serviceTestEnv{
		db:       db,
		services: services,
		events:   events,
	}
}

// register 注册一个测试用户并返回认证响应
func (env *serviceTestEnv) register(t *testing.T, username string) *AuthResponse {
	t.Helper()

	resp, err := env.services.Auth.Register(context.Background(), &RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}
