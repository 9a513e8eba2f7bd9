package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Manager 仓储管理器，提供所有仓储的统一访问接口
type Manager struct {
	db *gorm.DB

	// 事务管理器
	txManager TransactionManager

	// 仓储实例（使用懒加载）
	userOnce sync.Once
	user     UserRepository

	userAuthOnce sync.Once
	userAuth     UserAuthRepository

	userSessionOnce sync.Once
	userSession     UserSessionRepository

	playerStateOnce sync.Once
	playerState     PlayerStateRepository

	// 提交与投票
	submissionOnce sync.Once
	submission     SubmissionRepository

	voteOnce sync.Once
	vote     VoteRepository

	discoveryOnce sync.Once
	discovery     DiscoveryRepository

	// 任务与挑战
	questOnce sync.Once
	quest     QuestRepository

	promptOnce sync.Once
	prompt     PromptRepository

	// 机器人
	robotPartOnce sync.Once
	robotPart     RobotPartRepository

	robotOnce sync.Once
	robot     RobotRepository
}

// NewManager 创建仓储管理器
func NewManager(db *gorm.DB) *Manager {
	return &Manager{
		db:        db,
		txManager: NewTransactionManager(db),
	}
}

// GetDB 获取数据库实例
func (m *Manager) GetDB() *gorm.DB {
	return m.db
}

// Transaction 获取事务管理器
func (m *Manager) Transaction() TransactionManager {
	return m.txManager
}

// User 获取用户仓储
func (m *Manager) User() UserRepository {
	m.userOnce.Do(func() {
		m.user = NewUserRepository(m.db)
	})
	return m.user
}

// UserAuth 获取用户认证仓储
func (m *Manager) UserAuth() UserAuthRepository {
	m.userAuthOnce.Do(func() {
		m.userAuth = NewUserAuthRepository(m.db)
	})
	return m.userAuth
}

// UserSession 获取用户会话仓储
func (m *Manager) UserSession() UserSessionRepository {
	m.userSessionOnce.Do(func() {
		m.userSession = NewUserSessionRepository(m.db)
	})
	return m.userSession
}

// PlayerState 获取玩家进度仓储
func (m *Manager) PlayerState() PlayerStateRepository {
	m.playerStateOnce.Do(func() {
		m.playerState = NewPlayerStateRepository(m.db)
	})
	return m.playerState
}

// Submission 获取图片提交仓储
func (m *Manager) Submission() SubmissionRepository {
	m.submissionOnce.Do(func() {
		m.submission = NewSubmissionRepository(m.db)
	})
	return m.submission
}

// Vote 获取投票仓储
func (m *Manager) Vote() VoteRepository {
	m.voteOnce.Do(func() {
		m.vote = NewVoteRepository(m.db)
	})
	return m.vote
}

// Discovery 获取首次发现登记仓储
func (m *Manager) Discovery() DiscoveryRepository {
	m.discoveryOnce.Do(func() {
		m.discovery = NewDiscoveryRepository(m.db)
	})
	return m.discovery
}

// Quest 获取每日任务仓储
func (m *Manager) Quest() QuestRepository {
	m.questOnce.Do(func() {
		m.quest = NewQuestRepository(m.db)
	})
	return m.quest
}

// Prompt 获取拍摄挑战目录仓储
func (m *Manager) Prompt() PromptRepository {
	m.promptOnce.Do(func() {
		m.prompt = NewPromptRepository(m.db)
	})
	return m.prompt
}

// RobotPart 获取机器人部件仓储
func (m *Manager) RobotPart() RobotPartRepository {
	m.robotPartOnce.Do(func() {
		m.robotPart = NewRobotPartRepository(m.db)
	})
	return m.robotPart
}

// Robot 获取组装机器人仓储
func (m *Manager) Robot() RobotRepository {
	m.robotOnce.Do(func() {
		m.robot = NewRobotRepository(m.db)
	})
	return m.robot
}

// WithTransaction 在事务中执行操作
func (m *Manager) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	return m.txManager.WithTransaction(ctx, fn)
}
