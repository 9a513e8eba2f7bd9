package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// TransactionManager 事务管理器接口
type TransactionManager interface {
	// Begin 开始事务
	Begin(ctx context.Context) (*Transaction, error)
	// WithTransaction 在事务中执行函数
	WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error
}

// Transaction 事务包装器，事务内的仓储共享同一个gorm事务句柄
type Transaction struct {
	tx         *gorm.DB
	ctx        context.Context
	committed  bool
	rolledback bool

	user        UserRepository
	userAuth    UserAuthRepository
	userSession UserSessionRepository
	playerState PlayerStateRepository
	submission  SubmissionRepository
	vote        VoteRepository
	discovery   DiscoveryRepository
	quest       QuestRepository
	robotPart   RobotPartRepository
	robot       RobotRepository
	prompt      PromptRepository
}

// txManager 事务管理器实现
type txManager struct {
	db *gorm.DB
}

// NewTransactionManager 创建事务管理器
func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &txManager{db: db}
}

// Begin 开始事务
func (m *txManager) Begin(ctx context.Context) (*Transaction, error) {
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("开始事务失败: %w", tx.Error)
	}
	return newTransaction(tx, ctx), nil
}

// WithTransaction 在事务中执行函数，出错自动回滚
func (m *txManager) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	return m.db.WithContext(ctx).Transaction(func(gormTx *gorm.DB) error {
		return fn(newTransaction(gormTx, ctx))
	})
}

// newTransaction 创建事务包装器
func newTransaction(tx *gorm.DB, ctx context.Context) *Transaction {
	return &Transaction{tx: tx, ctx: ctx}
}

// Commit 提交事务
func (t *Transaction) Commit() error {
	if t.committed || t.rolledback {
		return fmt.Errorf("事务已结束")
	}
	if err := t.tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	t.committed = true
	return nil
}

// Rollback 回滚事务
func (t *Transaction) Rollback() error {
	if t.committed || t.rolledback {
		return nil
	}
	if err := t.tx.Rollback().Error; err != nil {
		return fmt.Errorf("回滚事务失败: %w", err)
	}
	t.rolledback = true
	return nil
}

// User 获取事务内的用户仓储
func (t *Transaction) User() UserRepository {
	if t.user == nil {
		t.user = NewUserRepository(t.tx)
	}
	return t.user
}

// UserAuth 获取事务内的用户认证仓储
func (t *Transaction) UserAuth() UserAuthRepository {
	if t.userAuth == nil {
		t.userAuth = NewUserAuthRepository(t.tx)
	}
	return t.userAuth
}

// UserSession 获取事务内的用户会话仓储
func (t *Transaction) UserSession() UserSessionRepository {
	if t.userSession == nil {
		t.userSession = NewUserSessionRepository(t.tx)
	}
	return t.userSession
}

// PlayerState 获取事务内的玩家进度仓储
func (t *Transaction) PlayerState() PlayerStateRepository {
	if t.playerState == nil {
		t.playerState = NewPlayerStateRepository(t.tx)
	}
	return t.playerState
}

// Submission 获取事务内的图片提交仓储
func (t *Transaction) Submission() SubmissionRepository {
	if t.submission == nil {
		t.submission = NewSubmissionRepository(t.tx)
	}
	return t.submission
}

// Vote 获取事务内的投票仓储
func (t *Transaction) Vote() VoteRepository {
	if t.vote == nil {
		t.vote = NewVoteRepository(t.tx)
	}
	return t.vote
}

// Discovery 获取事务内的首次发现登记仓储
func (t *Transaction) Discovery() DiscoveryRepository {
	if t.discovery == nil {
		t.discovery = NewDiscoveryRepository(t.tx)
	}
	return t.discovery
}

// Quest 获取事务内的每日任务仓储
func (t *Transaction) Quest() QuestRepository {
	if t.quest == nil {
		t.quest = NewQuestRepository(t.tx)
	}
	return t.quest
}

// RobotPart 获取事务内的机器人部件仓储
func (t *Transaction) RobotPart() RobotPartRepository {
	if t.robotPart == nil {
		t.robotPart = NewRobotPartRepository(t.tx)
	}
	return t.robotPart
}

// Robot 获取事务内的组装机器人仓储
func (t *Transaction) Robot() RobotRepository {
	if t.robot == nil {
		t.robot = NewRobotRepository(t.tx)
	}
	return t.robot
}

// Prompt 获取事务内的拍摄挑战目录仓储
func (t *Transaction) Prompt() PromptRepository {
	if t.prompt == nil {
		t.prompt = NewPromptRepository(t.tx)
	}
	return t.prompt
}
