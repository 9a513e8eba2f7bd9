package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StatePersister 状态持久化接口
type StatePersister interface {
	Save(ctx context.Context, userID uint, state *State) error
	Load(ctx context.Context, userID uint) (*State, error)
}

// Session 游戏会话
type Session struct {
	SessionID    string
	UserID       uint
	Engine       *Engine
	StartTime    time.Time
	LastActivity time.Time
	mu           sync.RWMutex
}

// UpdateActivity 更新活动时间
func (s *Session) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActivity = time.Now()
}

// SessionManager 游戏会话管理器
type SessionManager struct {
	mu             sync.RWMutex
	sessions       map[string]*Session
	logger         *zap.Logger
	persister      StatePersister
	randomGen      RandomGenerator
	sessionTimeout time.Duration
	maxSessions    int
}

// SessionConfig 会话管理器配置
type SessionConfig struct {
	Logger         *zap.Logger
	Persister      StatePersister
	RandomGen      RandomGenerator
	SessionTimeout time.Duration
	MaxSessions    int
}

// NewSessionManager 创建会话管理器
func NewSessionManager(config *SessionConfig) *SessionManager {
	randomGen := config.RandomGen
	if randomGen == nil {
		randomGen = NewCryptoRandomGenerator()
	}

	return &SessionManager{
		sessions:       make(map[string]*Session),
		logger:         config.Logger,
		persister:      config.Persister,
		randomGen:      randomGen,
		sessionTimeout: config.SessionTimeout,
		maxSessions:    config.MaxSessions,
	}
}

// CreateSession 创建新会话
func (sm *SessionManager) CreateSession(ctx context.Context, sessionID string, userID uint, initial State) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	// 检查会话数量限制
	if len(sm.sessions) >= sm.maxSessions {
		return nil, errors.New("会话数量已达上限")
	}

	// 检查会话是否已存在
	if _, exists := sm.sessions[sessionID]; exists {
		return nil, fmt.Errorf("会话已存在: %s", sessionID)
	}

	engine := NewEngine(initial,
		WithRandomGenerator(sm.randomGen),
		WithLogger(sm.logger),
	)

	session := &Session{
		SessionID:    sessionID,
		UserID:       userID,
		Engine:       engine,
		StartTime:    time.Now(),
		LastActivity: time.Now(),
	}

	sm.sessions[sessionID] = session

	sm.logger.Info("创建游戏会话",
		zap.String("session_id", sessionID),
		zap.Uint("user_id", userID))

	return session, nil
}

// GetSession 获取会话
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("会话不存在: %s", sessionID)
	}

	// 更新活动时间
	session.UpdateActivity()

	return session, nil
}

// GetSessionByUser 按用户查找会话
func (sm *SessionManager) GetSessionByUser(userID uint) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, session := range sm.sessions {
		if session.UserID == userID {
			return session, true
		}
	}
	return nil, false
}

// RecoverOrCreateSession 恢复或创建会话
func (sm *SessionManager) RecoverOrCreateSession(ctx context.Context, sessionID string, userID uint, fallback State) (*Session, error) {
	// 先尝试从内存获取
	if session, err := sm.GetSession(sessionID); err == nil {
		return session, nil
	}

	// 尝试从持久化状态恢复
	if sm.persister != nil {
		if saved, err := sm.persister.Load(ctx, userID); err == nil && saved != nil {
			session, err := sm.CreateSession(ctx, sessionID, userID, *saved)
			if err != nil {
				return nil, err
			}

			sm.logger.Info("恢复游戏会话",
				zap.String("session_id", sessionID),
				zap.Uint("user_id", userID))

			return session, nil
		}
	}

	// 创建新会话
	return sm.CreateSession(ctx, sessionID, userID, fallback)
}

// RemoveSession 移除会话
func (sm *SessionManager) RemoveSession(ctx context.Context, sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return fmt.Errorf("会话不存在: %s", sessionID)
	}

	// 保存最终状态
	if sm.persister != nil {
		state := session.Engine.Snapshot()
		if err := sm.persister.Save(ctx, session.UserID, &state); err != nil {
			sm.logger.Error("保存会话状态失败",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}

	delete(sm.sessions, sessionID)

	sm.logger.Info("移除游戏会话",
		zap.String("session_id", sessionID),
		zap.Uint("user_id", session.UserID))

	return nil
}

// CleanupInactiveSessions 清理不活跃的会话
func (sm *SessionManager) CleanupInactiveSessions(ctx context.Context) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	var toRemove []string

	for sessionID, session := range sm.sessions {
		if now.Sub(session.LastActivity) > sm.sessionTimeout {
			toRemove = append(toRemove, sessionID)
		}
	}

	for _, sessionID := range toRemove {
		session := sm.sessions[sessionID]

		// 保存状态
		if sm.persister != nil {
			state := session.Engine.Snapshot()
			if err := sm.persister.Save(ctx, session.UserID, &state); err != nil {
				sm.logger.Error("保存超时会话状态失败",
					zap.String("session_id", sessionID),
					zap.Error(err))
			}
		}

		delete(sm.sessions, sessionID)

		sm.logger.Info("清理超时会话",
			zap.String("session_id", sessionID),
			zap.Duration("inactive", now.Sub(session.LastActivity)))
	}
}

// StartCleanupTask 启动清理任务
func (sm *SessionManager) StartCleanupTask(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				sm.logger.Info("停止会话清理任务")
				return
			case <-ticker.C:
				sm.CleanupInactiveSessions(ctx)
			}
		}
	}()
}

// GetActiveSessions 获取活跃会话数
func (sm *SessionManager) GetActiveSessions() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
