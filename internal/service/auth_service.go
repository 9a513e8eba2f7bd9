package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SphoenixAI/image-verse-quest/internal/models"
	"github.com/SphoenixAI/image-verse-quest/internal/repository"
	"github.com/SphoenixAI/image-verse-quest/internal/utils"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserExists         = errors.New("用户已存在")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserBanned         = errors.New("用户已被封禁")
	ErrAccountLocked      = errors.New("账户已锁定，请稍后再试")
	ErrSessionNotFound    = errors.New("会话不存在")
	ErrInvalidToken       = errors.New("无效的令牌")
	ErrTokenExpired       = errors.New("令牌已过期")
)

const (
	maxLoginAttempts = 5
	lockDuration     = 15 * time.Minute
	sessionDuration  = 30 * 24 * time.Hour
)

// authService 认证服务实现
type authService struct {
	repos      *repository.Manager
	jwtManager *utils.JWTManager
	params     *GameParams
	log        *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(
	repos *repository.Manager,
	jwtManager *utils.JWTManager,
	params *GameParams,
	log *zap.Logger,
) AuthService {
	if params == nil {
		params = DefaultGameParams()
	}
	return &authService{
		repos:      repos,
		jwtManager: jwtManager,
		params:     params,
		log:        log,
	}
}

// Register 用户注册。
// 单事务建档：用户、认证、会话、玩家进度，外加初始部件与首日任务。
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := s.validateRegisterRequest(req); err != nil {
		return nil, err
	}

	// 检查用户是否已存在
	if user, _ := s.repos.User().FindByUsername(ctx, req.Username); user != nil {
		return nil, fmt.Errorf("用户名已存在")
	}
	if user, _ := s.repos.User().FindByEmail(ctx, req.Email); user != nil {
		return nil, fmt.Errorf("邮箱已被使用")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	sessionID, err := utils.GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("生成会话ID失败: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Nickname: req.Nickname,
		Status:   "active",
	}

	err = s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		if err := tx.User().Create(ctx, user); err != nil {
			return fmt.Errorf("创建用户失败: %w", err)
		}

		auth := &models.UserAuth{
			UserID:   user.ID,
			Password: hashedPassword,
		}
		if err := tx.UserAuth().Create(ctx, auth); err != nil {
			return fmt.Errorf("创建认证信息失败: %w", err)
		}

		session := &models.UserSession{
			UserID:       user.ID,
			SessionID:    sessionID,
			Token:        sessionID,
			IP:           req.IP,
			IsOnline:     true,
			LastActiveAt: time.Now(),
			ExpireAt:     time.Now().Add(sessionDuration),
		}
		if err := tx.UserSession().Create(ctx, session); err != nil {
			return fmt.Errorf("创建会话失败: %w", err)
		}

		state := &models.PlayerState{
			UserID:        user.ID,
			Level:         1,
			XP:            0,
			XPToNextLevel: s.params.InitialXPToNext,
			Chips:         s.params.InitialChips,
		}
		if err := tx.PlayerState().Create(ctx, state); err != nil {
			return fmt.Errorf("创建玩家进度失败: %w", err)
		}

		// 注册赠送初始部件套装，可立即组装第一台机器人
		for _, part := range starterParts(user.ID) {
			if err := tx.RobotPart().Create(ctx, part); err != nil {
				return fmt.Errorf("发放初始部件失败: %w", err)
			}
		}

		// 发放首日任务
		if err := tx.Quest().BatchCreate(ctx, dailyQuestTemplates(user.ID)); err != nil {
			return fmt.Errorf("发放每日任务失败: %w", err)
		}

		return nil
	})
	if err != nil {
		s.log.Error("注册事务失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	accessToken, refreshToken, err := s.issueTokens(user, sessionID)
	if err != nil {
		return nil, err
	}

	s.log.Info("用户注册成功",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username))

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetTokenExpiry(utils.TokenTypeAccess).Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// Login 用户登录（支持用户名或邮箱）
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	var (
		user *models.User
		err  error
	)
	if strings.Contains(req.Account, "@") {
		user, err = s.repos.User().FindByEmail(ctx, req.Account)
	} else {
		user, err = s.repos.User().FindByUsername(ctx, req.Account)
	}
	if err != nil || user == nil {
		s.log.Warn("登录失败：用户不存在", zap.String("account", req.Account))
		return nil, ErrInvalidCredentials
	}

	if user.Status == "banned" {
		return nil, ErrUserBanned
	}

	auth, err := s.repos.UserAuth().FindByUserID(ctx, user.ID)
	if err != nil {
		s.log.Error("获取认证信息失败", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	if auth.LockedUntil != nil && auth.LockedUntil.After(time.Now()) {
		return nil, ErrAccountLocked
	}

	valid, err := utils.VerifyPassword(req.Password, auth.Password)
	if err != nil || !valid {
		s.log.Warn("登录失败：密码错误", zap.Uint("user_id", user.ID))
		_ = s.repos.UserAuth().IncrementLoginAttempts(ctx, user.ID)
		if auth.LoginAttempts+1 >= maxLoginAttempts {
			until := time.Now().Add(lockDuration)
			_ = s.repos.UserAuth().LockAccount(ctx, user.ID, until)
			s.log.Warn("登录失败次数过多，账户已锁定",
				zap.Uint("user_id", user.ID),
				zap.Time("locked_until", until))
		}
		return nil, ErrInvalidCredentials
	}

	sessionID, err := utils.GenerateSessionID()
	if err != nil {
		return nil, fmt.Errorf("生成会话ID失败: %w", err)
	}

	session := &models.UserSession{
		UserID:       user.ID,
		SessionID:    sessionID,
		Token:        sessionID,
		IP:           req.IP,
		UserAgent:    req.Device,
		IsOnline:     true,
		LastActiveAt: time.Now(),
		ExpireAt:     time.Now().Add(sessionDuration),
	}
	if err := s.repos.UserSession().Create(ctx, session); err != nil {
		s.log.Error("创建会话失败", zap.Error(err))
		return nil, fmt.Errorf("创建会话失败: %w", err)
	}

	user.UpdateLoginInfo(req.IP)
	_ = s.repos.User().Update(ctx, user)
	_ = s.repos.UserAuth().ResetLoginAttempts(ctx, user.ID)

	accessToken, refreshToken, err := s.issueTokens(user, sessionID)
	if err != nil {
		return nil, err
	}

	s.log.Info("用户登录成功",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username))

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetTokenExpiry(utils.TokenTypeAccess).Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// Logout 用户登出，使会话失效
func (s *authService) Logout(ctx context.Context, userID uint, token string) error {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.repos.UserSession().Invalidate(ctx, claims.SessionID); err != nil {
		s.log.Error("会话失效处理失败",
			zap.String("session_id", claims.SessionID),
			zap.Error(err))
		return fmt.Errorf("登出失败: %w", err)
	}

	s.log.Info("用户登出", zap.Uint("user_id", userID))
	return nil
}

// RefreshToken 用刷新令牌换新的访问令牌
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	session, err := s.repos.UserSession().FindBySessionID(ctx, claims.SessionID)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsOnline || session.ExpireAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	user, err := s.repos.User().FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(
		user.ID, user.Username, user.Email, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("生成访问令牌失败: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetTokenExpiry(utils.TokenTypeAccess).Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// ValidateToken 验证访问令牌并核对会话状态
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	session, err := s.repos.UserSession().FindBySessionID(ctx, claims.SessionID)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsOnline || session.ExpireAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	return &TokenClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		SessionID: claims.SessionID,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

// GetProfile 获取用户资料
func (s *authService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repos.User().FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetActiveSessions 获取当前有效会话列表
func (s *authService) GetActiveSessions(ctx context.Context, userID uint) ([]*models.UserSession, error) {
	return s.repos.UserSession().FindActiveByUserID(ctx, userID)
}

// RevokeAllSessions 撤销用户的所有会话
func (s *authService) RevokeAllSessions(ctx context.Context, userID uint) error {
	return s.repos.UserSession().InvalidateAllByUserID(ctx, userID)
}

// issueTokens 签发访问令牌和刷新令牌
func (s *authService) issueTokens(user *models.User, sessionID string) (string, string, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(
		user.ID, user.Username, user.Email, sessionID)
	if err != nil {
		return "", "", fmt.Errorf("生成访问令牌失败: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, sessionID)
	if err != nil {
		return "", "", fmt.Errorf("生成刷新令牌失败: %w", err)
	}
	return accessToken, refreshToken, nil
}

// validateRegisterRequest 校验注册请求
func (s *authService) validateRegisterRequest(req *RegisterRequest) error {
	if len(req.Username) < 3 || len(req.Username) > 20 {
		return errors.New("用户名长度应在3-20个字符之间")
	}
	if !strings.Contains(req.Email, "@") {
		return errors.New("邮箱格式不正确")
	}
	if len(req.Password) < 6 {
		return errors.New("密码长度至少6个字符")
	}
	if req.Password != req.ConfirmPassword {
		return errors.New("两次输入的密码不一致")
	}
	return nil
}

// starterParts 注册赠送的初始部件套装（五个槽位各一件）
func starterParts(userID uint) []*models.RobotPart {
	return []*models.RobotPart{
		{PartID: "part-001", UserID: userID, Type: "head", Name: "Quantum Processor", Rarity: "rare", ImageURL: "/placeholder.svg", Power: 10, Intelligence: 30},
		{PartID: "part-002", UserID: userID, Type: "torso", Name: "Titanium Chassis", Rarity: "uncommon", ImageURL: "/placeholder.svg", Power: 20, Agility: 5},
		{PartID: "part-003", UserID: userID, Type: "arms", Name: "Hydraulic Manipulators", Rarity: "common", ImageURL: "/placeholder.svg", Power: 15, Agility: 10},
		{PartID: "part-004", UserID: userID, Type: "legs", Name: "Hoverthrusters", Rarity: "epic", ImageURL: "/placeholder.svg", Power: 5, Agility: 30},
		{PartID: "part-005", UserID: userID, Type: "accessory", Name: "Energy Shield", Rarity: "legendary", ImageURL: "/placeholder.svg", Power: 25, Intelligence: 15},
	}
}
