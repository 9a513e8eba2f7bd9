package service

import (
	"context"

	"github.com/SphoenixAI/image-verse-quest/internal/game"
	"github.com/SphoenixAI/image-verse-quest/internal/models"
)

// AuthService 认证服务接口
type AuthService interface {
	// 注册登录
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID uint, token string) error
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// 验证
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)

	// GetProfile 获取用户资料
	GetProfile(ctx context.Context, userID uint) (*models.User, error)

	// 会话管理
	GetActiveSessions(ctx context.Context, userID uint) ([]*models.UserSession, error)
	RevokeAllSessions(ctx context.Context, userID uint) error
}

// PlayerService 玩家状态服务接口
type PlayerService interface {
	// GetState 获取玩家当前完整游戏状态快照
	GetState(ctx context.Context, userID uint) (*game.State, error)
	// SetActivePrompt 设置当前激活的拍摄挑战
	SetActivePrompt(ctx context.Context, userID uint, promptID string) (*game.PromptData, error)
	// ClearActivePrompt 清除当前挑战
	ClearActivePrompt(ctx context.Context, userID uint) error
	// RandomPrompt 从目录随机抽取一个挑战
	RandomPrompt(ctx context.Context) (*game.PromptData, error)
	// ListPrompts 列出启用的挑战目录
	ListPrompts(ctx context.Context) ([]*game.PromptData, error)
	// AwardXP 发放经验（触发升级结算）
	AwardXP(ctx context.Context, userID uint, amount int) (*game.State, error)
	// AwardChips 发放芯片（负数消费，余额不跌破零）
	AwardChips(ctx context.Context, userID uint, amount int) (*game.State, error)
	// Leaderboard 按等级排行
	Leaderboard(ctx context.Context, limit int) ([]*models.PlayerState, error)
}

// SubmissionService 图片提交服务接口
type SubmissionService interface {
	// Analyze 仅执行分析评估（不入库、不发奖励）
	Analyze(ctx context.Context, imageURL, promptText string) (*AnalyzeResult, error)
	// Submit 提交图片走完整管线：分析→审核→入库→奖励→状态更新
	Submit(ctx context.Context, req *SubmitImageRequest) (*SubmitImageResult, error)
	// History 查询提交历史
	History(ctx context.Context, userID uint, page, pageSize int) ([]*models.ImageSubmission, int64, error)
	// Get 查询单条提交
	Get(ctx context.Context, submissionID string) (*models.ImageSubmission, error)
}

// VoteService 社区投票服务接口
type VoteService interface {
	// Cast 对提交投真伪票
	Cast(ctx context.Context, req *CastVoteRequest) (*CastVoteResult, error)
	// HasVoted 查询是否已投过票
	HasVoted(ctx context.Context, userID uint, imageID string) (bool, error)
	// Queue 获取待验证的投票队列（排除本人提交）
	Queue(ctx context.Context, userID uint, limit int) ([]*models.ImageSubmission, error)
}

// QuestService 每日任务服务接口
type QuestService interface {
	// EnsureDaily 确保用户持有当日任务（过期则轮换）
	EnsureDaily(ctx context.Context, userID uint) ([]*models.Quest, error)
	// List 列出用户当前任务
	List(ctx context.Context, userID uint) ([]*models.Quest, error)
	// UpdateProgress 设置任务进度并在完成时发奖
	UpdateProgress(ctx context.Context, userID uint, questID string, progress int) (*models.Quest, error)
}

// RobotService 机器人服务接口
type RobotService interface {
	// Inventory 获取部件库存
	Inventory(ctx context.Context, userID uint) ([]*models.RobotPart, error)
	// Assemble 用库存部件组装机器人
	Assemble(ctx context.Context, req *AssembleRobotRequest) (*game.AssembledRobot, error)
	// SetCurrent 设置当前出战机器人
	SetCurrent(ctx context.Context, userID uint, robotID string) error
	// List 列出已组装的机器人
	List(ctx context.Context, userID uint) ([]*models.Robot, error)
}

// EventPublisher 游戏事件广播接口（由websocket集线器实现）
type EventPublisher interface {
	Publish(userID uint, event string, payload interface{})
}

// NopPublisher 空事件广播器
type NopPublisher struct{}

// Publish 丢弃事件
func (NopPublisher) Publish(userID uint, event string, payload interface{}) {}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=20"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	Nickname        string `json:"nickname"`
	IP              string `json:"-"` // 客户端IP，由handler设置
}

// LoginRequest 登录请求
type LoginRequest struct {
	Account  string `json:"account" binding:"required"` // 用户名或邮箱
	Password string `json:"password" binding:"required"`
	Device   string `json:"device"`
	IP       string `json:"ip"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	TokenType    string       `json:"token_type"`
}

// TokenClaims JWT Claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// AnalyzeResult 分析接口响应
type AnalyzeResult struct {
	Analysis        game.Analysis          `json:"analysis"`
	IsAppropriate   bool                   `json:"isAppropriate"`
	IsRelevant      bool                   `json:"isRelevant"`
	IsHighQuality   bool                   `json:"isHighQuality"`
	ModerationScore float64                `json:"moderationScore"`
	ModerationFlags map[string]interface{} `json:"moderationFlags"`
}

// SubmitImageRequest 提交图片请求
type SubmitImageRequest struct {
	UserID   uint   `json:"-"`
	PromptID string `json:"prompt_id" binding:"required"`
	ImageURL string `json:"image_url" binding:"required"`
}

// SubmitImageResult 提交图片结果
type SubmitImageResult struct {
	Submission       *models.ImageSubmission `json:"submission"`
	Rewards          game.SubmissionRewards  `json:"rewards"`
	IsFirstDiscovery bool                    `json:"is_first_discovery"`
	DiscoveredEntity string                  `json:"discovered_entity,omitempty"`
	State            *game.State             `json:"state"`
}

// CastVoteRequest 投票请求
type CastVoteRequest struct {
	UserID      uint   `json:"-"`
	ImageID     string `json:"image_id" binding:"required"`
	IsAuthentic bool   `json:"is_authentic"`
}

// CastVoteResult 投票结果
type CastVoteResult struct {
	ImageID        string `json:"image_id"`
	AuthenticVotes int    `json:"authentic_votes"`
	FakeVotes      int    `json:"fake_votes"`
	Verified       bool   `json:"verified"`
	TotalVotes     int    `json:"total_votes"`
}

// AssembleRobotRequest 组装请求
type AssembleRobotRequest struct {
	UserID  uint              `json:"-"`
	Name    string            `json:"name" binding:"required"`
	PartIDs map[string]string `json:"part_ids" binding:"required"` // 槽位 -> 部件ID
}
