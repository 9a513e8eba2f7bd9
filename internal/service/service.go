package service

import (
	"context"
	"time"

	"github.com/SphoenixAI/image-verse-quest/internal/analyzer"
	"github.com/SphoenixAI/image-verse-quest/internal/game"
	"github.com/SphoenixAI/image-verse-quest/internal/repository"
	"github.com/SphoenixAI/image-verse-quest/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config 服务配置
type Config struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	SessionTimeout time.Duration
	MaxSessions    int

	AnalyzerMinLatency time.Duration
	AnalyzerMaxLatency time.Duration
	ModerationPolicy   string
	AnalyzerSeed       int64 // 0表示使用加密随机源

	Game *GameParams
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		JWTSecret:          "your-secret-key-change-in-production",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		SessionTimeout:     30 * time.Minute,
		MaxSessions:        10000,
		AnalyzerMinLatency: time.Second,
		AnalyzerMaxLatency: 2 * time.Second,
		ModerationPolicy:   "appropriate_only",
		Game:               DefaultGameParams(),
	}
}

// Services 服务集合
type Services struct {
	Auth       AuthService
	Player     PlayerService
	Submission SubmissionService
	Vote       VoteService
	Quest      QuestService
	Robot      RobotService

	Sessions *game.SessionManager
	Analyzer *analyzer.Analyzer
	JWT      *utils.JWTManager
}

// NewServices 创建服务集合。
// publisher为nil时事件落入空广播器。
func NewServices(db *gorm.DB, config *Config, publisher EventPublisher, log *zap.Logger) *Services {
	if config == nil {
		config = DefaultConfig()
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}

	repos := repository.NewManager(db)

	jwtManager := utils.NewJWTManager(
		config.JWTSecret,
		config.AccessTokenExpiry,
		config.RefreshTokenExpiry,
	)

	var randomGen game.RandomGenerator
	if config.AnalyzerSeed != 0 {
		randomGen = game.NewSeededRandomGenerator(config.AnalyzerSeed)
	} else {
		randomGen = game.NewCryptoRandomGenerator()
	}

	imageAnalyzer := analyzer.New(
		analyzer.WithRandomGenerator(randomGen),
		analyzer.WithLatency(config.AnalyzerMinLatency, config.AnalyzerMaxLatency),
		analyzer.WithLogger(log.Named("analyzer")),
	)
	policy := analyzer.ParseModerationPolicy(config.ModerationPolicy)

	// 玩家服务兼任状态持久化器，会话管理器构造后回绑
	players := NewPlayerService(repos, config.Game, log.Named("player"))
	sessions := game.NewSessionManager(&game.SessionConfig{
		Logger:         log.Named("session"),
		Persister:      players,
		RandomGen:      randomGen,
		SessionTimeout: config.SessionTimeout,
		MaxSessions:    config.MaxSessions,
	})
	players.BindSessionManager(sessions)

	return &Services{
		Auth:       NewAuthService(repos, jwtManager, config.Game, log.Named("auth")),
		Player:     players,
		Submission: NewSubmissionService(repos, imageAnalyzer, policy, players, publisher, log.Named("submission")),
		Vote:       NewVoteService(repos, players, config.Game, publisher, log.Named("vote")),
		Quest:      NewQuestService(repos, players, publisher, log.Named("quest")),
		Robot:      NewRobotService(repos, players, publisher, log.Named("robot")),

		Sessions: sessions,
		Analyzer: imageAnalyzer,
		JWT:      jwtManager,
	}
}

// StartCleanupTask 启动会话清理任务
func (s *Services) StartCleanupTask(ctx context.Context, interval time.Duration) {
	s.Sessions.StartCleanupTask(ctx, interval)
}
