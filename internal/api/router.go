package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SphoenixAI/image-verse-quest/internal/middleware"
	"github.com/SphoenixAI/image-verse-quest/internal/service"
	"github.com/SphoenixAI/image-verse-quest/internal/websocket"
)

// Router API路由器
type Router struct {
	engine            *gin.Engine
	db                *gorm.DB
	services          *service.Services
	authHandler       *AuthHandler
	playerHandler     *PlayerHandler
	submissionHandler *SubmissionHandler
	voteHandler       *VoteHandler
	questHandler      *QuestHandler
	robotHandler      *RobotHandler
	wsHandler         *WebSocketHandler
	authMiddleware    *middleware.AuthMiddleware
	log               *zap.Logger
}

// NewRouter 创建路由器
// hub为nil时事件广播退化为空操作，便于测试
func NewRouter(db *gorm.DB, config *service.Config, hub *websocket.Hub, log *zap.Logger) *Router {
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(middleware.CORS())

	var publisher service.EventPublisher = service.NopPublisher{}
	if hub != nil {
		publisher = hub
	}

	services := service.NewServices(db, config, publisher, log)

	router := &Router{
		engine:            engine,
		db:                db,
		services:          services,
		authHandler:       NewAuthHandler(services.Auth, services.Player),
		playerHandler:     NewPlayerHandler(services.Player),
		submissionHandler: NewSubmissionHandler(services.Submission),
		voteHandler:       NewVoteHandler(services.Vote),
		questHandler:      NewQuestHandler(services.Quest),
		robotHandler:      NewRobotHandler(services.Robot),
		authMiddleware:    middleware.NewAuthMiddleware(services.Auth),
		log:               log,
	}
	if hub != nil {
		router.wsHandler = NewWebSocketHandler(hub, log.Named("websocket"))
	}

	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 图片分析（开放接口，供拍照前端直连）
		v1.POST("/analyze", r.submissionHandler.Analyze)

		// 排行榜
		v1.GET("/leaderboard", r.playerHandler.Leaderboard)

		// 认证
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/refresh", r.authHandler.RefreshToken)

			authRequired := auth.Group("")
			authRequired.Use(r.authMiddleware.RequireAuth())
			{
				authRequired.POST("/logout", r.authHandler.Logout)
				authRequired.GET("/profile", r.authHandler.GetProfile)
				authRequired.GET("/sessions", r.authHandler.GetSessions)
				authRequired.DELETE("/sessions", r.authHandler.RevokeSessions)
			}
		}

		// 挑战目录
		prompts := v1.Group("/prompts")
		{
			prompts.GET("", r.playerHandler.ListPrompts)
			prompts.GET("/random", r.playerHandler.RandomPrompt)

			promptsAuth := prompts.Group("")
			promptsAuth.Use(r.authMiddleware.RequireAuth())
			{
				promptsAuth.POST("/active", r.playerHandler.SetActivePrompt)
				promptsAuth.DELETE("/active", r.playerHandler.ClearActivePrompt)
			}
		}

		// 图片提交与投票
		submissions := v1.Group("/submissions")
		submissions.Use(r.authMiddleware.RequireAuth())
		{
			submissions.POST("", r.submissionHandler.Submit)
			submissions.GET("", r.submissionHandler.History)
			submissions.GET("/:id", r.submissionHandler.Get)
			submissions.POST("/:id/votes", r.voteHandler.Cast)
			submissions.GET("/:id/votes/me", r.voteHandler.MyVote)
		}

		votes := v1.Group("/votes")
		votes.Use(r.authMiddleware.RequireAuth())
		{
			votes.GET("/queue", r.voteHandler.Queue)
		}

		// 每日任务
		quests := v1.Group("/quests")
		quests.Use(r.authMiddleware.RequireAuth())
		{
			quests.GET("", r.questHandler.List)
			quests.PUT("/:id/progress", r.questHandler.UpdateProgress)
		}

		// 机器人
		robots := v1.Group("/robots")
		robots.Use(r.authMiddleware.RequireAuth())
		{
			robots.GET("", r.robotHandler.List)
			robots.POST("", r.robotHandler.Assemble)
			robots.GET("/parts", r.robotHandler.Inventory)
			robots.PUT("/current", r.robotHandler.SetCurrent)
		}

		// 玩家状态快照
		state := v1.Group("/state")
		state.Use(r.authMiddleware.RequireAuth())
		{
			state.GET("", r.playerHandler.GetState)
		}
	}

	// WebSocket事件流
	if r.wsHandler != nil {
		r.engine.GET("/ws", r.authMiddleware.RequireAuth(), r.wsHandler.Connect)
	}

	// Swagger文档（swagger构建标签启用）
	registerSwaggerRoutes(r.engine)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetServices 获取服务集合
func (r *Router) GetServices() *service.Services {
	return r.services
}
