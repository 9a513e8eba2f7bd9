package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/SphoenixAI/image-verse-quest/internal/api"
	"github.com/SphoenixAI/image-verse-quest/internal/config"
	"github.com/SphoenixAI/image-verse-quest/internal/database"
	"github.com/SphoenixAI/image-verse-quest/internal/errors"
	"github.com/SphoenixAI/image-verse-quest/internal/logger"
	"github.com/SphoenixAI/image-verse-quest/internal/service"
	"github.com/SphoenixAI/image-verse-quest/internal/websocket"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Server 服务器实例
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	hub        *websocket.Hub
	router     *api.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
	)

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	setupSystem(&cfg.System)

	server := NewServer(cfg)

	if err := server.Start(); err != nil {
		logger.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("服务器已安全关闭")
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:    cfg,
		logger: logger.GetLogger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("正在启动图片收集游戏服务器...",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
	)

	if err := s.initDatabase(); err != nil {
		return err
	}

	// 事件集线器
	s.hub = websocket.NewHub(logger.WithModule("websocket"))
	go s.hub.Run()

	// 路由与服务
	s.router = api.NewRouter(database.GetDB(), s.serviceConfig(), s.hub, logger.WithModule("api"))

	// 过期游戏会话回收
	s.router.GetServices().StartCleanupTask(s.ctx, 5*time.Minute)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router.GetEngine(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("HTTP服务器异常退出", zap.Error(err))
		}
	}()

	s.logger.Info("服务器启动成功", zap.String("http", addr))

	return nil
}

// initDatabase 初始化数据库
func (s *Server) initDatabase() error {
	s.logger.Info("初始化数据库...")

	if err := database.Init(&s.cfg.Database); err != nil {
		return errors.Wrap(err, errors.ErrDatabaseConnect, "初始化数据库连接失败")
	}

	if s.cfg.Database.AutoMigrate {
		s.logger.Info("执行数据库自动迁移...")
		if err := database.AutoMigrate(); err != nil {
			return errors.Wrap(err, errors.ErrDatabaseConnect, "数据库迁移失败")
		}
	}

	if s.cfg.Database.SeedData {
		s.logger.Info("写入默认数据...")
		if err := database.SeedDefaultData(); err != nil {
			return errors.Wrap(err, errors.ErrDatabaseInsert, "写入默认数据失败")
		}
	}

	if !database.IsConnected() {
		return errors.New(errors.ErrDatabaseConnect, "数据库连接检查失败")
	}

	s.logger.Info("数据库初始化完成")
	return nil
}

// serviceConfig 从配置文件组装服务层配置
func (s *Server) serviceConfig() *service.Config {
	cfg := service.DefaultConfig()

	if s.cfg.Security.JWT.Secret != "" {
		cfg.JWTSecret = s.cfg.Security.JWT.Secret
	}
	if s.cfg.Security.JWT.ExpireHours > 0 {
		cfg.AccessTokenExpiry = time.Duration(s.cfg.Security.JWT.ExpireHours) * time.Hour
	}
	if s.cfg.Security.JWT.RefreshHours > 0 {
		cfg.RefreshTokenExpiry = time.Duration(s.cfg.Security.JWT.RefreshHours) * time.Hour
	}

	cfg.AnalyzerMinLatency = s.cfg.Analyzer.MinLatency
	cfg.AnalyzerMaxLatency = s.cfg.Analyzer.MaxLatency
	cfg.AnalyzerSeed = s.cfg.Analyzer.Seed
	if s.cfg.Analyzer.ModerationPolicy != "" {
		cfg.ModerationPolicy = s.cfg.Analyzer.ModerationPolicy
	}

	cfg.Game = &service.GameParams{
		InitialChips:    s.cfg.Game.Leveling.InitialChips,
		InitialXPToNext: s.cfg.Game.Leveling.InitialXPToNext,
		VerifyThreshold: s.cfg.Game.Voting.VerifyThreshold,
		AccurateVoteXP:  s.cfg.Game.Voting.AccurateVoteXP,
	}

	return cfg
}

// WaitForShutdown 等待关闭信号
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigCh
	s.logger.Info("收到退出信号", zap.String("signal", sig.String()))
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.logger.Info("正在优雅关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	// 停止接收新请求
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP服务器关闭超时", zap.Error(err))
		}
	}

	// 停止后台任务
	s.cancel()

	// 关闭数据库
	if err := database.Close(); err != nil {
		s.logger.Error("关闭数据库失败", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		fmt.Printf("同步日志失败: %v\n", err)
	}

	return nil
}

// setupSystem 设置系统参数
func setupSystem(cfg *config.SystemConfig) {
	if cfg.MaxProcs > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcs)
	}

	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			time.Local = loc
		}
	}
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("ImageVerse Quest Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Printf("Go Version: %s\n", runtime.Version())
}
