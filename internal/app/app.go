package app

import (
	"codelearn_backend/internal/config"
	"codelearn_backend/internal/controller"
	"codelearn_backend/internal/repository"
	"codelearn_backend/internal/service"
	"codelearn_backend/pkg/database"
	"codelearn_backend/pkg/logger"
	"codelearn_backend/pkg/monitoring"
	"codelearn_backend/pkg/security"
	"codelearn_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user             *repository.UserRepository
	challenge        *repository.ChallengeRepository
	practiceAttempt  *repository.PracticeAttemptRepository
	practiceBest     *repository.PracticeBestScoreRepository
	codingSubmission *repository.CodingSubmissionRepository
	leaderboard      *repository.LeaderboardRepository
}

type services struct {
	executor    *service.ExecutorService
	practice    *service.PracticeService
	judge       *service.JudgeService
	progress    *service.ProgressService
	leaderboard *service.LeaderboardService
}

type controllers struct {
	practice    *controller.PracticeController
	coding      *controller.CodingController
	progress    *controller.ProgressController
	leaderboard *controller.LeaderboardController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口，由 configwatcher 调用
func (a *App) ReloadConfig(cfg interface{}) {
	newCfg, ok := cfg.(*config.Config)
	if !ok {
		return
	}
	a.Config = newCfg
	for _, callback := range a.configCallbacks {
		callback(newCfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:             repository.NewUserRepository(db),
		challenge:        repository.NewChallengeRepository(db),
		practiceAttempt:  repository.NewPracticeAttemptRepository(db),
		practiceBest:     repository.NewPracticeBestScoreRepository(db),
		codingSubmission: repository.NewCodingSubmissionRepository(db),
		leaderboard:      repository.NewLeaderboardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.executor = service.NewExecutorService(cfg.Executor)
	s.practice = service.NewPracticeService(repos.practiceAttempt, repos.practiceBest)
	s.judge = service.NewJudgeService(
		repos.challenge,
		repos.codingSubmission,
		s.executor,
		time.Duration(cfg.Executor.TimeoutSeconds)*time.Second,
	)
	s.progress = service.NewProgressService(repos.practiceBest, repos.codingSubmission)
	s.leaderboard = service.NewLeaderboardService(
		repos.leaderboard,
		repos.user,
		rdb,
		time.Duration(cfg.Leaderboard.CacheTTLSeconds)*time.Second,
	)

	// 榜单缓存 TTL 支持热更新
	a.RegisterConfigCallback(func(c *config.Config) {
		s.leaderboard.CacheTTL = time.Duration(c.Leaderboard.CacheTTLSeconds) * time.Second
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		practice:    controller.NewPracticeController(s.practice),
		coding:      controller.NewCodingController(s.judge),
		progress:    controller.NewProgressController(s.progress),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("codelearn-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
