package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hctf_backend/internal/config"
	"hctf_backend/internal/controller"
	"hctf_backend/internal/repository"
	"hctf_backend/internal/rules"
	"hctf_backend/internal/scoring"
	"hctf_backend/internal/service"
	"hctf_backend/pkg/database"
	"hctf_backend/pkg/logger"
	"hctf_backend/pkg/monitoring"
	"hctf_backend/pkg/security"
	"hctf_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type services struct {
	auth       *service.AuthService
	flag       *service.FlagService
	submission *service.SubmissionService
	challenge  *service.ChallengeService
	scoreboard *service.ScoreboardService
}

type controllers struct {
	auth       *controller.AuthController
	challenge  *controller.ChallengeController
	scoreboard *controller.ScoreboardController
	health     *controller.HealthController
}

func (a *App) initServices(stores *repository.Stores, cfg *config.Config, rdb *redis.Client) *services {
	store := service.NewStore(stores)
	evaluator := rules.NewEvaluator()
	policy := scoring.TanhPolicy{
		MinRatio:       cfg.Scoring.MinRatio,
		SolveThreshold: cfg.Scoring.SolveThreshold,
	}

	s := &services{}
	s.auth = service.NewAuthService(store, cfg)
	s.flag = service.NewFlagService(store, cfg)
	s.scoreboard = service.NewScoreboardService(store, rdb)
	s.submission = service.NewSubmissionService(store, s.flag, evaluator, policy, s.scoreboard, logger.Log)
	s.challenge = service.NewChallengeService(store, evaluator, policy, s.scoreboard)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		challenge:  controller.NewChallengeController(s.challenge, s.submission),
		scoreboard: controller.NewScoreboardController(s.scoreboard),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

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

	stores := repository.NewStores(db)
	services := app.initServices(stores, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("hctf-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, stores, cfg)

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

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
