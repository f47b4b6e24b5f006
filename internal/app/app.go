package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kumba_backend/internal/config"
	"kumba_backend/internal/controller"
	"kumba_backend/internal/repository"
	"kumba_backend/internal/service"
	"kumba_backend/pkg/configwatcher"
	"kumba_backend/pkg/database"
	"kumba_backend/pkg/logger"
	"kumba_backend/pkg/monitoring"
	"kumba_backend/pkg/security"
	"kumba_backend/pkg/tracing"

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

type repositories struct {
	user     *repository.UserRepository
	material *repository.MaterialRepository
	plan     *repository.PlanRepository
	topic    *repository.TopicRepository
	quiz     *repository.QuizRepository
	progress *repository.ProgressRepository
}

type services struct {
	auth      *service.AuthService
	material  *service.MaterialService
	ai        *service.AIService
	roadmap   *service.RoadmapService
	progress  *service.ProgressService
	quiz      *service.QuizService
	analytics *service.AnalyticsService
	mode      *service.ModeService
	mentor    *service.MentorService
}

type controllers struct {
	auth      *controller.AuthController
	material  *controller.MaterialController
	plan      *controller.PlanController
	topic     *controller.TopicController
	quiz      *controller.QuizController
	analytics *controller.AnalyticsController
	mode      *controller.ModeController
	mentor    *controller.MentorController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		material: repository.NewMaterialRepository(db),
		plan:     repository.NewPlanRepository(db),
		topic:    repository.NewTopicRepository(db),
		quiz:     repository.NewQuizRepository(db),
		progress: repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	ai := service.NewAIService(cfg.AI)
	progress := service.NewProgressService(repos.plan, repos.topic, repos.quiz, repos.progress, db)

	return &services{
		auth:     service.NewAuthService(repos.user, cfg),
		material: service.NewMaterialService(repos.material),
		ai:       ai,
		roadmap:  service.NewRoadmapService(repos.material, repos.plan, ai, db, cfg.Learning),
		progress: progress,
		quiz: service.NewQuizService(
			repos.quiz, repos.topic, repos.plan, progress, db,
			cfg.Learning.MaxQuizAttempts, cfg.Learning.PassingScore,
		),
		analytics: service.NewAnalyticsService(
			repos.plan, repos.topic, repos.quiz, repos.progress,
			rdb, cfg.Learning.DashboardCacheTTL, service.DefaultInsightRules(),
		),
		mode:   service.NewModeService(repos.plan, repos.topic, repos.progress, db),
		mentor: service.NewMentorService(repos.plan, repos.progress, ai, service.DefaultMentorQuotes()),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		material:  controller.NewMaterialController(s.material),
		plan:      controller.NewPlanController(s.roadmap, s.progress),
		topic:     controller.NewTopicController(s.progress, s.analytics),
		quiz:      controller.NewQuizController(s.quiz, s.analytics),
		analytics: controller.NewAnalyticsController(s.analytics),
		mode:      controller.NewModeController(s.mode),
		mentor:    controller.NewMentorController(s.mentor),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(1000, time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
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
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("kumba-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	// Hot-reload the log level when the config file changes. Everything else
	// requires a restart.
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		logger.Log.Info("configuration reloaded", zap.String("mode", newCfg.Server.Mode))
	})

	return app
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
