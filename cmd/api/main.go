package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/config"
	"github.com/yourusername/trivia-catalog/internal/domain/repository"
	"github.com/yourusername/trivia-catalog/internal/handler"
	"github.com/yourusername/trivia-catalog/internal/logger"
	"github.com/yourusername/trivia-catalog/internal/middleware"
	"github.com/yourusername/trivia-catalog/internal/repository/memory"
	pgRepo "github.com/yourusername/trivia-catalog/internal/repository/postgres"
	redisRepo "github.com/yourusername/trivia-catalog/internal/repository/redis"
	"github.com/yourusername/trivia-catalog/internal/service"
	"github.com/yourusername/trivia-catalog/pkg/database"
)

// Интервал очистки просроченных сессий в памяти
const sessionCleanupInterval = 5 * time.Minute

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Log.Env)
	if err != nil {
		log.Printf("Failed to init logger: %v", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gin.SetMode(cfg.Server.Mode)

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.DSN(), database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.MigrationsEnabled {
		if err := database.MigrateDB(db, log); err != nil {
			return err
		}
	}

	healthChecks := map[string]handler.HealthCheck{
		"postgres": database.Ping(db),
	}

	categoryRepo := pgRepo.NewCategoryRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)

	// Хранилище сессий: Redis, если включен, иначе память процесса
	var (
		sessionRepo repository.SessionRepository
		rateLimit   gin.HandlerFunc
	)
	if cfg.Redis.Enabled {
		redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		sessionRepo, err = redisRepo.NewSessionRepo(redisClient, cfg.Session.TTL)
		if err != nil {
			return err
		}
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}

		if cfg.RateLimit.Enabled {
			rateLimit = newRateLimit(redisClient, cfg.RateLimit, log)
		}
		log.Info("using redis session store", zap.String("mode", cfg.Redis.Mode))
	} else {
		memorySessions := memory.NewSessionRepo(cfg.Session.TTL)
		go cleanupSessions(ctx, memorySessions, log)
		sessionRepo = memorySessions
		log.Info("using in-memory session store")
	}

	// Сервисы
	tracker := service.NewSessionTracker(sessionRepo, log)
	categoryService := service.NewCategoryService(categoryRepo, questionRepo, tracker, log)
	questionService := service.NewQuestionService(questionRepo, categoryRepo, tracker, log)
	quizService := service.NewQuizService(questionRepo, service.DefaultPicker(), log)

	router := handler.NewRouter(handler.RouterDeps{
		Categories: handler.NewCategoryHandler(categoryService),
		Questions:  handler.NewQuestionHandler(questionService, log),
		Quiz:       handler.NewQuizHandler(quizService),
		Health:     handler.NewHealthHandler(healthChecks, log),
		Session: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure,
			SameSite:   http.SameSiteLaxMode,
		},
		RateLimit: rateLimit,
		Logger:    log,
	})

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server exited properly")
	return nil
}

func newRateLimit(client redis.UniversalClient, cfg config.RateLimitConfig, log *zap.Logger) gin.HandlerFunc {
	limits := middleware.DefaultAPIRateLimitConfig()
	limits.MaxRequests = cfg.MaxRequests
	limits.Window = cfg.Window
	return middleware.NewRateLimiter(client, log).LimitByIP(limits)
}

// cleanupSessions периодически удаляет просроченные сессии из памяти
func cleanupSessions(ctx context.Context, repo *memory.SessionRepo, log *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := repo.Cleanup(); removed > 0 {
				log.Debug("expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}
