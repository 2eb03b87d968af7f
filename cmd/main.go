package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/tadrees-app/tadrees-backend/internal/app"
	"github.com/tadrees-app/tadrees-backend/internal/db"
	"github.com/tadrees-app/tadrees-backend/internal/handlers"
	"github.com/tadrees-app/tadrees-backend/internal/middleware"
	"github.com/tadrees-app/tadrees-backend/internal/observability"
	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/repos"
	"github.com/tadrees-app/tadrees-backend/internal/server"
	"github.com/tadrees-app/tadrees-backend/internal/services"
)

const serviceName = "tadrees-backend"

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitTracing(ctx, log, cfg, serviceName)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	// Database
	dbService, err := db.NewService(cfg, log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Database migration failed", "error", err)
	}
	gormDB := dbService.DB()

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis ping failed, token store degraded", "error", err)
	}

	// Repos
	log.Info("Setting up repos...")
	teacherRepo := repos.NewTeacherRepo(gormDB, log)
	assistantRepo := repos.NewAssistantRepo(gormDB, log)
	groupRepo := repos.NewGroupRepo(gormDB, log)
	enrollmentRepo := repos.NewEnrollmentRepo(gormDB, log)

	// Services
	log.Info("Setting up services...")
	tokenStore := services.NewRedisTokenStore(redisClient)
	authService := services.NewAuthService(gormDB, log, teacherRepo, assistantRepo, tokenStore,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	rosterService := services.NewRosterService(gormDB, log, teacherRepo, groupRepo, enrollmentRepo)
	attendanceService := services.NewAttendanceService(gormDB, log, groupRepo, enrollmentRepo)
	paymentService := services.NewPaymentService(gormDB, log, groupRepo, enrollmentRepo)
	scoreService := services.NewScoreService(gormDB, log, groupRepo, enrollmentRepo)
	reportService := services.NewReportService(log, groupRepo, enrollmentRepo)

	// HTTP
	router := server.NewRouter(server.RouterConfig{
		ServiceName:       serviceName,
		AuthHandler:       handlers.NewAuthHandler(authService),
		AuthMiddleware:    middleware.NewAuthMiddleware(log, authService),
		GroupHandler:      handlers.NewGroupHandler(rosterService),
		AttendanceHandler: handlers.NewAttendanceHandler(attendanceService),
		PaymentHandler:    handlers.NewPaymentHandler(paymentService),
		ScoreHandler:      handlers.NewScoreHandler(scoreService),
		ReportHandler:     handlers.NewReportHandler(reportService),
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server exited with error", "error", err)
	}
	log.Info("Server stopped")
}
