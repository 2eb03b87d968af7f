package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tadrees-app/tadrees-backend/internal/handlers"
	"github.com/tadrees-app/tadrees-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName       string
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	GroupHandler      *handlers.GroupHandler
	AttendanceHandler *handlers.AttendanceHandler
	PaymentHandler    *handlers.PaymentHandler
	ScoreHandler      *handlers.ScoreHandler
	ReportHandler     *handlers.ReportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/v1/auth/register", cfg.AuthHandler.Register)
	router.POST("/api/v1/auth/login", cfg.AuthHandler.Login)
	router.POST("/api/v1/auth/refresh", cfg.AuthHandler.Refresh)

	// Protected
	api := router.Group("/api/v1")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.POST("/auth/logout", cfg.AuthHandler.Logout)
	api.POST("/assistants", cfg.AuthHandler.AddAssistant)

	api.POST("/groups", cfg.GroupHandler.CreateGroup)
	api.GET("/groups", cfg.GroupHandler.ListGroups)
	api.POST("/groups/:groupID/students", cfg.GroupHandler.AddStudent)
	api.DELETE("/groups/:groupID/students/:studentID", cfg.GroupHandler.RemoveStudent)
	api.GET("/students/:studentID", cfg.GroupHandler.GetStudent)

	api.POST("/groups/:groupID/rounds", cfg.AttendanceHandler.OpenRound)
	api.POST("/groups/:groupID/students/:studentID/attendance", cfg.AttendanceHandler.ConfirmAttendance)

	api.POST("/groups/:groupID/students/:studentID/payments/attendance", cfg.PaymentHandler.PayAttendanceFee)
	api.DELETE("/groups/:groupID/students/:studentID/payments/attendance", cfg.PaymentHandler.ReverseAttendanceFee)
	api.POST("/groups/:groupID/students/:studentID/payments/books", cfg.PaymentHandler.PayBooksFee)
	api.DELETE("/groups/:groupID/students/:studentID/payments/books", cfg.PaymentHandler.ReverseBooksFee)
	api.PUT("/fees", cfg.PaymentHandler.SetFeeAmount)

	api.POST("/groups/:groupID/students/:studentID/scores", cfg.ScoreHandler.AddScore)
	api.PUT("/groups/:groupID/students/:studentID/scores/:scoreID", cfg.ScoreHandler.EditScore)
	api.DELETE("/groups/:groupID/students/:studentID/scores/:scoreID", cfg.ScoreHandler.DeleteScore)
	api.PUT("/scores/config", cfg.ScoreHandler.SetScoreConfig)
	api.GET("/students/:studentID/scores", cfg.ScoreHandler.GetScores)
	api.GET("/groups/:groupID/scores/dates", cfg.ScoreHandler.ScoreDates)
	api.GET("/groups/:groupID/scores", cfg.ScoreHandler.ScoresByDate)

	api.GET("/groups/:groupID/attendance/export", cfg.ReportHandler.ExportAttendance)

	return router
}
