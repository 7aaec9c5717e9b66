package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/handler/helper"
	"github.com/yourusername/trivia-catalog/internal/middleware"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

// RouterDeps собирает все, что нужно для построения роутера
type RouterDeps struct {
	Categories *CategoryHandler
	Questions  *QuestionHandler
	Quiz       *QuizHandler
	Health     *HealthHandler

	Session middleware.SessionConfig
	// RateLimit равен nil, если ограничение запросов отключено
	RateLimit gin.HandlerFunc
	Logger    *zap.Logger
}

// NewRouter создает gin.Engine со всеми маршрутами API
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORS("/api/"))

	router.NoRoute(func(c *gin.Context) {
		helper.AbortWithError(c, apperrors.NotFound(apperrors.MsgResourceNotFound))
	})
	router.NoMethod(func(c *gin.Context) {
		helper.AbortWithStatus(c, http.StatusMethodNotAllowed, apperrors.MsgMethodNotAllowed)
	})

	if deps.Health != nil {
		router.GET("/healthz", deps.Health.Health)
	}

	api := router.Group("/api")
	if deps.RateLimit != nil {
		api.Use(deps.RateLimit)
	}
	api.Use(middleware.Session(deps.Session))
	{
		categories := api.Group("/categories")
		{
			categories.GET("", deps.Categories.ListCategories)
			categories.GET("/:id/questions",
				middleware.ExtractUintParam("id", "categoryID"),
				deps.Categories.GetCategoryQuestions)
		}

		questions := api.Group("/questions")
		{
			questions.GET("", deps.Questions.ListQuestions)
			questions.POST("", deps.Questions.SearchOrCreateQuestion)
			questions.GET("/export", deps.Questions.ExportQuestions)
			questions.DELETE("/:id",
				middleware.ExtractUintParam("id", "questionID"),
				deps.Questions.DeleteQuestion)
		}

		api.POST("/quizzes", deps.Quiz.NextQuestion)
	}

	return router
}
