package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-catalog/internal/handler/helper"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

// handleError сопоставляет ошибку сервиса с HTTP-ответом.
// notFoundMsg: текст 404, который у каждого маршрута свой.
func handleError(c *gin.Context, err error, notFoundMsg string) {
	helper.AbortWithError(c, apperrors.Classify(err, notFoundMsg))
}
