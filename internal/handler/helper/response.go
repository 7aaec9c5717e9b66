package helper

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-catalog/internal/handler/dto"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

// AbortWithError прерывает цепочку обработчиков и отдает ошибку в едином формате
// {success: false, error: <code>, message: <text>}
func AbortWithError(c *gin.Context, httpErr *apperrors.HTTPError) {
	c.AbortWithStatusJSON(httpErr.Code, dto.ErrorResponse{
		Success: false,
		Error:   httpErr.Code,
		Message: httpErr.Message,
	})
}

// AbortWithStatus отдает ошибку со стандартным сообщением для кода
func AbortWithStatus(c *gin.Context, code int, message string) {
	AbortWithError(c, &apperrors.HTTPError{Code: code, Message: message})
}
