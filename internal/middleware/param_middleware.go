package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-catalog/internal/handler/helper"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

// ExtractUintParam создает middleware для извлечения и валидации числового параметра URL.
// paramName - имя параметра в URL (например, "id").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
// Нечисловой параметр означает, что маршрут не найден, поэтому ответ: 404.
// Число, которое не поместится в столбец базы, пропускается дальше: отсутствие
// записи с таким id обрабатывает сам маршрут своим сообщением.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			helper.AbortWithError(c, apperrors.NotFound(apperrors.MsgResourceNotFound))
			return
		}
		// Сохраняем как uint для единообразия
		c.Set(contextKey, uint(id))
		c.Next()
	}
}
