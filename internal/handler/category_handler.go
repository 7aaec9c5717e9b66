package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-catalog/internal/middleware"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
	"github.com/yourusername/trivia-catalog/internal/service"
)

// CategoryHandler обрабатывает запросы, связанные с категориями
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler создает новый обработчик категорий
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories возвращает все категории в виде {id: type}
// GET /api/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	resp, err := h.categoryService.ListCategories(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		handleError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetCategoryQuestions возвращает вопросы категории
// GET /api/categories/:id/questions
func (h *CategoryHandler) GetCategoryQuestions(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint)

	resp, err := h.categoryService.GetCategoryQuestions(c.Request.Context(), middleware.SessionID(c), categoryID)
	if err != nil {
		handleError(c, err, apperrors.MsgCategoryNotFound)
		return
	}

	c.JSON(http.StatusOK, resp)
}
