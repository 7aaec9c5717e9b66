package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-catalog/internal/handler/dto"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
	"github.com/yourusername/trivia-catalog/internal/service"
)

// QuizHandler обрабатывает запросы режима викторины
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик викторины
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// NextQuestion возвращает следующий случайный непоказанный вопрос.
// Ответ без поля question означает конец викторины.
// POST /api/quizzes
func (h *QuizHandler) NextQuestion(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		handleError(c, apperrors.ErrBadRequest, "")
		return
	}

	req, err := dto.ParseQuizRequest(body)
	if err != nil {
		handleError(c, err, "")
		return
	}

	resp, err := h.quizService.NextQuestion(c.Request.Context(), req.CategoryID, req.PreviousQuestions)
	if err != nil {
		handleError(c, err, apperrors.MsgQuizPoolNotFound)
		return
	}

	c.JSON(http.StatusOK, resp)
}
