package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/handler/dto"
	"github.com/yourusername/trivia-catalog/internal/middleware"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
	"github.com/yourusername/trivia-catalog/internal/service"
)

// QuestionHandler обрабатывает запросы, связанные с вопросами
type QuestionHandler struct {
	questionService *service.QuestionService
	logger          *zap.Logger
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		logger:          logger,
	}
}

// ListQuestions возвращает страницу вопросов (по 10 на страницу)
// GET /api/questions?page=N
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	resp, err := h.questionService.ListQuestions(c.Request.Context(), middleware.SessionID(c), page)
	if err != nil {
		handleError(c, err, apperrors.MsgPageNotFound)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteQuestion удаляет вопрос по ID
// DELETE /api/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.questionService.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		handleError(c, err, apperrors.MsgQuestionNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// SearchOrCreateQuestion ищет вопросы, если в теле есть непустой searchTerm,
// иначе создает вопрос из полей question, answer, category, difficulty.
// POST /api/questions
func (h *QuestionHandler) SearchOrCreateQuestion(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		handleError(c, apperrors.ErrValidation, "")
		return
	}

	req, err := dto.ParseQuestionsPostRequest(body)
	if err != nil {
		h.logger.Debug("invalid questions payload", zap.Error(err))
		handleError(c, err, "")
		return
	}

	term, isSearch, err := req.SearchTerm()
	if err != nil {
		handleError(c, err, "")
		return
	}

	if isSearch {
		resp, err := h.questionService.SearchQuestions(c.Request.Context(), middleware.SessionID(c), term)
		if err != nil {
			handleError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	question, err := req.NewQuestion()
	if err != nil {
		h.logger.Debug("invalid new question", zap.Error(err))
		handleError(c, err, "")
		return
	}

	resp, err := h.questionService.CreateQuestion(c.Request.Context(), question)
	if err != nil {
		handleError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, resp)
}
