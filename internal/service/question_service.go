package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/domain/entity"
	"github.com/yourusername/trivia-catalog/internal/domain/repository"
	"github.com/yourusername/trivia-catalog/internal/handler/dto"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

// QuestionsPerPage: фиксированный размер страницы списка вопросов
const QuestionsPerPage = 10

// QuestionService предоставляет методы для работы с вопросами
type QuestionService struct {
	questionRepo repository.QuestionRepository
	categoryRepo repository.CategoryRepository
	sessions     *SessionTracker
	logger       *zap.Logger
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	categoryRepo repository.CategoryRepository,
	sessions *SessionTracker,
	logger *zap.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
		sessions:     sessions,
		logger:       logger,
	}
}

// ListQuestions возвращает страницу вопросов вместе с категориями и сбрасывает текущую категорию.
// Пустая страница (в том числе при отсутствии вопросов): apperrors.ErrNotFound.
func (s *QuestionService) ListQuestions(ctx context.Context, sessionID string, page int) (*dto.QuestionPageResponse, error) {
	if page < 1 {
		page = 1
	}

	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list questions", zap.Error(err))
		return nil, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", zap.Error(err))
		return nil, err
	}

	s.sessions.Reset(ctx, sessionID)

	current := paginate(questions, page, QuestionsPerPage)
	if len(current) == 0 {
		return nil, fmt.Errorf("page %d: %w", page, apperrors.ErrNotFound)
	}

	return dto.NewQuestionPageResponse(current, len(questions), 0, categories), nil
}

// paginate возвращает срез [(page-1)*size, page*size) с обрезкой по границам
func paginate(questions []entity.Question, page, size int) []entity.Question {
	start := (page - 1) * size
	if start >= len(questions) {
		return nil
	}
	end := start + size
	if end > len(questions) {
		end = len(questions)
	}
	return questions[start:end]
}

// DeleteQuestion удаляет вопрос. Отсутствующий вопрос: apperrors.ErrNotFound.
func (s *QuestionService) DeleteQuestion(ctx context.Context, questionID uint) error {
	if _, err := s.questionRepo.GetByID(ctx, questionID); err != nil {
		return fmt.Errorf("question %d: %w", questionID, err)
	}

	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		s.logger.Error("failed to delete question", zap.Uint("question_id", questionID), zap.Error(err))
		return err
	}

	s.logger.Info("question deleted", zap.Uint("question_id", questionID))
	return nil
}

// SearchQuestions ищет вопросы по подстроке в рамках текущей категории сессии
func (s *QuestionService) SearchQuestions(ctx context.Context, sessionID, term string) (*dto.SearchResponse, error) {
	currentCategory := s.sessions.Current(ctx, sessionID)

	questions, err := s.questionRepo.Search(ctx, term, currentCategory)
	if err != nil {
		s.logger.Error("failed to search questions",
			zap.String("term", term), zap.Uint("category_id", currentCategory), zap.Error(err))
		return nil, err
	}

	return dto.NewSearchResponse(questions, currentCategory), nil
}

// CreateQuestion сохраняет новый вопрос
func (s *QuestionService) CreateQuestion(ctx context.Context, question *entity.Question) (*dto.CreateQuestionResponse, error) {
	if err := s.questionRepo.Create(ctx, question); err != nil {
		s.logger.Error("failed to create question", zap.Error(err))
		return nil, err
	}

	s.logger.Info("question created", zap.Uint("question_id", question.ID), zap.Uint("category", question.Category))
	return &dto.CreateQuestionResponse{Success: true, Question: question.Question}, nil
}

// ExportQuestions возвращает все вопросы и категории для выгрузки
func (s *QuestionService) ExportQuestions(ctx context.Context) ([]entity.Question, map[uint]string, error) {
	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list questions for export", zap.Error(err))
		return nil, nil, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list categories for export", zap.Error(err))
		return nil, nil, err
	}
	return questions, entity.CategoryMap(categories), nil
}
