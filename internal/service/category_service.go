package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/domain/repository"
	"github.com/yourusername/trivia-catalog/internal/handler/dto"
)

// CategoryService предоставляет методы для работы с категориями
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	questionRepo repository.QuestionRepository
	sessions     *SessionTracker
	logger       *zap.Logger
}

// NewCategoryService создает новый сервис категорий
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	questionRepo repository.QuestionRepository,
	sessions *SessionTracker,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
		sessions:     sessions,
		logger:       logger,
	}
}

// ListCategories возвращает все категории и сбрасывает текущую категорию сессии
func (s *CategoryService) ListCategories(ctx context.Context, sessionID string) (*dto.CategoriesResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", zap.Error(err))
		return nil, err
	}

	s.sessions.Reset(ctx, sessionID)

	return dto.NewCategoriesResponse(categories), nil
}

// GetCategoryQuestions возвращает вопросы категории и делает ее текущей для сессии.
// Отсутствующая категория: apperrors.ErrNotFound.
func (s *CategoryService) GetCategoryQuestions(ctx context.Context, sessionID string, categoryID uint) (*dto.CategoryQuestionsResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("category %d: %w", categoryID, err)
	}

	questions, err := s.questionRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		s.logger.Error("failed to list category questions", zap.Uint("category_id", categoryID), zap.Error(err))
		return nil, err
	}

	s.sessions.Set(ctx, sessionID, categoryID)

	return dto.NewCategoryQuestionsResponse(questions, category), nil
}
