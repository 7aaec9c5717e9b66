package repository

import (
	"context"

	"github.com/yourusername/trivia-catalog/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами.
// Все выборки нескольких вопросов упорядочены по id.
type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	GetByID(ctx context.Context, id uint) (*entity.Question, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]entity.Question, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]entity.Question, error)

	// Search ищет вопросы, текст которых содержит term без учета регистра.
	// categoryID == 0 означает поиск по всем категориям.
	Search(ctx context.Context, term string, categoryID uint) ([]entity.Question, error)
}
