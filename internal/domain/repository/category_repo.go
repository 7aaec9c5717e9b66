package repository

import (
	"context"

	"github.com/yourusername/trivia-catalog/internal/domain/entity"
)

// CategoryRepository определяет методы для чтения категорий
type CategoryRepository interface {
	List(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id uint) (*entity.Category, error)
}
