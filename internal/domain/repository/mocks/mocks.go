// Package mocks содержит testify-моки репозиториев для тестов сервисов и обработчиков.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/trivia-catalog/internal/domain/entity"
)

// QuestionRepository реализует repository.QuestionRepository
type QuestionRepository struct {
	mock.Mock
}

func (m *QuestionRepository) Create(ctx context.Context, question *entity.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *QuestionRepository) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *QuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *QuestionRepository) List(ctx context.Context) ([]entity.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *QuestionRepository) ListByCategory(ctx context.Context, categoryID uint) ([]entity.Question, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *QuestionRepository) Search(ctx context.Context, term string, categoryID uint) ([]entity.Question, error) {
	args := m.Called(ctx, term, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

// CategoryRepository реализует repository.CategoryRepository
type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *CategoryRepository) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

// SessionRepository реализует repository.SessionRepository
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) GetCurrentCategory(ctx context.Context, sessionID string) (uint, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *SessionRepository) SetCurrentCategory(ctx context.Context, sessionID string, categoryID uint) error {
	args := m.Called(ctx, sessionID, categoryID)
	return args.Error(0)
}
