package postgres

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-catalog/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

// likeEscaper экранирует служебные символы шаблона LIKE (escape-символ в Postgres по умолчанию '\')
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос; ID заполняется базой
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	return wrapErr("create question", r.db.WithContext(ctx).Create(question).Error)
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	if !storableID(id) {
		return nil, fmt.Errorf("get question %d: %w", id, apperrors.ErrNotFound)
	}
	var question entity.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, wrapErr("get question", err)
	}
	return &question, nil
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	if !storableID(id) {
		return nil
	}
	return wrapErr("delete question", r.db.WithContext(ctx).Delete(&entity.Question{}, id).Error)
}

// List возвращает все вопросы
func (r *QuestionRepo) List(ctx context.Context) ([]entity.Question, error) {
	var questions []entity.Question
	if err := r.db.WithContext(ctx).Order("id").Find(&questions).Error; err != nil {
		return nil, wrapErr("list questions", err)
	}
	return questions, nil
}

// ListByCategory возвращает вопросы одной категории
func (r *QuestionRepo) ListByCategory(ctx context.Context, categoryID uint) ([]entity.Question, error) {
	var questions []entity.Question
	if !storableID(categoryID) {
		return questions, nil
	}
	err := r.db.WithContext(ctx).Where("category = ?", categoryID).Order("id").Find(&questions).Error
	if err != nil {
		return nil, wrapErr("list questions by category", err)
	}
	return questions, nil
}

// Search ищет вопросы по подстроке без учета регистра
func (r *QuestionRepo) Search(ctx context.Context, term string, categoryID uint) ([]entity.Question, error) {
	var questions []entity.Question
	if !storableID(categoryID) {
		return questions, nil
	}

	query := r.db.WithContext(ctx).Where("question ILIKE ?", "%"+likeEscaper.Replace(term)+"%")
	if categoryID != 0 {
		query = query.Where("category = ?", categoryID)
	}

	if err := query.Order("id").Find(&questions).Error; err != nil {
		return nil, wrapErr("search questions", err)
	}
	return questions, nil
}
