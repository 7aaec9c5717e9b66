package service

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/domain/entity"
	"github.com/yourusername/trivia-catalog/internal/domain/repository"
	"github.com/yourusername/trivia-catalog/internal/handler/dto"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

// Picker: источник равномерно распределенных индексов в [0, n).
// Внедряется в QuizService, чтобы тесты могли задать последовательность выбора.
type Picker interface {
	Intn(n int) int
}

type globalPicker struct{}

// Intn использует общий генератор math/rand, безопасный для конкурентного доступа
func (globalPicker) Intn(n int) int { return rand.Intn(n) }

// DefaultPicker возвращает Picker на базе math/rand
func DefaultPicker() Picker { return globalPicker{} }

// QuizService выбирает вопросы для режима викторины
type QuizService struct {
	questionRepo repository.QuestionRepository
	picker       Picker
	logger       *zap.Logger
}

// NewQuizService создает новый сервис викторины. nil picker заменяется DefaultPicker.
func NewQuizService(questionRepo repository.QuestionRepository, picker Picker, logger *zap.Logger) *QuizService {
	if picker == nil {
		picker = DefaultPicker()
	}
	return &QuizService{
		questionRepo: questionRepo,
		picker:       picker,
		logger:       logger,
	}
}

// NextQuestion возвращает случайный еще не показанный вопрос из пула категории (0 = все категории).
//
// Пустой пул: apperrors.ErrNotFound. Если показанных вопросов не меньше, чем вопросов в пуле,
// викторина окончена и Question в ответе пуст. Проверка идет по количеству, а не по разности
// множеств: id из другой категории в previous тоже уменьшают остаток.
func (s *QuizService) NextQuestion(ctx context.Context, categoryID uint, previous []uint) (*dto.QuizQuestionResponse, error) {
	var (
		pool []entity.Question
		err  error
	)
	if categoryID == 0 {
		pool, err = s.questionRepo.List(ctx)
	} else {
		pool, err = s.questionRepo.ListByCategory(ctx, categoryID)
	}
	if err != nil {
		s.logger.Error("failed to load quiz pool", zap.Uint("category_id", categoryID), zap.Error(err))
		return nil, err
	}

	if len(pool) == 0 {
		return nil, fmt.Errorf("quiz pool for category %d: %w", categoryID, apperrors.ErrNotFound)
	}

	if len(previous) >= len(pool) {
		return &dto.QuizQuestionResponse{Success: true}, nil
	}

	nextID := s.pickUnseen(entity.QuestionIDs(pool), previous)

	// Вопрос берется из уже загруженного пула, без повторного обращения к базе
	question, _ := entity.FindQuestion(pool, nextID)
	return &dto.QuizQuestionResponse{Success: true, Question: question}, nil
}

// pickUnseen выполняет выборку с отклонением: равномерно берет id из пула, пока не найдет
// id, отсутствующий в previous. Завершается, так как len(previous) < len(ids).
func (s *QuizService) pickUnseen(ids []uint, previous []uint) uint {
	seen := make(map[uint]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}

	for {
		id := ids[s.picker.Intn(len(ids))]
		if _, ok := seen[id]; !ok {
			return id
		}
	}
}
