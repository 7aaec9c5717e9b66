package dto

import (
	"github.com/yourusername/trivia-catalog/internal/domain/entity"
)

// SuccessResponse: минимальный успешный ответ (удаление вопроса, конец викторины)
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse: единый формат ответа об ошибке
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// CategoriesResponse представляет список категорий в виде id -> type
type CategoriesResponse struct {
	Success    bool            `json:"success"`
	Categories map[uint]string `json:"categories"`
}

// QuestionPageResponse представляет страницу вопросов
type QuestionPageResponse struct {
	Success         bool              `json:"success"`
	Questions       []entity.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	CurrentCategory uint              `json:"current_category"`
	Categories      map[uint]string   `json:"categories"`
}

// SearchResponse представляет результат поиска вопросов.
// CurrentCategory: id категории из сессии, которой был ограничен поиск.
type SearchResponse struct {
	Success         bool              `json:"success"`
	Questions       []entity.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	CurrentCategory uint              `json:"current_category"`
}

// CategoryQuestionsResponse представляет вопросы одной категории.
// Здесь current_category: название категории, а не id: на это завязан фронтенд.
type CategoryQuestionsResponse struct {
	Success         bool              `json:"success"`
	Questions       []entity.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	CurrentCategory string            `json:"current_category"`
}

// CreateQuestionResponse возвращается после создания вопроса
type CreateQuestionResponse struct {
	Success  bool   `json:"success"`
	Question string `json:"question"`
}

// QuizQuestionResponse: следующий вопрос викторины. Отсутствие question означает конец викторины.
type QuizQuestionResponse struct {
	Success  bool             `json:"success"`
	Question *entity.Question `json:"question,omitempty"`
}

// nonNil гарантирует, что пустой список сериализуется как [], а не null
func nonNil(questions []entity.Question) []entity.Question {
	if questions == nil {
		return []entity.Question{}
	}
	return questions
}

// NewCategoriesResponse создает DTO списка категорий
func NewCategoriesResponse(categories []entity.Category) *CategoriesResponse {
	return &CategoriesResponse{
		Success:    true,
		Categories: entity.CategoryMap(categories),
	}
}

// NewQuestionPageResponse создает DTO страницы вопросов
func NewQuestionPageResponse(page []entity.Question, total int, currentCategory uint, categories []entity.Category) *QuestionPageResponse {
	return &QuestionPageResponse{
		Success:         true,
		Questions:       nonNil(page),
		TotalQuestions:  total,
		CurrentCategory: currentCategory,
		Categories:      entity.CategoryMap(categories),
	}
}

// NewSearchResponse создает DTO результата поиска
func NewSearchResponse(questions []entity.Question, currentCategory uint) *SearchResponse {
	return &SearchResponse{
		Success:         true,
		Questions:       nonNil(questions),
		TotalQuestions:  len(questions),
		CurrentCategory: currentCategory,
	}
}

// NewCategoryQuestionsResponse создает DTO вопросов категории
func NewCategoryQuestionsResponse(questions []entity.Question, category *entity.Category) *CategoryQuestionsResponse {
	return &CategoryQuestionsResponse{
		Success:         true,
		Questions:       nonNil(questions),
		TotalQuestions:  len(questions),
		CurrentCategory: category.Type,
	}
}
