package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/trivia-catalog/internal/domain/entity"
	"github.com/yourusername/trivia-catalog/internal/domain/repository/mocks"
	"github.com/yourusername/trivia-catalog/internal/middleware"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
	"github.com/yourusername/trivia-catalog/internal/repository/memory"
	"github.com/yourusername/trivia-catalog/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const sessionCookie = "trivia_session"

var fixtureCategories = []entity.Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}

var lakeQuestion = entity.Question{ID: 13, Question: "What is the largest lake in Africa?", Answer: "Lake Victoria", Category: 3, Difficulty: 2}

// testAPI: роутер с мок-репозиториями и сессиями в памяти
type testAPI struct {
	router     *gin.Engine
	questions  *mocks.QuestionRepository
	categories *mocks.CategoryRepository
	sessions   *memory.SessionRepo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := zap.NewNop()
	questionRepo := new(mocks.QuestionRepository)
	categoryRepo := new(mocks.CategoryRepository)
	sessionRepo := memory.NewSessionRepo(time.Hour)
	tracker := service.NewSessionTracker(sessionRepo, logger)

	router := NewRouter(RouterDeps{
		Categories: NewCategoryHandler(service.NewCategoryService(categoryRepo, questionRepo, tracker, logger)),
		Questions:  NewQuestionHandler(service.NewQuestionService(questionRepo, categoryRepo, tracker, logger), logger),
		Quiz:       NewQuizHandler(service.NewQuizService(questionRepo, rand.New(rand.NewSource(1)), logger)),
		Session:    middleware.SessionConfig{CookieName: sessionCookie, TTL: time.Hour},
		Logger:     logger,
	})

	return &testAPI{router: router, questions: questionRepo, categories: categoryRepo, sessions: sessionRepo}
}

// do выполняет запрос; body может быть строкой (сырое тело) или значением для json.Marshal
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("session cookie %q not set", sessionCookie)
	return nil
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, code int, message string) {
	t.Helper()
	assert.Equal(t, code, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, float64(code), resp["error"])
	assert.Equal(t, message, resp["message"])
}

func makeQuestions(n int) []entity.Question {
	questions := make([]entity.Question, n)
	for i := range questions {
		questions[i] = entity.Question{
			ID:         uint(i + 1),
			Question:   "Question?",
			Answer:     "Answer",
			Category:   uint(i%6 + 1),
			Difficulty: i%5 + 1,
		}
	}
	return questions
}

// ============================================================================
// GET /api/categories
// ============================================================================

func TestGetCategories(t *testing.T) {
	api := newTestAPI(t)
	api.categories.On("List", mock.Anything).Return(fixtureCategories, nil)

	w := api.do(t, http.MethodGet, "/api/categories", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["success"])
	categories := resp["categories"].(map[string]interface{})
	assert.Len(t, categories, 6)
	assert.Equal(t, "Geography", categories["3"])
}

func TestGetCategories_StorageFailure(t *testing.T) {
	api := newTestAPI(t)
	api.categories.On("List", mock.Anything).Return(nil, apperrors.ErrStorage)

	w := api.do(t, http.MethodGet, "/api/categories", nil)
	assertError(t, w, http.StatusUnprocessableEntity, "unprocessable entity")
}

func Test405ForCategories(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/categories", nil)
	assertError(t, w, http.StatusMethodNotAllowed, "method not allowed")
}

// ============================================================================
// GET /api/questions
// ============================================================================

func TestGetQuestions(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("List", mock.Anything).Return(makeQuestions(19), nil)
	api.categories.On("List", mock.Anything).Return(fixtureCategories, nil)

	w := api.do(t, http.MethodGet, "/api/questions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Len(t, resp["questions"], 10)
	assert.Equal(t, float64(19), resp["total_questions"])
	assert.Equal(t, float64(0), resp["current_category"])
	assert.Len(t, resp["categories"], 6)

	first := resp["questions"].([]interface{})[0].(map[string]interface{})
	assert.ElementsMatch(t, []string{"id", "question", "answer", "category", "difficulty"}, keys(first))
}

func TestGetQuestions_SecondPage(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("List", mock.Anything).Return(makeQuestions(19), nil)
	api.categories.On("List", mock.Anything).Return(fixtureCategories, nil)

	w := api.do(t, http.MethodGet, "/api/questions?page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	questions := resp["questions"].([]interface{})
	assert.Len(t, questions, 9)
	assert.Equal(t, float64(11), questions[0].(map[string]interface{})["id"])
}

func TestGetQuestions_InvalidPageFallsBackToFirst(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("List", mock.Anything).Return(makeQuestions(12), nil)
	api.categories.On("List", mock.Anything).Return(fixtureCategories, nil)

	for _, page := range []string{"abc", "0", "-3"} {
		w := api.do(t, http.MethodGet, "/api/questions?page="+page, nil)
		require.Equal(t, http.StatusOK, w.Code, "page=%s", page)
		resp := parseJSONResponse(t, w)
		assert.Len(t, resp["questions"], 10, "page=%s", page)
	}
}

func Test404RequestBeyondValidQuestionsPage(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("List", mock.Anything).Return(makeQuestions(19), nil)
	api.categories.On("List", mock.Anything).Return(fixtureCategories, nil)

	w := api.do(t, http.MethodGet, "/api/questions?page=500", nil)
	assertError(t, w, http.StatusNotFound, "page not found")
}

func Test404NoQuestionsAtAll(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("List", mock.Anything).Return([]entity.Question{}, nil)
	api.categories.On("List", mock.Anything).Return(fixtureCategories, nil)

	w := api.do(t, http.MethodGet, "/api/questions", nil)
	assertError(t, w, http.StatusNotFound, "page not found")
}

// ============================================================================
// DELETE /api/questions/:id
// ============================================================================

func TestDeleteQuestion(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("GetByID", mock.Anything, uint(6)).Return(&entity.Question{ID: 6}, nil)
	api.questions.On("Delete", mock.Anything, uint(6)).Return(nil)

	w := api.do(t, http.MethodDelete, "/api/questions/6", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, map[string]interface{}{"success": true}, resp)
	api.questions.AssertCalled(t, "Delete", mock.Anything, uint(6))
}

func Test404OnDeleteQuestionDoesNotExist(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("GetByID", mock.Anything, uint(10000000)).Return(nil, apperrors.ErrNotFound)

	w := api.do(t, http.MethodDelete, "/api/questions/10000000", nil)

	assertError(t, w, http.StatusNotFound, "question not found")
	api.questions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteQuestion_StorageFailure(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("GetByID", mock.Anything, uint(6)).Return(&entity.Question{ID: 6}, nil)
	api.questions.On("Delete", mock.Anything, uint(6)).Return(apperrors.ErrStorage)

	w := api.do(t, http.MethodDelete, "/api/questions/6", nil)
	assertError(t, w, http.StatusUnprocessableEntity, "unprocessable entity")
}

func TestDeleteQuestion_NonNumericID(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodDelete, "/api/questions/abc", nil)
	assertError(t, w, http.StatusNotFound, "resource not found")
}

// ============================================================================
// POST /api/questions
// ============================================================================

func TestGetQuestionsSearchWithResults(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("Search", mock.Anything, "lake", uint(0)).Return([]entity.Question{lakeQuestion}, nil)

	w := api.do(t, http.MethodPost, "/api/questions", map[string]string{"searchTerm": "lake"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Len(t, resp["questions"], 1)
	assert.Equal(t, float64(1), resp["total_questions"])
	assert.Equal(t, float64(0), resp["current_category"])
}

func TestGetQuestionsSearchWithoutResults(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("Search", mock.Anything, "zed za", uint(0)).Return([]entity.Question{}, nil)

	w := api.do(t, http.MethodPost, "/api/questions", map[string]string{"searchTerm": "zed za"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(0), resp["total_questions"])
	assert.Equal(t, []interface{}{}, resp["questions"], "Пустой результат должен быть массивом, а не null")
}

func TestSearchWithNonStringTerm(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("Search", mock.Anything, "True", uint(0)).Return([]entity.Question{}, nil)

	w := api.do(t, http.MethodPost, "/api/questions", map[string]interface{}{"searchTerm": true})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, parseJSONResponse(t, w)["success"])
	api.questions.AssertExpectations(t)
}

func TestSearchScopedToCategoryFromSession(t *testing.T) {
	api := newTestAPI(t)
	api.categories.On("GetByID", mock.Anything, uint(3)).Return(&fixtureCategories[2], nil)
	api.categories.On("List", mock.Anything).Return(fixtureCategories, nil)
	api.questions.On("ListByCategory", mock.Anything, uint(3)).Return([]entity.Question{lakeQuestion}, nil)
	api.questions.On("Search", mock.Anything, "lake", uint(3)).Return([]entity.Question{lakeQuestion}, nil)
	api.questions.On("Search", mock.Anything, "lake", uint(0)).Return([]entity.Question{lakeQuestion}, nil)

	// Выбор категории запоминается в сессии
	w := api.do(t, http.MethodGet, "/api/categories/3/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookieFrom(t, w)
	current, err := api.sessions.GetCurrentCategory(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(3), current)

	w = api.do(t, http.MethodPost, "/api/questions", map[string]string{"searchTerm": "lake"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), parseJSONResponse(t, w)["current_category"])
	api.questions.AssertCalled(t, "Search", mock.Anything, "lake", uint(3))

	// Список категорий сбрасывает текущую категорию
	w = api.do(t, http.MethodGet, "/api/categories", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, "/api/questions", map[string]string{"searchTerm": "lake"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), parseJSONResponse(t, w)["current_category"])
}

func TestSearchSessionsAreIsolated(t *testing.T) {
	api := newTestAPI(t)
	api.categories.On("GetByID", mock.Anything, uint(3)).Return(&fixtureCategories[2], nil)
	api.questions.On("ListByCategory", mock.Anything, uint(3)).Return([]entity.Question{lakeQuestion}, nil)
	api.questions.On("Search", mock.Anything, "lake", uint(0)).Return([]entity.Question{lakeQuestion}, nil)

	w := api.do(t, http.MethodGet, "/api/categories/3/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Другой клиент без cookie ищет по всем категориям
	w = api.do(t, http.MethodPost, "/api/questions", map[string]string{"searchTerm": "lake"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), parseJSONResponse(t, w)["current_category"])
}

func TestCreateQuestion(t *testing.T) {
	api := newTestAPI(t)
	expected := &entity.Question{Question: "What is the first alphabet?", Answer: "A", Category: 2, Difficulty: 2}
	api.questions.On("Create", mock.Anything, expected).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Question).ID = 24
	}).Return(nil)

	w := api.do(t, http.MethodPost, "/api/questions", map[string]string{
		"question":   "What is the first alphabet?",
		"answer":     "A",
		"difficulty": "2",
		"category":   "2",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "What is the first alphabet?", resp["question"])
	api.questions.AssertExpectations(t)
}

func Test422IfQuestionCreationFails(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"unexpected field names", map[string]string{"good question": "What is the first alphabet?", "not answered": "A"}},
		{"missing fields", map[string]interface{}{"question": "Q?", "answer": "A"}},
		{"empty search term with question fields", map[string]interface{}{"searchTerm": "", "question": "Q?", "answer": "A", "category": 1, "difficulty": 1}},
		{"invalid json", "{not json"},
		{"array body", "[1,2]"},
		{"empty body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			w := api.do(t, http.MethodPost, "/api/questions", tt.body)

			assertError(t, w, http.StatusUnprocessableEntity, "unprocessable entity")
			api.questions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateQuestion_ConstraintViolation(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("Create", mock.Anything, mock.Anything).Return(apperrors.ErrValidation)

	w := api.do(t, http.MethodPost, "/api/questions", map[string]interface{}{
		"question": "Q?", "answer": "A", "category": 1, "difficulty": 1,
	})
	assertError(t, w, http.StatusUnprocessableEntity, "unprocessable entity")
}

func Test405ForFailedCreateQuestion(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPatch, "/api/questions", map[string]string{"question": "will this request fail?"})
	assertError(t, w, http.StatusMethodNotAllowed, "method not allowed")
}

// ============================================================================
// GET /api/categories/:id/questions
// ============================================================================

func TestGetQuestionsByCategory(t *testing.T) {
	api := newTestAPI(t)
	api.categories.On("GetByID", mock.Anything, uint(3)).Return(&fixtureCategories[2], nil)
	api.questions.On("ListByCategory", mock.Anything, uint(3)).Return([]entity.Question{lakeQuestion}, nil)

	w := api.do(t, http.MethodGet, "/api/categories/3/questions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Len(t, resp["questions"], 1)
	assert.Equal(t, float64(1), resp["total_questions"])
	assert.Equal(t, "Geography", resp["current_category"], "current_category здесь: название категории")
}

func TestGetQuestionsByCategory_Empty(t *testing.T) {
	api := newTestAPI(t)
	api.categories.On("GetByID", mock.Anything, uint(6)).Return(&fixtureCategories[5], nil)
	api.questions.On("ListByCategory", mock.Anything, uint(6)).Return([]entity.Question{}, nil)

	w := api.do(t, http.MethodGet, "/api/categories/6/questions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, []interface{}{}, resp["questions"])
	assert.Equal(t, float64(0), resp["total_questions"])
}

func Test404GetQuestionsByCategoryDoesNotExist(t *testing.T) {
	api := newTestAPI(t)
	api.categories.On("GetByID", mock.Anything, uint(1000)).Return(nil, apperrors.ErrNotFound)

	w := api.do(t, http.MethodGet, "/api/categories/1000/questions", nil)
	assertError(t, w, http.StatusNotFound, "category not found")
}

func TestGetQuestionsByCategory_StorageFailure(t *testing.T) {
	api := newTestAPI(t)
	api.categories.On("GetByID", mock.Anything, uint(2)).Return(&fixtureCategories[1], nil)
	api.questions.On("ListByCategory", mock.Anything, uint(2)).Return(nil, apperrors.ErrStorage)

	w := api.do(t, http.MethodGet, "/api/categories/2/questions", nil)
	assertError(t, w, http.StatusUnprocessableEntity, "unprocessable entity")
}

// ============================================================================
// POST /api/quizzes
// ============================================================================

func TestPlayQuiz(t *testing.T) {
	api := newTestAPI(t)
	pool := []entity.Question{
		{ID: 13, Question: "What is the largest lake in Africa?", Answer: "Lake Victoria", Category: 3, Difficulty: 2},
		{ID: 14, Question: "In which royal palace would you find the Hall of Mirrors?", Answer: "The Palace of Versailles", Category: 3, Difficulty: 3},
		{ID: 15, Question: "The Taj Mahal is located in which Indian city?", Answer: "Agra", Category: 3, Difficulty: 2},
	}
	api.questions.On("ListByCategory", mock.Anything, uint(3)).Return(pool, nil)

	w := api.do(t, http.MethodPost, "/api/quizzes", map[string]interface{}{
		"quiz_category":      map[string]interface{}{"id": 3, "type": "Geography"},
		"previous_questions": []int{13, 15},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["success"])
	question := resp["question"].(map[string]interface{})
	assert.Equal(t, float64(14), question["id"], "Единственный непоказанный вопрос")
	assert.Equal(t, "The Palace of Versailles", question["answer"])
}

func TestPlayQuiz_EndOfQuiz(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("List", mock.Anything).Return(makeQuestions(2), nil)

	w := api.do(t, http.MethodPost, "/api/quizzes", map[string]interface{}{
		"quiz_category":      map[string]interface{}{"id": 0, "type": "click"},
		"previous_questions": []int{1, 2},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, map[string]interface{}{"success": true}, resp, "Конец викторины: ответ без поля question")
}

func TestPlayQuiz_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    interface{}
		code    int
		message string
	}{
		{"previous_questions not a list", `{"quiz_category":{"id":1},"previous_questions":"13"}`, http.StatusUnprocessableEntity, "unprocessable entity"},
		{"missing quiz_category", `{"previous_questions":[]}`, http.StatusBadRequest, "bad request"},
		{"quiz_category not an object", `{"quiz_category":3}`, http.StatusBadRequest, "bad request"},
		{"invalid json", `{"quiz_category":`, http.StatusBadRequest, "bad request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)

			w := api.do(t, http.MethodPost, "/api/quizzes", tt.body)
			assertError(t, w, tt.code, tt.message)
		})
	}
}

func Test404PlayQuizCategoryWithoutQuestions(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("ListByCategory", mock.Anything, uint(1000)).Return([]entity.Question{}, nil)

	w := api.do(t, http.MethodPost, "/api/quizzes", map[string]interface{}{
		"quiz_category":      map[string]interface{}{"id": 1000},
		"previous_questions": []int{},
	})
	assertError(t, w, http.StatusNotFound, "no questions or category does not exist")
}

func TestPlayQuiz_FullRound(t *testing.T) {
	api := newTestAPI(t)
	pool := makeQuestions(5)
	api.questions.On("List", mock.Anything).Return(pool, nil)

	previous := []int{}
	for i := 0; i < len(pool); i++ {
		w := api.do(t, http.MethodPost, "/api/quizzes", map[string]interface{}{
			"quiz_category":      map[string]interface{}{"id": 0},
			"previous_questions": previous,
		})
		require.Equal(t, http.StatusOK, w.Code)
		question, ok := parseJSONResponse(t, w)["question"].(map[string]interface{})
		require.True(t, ok, "Вопрос %d должен быть выдан", i+1)

		id := int(question["id"].(float64))
		assert.NotContains(t, previous, id)
		previous = append(previous, id)
	}

	w := api.do(t, http.MethodPost, "/api/quizzes", map[string]interface{}{
		"quiz_category":      map[string]interface{}{"id": 0},
		"previous_questions": previous,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, parseJSONResponse(t, w), "question")
}

// ============================================================================
// Общие свойства роутера
// ============================================================================

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/nothing-here", nil)
	assertError(t, w, http.StatusNotFound, "resource not found")
}

func TestCORSHeaders(t *testing.T) {
	api := newTestAPI(t)
	api.categories.On("List", mock.Anything).Return(fixtureCategories, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type,Authorization,true", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "POST,GET,PUT,DELETE,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))

	// Заголовки добавляются и к ответам об ошибках
	w = api.do(t, http.MethodPost, "/api/categories", nil)
	assert.Equal(t, "POST,GET,PUT,DELETE,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestPanicIsReportedAs500(t *testing.T) {
	router := NewRouter(RouterDeps{
		Categories: NewCategoryHandler(nil),
		Questions:  NewQuestionHandler(nil, zap.NewNop()),
		Quiz:       NewQuizHandler(nil),
		Session:    middleware.SessionConfig{CookieName: sessionCookie, TTL: time.Hour},
		Logger:     zap.NewNop(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assertError(t, w, http.StatusInternalServerError, "something went wrong")
}

func TestHealth(t *testing.T) {
	healthy := NewHealthHandler(map[string]HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
	}, zap.NewNop())
	failing := NewHealthHandler(map[string]HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	}, zap.NewNop())

	for _, tt := range []struct {
		handler *HealthHandler
		code    int
		status  string
	}{
		{healthy, http.StatusOK, "ok"},
		{failing, http.StatusServiceUnavailable, "degraded"},
	} {
		router := NewRouter(RouterDeps{
			Categories: NewCategoryHandler(nil),
			Questions:  NewQuestionHandler(nil, zap.NewNop()),
			Quiz:       NewQuizHandler(nil),
			Health:     tt.handler,
			Logger:     zap.NewNop(),
		})

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, tt.code, w.Code)
		assert.Equal(t, tt.status, parseJSONResponse(t, w)["status"])
	}
}

func TestExportQuestionsCSV(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("List", mock.Anything).Return([]entity.Question{
		lakeQuestion,
		{ID: 30, Question: "=1+1", Answer: "2", Category: 99, Difficulty: 1},
	}, nil)
	api.categories.On("List", mock.Anything).Return(fixtureCategories, nil)

	w := api.do(t, http.MethodGet, "/api/questions/export", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	body := strings.TrimPrefix(w.Body.String(), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Question,Answer,Category,Difficulty", lines[0])
	assert.Equal(t, "13,What is the largest lake in Africa?,Lake Victoria,Geography,2", lines[1])
	assert.Equal(t, "30,'=1+1,2,99,1", lines[2], "Формулы экранируются, висячая категория выводится как id")
}

func TestExportQuestions_StorageFailure(t *testing.T) {
	api := newTestAPI(t)
	api.questions.On("List", mock.Anything).Return(nil, apperrors.ErrStorage)

	w := api.do(t, http.MethodGet, "/api/questions/export?format=xlsx", nil)
	assertError(t, w, http.StatusUnprocessableEntity, "unprocessable entity")
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
