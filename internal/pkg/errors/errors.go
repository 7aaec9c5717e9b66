package errors

import (
	"errors"
	"net/http"
)

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных
	// (неверная форма JSON, лишние или отсутствующие поля, несовпадение типов).
	ErrValidation = errors.New("validation failed")

	// ErrBadRequest используется, когда тело запроса невозможно разобрать.
	ErrBadRequest = errors.New("bad request")

	// ErrStorage оборачивает сбои хранилища (драйвер, соединение, gorm).
	ErrStorage = errors.New("storage failure")
)

// HTTPError описывает ответ об ошибке, который получает клиент.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Стандартные сообщения для кодов ответа
const (
	MsgBadRequest       = "bad request"
	MsgMethodNotAllowed = "method not allowed"
	MsgUnprocessable    = "unprocessable entity"
	MsgInternal         = "something went wrong"
	MsgTooManyRequests  = "too many requests"
	MsgResourceNotFound = "resource not found"
	MsgPageNotFound     = "page not found"
	MsgQuestionNotFound = "question not found"
	MsgCategoryNotFound = "category not found"
	MsgQuizPoolNotFound = "no questions or category does not exist"
)

// NotFound возвращает 404 с сообщением, зависящим от места вызова.
func NotFound(message string) *HTTPError {
	if message == "" {
		message = MsgResourceNotFound
	}
	return &HTTPError{Code: http.StatusNotFound, Message: message}
}

// Classify сопоставляет ошибку сервиса с HTTP-ответом.
// notFoundMsg используется для ErrNotFound, так как текст 404 у каждого обработчика свой.
func Classify(err error, notFoundMsg string) *HTTPError {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, ErrNotFound):
		return NotFound(notFoundMsg)
	case errors.Is(err, ErrBadRequest):
		return &HTTPError{Code: http.StatusBadRequest, Message: MsgBadRequest}
	case errors.Is(err, ErrValidation), errors.Is(err, ErrStorage):
		return &HTTPError{Code: http.StatusUnprocessableEntity, Message: MsgUnprocessable}
	default:
		return &HTTPError{Code: http.StatusInternalServerError, Message: MsgInternal}
	}
}
