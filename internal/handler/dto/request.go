package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/trivia-catalog/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

// Поля, из которых строится новый вопрос. Набор ключей должен совпадать точно.
var questionFields = []string{"question", "answer", "category", "difficulty"}

// QuestionsPostRequest: тело POST /api/questions: либо поиск, либо создание вопроса.
// Разбирается вручную, так как ветка выбирается по форме полезной нагрузки.
type QuestionsPostRequest struct {
	fields map[string]json.RawMessage
}

// ParseQuestionsPostRequest разбирает тело запроса. Все, что не является JSON-объектом, отклоняется.
func ParseQuestionsPostRequest(body []byte) (*QuestionsPostRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: request body must be a JSON object", apperrors.ErrValidation)
	}
	return &QuestionsPostRequest{fields: fields}, nil
}

// SearchTerm возвращает поисковую строку, если searchTerm присутствует и "истинен".
// Ложные значения (null, false, 0, "", [], {}) означают ветку создания вопроса.
// Истинное значение не-строка ищется по своему текстовому виду: true как "True",
// массив и объект как ['a', 1] и {'k': None}.
func (r *QuestionsPostRequest) SearchTerm() (string, bool, error) {
	raw, ok := r.fields["searchTerm"]
	if !ok {
		return "", false, nil
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", false, fmt.Errorf("%w: searchTerm: %v", apperrors.ErrValidation, err)
	}

	switch t := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return t, t != "", nil
	case json.Number:
		f, err := t.Float64()
		if err != nil || f == 0 {
			return "", false, nil
		}
		return t.String(), true, nil
	case bool:
		if !t {
			return "", false, nil
		}
		return "True", true, nil
	case []interface{}:
		if len(t) == 0 {
			return "", false, nil
		}
	case map[string]interface{}:
		if len(t) == 0 {
			return "", false, nil
		}
	}

	var b strings.Builder
	dec = json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := writeTermText(&b, dec); err != nil {
		return "", false, fmt.Errorf("%w: searchTerm: %v", apperrors.ErrValidation, err)
	}
	return b.String(), true, nil
}

// writeTermText пишет текстовый вид JSON-значения в порядке ключей исходного документа
func writeTermText(b *strings.Builder, dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		open, closing := byte('['), byte(']')
		if t == '{' {
			open, closing = '{', '}'
		}
		b.WriteByte(open)
		for i := 0; dec.More(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			if t == '{' {
				key, err := dec.Token()
				if err != nil {
					return err
				}
				b.WriteString(quoteTermString(key.(string)))
				b.WriteString(": ")
			}
			if err := writeTermText(b, dec); err != nil {
				return err
			}
		}
		b.WriteByte(closing)
		_, err = dec.Token()
		return err
	case string:
		b.WriteString(quoteTermString(t))
	case json.Number:
		b.WriteString(t.String())
	case bool:
		if t {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case nil:
		b.WriteString("None")
	}
	return nil
}

// quoteTermString берет строку в одинарные кавычки, а если внутри есть только
// одинарные, то в двойные
func quoteTermString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// NewQuestion строит вопрос из тела запроса. Лишние или отсутствующие поля: ошибка валидации.
func (r *QuestionsPostRequest) NewQuestion() (*entity.Question, error) {
	if err := r.checkFieldSet(); err != nil {
		return nil, err
	}

	var q entity.Question
	if err := json.Unmarshal(r.fields["question"], &q.Question); err != nil {
		return nil, fmt.Errorf("%w: question must be a string", apperrors.ErrValidation)
	}
	if err := json.Unmarshal(r.fields["answer"], &q.Answer); err != nil {
		return nil, fmt.Errorf("%w: answer must be a string", apperrors.ErrValidation)
	}
	// null проходит Unmarshal в string без ошибки, поэтому проверяем явно
	if isNull(r.fields["question"]) || isNull(r.fields["answer"]) {
		return nil, fmt.Errorf("%w: question and answer must not be null", apperrors.ErrValidation)
	}

	category, err := parseInt(r.fields["category"])
	if err != nil || category < 0 {
		return nil, fmt.Errorf("%w: category must be a non-negative integer", apperrors.ErrValidation)
	}
	difficulty, err := parseInt(r.fields["difficulty"])
	if err != nil {
		return nil, fmt.Errorf("%w: difficulty must be an integer", apperrors.ErrValidation)
	}

	q.Category = uint(category)
	q.Difficulty = int(difficulty)
	return &q, nil
}

func (r *QuestionsPostRequest) checkFieldSet() error {
	var missing, unexpected []string
	for _, name := range questionFields {
		if _, ok := r.fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range r.fields {
		if !isQuestionField(name) {
			unexpected = append(unexpected, name)
		}
	}
	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	sort.Strings(unexpected)
	return fmt.Errorf("%w: missing fields [%s], unexpected fields [%s]", apperrors.ErrValidation,
		strings.Join(missing, ","), strings.Join(unexpected, ","))
}

func isQuestionField(name string) bool {
	for _, f := range questionFields {
		if f == name {
			return true
		}
	}
	return false
}

// QuizRequest: разобранное тело POST /api/quizzes
type QuizRequest struct {
	// CategoryID равен 0 для "все категории"
	CategoryID uint
	// PreviousQuestions: уже показанные id. Элементы, не являющиеся id, хранятся как 0:
	// они ни с чем не совпадают, но учитываются в количестве показанных вопросов.
	PreviousQuestions []uint
}

// ParseQuizRequest разбирает тело викторины.
// Нечитаемое тело или quiz_category не-объект: ErrBadRequest; previous_questions не-массив: ErrValidation.
func ParseQuizRequest(body []byte) (*QuizRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: request body must be a JSON object", apperrors.ErrBadRequest)
	}

	rawCategory, ok := fields["quiz_category"]
	if !ok {
		return nil, fmt.Errorf("%w: quiz_category is required", apperrors.ErrBadRequest)
	}
	var category map[string]json.RawMessage
	if err := json.Unmarshal(rawCategory, &category); err != nil || category == nil {
		return nil, fmt.Errorf("%w: quiz_category must be an object", apperrors.ErrBadRequest)
	}

	req := &QuizRequest{PreviousQuestions: []uint{}}

	if rawID, ok := category["id"]; ok && !isNull(rawID) {
		id, err := parseInt(rawID)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%w: quiz_category.id must be a non-negative integer", apperrors.ErrBadRequest)
		}
		req.CategoryID = uint(id)
	}

	rawPrevious, ok := fields["previous_questions"]
	if !ok {
		return req, nil
	}
	var previous []json.RawMessage
	if err := json.Unmarshal(rawPrevious, &previous); err != nil || previous == nil {
		return nil, fmt.Errorf("%w: previous_questions must be an array", apperrors.ErrValidation)
	}
	for _, raw := range previous {
		var id uint
		if n, err := parseStrictInt(raw); err == nil && n > 0 {
			id = uint(n)
		}
		req.PreviousQuestions = append(req.PreviousQuestions, id)
	}
	return req, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// parseInt принимает целое число или строку с целым числом ("2")
func parseInt(raw json.RawMessage) (int64, error) {
	if n, err := parseStrictInt(raw); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// parseStrictInt принимает только JSON-числа с целым значением
func parseStrictInt(raw json.RawMessage) (int64, error) {
	// json.Number принимает и строки с числом внутри, поэтому отсекаем их заранее
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || (trimmed[0] != '-' && (trimmed[0] < '0' || trimmed[0] > '9')) {
		return 0, fmt.Errorf("not a number: %s", trimmed)
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return 0, err
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("not an integer: %s", n)
	}
	return int64(f), nil
}
