package entity

// Question представляет вопрос викторины
type Question struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Question   string `gorm:"column:question;not null" json:"question"`
	Answer     string `gorm:"column:answer;not null" json:"answer"`
	Category   uint   `gorm:"column:category;not null;index" json:"category"`
	Difficulty int    `gorm:"column:difficulty;not null" json:"difficulty"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// QuestionIDs возвращает идентификаторы вопросов в исходном порядке
func QuestionIDs(questions []Question) []uint {
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}

// FindQuestion ищет вопрос по ID в уже загруженном срезе
func FindQuestion(questions []Question, id uint) (*Question, bool) {
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i], true
		}
	}
	return nil, false
}
