package entity

// Category представляет категорию вопросов. Сервис категории только читает.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"column:type;not null" json:"type"`
}

// TableName определяет имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// CategoryMap строит отображение id -> type, в котором категории отдаются клиенту
func CategoryMap(categories []Category) map[uint]string {
	m := make(map[uint]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}
