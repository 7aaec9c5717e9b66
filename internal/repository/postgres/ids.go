package postgres

import "math"

// Столбцы id и category имеют тип INTEGER. Больший id не может существовать,
// а pgx отказывается кодировать такое значение в int4.
func storableID(id uint) bool {
	return id <= math.MaxInt32
}
