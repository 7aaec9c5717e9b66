package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/yourusername/trivia-catalog/internal/pkg/errors"
)

// wrapErr приводит ошибку gorm/драйвера к ошибкам приложения.
// Классы 22 (data exception) и 23 (integrity constraint violation) означают, что
// виноваты входные данные, а не хранилище.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "22", "23":
			return fmt.Errorf("%s: %w: %s (%s)", op, apperrors.ErrValidation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, apperrors.ErrStorage, err)
}
