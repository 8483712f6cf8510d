package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bluestock/ipo-api/internal/domain/repository"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func dbErr(err error) error {
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return fmt.Errorf("db error: %w", err)
}
