package location

import (
	"errors"

	locationerrors "go-colaboradores/internal/location/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return locationerrors.ErrLocationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_location_name" {
		return locationerrors.ErrLocationAlreadyExists
	}

	return err
}
