package puesto

import (
	"errors"

	puestoerrors "go-colaboradores/internal/puesto/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return puestoerrors.ErrPuestoNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == "uq_puesto_name":
			return puestoerrors.ErrPuestoAlreadyExists
		case pgErr.Code == "23503":
			return puestoerrors.ErrPuestoInUse
		}
	}

	return err
}
