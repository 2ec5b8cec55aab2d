package collaborator

import (
	"errors"

	collaboratorerrors "go-colaboradores/internal/collaborator/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return collaboratorerrors.ErrCollaboratorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == "uq_collaborator_number":
			return collaboratorerrors.ErrCollaboratorNumberAlreadyExists
		case pgErr.Code == "23503":
			return collaboratorerrors.ErrPuestoNotFound
		}
	}

	return err
}
