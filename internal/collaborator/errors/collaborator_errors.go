package collaboratorerrors

import (
	"go-colaboradores/internal/shared/apperror"
	"net/http"
)

var (
	ErrCollaboratorNotFound = apperror.New(
		apperror.CodeNotFound,
		"Collaborator not found",
		http.StatusNotFound,
	)
	ErrVerifyNoMatch = apperror.New(
		"COLLABORATOR_NOT_FOUND",
		"No collaborator matches the given name or number",
		http.StatusNotFound,
	)
	ErrCollaboratorNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Collaborator number already exists",
		http.StatusConflict,
	)
	ErrInvalidCollaboratorID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid collaborator ID",
		http.StatusBadRequest,
	)
	ErrPuestoNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Puesto does not exist",
		http.StatusBadRequest,
	)
	ErrEmptyQuery = apperror.New(
		apperror.CodeValidation,
		"Enter a name or collaborator number",
		http.StatusBadRequest,
	)
)
