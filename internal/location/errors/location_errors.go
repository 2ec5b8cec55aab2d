package locationerrors

import (
	"go-colaboradores/internal/shared/apperror"
	"net/http"
)

var (
	ErrLocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Location not found",
		http.StatusNotFound,
	)
	ErrLocationAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A location with the same name already exists",
		http.StatusConflict,
	)
	ErrInvalidLocationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid location ID",
		http.StatusBadRequest,
	)
	ErrInvalidRadius = apperror.New(
		apperror.CodeInvalidInput,
		"Radius must be greater than zero",
		http.StatusBadRequest,
	)
)
