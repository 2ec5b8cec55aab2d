package puestoerrors

import (
	"go-colaboradores/internal/shared/apperror"
	"net/http"
)

var (
	ErrPuestoNotFound = apperror.New(
		apperror.CodeNotFound,
		"Puesto not found",
		http.StatusNotFound,
	)
	ErrPuestoAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"A puesto with the same name already exists",
		http.StatusConflict,
	)
	ErrPuestoInUse = apperror.New(
		apperror.CodeConflict,
		"Puesto is assigned to collaborators and cannot be deleted",
		http.StatusConflict,
	)
	ErrInvalidPuestoID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid puesto ID",
		http.StatusBadRequest,
	)
)
