package attendanceerrors

import (
	"go-colaboradores/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidType = apperror.New(
		apperror.CodeValidation,
		"type must be one of entrada, comida, salida",
		http.StatusBadRequest,
	)
	ErrSubtypeRequired = apperror.New(
		apperror.CodeValidation,
		"comida requires subtype inicio or fin",
		http.StatusBadRequest,
	)
	ErrSubtypeNotAllowed = apperror.New(
		apperror.CodeValidation,
		"subtype is only allowed for comida",
		http.StatusBadRequest,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"Invalid check-in state transition",
		http.StatusConflict,
	)
	ErrNoAssignedLocations = apperror.New(
		"NO_ASSIGNED_LOCATIONS",
		"You have no active assigned locations. Contact an administrator.",
		http.StatusUnprocessableEntity,
	)
	ErrLocationSelectionRequired = apperror.New(
		"LOCATION_SELECTION_REQUIRED",
		"Several locations are assigned to you, choose one",
		http.StatusUnprocessableEntity,
	)
	ErrLocationNotAssigned = apperror.New(
		apperror.CodeForbidden,
		"Location is not assigned to you or is inactive",
		http.StatusForbidden,
	)
	ErrSubmissionInProgress = apperror.New(
		"SUBMISSION_IN_PROGRESS",
		"A check-in for this location is already being submitted",
		http.StatusConflict,
	)
	ErrOutsideSchedule = apperror.New(
		"OUTSIDE_SCHEDULE",
		"Check-in is outside the allowed schedule",
		http.StatusUnprocessableEntity,
	)
	ErrStoreRead = apperror.New(
		"STORE_READ_FAILED",
		"Could not read attendance data, nothing was recorded",
		http.StatusServiceUnavailable,
	)
	ErrStoreWrite = apperror.New(
		"STORE_WRITE_FAILED",
		"Could not save the attendance record, try again",
		http.StatusServiceUnavailable,
	)
	ErrPermissionDenied = apperror.New(
		"PERMISSION_DENIED",
		"Location permission was denied. Enable location access to check in.",
		http.StatusUnprocessableEntity,
	)
	ErrPositionUnavailable = apperror.New(
		"POSITION_UNAVAILABLE",
		"Location information is unavailable.",
		http.StatusUnprocessableEntity,
	)
	ErrPositionTimeout = apperror.New(
		"POSITION_TIMEOUT",
		"Timed out while acquiring the location.",
		http.StatusUnprocessableEntity,
	)
	ErrGeolocationUnsupported = apperror.New(
		"GEOLOCATION_UNSUPPORTED",
		"Geolocation is not supported by this device.",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeValidation,
		"Use month=YYYY-MM or day=YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidLocationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid location ID",
		http.StatusBadRequest,
	)
)
