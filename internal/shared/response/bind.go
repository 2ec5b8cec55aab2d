package response

import (
	"net/http"

	"go-colaboradores/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// BindError renders a request binding failure. Validator errors keep their
// field message; malformed bodies become a generic validation error.
func BindError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status == http.StatusInternalServerError {
		Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}
	Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
