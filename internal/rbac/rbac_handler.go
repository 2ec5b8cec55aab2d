package rbac

import (
	"net/http"

	"go-colaboradores/internal/domain"
	"go-colaboradores/internal/middleware"
	"go-colaboradores/internal/shared/apperror"
	"go-colaboradores/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, logger: zap.L().Named("rbac.handler")}
}

// Enforce answers whether a role may perform an action.
func (h *Handler) Enforce(c *gin.Context) {
	var req domain.EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if !domain.IsValidRole(req.Role) {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid role", nil)
		return
	}

	allowed, err := h.service.Enforce(req)
	if err != nil {
		h.logger.Error("rbac enforce failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{Allowed: allowed}, nil)
}

// Me lists the permissions of the caller's role.
func (h *Handler) Me(c *gin.Context) {
	role := c.GetString(middleware.ContextRole)
	if role == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	perms, err := h.service.Permissions(role)
	if err != nil {
		h.logger.Error("rbac permissions failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.ErrInternal.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, domain.RolePermissionsResponse{Role: role, Permissions: perms}, nil)
}
