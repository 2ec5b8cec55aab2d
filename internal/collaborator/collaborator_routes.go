package collaborator

import (
	"go-colaboradores/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	rbacService middleware.RBACService,
	logger *zap.Logger,
) {
	collaborators := r.Group("/collaborators")
	collaborators.Use(auth)
	collaborators.Use(middleware.ContextLogger(logger))
	{
		// front desk lookups come from shared terminals, so limit per IP
		collaborators.GET("/verify",
			middleware.RateLimitByIP(2, 10),
			middleware.RBACAuthorize(rbacService, "collaborator", "verify"),
			handler.Verify,
		)

		collaborators.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "collaborator", "read"),
			handler.GetAll,
		)

		collaborators.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "collaborator", "read"),
			handler.GetById,
		)

		collaborators.POST("",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "collaborator", "create"),
			handler.Create,
		)

		collaborators.PUT("/:id",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "collaborator", "update"),
			handler.Update,
		)

		collaborators.PATCH("/:id/status",
			middleware.RBACAuthorize(rbacService, "collaborator", "update"),
			handler.SetStatus,
		)

		collaborators.DELETE("/:id",
			middleware.RBACAuthorize(rbacService, "collaborator", "delete"),
			handler.Delete,
		)
	}
}
