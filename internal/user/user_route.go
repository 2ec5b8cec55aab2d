package user

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
	users := r.Group("/users")
	users.Use(auth)
	users.Use(middleware.ContextLogger(logger))
	{
		users.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.GetAll,
		)

		users.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.GetById,
		)

		users.POST("",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "user", "create"),
			handler.Create,
		)

		users.PUT("/:id",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "user", "update"),
			handler.Update,
		)

		users.DELETE("/:id",
			middleware.RBACAuthorize(rbacService, "user", "delete"),
			handler.Delete,
		)

		users.GET("/:id/locations",
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.ListLocations,
		)

		users.POST("/:id/locations",
			middleware.RBACAuthorize(rbacService, "user", "update"),
			handler.AssignLocation,
		)

		users.DELETE("/:id/locations/:location_id",
			middleware.RBACAuthorize(rbacService, "user", "update"),
			handler.RemoveLocation,
		)
	}
}
