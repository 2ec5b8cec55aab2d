package location

import (
	"go-colaboradores/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	auth gin.HandlerFunc,
	rbacService middleware.RBACService,
) {
	locations := r.Group("/locations")
	locations.Use(auth)

	{
		locations.GET("", middleware.RBACAuthorize(rbacService, "location", "read"), h.GetAll)
		locations.POST("", middleware.RBACAuthorize(rbacService, "location", "create"), h.Create)
		locations.GET("/:id", middleware.RBACAuthorize(rbacService, "location", "read"), h.GetById)
		locations.PUT("/:id", middleware.RBACAuthorize(rbacService, "location", "update"), h.Update)
		locations.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "location", "update"), h.SetStatus)
		locations.DELETE("/:id", middleware.RBACAuthorize(rbacService, "location", "delete"), h.Delete)
	}
}
