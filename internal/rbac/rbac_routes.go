package rbac

import (
	"go-colaboradores/internal/domain"
	"go-colaboradores/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(auth)
	{
		group.GET("/permissions/me", handler.Me)
		group.POST("/enforce", middleware.RoleMiddleware(domain.RoleAdmin), handler.Enforce)
	}
}
