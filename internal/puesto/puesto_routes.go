package puesto

import (
	"go-colaboradores/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	puestos := r.Group("/puestos")
	puestos.Use(auth)
	{
		puestos.GET("", middleware.RBACAuthorize(rbacService, "puesto", "read"), h.GetAll)
		puestos.POST("", middleware.RBACAuthorize(rbacService, "puesto", "create"), h.Create)
		puestos.GET("/:id", middleware.RBACAuthorize(rbacService, "puesto", "read"), h.GetById)
		puestos.PUT("/:id", middleware.RBACAuthorize(rbacService, "puesto", "update"), h.Update)
		puestos.DELETE("/:id", middleware.RBACAuthorize(rbacService, "puesto", "delete"), h.Delete)
	}
}
