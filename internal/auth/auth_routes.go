package auth

import (
	"go-colaboradores/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	group := r.Group("/auth")
	{
		group.POST("/login", middleware.RateLimitByIP(1, 5), handler.Login)
		group.GET("/me", auth, handler.Me)
	}
}
