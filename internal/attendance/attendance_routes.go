package attendance

import (
	"go-colaboradores/internal/domain"
	"go-colaboradores/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	auth gin.HandlerFunc,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	att := r.Group("/attendance")
	att.Use(auth)
	att.Use(middleware.ContextLogger(logger))
	{
		att.GET("/locations",
			middleware.RBACAuthorize(rbacService, "attendance", "locations"),
			h.Locations,
		)

		att.POST("/check-in",
			middleware.RoleMiddleware(domain.RoleUsuario),
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "attendance", "check_in"),
			middleware.Idempotency(rdb),
			h.CheckIn,
		)

		att.GET("/today",
			middleware.RBACAuthorize(rbacService, "attendance", "today"),
			h.Today,
		)

		att.POST("/position",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "attendance", "position"),
			h.SavePosition,
		)

		att.GET("/position-options",
			middleware.RBACAuthorize(rbacService, "attendance", "position"),
			h.PositionOptions,
		)

		att.POST("/verify-site",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "attendance", "verify_site"),
			h.VerifySite,
		)

		att.GET("/records",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "records"),
			h.Records,
		)

		att.GET("/report",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "attendance", "report"),
			h.Report,
		)
	}
}
