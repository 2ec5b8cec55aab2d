package app

import (
	"database/sql"
	"fmt"
	"time"

	"go-colaboradores/internal/attendance"
	"go-colaboradores/internal/auth"
	"go-colaboradores/internal/collaborator"
	"go-colaboradores/internal/config"
	"go-colaboradores/internal/geofence"
	"go-colaboradores/internal/geolocation"
	"go-colaboradores/internal/location"
	"go-colaboradores/internal/messaging/kafka"
	"go-colaboradores/internal/middleware"
	"go-colaboradores/internal/notify"
	"go-colaboradores/internal/puesto"
	"go-colaboradores/internal/rbac"
	"go-colaboradores/internal/rbac/infra"
	"go-colaboradores/internal/shared/counter"
	"go-colaboradores/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	locationRepo := location.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	puestoRepo := puesto.NewRepository(gormDB)
	collaboratorRepo := collaborator.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)

	var outboxRepo kafka.OutboxRepository
	if cfg.KafkaBroker != "" {
		outboxRepo = kafka.NewOutboxRepository(gormDB)
	}

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	attendanceCfg, err := attendanceConfig(cfg.Attendance)
	if err != nil {
		return err
	}

	authService := auth.NewService(userRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpireMinutes)*time.Minute)
	locationService := location.NewService(db, locationRepo, rdb)
	userService := user.NewService(userRepo, locationRepo)
	puestoService := puesto.NewService(db, puestoRepo, rdb)
	collaboratorService := collaborator.NewService(db, collaboratorRepo, counterRepo, puestoRepo, rdb)
	attendanceService := attendance.NewService(attendance.Deps{
		DB:        db,
		Repo:      attendanceRepo,
		Locations: locationRepo,
		Users:     userRepo,
		Outbox:    outboxRepo,
		Redis:     rdb,
		Positions: geolocation.NewPositionStore(rdb),
		Notifier:  notify.NewLogNotifier(logger.Named("notify")),
	}, attendanceCfg)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	locationHandler := location.NewHandler(locationService)
	userHandler := user.NewHandler(userService)
	puestoHandler := puesto.NewHandler(puestoService)
	collaboratorHandler := collaborator.NewHandler(collaboratorService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	authMW := middleware.AuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW)
		location.RegisterRoutes(api, locationHandler, authMW, rbacService)
		user.RegisterRoutes(api, userHandler, authMW, rbacService, logger)
		puesto.RegisterRoutes(api, puestoHandler, authMW, rbacService)
		collaborator.RegisterRoutes(api, collaboratorHandler, authMW, rbacService, logger)
		attendance.RegisterRoutes(api, attendanceHandler, authMW, rbacService, rdb, logger)
		rbac.RegisterRoutes(api, rbacHandler, authMW)
	}

	return nil
}

// attendanceConfig turns the environment knobs into recorder settings.
func attendanceConfig(a config.AttendanceConfig) (attendance.Config, error) {
	tz, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return attendance.Config{}, fmt.Errorf("attendance timezone: %w", err)
	}
	lateAfter, err := attendance.ParseClock(a.LateAfter)
	if err != nil {
		return attendance.Config{}, err
	}
	dedup, err := attendance.ParseDedupPolicy(a.DedupPolicy)
	if err != nil {
		return attendance.Config{}, err
	}

	assigned := geofence.AssignedLocationPolicy(a.AssignedMargin)
	site := geofence.FixedSitePolicy(a.SiteMargin)
	for _, p := range []geofence.Policy{assigned, site} {
		if err := p.Validate(); err != nil {
			return attendance.Config{}, fmt.Errorf("%s policy: %w", p.Name, err)
		}
	}
	target := geofence.Target{
		Center:       geofence.GeoPoint{Latitude: a.SiteLatitude, Longitude: a.SiteLongitude},
		RadiusMeters: a.SiteRadius,
	}
	if err := target.Validate(); err != nil {
		return attendance.Config{}, fmt.Errorf("attendance site: %w", err)
	}

	return attendance.Config{
		Calendar:       attendance.Calendar{Location: tz, LateAfter: lateAfter},
		Dedup:          dedup,
		AssignedPolicy: assigned,
		SitePolicy:     site,
		Site:           target,
		Position: geolocation.Options{
			HighAccuracy: a.PositionHighAccuracy,
			Timeout:      a.PositionTimeout,
			MaxAge:       a.PositionMaxAge,
		},
		EnforceSchedule: a.EnforceSchedule,
	}, nil
}
