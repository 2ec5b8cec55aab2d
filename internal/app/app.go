package app

import (
	"go-colaboradores/internal/config"
	"go-colaboradores/internal/events"
	"go-colaboradores/internal/middleware"
	"go-colaboradores/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the stores, migrates the schema and registers every route
// on router. The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DSN(), cfg.DBMaxRetries)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := migrate(gormDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 5)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	if cfg.KafkaBroker != "" {
		if err := connection.EnsureTopic(cfg.KafkaBroker, events.AttendanceRecordedTopic, 1); err != nil {
			logger.Warn("ensure kafka topic failed", zap.String("topic", events.AttendanceRecordedTopic), zap.Error(err))
		}
	} else {
		logger.Info("KAFKA_BROKER not set, attendance events are not published")
	}

	router.Use(middleware.RequestID())

	if err := registerModules(router, cfg, sqlDB, gormDB, redisClient, zap.L()); err != nil {
		redisClient.Close()
		sqlDB.Close()
		return nil, err
	}

	return func() {
		redisClient.Close()
		sqlDB.Close()
	}, nil
}
