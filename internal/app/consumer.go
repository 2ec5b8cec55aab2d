package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-colaboradores/internal/config"
	"go-colaboradores/internal/events"
	"go-colaboradores/internal/messaging/kafka/consumer"
	"go-colaboradores/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const attendanceReportGroupID = "go-colaboradores-attendance-report"

func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 5)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.AttendanceRecordedTopic,
		GroupID:        attendanceReportGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer.ConsumeAttendanceRecorded(ctx, reader, redisClient, logger)

	logger.Info("consumer shut down")
	return nil
}
