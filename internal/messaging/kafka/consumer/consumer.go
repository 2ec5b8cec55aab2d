package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-colaboradores/internal/attendance"
	"go-colaboradores/internal/events"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var errMissingIDs = errors.New("attendance_recorded event missing ids")

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeAttendanceRecorded invalidates cached attendance reports whenever a
// record is written. Malformed messages are committed and skipped.
func ConsumeAttendanceRecorded(
	ctx context.Context,
	reader MessageReader,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_recorded")
	log.Info("attendance recorded consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance recorded consumer stopped")
				return
			}
			log.Error("fetch attendance recorded message failed", zap.Error(err))
			continue
		}

		event, err := decodeAttendanceRecorded(msg)
		if err != nil {
			log.Error("decode attendance_recorded event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		attendance.BumpReportGeneration(ctx, rdb, log)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance recorded message failed", zap.Error(err))
			continue
		}

		log.Info("attendance report cache invalidated",
			zap.String("record_id", event.RecordID),
			zap.String("user_id", event.UserID),
			zap.String("location_id", event.LocationID),
			zap.String("request_id", event.RequestID),
		)
	}
}

func decodeAttendanceRecorded(msg kafkago.Message) (events.AttendanceRecordedEvent, error) {
	var event events.AttendanceRecordedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return event, err
	}
	if event.RecordID == "" || event.UserID == "" {
		return event, errMissingIDs
	}
	return event, nil
}
