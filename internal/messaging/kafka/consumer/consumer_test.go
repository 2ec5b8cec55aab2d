package consumer

import (
	"context"
	"testing"

	"go-colaboradores/internal/attendance"

	"github.com/go-redis/redismock/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves queued messages and cancels ctx once they run out.
type fakeReader struct {
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func TestConsumeAttendanceRecorded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectIncr(attendance.ReportGenerationKey).SetVal(1)

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			{Offset: 1, Value: []byte(`not json`)},
			{Offset: 2, Value: []byte(`{"event_type":"attendance_recorded","record_id":"r1","user_id":"u1","location_id":"l1","type":"entrada"}`)},
			{Offset: 3, Value: []byte(`{"event_type":"attendance_recorded"}`)},
		},
	}

	ConsumeAttendanceRecorded(ctx, reader, rdb, zap.NewNop())

	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestDecodeAttendanceRecorded(t *testing.T) {
	event, err := decodeAttendanceRecorded(kafkago.Message{
		Value: []byte(`{"record_id":"r1","user_id":"u1","subtype":"inicio","distance_meters":0.1}`),
	})

	assert.NoError(t, err)
	assert.Equal(t, "inicio", event.Subtype)
	if assert.NotNil(t, event.DistanceMeters) {
		assert.Equal(t, 0.1, *event.DistanceMeters)
	}

	_, err = decodeAttendanceRecorded(kafkago.Message{Value: []byte(`{}`)})
	assert.Error(t, err)
}
