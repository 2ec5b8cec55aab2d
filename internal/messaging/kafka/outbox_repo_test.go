package kafka

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (OutboxRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return NewOutboxRepository(gdb), mock
}

func TestOutboxRepository_ListPending(t *testing.T) {
	repo, mock := setupRepo(t)

	rows := sqlmock.NewRows([]string{"id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count"}).
		AddRow("5b0f6f0e-8f0a-4f7f-9d7e-1d3c1f3b8a11", "attendance_record", "0d9a3c58-0f5e-4a55-9a43-5c2f4d1e7b22",
			"attendance_recorded", "attendance.recorded.v1", []byte(`{}`), OutboxStatusFailed, 2)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE status IN ($1,$2) AND retry_count < $3 AND (next_retry_at IS NULL OR next_retry_at <= NOW()) ORDER BY created_at ASC LIMIT $4`)).
		WithArgs(OutboxStatusPending, OutboxStatusFailed, MaxOutboxRetries, 50).
		WillReturnRows(rows)

	events, err := repo.ListPending(context.Background(), 50)

	assert.NoError(t, err)
	if assert.Len(t, events, 1) {
		assert.Equal(t, 2, events[0].RetryCount)
		assert.Equal(t, "attendance.recorded.v1", events[0].Topic)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "outbox_events" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkSent(context.Background(), "5b0f6f0e-8f0a-4f7f-9d7e-1d3c1f3b8a11"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed_Backoff(t *testing.T) {
	repo, mock := setupRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`"retry_count"=retry_count + 1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkFailed(context.Background(), "5b0f6f0e-8f0a-4f7f-9d7e-1d3c1f3b8a11", "broker down"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, 500, len([]rune(truncate(strings.Repeat("ñ", 600), 500))))
}
