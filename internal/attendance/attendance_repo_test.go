package attendance_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go-colaboradores/internal/attendance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (attendance.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return attendance.NewRepository(gdb), mock
}

func TestRepository_FindForDay(t *testing.T) {
	repo, mock := setupRepo(t)
	userID := uuid.NewString()
	locID := uuid.NewString()
	from := time.Date(2026, 10, 15, 0, 0, 0, 0, cdmx)
	to := from.AddDate(0, 0, 1)

	rows := sqlmock.NewRows([]string{"id", "user_id", "location_id", "type", "subtype", "recorded_at", "within_range"}).
		AddRow(uuid.NewString(), userID, locID, "comida", "inicio", from.Add(14*time.Hour), true)

	mock.ExpectQuery(regexp.QuoteMeta(`user_id = $1 AND location_id = $2 AND (recorded_at >= $3 AND recorded_at < $4) ORDER BY recorded_at ASC`)).
		WithArgs(userID, locID, from, to).
		WillReturnRows(rows)

	got, err := repo.FindForDay(context.Background(), userID, locID, from, to)

	assert.NoError(t, err)
	if assert.Len(t, got, 1) {
		assert.Equal(t, attendance.Kind{Type: "comida", Subtype: "inicio"}, got[0].Kind())
		assert.Nil(t, got[0].DistanceMeters)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindForDay_Error(t *testing.T) {
	repo, mock := setupRepo(t)
	from := time.Date(2026, 10, 15, 0, 0, 0, 0, cdmx)

	mock.ExpectQuery(`attendance_records`).WillReturnError(errors.New("connection refused"))

	_, err := repo.FindForDay(context.Background(), uuid.NewString(), uuid.NewString(), from, from.AddDate(0, 0, 1))

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindInRange_Filters(t *testing.T) {
	repo, mock := setupRepo(t)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, cdmx)
	to := from.AddDate(0, 1, 0)
	userID := uuid.NewString()

	mock.ExpectQuery(regexp.QuoteMeta(`(recorded_at >= $1 AND recorded_at < $2) AND user_id = $3 AND type = $4 ORDER BY recorded_at ASC`)).
		WithArgs(from, to, userID, "salida").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.FindInRange(context.Background(), attendance.RecordFilter{From: from, To: to, UserID: userID, Type: "salida"})

	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
