package location_test

import (
	"context"
	"regexp"
	"testing"

	"go-colaboradores/internal/location"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (location.Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return location.NewRepository(gdb), mock
}

func TestRepository_FindActiveAssigned(t *testing.T) {
	repo, mock := setupRepo(t)
	userID := uuid.NewString()
	locID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "radius_meters", "active"}).
		AddRow(locID.String(), "Oficina", 17.07, -96.75, 10.0, true)

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN user_locations ON user_locations.location_id = locations.id WHERE user_locations.user_id = $1 AND locations.active = $2`)).
		WithArgs(userID, true).
		WillReturnRows(rows)

	locs, err := repo.FindActiveAssigned(context.Background(), userID)

	assert.NoError(t, err)
	assert.Len(t, locs, 1)
	assert.Equal(t, "Oficina", locs[0].Name)
	assert.Equal(t, 10.0, locs[0].RadiusMeters)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByIDs_Empty(t *testing.T) {
	repo, mock := setupRepo(t)

	locs, err := repo.FindByIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, locs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := setupRepo(t)
	id := uuid.NewString()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "locations" SET "active"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(false, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), id, false)

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
