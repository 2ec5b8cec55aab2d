package counter_test

import (
	"context"
	"testing"

	"go-colaboradores/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_GetNextValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO counters`).
		WithArgs(counter.CollaboratorNumber).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(7))

	repo := counter.NewRepository(gdb)
	got, err := repo.GetNextValue(context.Background(), counter.CollaboratorNumber)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
