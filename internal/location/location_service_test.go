package location_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-colaboradores/internal/location"
	locationerrors "go-colaboradores/internal/location/errors"
	locationMock "go-colaboradores/internal/location/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service location.Service
	repo    *locationMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	repo := locationMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: location.NewService(db, repo, nil),
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func f64(v float64) *float64 { return &v }

func TestLocationService_Create(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()

	t.Run("defaults radius and active", func(t *testing.T) {
		req := location.CreateLocationRequest{Name: "Oficina Centro", Latitude: f64(17.07), Longitude: f64(-96.75)}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, l *location.Location) error {
				assert.Equal(t, "Oficina Centro", l.Name)
				assert.Equal(t, location.DefaultRadiusMeters, l.RadiusMeters)
				assert.True(t, l.Active)
				assert.NotEqual(t, uuid.Nil, l.ID)
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, 10.0, resp.RadiusMeters)
		assert.True(t, resp.Active)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit radius", func(t *testing.T) {
		req := location.CreateLocationRequest{Name: "Bodega", Latitude: f64(17), Longitude: f64(-96), RadiusMeters: f64(250)}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, 250.0, resp.RadiusMeters)
	})

	t.Run("duplicate name -> conflict", func(t *testing.T) {
		req := location.CreateLocationRequest{Name: "Bodega", Latitude: f64(17), Longitude: f64(-96)}

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_location_name"})

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, locationerrors.ErrLocationAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("zero radius rejected", func(t *testing.T) {
		req := location.CreateLocationRequest{Name: "X", Latitude: f64(1), Longitude: f64(1), RadiusMeters: f64(0)}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, locationerrors.ErrInvalidRadius)
	})
}

func TestLocationService_GetByID(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps.repo.EXPECT().
			FindByID(ctx, id.String()).
			Return(&location.Location{ID: id, Name: "Oficina", RadiusMeters: 10, Active: true}, nil)

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, id.String())

		assert.ErrorIs(t, err, locationerrors.ErrLocationNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, locationerrors.ErrInvalidLocationID)
	})
}

func TestLocationService_Update_KeepsActiveFlag(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()
	id := uuid.New()

	existing := &location.Location{ID: id, Name: "Old", RadiusMeters: 30, Active: false}
	req := location.UpdateLocationRequest{Name: "New", Latitude: f64(17.1), Longitude: f64(-96.7)}

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().FindByID(ctx, id.String()).Return(existing, nil)
	deps.repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, l *location.Location) error {
			assert.Equal(t, "New", l.Name)
			assert.Equal(t, 30.0, l.RadiusMeters)
			assert.False(t, l.Active)
			return nil
		})

	resp, err := deps.service.Update(ctx, id.String(), req)

	assert.NoError(t, err)
	assert.False(t, resp.Active)
	assert.Equal(t, 17.1, resp.Latitude)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLocationService_SetStatus(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()
	id := uuid.New()

	t.Run("deactivate", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UpdateStatus(ctx, id.String(), false).Return(nil)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&location.Location{ID: id, Active: false}, nil)

		resp, err := deps.service.SetStatus(ctx, id.String(), false)

		assert.NoError(t, err)
		assert.False(t, resp.Active)
	})

	t.Run("missing location", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UpdateStatus(ctx, id.String(), true).Return(gorm.ErrRecordNotFound)

		_, err := deps.service.SetStatus(ctx, id.String(), true)

		assert.ErrorIs(t, err, locationerrors.ErrLocationNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLocationService_Delete(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, id).Return(nil)

		assert.NoError(t, deps.service.Delete(ctx, id))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("db error -> rollback", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, id).Return(errors.New("db error"))

		assert.Error(t, deps.service.Delete(ctx, id))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLocationService_GetAll_Cache(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, _, _ := sqlmock.New()
	defer db.Close()
	repo := locationMock.NewMockRepository(ctrl)
	rdb, rmock := redismock.NewClientMock()
	svc := location.NewService(db, repo, rdb)
	ctx := context.Background()

	t.Run("miss loads from repository and stores", func(t *testing.T) {
		id := uuid.New()
		locs := []location.Location{{ID: id, Name: "Oficina", RadiusMeters: 10, Active: true}}
		expected := []location.LocationResponse{{ID: id.String(), Name: "Oficina", RadiusMeters: 10, Active: true}}
		payload, _ := json.Marshal(expected)

		rmock.ExpectGet(location.LocationAllKey).RedisNil()
		repo.EXPECT().FindAll(ctx).Return(locs, nil)
		rmock.ExpectSet(location.LocationAllKey, payload, 30*time.Minute).SetVal("OK")

		resp, err := svc.GetAll(ctx)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("hit skips repository", func(t *testing.T) {
		rmock.ExpectGet(location.LocationAllKey).SetVal(`[{"id":"x","name":"Cached","radius_meters":10,"active":true}]`)

		resp, err := svc.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Cached", resp[0].Name)
	})
}
