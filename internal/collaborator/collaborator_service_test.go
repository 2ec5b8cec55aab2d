package collaborator_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-colaboradores/internal/collaborator"
	collaboratorerrors "go-colaboradores/internal/collaborator/errors"
	collaboratorMock "go-colaboradores/internal/collaborator/mock"
	puestoMock "go-colaboradores/internal/puesto/mock"
	"go-colaboradores/internal/shared/counter"
	counterMock "go-colaboradores/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service collaborator.Service
	repo    *collaboratorMock.MockRepository
	counter *counterMock.MockRepository
	puestos *puestoMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	repo := collaboratorMock.NewMockRepository(ctrl)
	ctr := counterMock.NewMockRepository(ctrl)
	puestos := puestoMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: collaborator.NewService(db, repo, ctr, puestos, nil),
		repo:    repo,
		counter: ctr,
		puestos: puestos,
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

func TestCollaboratorService_Create(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()
	puestoID := uuid.NewString()

	t.Run("generates number when absent", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)
		deps.puestos.EXPECT().WithTx(gomock.Any()).Return(deps.puestos)
		deps.puestos.EXPECT().Exists(ctx, puestoID).Return(true, nil)
		deps.counter.EXPECT().GetNextValue(ctx, counter.CollaboratorNumber).Return(int64(42), nil)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, c *collaborator.Collaborator) error {
				assert.Equal(t, "COL-000042", c.Number)
				assert.True(t, c.Active)
				assert.Equal(t, puestoID, c.PuestoID.String())
				return nil
			})

		resp, err := deps.service.Create(ctx, collaborator.CreateCollaboratorRequest{Name: " Ana López ", PuestoID: puestoID})

		assert.NoError(t, err)
		assert.Equal(t, "Ana López", resp.Name)
		assert.Equal(t, "Activo", resp.StatusLabel)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit number and inactive", func(t *testing.T) {
		inactive := false
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, collaborator.CreateCollaboratorRequest{Number: "X-1", Name: "Luis", Active: &inactive})

		assert.NoError(t, err)
		assert.Equal(t, "X-1", resp.Number)
		assert.Equal(t, "Inactivo", resp.StatusLabel)
		assert.Empty(t, resp.PuestoID)
	})

	t.Run("unknown puesto", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)
		deps.puestos.EXPECT().WithTx(gomock.Any()).Return(deps.puestos)
		deps.puestos.EXPECT().Exists(ctx, puestoID).Return(false, nil)

		_, err := deps.service.Create(ctx, collaborator.CreateCollaboratorRequest{Name: "Ana", PuestoID: puestoID})

		assert.ErrorIs(t, err, collaboratorerrors.ErrPuestoNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate number", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_collaborator_number"})

		_, err := deps.service.Create(ctx, collaborator.CreateCollaboratorRequest{Number: "COL-000001", Name: "Ana"})

		assert.ErrorIs(t, err, collaboratorerrors.ErrCollaboratorNumberAlreadyExists)
	})
}

func TestCollaboratorService_Verify(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		_, err := deps.service.Verify(ctx, "   ")

		assert.ErrorIs(t, err, collaboratorerrors.ErrEmptyQuery)
	})

	t.Run("match returns status", func(t *testing.T) {
		deps.repo.EXPECT().
			FindFirstMatch(ctx, "ana").
			Return(&collaborator.Collaborator{ID: uuid.New(), Number: "COL-000003", Name: "Ana López", Active: false}, nil)

		resp, err := deps.service.Verify(ctx, " ana ")

		assert.NoError(t, err)
		assert.True(t, resp.Found)
		assert.False(t, resp.Active)
		assert.Equal(t, "COL-000003", resp.Collaborator.Number)
	})

	t.Run("no match", func(t *testing.T) {
		deps.repo.EXPECT().FindFirstMatch(ctx, "zzz").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Verify(ctx, "zzz")

		assert.ErrorIs(t, err, collaboratorerrors.ErrVerifyNoMatch)
	})

	t.Run("store failure passes through", func(t *testing.T) {
		boom := errors.New("connection reset")
		deps.repo.EXPECT().FindFirstMatch(ctx, "ana").Return(nil, boom)

		_, err := deps.service.Verify(ctx, "ana")

		assert.ErrorIs(t, err, boom)
	})
}

func TestCollaboratorService_SetStatus(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()
	id := uuid.New()

	t.Run("deactivate", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UpdateStatus(ctx, id.String(), false).Return(nil)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&collaborator.Collaborator{ID: id, Active: false}, nil)

		resp, err := deps.service.SetStatus(ctx, id.String(), false)

		assert.NoError(t, err)
		assert.False(t, resp.Active)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UpdateStatus(ctx, id.String(), true).Return(gorm.ErrRecordNotFound)

		_, err := deps.service.SetStatus(ctx, id.String(), true)

		assert.ErrorIs(t, err, collaboratorerrors.ErrCollaboratorNotFound)
	})
}

func TestCollaboratorService_UpdateAndDelete(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()
	id := uuid.New()

	t.Run("update clears puesto", func(t *testing.T) {
		old := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&collaborator.Collaborator{ID: id, Number: "COL-000001", Name: "Ana", PuestoID: &old, Active: true}, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, c *collaborator.Collaborator) error {
				assert.Nil(t, c.PuestoID)
				assert.Equal(t, "Ana María", c.Name)
				return nil
			})

		resp, err := deps.service.Update(ctx, id.String(), collaborator.UpdateCollaboratorRequest{Number: "COL-000001", Name: "Ana María"})

		assert.NoError(t, err)
		assert.True(t, resp.Active)
	})

	t.Run("invalid id", func(t *testing.T) {
		assert.ErrorIs(t, deps.service.Delete(ctx, "bad"), collaboratorerrors.ErrInvalidCollaboratorID)
	})

	t.Run("delete", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, id.String()).Return(nil)

		assert.NoError(t, deps.service.Delete(ctx, id.String()))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
