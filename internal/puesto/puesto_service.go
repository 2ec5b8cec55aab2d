package puesto

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	puestoerrors "go-colaboradores/internal/puesto/errors"
	"go-colaboradores/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PuestoAllKey caches the list with collaborator counts. Collaborator writes
// invalidate it too.
const (
	PuestoAllKey = "puestos:all"
	puestoAllTTL = 30 * time.Minute
)

//go:generate mockgen -source=puesto_service.go -destination=mock/puesto_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreatePuestoRequest) (PuestoResponse, error)
	GetAll(ctx context.Context) ([]PuestoResponse, error)
	GetByID(ctx context.Context, id string) (PuestoResponse, error)
	Update(ctx context.Context, id string, req UpdatePuestoRequest) (PuestoResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client) Service {
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: zap.L().Named("puesto.service")}
}

func (s *service) Create(ctx context.Context, req CreatePuestoRequest) (PuestoResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PuestoResponse{}, err
	}
	defer tx.Rollback()

	p := &Puesto{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.WithTx(tx).Create(ctx, p); err != nil {
		return PuestoResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PuestoResponse{}, err
	}

	InvalidateList(ctx, s.rdb, s.logger)
	return mapToResponse(PuestoWithCount{Puesto: *p}), nil
}

func (s *service) GetAll(ctx context.Context) ([]PuestoResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, PuestoAllKey).Result(); err == nil {
			var resp []PuestoResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(PuestoAllKey, func() (interface{}, error) {
		rows, err := s.repo.FindAllWithCount(ctx)
		if err != nil {
			return nil, err
		}

		resp := make([]PuestoResponse, len(rows))
		for i, r := range rows {
			resp[i] = mapToResponse(r)
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, PuestoAllKey, data, puestoAllTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]PuestoResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PuestoResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PuestoResponse{}, puestoerrors.ErrInvalidPuestoID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PuestoResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePuestoRequest) (PuestoResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PuestoResponse{}, puestoerrors.ErrInvalidPuestoID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PuestoResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PuestoResponse{}, mapRepositoryError(err)
	}

	current.Name = req.Name
	current.Description = req.Description

	if err := qtx.Update(ctx, &current.Puesto); err != nil {
		return PuestoResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PuestoResponse{}, err
	}

	InvalidateList(ctx, s.rdb, s.logger)
	return mapToResponse(*current), nil
}

// Delete refuses while any collaborator still references the puesto.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return puestoerrors.ErrInvalidPuestoID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	n, err := qtx.CountCollaborators(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return puestoerrors.ErrPuestoInUse.WithDetails(map[string]int64{"collaborator_count": n})
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	InvalidateList(ctx, s.rdb, s.logger)
	return nil
}

// InvalidateList drops the cached puesto list. A nil client is a no-op.
func InvalidateList(ctx context.Context, rdb *redis.Client, logger *zap.Logger) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, PuestoAllKey).Err(); err != nil {
		contextutil.GetLogger(ctx, logger).Error("failed to invalidate puesto cache",
			zap.String("key", PuestoAllKey),
			zap.Error(err),
		)
	}
}

func mapToResponse(p PuestoWithCount) PuestoResponse {
	resp := PuestoResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Description:       p.Description,
		CollaboratorCount: p.CollaboratorCount,
	}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
