package location

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	locationerrors "go-colaboradores/internal/location/errors"
	"go-colaboradores/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	LocationAllKey = "locations:all"
	locationAllTTL = 30 * time.Minute
)

//go:generate mockgen -source=location_service.go -destination=mock/location_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLocationRequest) (LocationResponse, error)
	GetAll(ctx context.Context) ([]LocationResponse, error)
	GetByID(ctx context.Context, id string) (LocationResponse, error)
	Update(ctx context.Context, id string, req UpdateLocationRequest) (LocationResponse, error)
	SetStatus(ctx context.Context, id string, active bool) (LocationResponse, error)
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
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: zap.L().Named("location.service"),
	}
}

func (s *service) Create(ctx context.Context, req CreateLocationRequest) (LocationResponse, error) {
	radius := DefaultRadiusMeters
	if req.RadiusMeters != nil {
		radius = *req.RadiusMeters
	}
	if radius <= 0 {
		return LocationResponse{}, locationerrors.ErrInvalidRadius
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LocationResponse{}, err
	}
	defer tx.Rollback()

	loc := &Location{
		ID:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		RadiusMeters: radius,
		Active:       true,
	}

	if err := s.repo.WithTx(tx).Create(ctx, loc); err != nil {
		return LocationResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return LocationResponse{}, err
	}

	s.invalidateList(ctx)
	return mapToResponse(*loc), nil
}

func (s *service) GetAll(ctx context.Context) ([]LocationResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, LocationAllKey).Result()
		if err == nil {
			var resp []LocationResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(LocationAllKey, func() (interface{}, error) {
		locs, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(locs)

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, LocationAllKey, data, locationAllTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]LocationResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LocationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LocationResponse{}, locationerrors.ErrInvalidLocationID
	}

	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LocationResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*loc), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLocationRequest) (LocationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LocationResponse{}, locationerrors.ErrInvalidLocationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LocationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	loc, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LocationResponse{}, mapRepositoryError(err)
	}

	loc.Name = req.Name
	loc.Description = req.Description
	loc.Latitude = *req.Latitude
	loc.Longitude = *req.Longitude
	if req.RadiusMeters != nil {
		if *req.RadiusMeters <= 0 {
			return LocationResponse{}, locationerrors.ErrInvalidRadius
		}
		loc.RadiusMeters = *req.RadiusMeters
	}

	if err := qtx.Update(ctx, loc); err != nil {
		return LocationResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return LocationResponse{}, err
	}

	s.invalidateList(ctx)
	return mapToResponse(*loc), nil
}

func (s *service) SetStatus(ctx context.Context, id string, active bool) (LocationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LocationResponse{}, locationerrors.ErrInvalidLocationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LocationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.UpdateStatus(ctx, id, active); err != nil {
		return LocationResponse{}, mapRepositoryError(err)
	}

	loc, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LocationResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return LocationResponse{}, err
	}

	s.invalidateList(ctx)
	return mapToResponse(*loc), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return locationerrors.ErrInvalidLocationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateList(ctx)
	return nil
}

func (s *service) invalidateList(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, LocationAllKey).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to invalidate location cache",
			zap.String("key", LocationAllKey),
			zap.Error(err),
		)
	}
}

func mapToResponse(loc Location) LocationResponse {
	resp := LocationResponse{
		ID:           loc.ID.String(),
		Name:         loc.Name,
		Description:  loc.Description,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		RadiusMeters: loc.RadiusMeters,
		Active:       loc.Active,
	}
	if !loc.CreatedAt.IsZero() {
		resp.CreatedAt = loc.CreatedAt.Format(time.RFC3339)
	}
	if !loc.UpdatedAt.IsZero() {
		resp.UpdatedAt = loc.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(locs []Location) []LocationResponse {
	res := make([]LocationResponse, len(locs))
	for i, l := range locs {
		res[i] = mapToResponse(l)
	}
	return res
}
