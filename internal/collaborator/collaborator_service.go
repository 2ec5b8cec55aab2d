package collaborator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	collaboratorerrors "go-colaboradores/internal/collaborator/errors"
	"go-colaboradores/internal/puesto"
	"go-colaboradores/internal/shared/contextutil"
	"go-colaboradores/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=collaborator_service.go -destination=mock/collaborator_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateCollaboratorRequest) (CollaboratorResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]CollaboratorResponse, error)
	GetByID(ctx context.Context, id string) (CollaboratorResponse, error)
	Update(ctx context.Context, id string, req UpdateCollaboratorRequest) (CollaboratorResponse, error)
	SetStatus(ctx context.Context, id string, active bool) (CollaboratorResponse, error)
	Delete(ctx context.Context, id string) error
	Verify(ctx context.Context, query string) (VerifyResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	puestos puesto.Repository
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	puestos puesto.Repository,
	rdb *redis.Client,
) Service {
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		puestos: puestos,
		rdb:     rdb,
		logger:  zap.L().Named("collaborator.service"),
	}
}

func (s *service) ensurePuesto(ctx context.Context, tx *sql.Tx, puestoID string) error {
	if puestoID == "" {
		return nil
	}
	ok, err := s.puestos.WithTx(tx).Exists(ctx, puestoID)
	if err != nil {
		return err
	}
	if !ok {
		return collaboratorerrors.ErrPuestoNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateCollaboratorRequest) (CollaboratorResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CollaboratorResponse{}, err
	}
	defer tx.Rollback()

	if err := s.ensurePuesto(ctx, tx, req.PuestoID); err != nil {
		return CollaboratorResponse{}, err
	}

	number := strings.TrimSpace(req.Number)
	if number == "" {
		next, err := s.counter.GetNextValue(ctx, counter.CollaboratorNumber)
		if err != nil {
			log.Error("create collaborator generate number failed", zap.Error(err))
			return CollaboratorResponse{}, err
		}
		number = fmt.Sprintf("COL-%06d", next)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	c := &Collaborator{
		ID:       uuid.New(),
		Number:   number,
		Name:     strings.TrimSpace(req.Name),
		PuestoID: uuidPtr(req.PuestoID),
		Active:   active,
	}

	if err := s.repo.WithTx(tx).Create(ctx, c); err != nil {
		log.Error("create collaborator persist failed", zap.Error(err))
		return CollaboratorResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return CollaboratorResponse{}, err
	}

	puesto.InvalidateList(ctx, s.rdb, s.logger)
	log.Info("create collaborator success",
		zap.String("collaborator_id", c.ID.String()),
		zap.String("number", c.Number),
	)
	return mapToResponse(*c), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]CollaboratorResponse, error) {
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]CollaboratorResponse, len(rows))
	for i, c := range rows {
		resp[i] = mapToResponse(c)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (CollaboratorResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CollaboratorResponse{}, collaboratorerrors.ErrInvalidCollaboratorID
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CollaboratorResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*c), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCollaboratorRequest) (CollaboratorResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CollaboratorResponse{}, collaboratorerrors.ErrInvalidCollaboratorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CollaboratorResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByID(ctx, id)
	if err != nil {
		return CollaboratorResponse{}, mapRepositoryError(err)
	}

	if err := s.ensurePuesto(ctx, tx, req.PuestoID); err != nil {
		return CollaboratorResponse{}, err
	}

	c.Number = strings.TrimSpace(req.Number)
	c.Name = strings.TrimSpace(req.Name)
	c.PuestoID = uuidPtr(req.PuestoID)

	if err := qtx.Update(ctx, c); err != nil {
		return CollaboratorResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return CollaboratorResponse{}, err
	}

	puesto.InvalidateList(ctx, s.rdb, s.logger)
	return mapToResponse(*c), nil
}

func (s *service) SetStatus(ctx context.Context, id string, active bool) (CollaboratorResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CollaboratorResponse{}, collaboratorerrors.ErrInvalidCollaboratorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CollaboratorResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.UpdateStatus(ctx, id, active); err != nil {
		return CollaboratorResponse{}, mapRepositoryError(err)
	}

	c, err := qtx.FindByID(ctx, id)
	if err != nil {
		return CollaboratorResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return CollaboratorResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("collaborator status changed",
		zap.String("collaborator_id", id),
		zap.Bool("active", active),
	)
	return mapToResponse(*c), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return collaboratorerrors.ErrInvalidCollaboratorID
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

	puesto.InvalidateList(ctx, s.rdb, s.logger)
	return nil
}

// Verify is the front-desk identity lookup. Inactive collaborators are still
// returned so the desk can tell "unknown" from "not currently active".
func (s *service) Verify(ctx context.Context, query string) (VerifyResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return VerifyResponse{}, collaboratorerrors.ErrEmptyQuery
	}

	c, err := s.repo.FindFirstMatch(ctx, query)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return VerifyResponse{}, collaboratorerrors.ErrVerifyNoMatch
	}
	if err != nil {
		return VerifyResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Debug("collaborator verified",
		zap.String("collaborator_id", c.ID.String()),
		zap.Bool("active", c.Active),
	)

	return VerifyResponse{
		Found:        true,
		Active:       c.Active,
		Collaborator: mapToResponse(*c),
	}, nil
}

func mapToResponse(c Collaborator) CollaboratorResponse {
	resp := CollaboratorResponse{
		ID:          c.ID.String(),
		Number:      c.Number,
		Name:        c.Name,
		Active:      c.Active,
		StatusLabel: c.StatusLabel(),
	}
	if c.PuestoID != nil {
		resp.PuestoID = c.PuestoID.String()
	}
	if !c.CreatedAt.IsZero() {
		resp.CreatedAt = c.CreatedAt.Format(time.RFC3339)
	}
	if !c.UpdatedAt.IsZero() {
		resp.UpdatedAt = c.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func uuidPtr(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}
