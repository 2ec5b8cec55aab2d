package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-colaboradores/internal/domain"
	"go-colaboradores/internal/location"
	locationerrors "go-colaboradores/internal/location/errors"
	"go-colaboradores/internal/shared/contextutil"
	usererrors "go-colaboradores/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error

	AssignLocation(ctx context.Context, userID, locationID string) (UserResponse, error)
	RemoveLocation(ctx context.Context, userID, locationID string) (UserResponse, error)
	ListAssignedLocations(ctx context.Context, userID string) ([]AssignedLocationResponse, error)
}

type service struct {
	repo         Repository
	locationRepo location.Repository
}

func NewService(repo Repository, locationRepo location.Repository) Service {
	return &service{repo: repo, locationRepo: locationRepo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, nil)

	if !domain.IsValidRole(req.Role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error("failed to hash password", zap.Error(err))
		return UserResponse{}, err
	}

	u := &User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Password: string(hashedPassword),
		Role:     req.Role,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		l.Error("failed to create user", zap.String("email", u.Email), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	l.Info("user created", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return mapToResponse(*u, []string{}), nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u, nil)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return s.withLocations(ctx, *u)
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	if !domain.IsValidRole(req.Role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	u, err := s.find(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.Name = strings.TrimSpace(req.Name)
	u.Email = normalizeEmail(req.Email)
	u.Role = req.Role
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, err
		}
		u.Password = string(hashed)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	return s.withLocations(ctx, *u)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}
	return mapRepositoryError(s.repo.Delete(ctx, id))
}

func (s *service) AssignLocation(ctx context.Context, userID, locationID string) (UserResponse, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	if err := s.ensureLocation(ctx, locationID); err != nil {
		return UserResponse{}, err
	}

	if err := s.repo.AssignLocation(ctx, userID, locationID); err != nil {
		return UserResponse{}, err
	}

	contextutil.GetLogger(ctx, nil).Info("location assigned",
		zap.String("user_id", userID),
		zap.String("location_id", locationID),
	)
	return s.withLocations(ctx, *u)
}

func (s *service) RemoveLocation(ctx context.Context, userID, locationID string) (UserResponse, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	if _, err := uuid.Parse(locationID); err != nil {
		return UserResponse{}, usererrors.ErrInvalidLocationID
	}

	if err := s.repo.RemoveLocation(ctx, userID, locationID); err != nil {
		return UserResponse{}, err
	}

	return s.withLocations(ctx, *u)
}

// ListAssignedLocations includes inactive locations; ids whose location was
// deleted are skipped.
func (s *service) ListAssignedLocations(ctx context.Context, userID string) ([]AssignedLocationResponse, error) {
	if _, err := s.find(ctx, userID); err != nil {
		return nil, err
	}

	ids, err := s.repo.LocationIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	locs, err := s.locationRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := make([]AssignedLocationResponse, 0, len(locs))
	for _, l := range locs {
		resp = append(resp, AssignedLocationResponse{
			ID:           l.ID.String(),
			Name:         l.Name,
			RadiusMeters: l.RadiusMeters,
			Active:       l.Active,
		})
	}
	return resp, nil
}

func (s *service) find(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return u, nil
}

func (s *service) ensureLocation(ctx context.Context, locationID string) error {
	if _, err := uuid.Parse(locationID); err != nil {
		return usererrors.ErrInvalidLocationID
	}
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return locationerrors.ErrLocationNotFound
		}
		return err
	}
	return nil
}

func (s *service) withLocations(ctx context.Context, u User) (UserResponse, error) {
	ids, err := s.repo.LocationIDs(ctx, u.ID.String())
	if err != nil {
		return UserResponse{}, err
	}
	if ids == nil {
		ids = []string{}
	}
	return mapToResponse(u, ids), nil
}

func mapToResponse(u User, locationIDs []string) UserResponse {
	resp := UserResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		LocationIDs: locationIDs,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
