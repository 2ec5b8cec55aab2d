package attendance

import (
	"context"
	"errors"
	"fmt"

	attendanceerrors "go-colaboradores/internal/attendance/errors"
	"go-colaboradores/internal/geofence"
	"go-colaboradores/internal/geolocation"
	"go-colaboradores/internal/notify"
	"go-colaboradores/internal/shared/apperror"
	"go-colaboradores/internal/shared/contextutil"

	"go.uber.org/zap"
)

func (s *service) providerFor(userID string, report *geolocation.DeviceReport) geolocation.Provider {
	if s.deps.ProviderFor != nil {
		return s.deps.ProviderFor(userID, report)
	}
	if report != nil {
		return geolocation.NewReportedProvider(*report, s.cfg.Now)
	}
	if s.deps.Positions != nil {
		return s.deps.Positions.ForUser(userID)
	}
	return geolocation.UnsupportedProvider{}
}

// currentPosition asks the provider for a fresh fix, bounded by the
// configured timeout. Any failure comes back as a *geolocation.PositionError.
func (s *service) currentPosition(ctx context.Context, userID string, report *geolocation.DeviceReport) (geofence.GeoPoint, error) {
	opts := s.cfg.Position
	pctx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	pos, err := s.providerFor(userID, report).CurrentPosition(pctx, opts)
	if err == nil {
		return pos, nil
	}
	if _, ok := geolocation.AsPositionError(err); ok {
		return geofence.GeoPoint{}, err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return geofence.GeoPoint{}, geolocation.NewPositionError(geolocation.Timeout, err)
	}
	return geofence.GeoPoint{}, geolocation.NewPositionError(geolocation.PositionUnavailable, err)
}

func (s *service) acquirePosition(ctx context.Context, sess *Session, report *geolocation.DeviceReport) (geofence.GeoPoint, error) {
	if err := sess.To(StateAcquiringPosition); err != nil {
		return geofence.GeoPoint{}, err
	}

	pos, err := s.currentPosition(ctx, sess.UserID, report)
	if err != nil {
		if stepErr := sess.To(StatePositionError); stepErr != nil {
			return geofence.GeoPoint{}, stepErr
		}
		contextutil.GetLogger(ctx, s.logger).Warn("position acquisition failed", zap.Error(err))
		return geofence.GeoPoint{}, positionAppError(err, sess.State())
	}

	sess.Position = &pos
	return pos, nil
}

// positionAppError gives each position failure kind its own code.
func positionAppError(err error, state State) error {
	kind := geolocation.PositionUnavailable
	if pe, ok := geolocation.AsPositionError(err); ok {
		kind = pe.Kind
	}

	var sentinel *apperror.AppError
	switch kind {
	case geolocation.PermissionDenied:
		sentinel = attendanceerrors.ErrPermissionDenied
	case geolocation.Timeout:
		sentinel = attendanceerrors.ErrPositionTimeout
	case geolocation.Unsupported:
		sentinel = attendanceerrors.ErrGeolocationUnsupported
	default:
		sentinel = attendanceerrors.ErrPositionUnavailable
	}

	return apperrorWrap(sentinel, err).WithDetails(map[string]any{
		"state":     state,
		"kind":      kind.String(),
		"retriable": true,
	})
}

func (s *service) PositionOptions() geolocation.OptionsView {
	return s.cfg.Position.View()
}

func (s *service) SavePosition(ctx context.Context, userID string, req SavePositionRequest) error {
	if s.deps.Positions == nil {
		return attendanceerrors.ErrGeolocationUnsupported
	}

	capturedAt := s.cfg.Now()
	if req.CapturedAt != nil {
		capturedAt = *req.CapturedAt
	}
	point := geofence.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}

	if err := s.deps.Positions.Save(ctx, userID, point, req.Accuracy, capturedAt, s.cfg.Position); err != nil {
		if _, ok := geolocation.AsPositionError(err); ok {
			return positionAppError(err, StatePositionError)
		}
		return err
	}
	return nil
}

// VerifySite checks the caller against the fixed verification site. Nothing
// is written.
func (s *service) VerifySite(ctx context.Context, userID string, req VerifySiteRequest) (VerifySiteResponse, error) {
	pos, err := s.currentPosition(ctx, userID, req.Position)
	if err != nil {
		appErr := positionAppError(err, StatePositionError)
		s.deps.Notifier.Notify(ctx, notify.Error("Location unavailable", apperror.ToHTTP(appErr).Message))
		return VerifySiteResponse{}, appErr
	}

	eval := s.cfg.SitePolicy.Evaluate(pos, s.cfg.Site)
	var note notify.Notification
	if eval.WithinRange {
		note = notify.Success("Location verified", fmt.Sprintf("You are %.0f m from the site", eval.DistanceMeters))
	} else {
		note = notify.Error("Out of range",
			fmt.Sprintf("You are %.0f m from the site, the allowed distance is %.0f m", eval.DistanceMeters, eval.AllowedMeters))
	}
	s.deps.Notifier.Notify(ctx, note)

	return VerifySiteResponse{Evaluation: toEvaluationResponse(eval), Notification: note}, nil
}
