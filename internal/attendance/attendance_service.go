package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	attendanceerrors "go-colaboradores/internal/attendance/errors"
	"go-colaboradores/internal/events"
	"go-colaboradores/internal/geofence"
	"go-colaboradores/internal/geolocation"
	"go-colaboradores/internal/location"
	"go-colaboradores/internal/messaging/kafka"
	"go-colaboradores/internal/notify"
	"go-colaboradores/internal/shared/apperror"
	"go-colaboradores/internal/shared/contextutil"
	"go-colaboradores/internal/user"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	submitLockPrefix = "attendance:lock:"
	submitLockTTL    = 15 * time.Second
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	LoadLocations(ctx context.Context, userID string) (LocationsResponse, error)
	CheckIn(ctx context.Context, userID string, req CheckInRequest) (CheckInResponse, error)
	Today(ctx context.Context, userID, locationID string) (TodayResponse, error)
	SavePosition(ctx context.Context, userID string, req SavePositionRequest) error
	PositionOptions() geolocation.OptionsView
	VerifySite(ctx context.Context, userID string, req VerifySiteRequest) (VerifySiteResponse, error)
	Records(ctx context.Context, q RecordsQuery) ([]RecordResponse, error)
	Report(ctx context.Context, q ReportQuery) ([]ReportRow, error)
}

// Deps are the collaborators of the recorder. Outbox, Redis, Positions and
// Notifier are optional.
type Deps struct {
	DB        *sql.DB
	Repo      Repository
	Locations location.Repository
	Users     user.Repository
	Outbox    kafka.OutboxRepository
	Redis     *redis.Client
	Positions *geolocation.PositionStore
	Notifier  notify.Notifier

	// ProviderFor overrides how the position source is chosen for a request.
	ProviderFor func(userID string, report *geolocation.DeviceReport) geolocation.Provider
}

type Config struct {
	Calendar        Calendar
	Dedup           DedupPolicy
	AssignedPolicy  geofence.Policy
	SitePolicy      geofence.Policy
	Site            geofence.Target
	Position        geolocation.Options
	EnforceSchedule bool
	Now             func() time.Time
}

type service struct {
	deps   Deps
	cfg    Config
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(deps Deps, cfg Config) Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Dedup == "" {
		cfg.Dedup = DedupTypeSubtype
	}
	logger := zap.L().Named("attendance.service")
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(logger)
	}
	return &service{deps: deps, cfg: cfg, sf: &singleflight.Group{}, logger: logger}
}

func (s *service) LoadLocations(ctx context.Context, userID string) (LocationsResponse, error) {
	sess := NewSession(userID, Kind{})
	if err := s.loadLocations(ctx, sess); err != nil {
		return LocationsResponse{State: sess.State()}, s.fail(ctx, sess, err)
	}

	resp := LocationsResponse{State: sess.State(), Locations: make([]LocationSummary, len(sess.Locations))}
	for i, l := range sess.Locations {
		resp.Locations[i] = toLocationSummary(l)
	}
	if len(sess.Locations) == 1 {
		resp.SelectedID = sess.Locations[0].ID.String()
	}
	return resp, nil
}

func (s *service) loadLocations(ctx context.Context, sess *Session) error {
	if err := sess.To(StateLoadingLocations); err != nil {
		return err
	}

	locs, err := s.deps.Locations.FindActiveAssigned(ctx, sess.UserID)
	if err != nil {
		if stepErr := sess.To(StateStoreError); stepErr != nil {
			return stepErr
		}
		return apperrorWrap(attendanceerrors.ErrStoreRead, err)
	}
	if len(locs) == 0 {
		if err := sess.To(StateNoAssignedLocations); err != nil {
			return err
		}
		return attendanceerrors.ErrNoAssignedLocations
	}

	sess.Locations = locs
	return sess.To(StateLocationsReady)
}

// CheckIn runs one attempt from Idle to a terminal or retriable state.
// OutOfRange and AlreadyVerified are normal outcomes, not errors.
func (s *service) CheckIn(ctx context.Context, userID string, req CheckInRequest) (CheckInResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return CheckInResponse{}, apperror.ErrUnauthorized
	}
	kind := Kind{Type: req.Type, Subtype: req.Subtype}
	if err := kind.Validate(); err != nil {
		return CheckInResponse{}, err
	}

	sess := NewSession(userID, kind)
	if err := s.loadLocations(ctx, sess); err != nil {
		return CheckInResponse{State: sess.State()}, s.fail(ctx, sess, err)
	}
	if err := sess.SelectLocation(req.LocationID); err != nil {
		return CheckInResponse{State: sess.State()}, s.fail(ctx, sess, err)
	}

	now := s.cfg.Now()
	if s.cfg.EnforceSchedule {
		if err := s.cfg.Calendar.checkWindow(kind, now); err != nil {
			return CheckInResponse{State: sess.State()}, s.fail(ctx, sess, err)
		}
	}

	key := fmt.Sprintf("%s:%s:%s:%s", userID, sess.Selected.ID, kind, s.cfg.Calendar.DateKey(now))
	leader := false
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		leader = true
		return s.checkIn(ctx, sess, key, req.Position)
	})
	resp, _ := v.(CheckInResponse)
	if !leader {
		contextutil.GetLogger(ctx, s.logger).Debug("check-in joined in-flight attempt", zap.String("key", key))
		return s.joinedCheckIn(ctx, sess, resp)
	}
	if err != nil {
		return resp, s.fail(ctx, sess, err)
	}
	return resp, nil
}

// joinedCheckIn answers a request that arrived while an identical check-in
// was in flight. Its own position was never evaluated, so a record written by
// the other request is reported as already verified and any other outcome
// as a submission in progress.
func (s *service) joinedCheckIn(ctx context.Context, sess *Session, inFlight CheckInResponse) (CheckInResponse, error) {
	if inFlight.State != StateVerified || inFlight.Record == nil {
		return CheckInResponse{State: sess.State(), Retriable: true}, s.fail(ctx, sess, attendanceerrors.ErrSubmissionInProgress)
	}
	for _, st := range []State{StateCheckingTodayRecord, StateAlreadyVerified} {
		if err := sess.To(st); err != nil {
			return CheckInResponse{}, err
		}
	}

	name := ""
	if inFlight.Location != nil {
		name = inFlight.Location.Name
	}
	note := notify.Info("Attendance already recorded", fmt.Sprintf("%s at %s was already recorded today", sess.Kind, name))
	s.deps.Notifier.Notify(ctx, note)
	return CheckInResponse{State: sess.State(), Location: inFlight.Location, Record: inFlight.Record, Notification: note}, nil
}

func (s *service) checkIn(ctx context.Context, sess *Session, key string, report *geolocation.DeviceReport) (CheckInResponse, error) {
	release, err := s.acquireSubmitLock(ctx, key)
	if err != nil {
		return CheckInResponse{State: sess.State()}, err
	}
	defer release()

	log := contextutil.GetLogger(ctx, s.logger)
	loc := sess.Selected
	summary := toLocationSummary(*loc)

	if err := sess.To(StateCheckingTodayRecord); err != nil {
		return CheckInResponse{}, err
	}
	from, to := s.cfg.Calendar.DayBounds(s.cfg.Now())
	existing, err := s.deps.Repo.FindForDay(ctx, sess.UserID, loc.ID.String(), from, to)
	if err != nil {
		log.Error("check-in today lookup failed", zap.String("location_id", loc.ID.String()), zap.Error(err))
		if stepErr := sess.To(StateStoreError); stepErr != nil {
			return CheckInResponse{}, stepErr
		}
		return CheckInResponse{State: sess.State()}, apperrorWrap(attendanceerrors.ErrStoreRead, err)
	}
	if rec, ok := s.cfg.Dedup.FirstBlocking(existing, sess.Kind); ok {
		if err := sess.To(StateAlreadyVerified); err != nil {
			return CheckInResponse{}, err
		}
		sess.Record = rec
		recResp := toRecordResponse(*rec)
		note := notify.Info("Attendance already recorded", fmt.Sprintf("%s at %s was already recorded today", sess.Kind, loc.Name))
		s.deps.Notifier.Notify(ctx, note)
		return CheckInResponse{State: sess.State(), Location: &summary, Record: &recResp, Notification: note}, nil
	}

	pos, err := s.acquirePosition(ctx, sess, report)
	if err != nil {
		return CheckInResponse{State: sess.State(), Location: &summary, Retriable: true}, err
	}

	if err := sess.To(StateEvaluating); err != nil {
		return CheckInResponse{}, err
	}
	eval := s.cfg.AssignedPolicy.Evaluate(pos, loc.Target())
	sess.Eval = &eval
	evalResp := toEvaluationResponse(eval)

	if !eval.WithinRange {
		if err := sess.To(StateOutOfRange); err != nil {
			return CheckInResponse{}, err
		}
		note := notify.Error("Out of range",
			fmt.Sprintf("You are %.0f m from %s, the allowed distance is %.0f m", eval.DistanceMeters, loc.Name, eval.AllowedMeters))
		s.deps.Notifier.Notify(ctx, note)
		return CheckInResponse{
			State:        sess.State(),
			Retriable:    true,
			Location:     &summary,
			Evaluation:   &evalResp,
			Notification: note,
		}, nil
	}

	if err := sess.To(StateSubmitting); err != nil {
		return CheckInResponse{}, err
	}
	distance := eval.DistanceMeters
	rec := &AttendanceRecord{
		ID:             uuid.New(),
		UserID:         uuid.MustParse(sess.UserID),
		LocationID:     loc.ID,
		Type:           sess.Kind.Type,
		Subtype:        sess.Kind.Subtype,
		RecordedAt:     s.cfg.Now().UTC(),
		DistanceMeters: &distance,
		WithinRange:    true,
	}

	if err := s.persist(ctx, rec); err != nil {
		log.Error("check-in persist failed", zap.String("location_id", loc.ID.String()), zap.Error(err))
		if stepErr := sess.To(StateSubmitError); stepErr != nil {
			return CheckInResponse{}, stepErr
		}
		return CheckInResponse{State: sess.State(), Retriable: true, Location: &summary, Evaluation: &evalResp},
			apperrorWrap(attendanceerrors.ErrStoreWrite, err).WithDetails(map[string]any{
				"state":     sess.State(),
				"retriable": true,
			})
	}

	if err := sess.To(StateVerified); err != nil {
		return CheckInResponse{}, err
	}
	sess.Record = rec
	recResp := toRecordResponse(*rec)
	note := notify.Success("Attendance recorded",
		fmt.Sprintf("%s at %s recorded %.1f m from the center", sess.Kind, loc.Name, distance))
	s.deps.Notifier.Notify(ctx, note)

	log.Info("attendance recorded",
		zap.String("record_id", rec.ID.String()),
		zap.String("location_id", loc.ID.String()),
		zap.String("kind", sess.Kind.String()),
		zap.Float64("distance_meters", distance),
	)

	return CheckInResponse{
		State:        sess.State(),
		Location:     &summary,
		Record:       &recResp,
		Evaluation:   &evalResp,
		Notification: note,
	}, nil
}

// persist writes the record and its outbox event in one transaction.
func (s *service) persist(ctx context.Context, rec *AttendanceRecord) error {
	tx, err := s.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.deps.Repo.WithTx(tx).Create(ctx, rec); err != nil {
		return err
	}

	if s.deps.Outbox != nil {
		rid := contextutil.GetRequestID(ctx)
		event := events.AttendanceRecordedEvent{
			EventType:      "attendance_recorded",
			RequestID:      rid,
			RecordID:       rec.ID.String(),
			UserID:         rec.UserID.String(),
			LocationID:     rec.LocationID.String(),
			Type:           rec.Type,
			Subtype:        rec.Subtype,
			DistanceMeters: rec.DistanceMeters,
			WithinRange:    rec.WithinRange,
			RecordedAt:     rec.RecordedAt,
			OccurredAt:     s.cfg.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := s.deps.Outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "attendance_record",
			AggregateID:   rec.ID.String(),
			EventType:     event.EventType,
			Topic:         events.AttendanceRecordedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	// without a broker nobody else bumps the report generation
	if s.deps.Outbox == nil {
		BumpReportGeneration(ctx, s.deps.Redis, s.logger)
	}
	return nil
}

// acquireSubmitLock takes a short cross-process lock for one
// user/location/kind/day. It is best effort: without Redis it always succeeds.
func (s *service) acquireSubmitLock(ctx context.Context, key string) (func(), error) {
	if s.deps.Redis == nil {
		return func() {}, nil
	}

	lockKey := submitLockPrefix + key
	ok, err := s.deps.Redis.SetNX(ctx, lockKey, "1", submitLockTTL).Result()
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("submit lock unavailable, continuing without it", zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, attendanceerrors.ErrSubmissionInProgress
	}
	return func() {
		s.deps.Redis.Del(context.WithoutCancel(ctx), lockKey)
	}, nil
}

func (s *service) Today(ctx context.Context, userID, locationID string) (TodayResponse, error) {
	if locationID != "" {
		if _, err := uuid.Parse(locationID); err != nil {
			return TodayResponse{}, attendanceerrors.ErrInvalidLocationID
		}
	}

	sess := NewSession(userID, Kind{})
	if err := s.loadLocations(ctx, sess); err != nil {
		return TodayResponse{}, err
	}
	if err := sess.SelectLocation(locationID); err != nil {
		return TodayResponse{}, err
	}

	now := s.cfg.Now()
	from, to := s.cfg.Calendar.DayBounds(now)
	rows, err := s.deps.Repo.FindForDay(ctx, userID, sess.Selected.ID.String(), from, to)
	if err != nil {
		return TodayResponse{}, apperrorWrap(attendanceerrors.ErrStoreRead, err)
	}

	resp := TodayResponse{
		Date:       s.cfg.Calendar.DateKey(now),
		LocationID: sess.Selected.ID.String(),
		Records:    make([]RecordResponse, len(rows)),
		Completed:  []string{},
	}
	seen := map[string]bool{}
	for i, r := range rows {
		resp.Records[i] = toRecordResponse(r)
		if k := r.Kind().String(); !seen[k] {
			seen[k] = true
			resp.Completed = append(resp.Completed, k)
		}
	}
	return resp, nil
}

// fail converts an attempt error into a notification and returns it unchanged.
func (s *service) fail(ctx context.Context, sess *Session, err error) error {
	title := "Check-in failed"
	switch sess.State() {
	case StateNoAssignedLocations:
		title = "No assigned locations"
	case StatePositionError:
		title = "Location unavailable"
	case StateStoreError, StateSubmitError:
		title = "Attendance store error"
	}

	s.deps.Notifier.Notify(ctx, notify.Error(title, apperror.ToHTTP(err).Message))
	return err
}

// apperrorWrap keeps sentinel identity while carrying the cause for logs.
func apperrorWrap(sentinel *apperror.AppError, cause error) *apperror.AppError {
	return apperror.Wrap(cause, sentinel.Code, sentinel.Message, sentinel.HTTPStatus)
}
