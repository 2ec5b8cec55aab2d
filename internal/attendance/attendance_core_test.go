package attendance

import (
	"context"
	"testing"
	"time"

	attendanceerrors "go-colaboradores/internal/attendance/errors"
	"go-colaboradores/internal/location"
	"go-colaboradores/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var cdmx = time.FixedZone("CST", -6*60*60)

func TestSession_Transitions(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		s := NewSession(uuid.NewString(), Kind{Type: TypeEntrada})
		for _, st := range []State{
			StateLoadingLocations, StateLocationsReady, StateCheckingTodayRecord,
			StateAcquiringPosition, StateEvaluating, StateSubmitting, StateVerified,
		} {
			assert.NoError(t, s.To(st))
		}
		assert.True(t, s.State().Terminal())
		assert.Len(t, s.History(), 8)
	})

	t.Run("rejects transitions outside the table", func(t *testing.T) {
		s := NewSession(uuid.NewString(), Kind{Type: TypeEntrada})

		err := s.To(StateSubmitting)

		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidTransition)
		assert.Equal(t, StateIdle, s.State())
	})

	t.Run("position error and out of range are retriable", func(t *testing.T) {
		assert.True(t, StatePositionError.Retriable())
		assert.True(t, StateOutOfRange.Retriable())
		assert.True(t, StateSubmitError.Retriable())
		assert.False(t, StateAlreadyVerified.Retriable())
		assert.False(t, StateStoreError.Retriable())
		assert.False(t, StateNoAssignedLocations.Retriable())
	})

	t.Run("acquiring position is only reachable after the today check", func(t *testing.T) {
		assert.False(t, StateLocationsReady.CanTransition(StateAcquiringPosition))
		assert.False(t, StateNoAssignedLocations.CanTransition(StateAcquiringPosition))
	})
}

func TestSession_SelectLocation(t *testing.T) {
	a := location.Location{ID: uuid.New(), Name: "Centro"}
	b := location.Location{ID: uuid.New(), Name: "Norte"}

	t.Run("single location is auto-selected", func(t *testing.T) {
		s := NewSession("u", Kind{})
		s.Locations = []location.Location{a}

		assert.NoError(t, s.SelectLocation(""))
		assert.Equal(t, a.ID, s.Selected.ID)
	})

	t.Run("several need an explicit choice", func(t *testing.T) {
		s := NewSession("u", Kind{})
		s.Locations = []location.Location{a, b}

		assert.ErrorIs(t, s.SelectLocation(""), attendanceerrors.ErrLocationSelectionRequired)
		assert.NoError(t, s.SelectLocation(b.ID.String()))
		assert.Equal(t, "Norte", s.Selected.Name)
	})

	t.Run("unassigned location", func(t *testing.T) {
		s := NewSession("u", Kind{})
		s.Locations = []location.Location{a}

		assert.ErrorIs(t, s.SelectLocation(uuid.NewString()), attendanceerrors.ErrLocationNotAssigned)
	})
}

func TestKind_Validate(t *testing.T) {
	assert.NoError(t, Kind{Type: TypeEntrada}.Validate())
	assert.NoError(t, Kind{Type: TypeComida, Subtype: SubtypeFin}.Validate())
	assert.ErrorIs(t, Kind{Type: TypeComida}.Validate(), attendanceerrors.ErrSubtypeRequired)
	assert.ErrorIs(t, Kind{Type: TypeSalida, Subtype: SubtypeInicio}.Validate(), attendanceerrors.ErrSubtypeNotAllowed)
	assert.ErrorIs(t, Kind{Type: "cena"}.Validate(), attendanceerrors.ErrInvalidType)
}

func TestDedupPolicy(t *testing.T) {
	comidaInicio := AttendanceRecord{Type: TypeComida, Subtype: SubtypeInicio}
	entrada := AttendanceRecord{Type: TypeEntrada}

	tests := []struct {
		name   string
		policy DedupPolicy
		have   AttendanceRecord
		want   Kind
		blocks bool
	}{
		{"location_day blocks anything", DedupLocationDay, entrada, Kind{Type: TypeSalida}, true},
		{"type blocks other comida", DedupType, comidaInicio, Kind{Type: TypeComida, Subtype: SubtypeFin}, true},
		{"type ignores other types", DedupType, entrada, Kind{Type: TypeSalida}, false},
		{"type_subtype keeps comida halves apart", DedupTypeSubtype, comidaInicio, Kind{Type: TypeComida, Subtype: SubtypeFin}, false},
		{"type_subtype blocks the same half", DedupTypeSubtype, comidaInicio, Kind{Type: TypeComida, Subtype: SubtypeInicio}, true},
		{"type_subtype blocks second entrada", DedupTypeSubtype, entrada, Kind{Type: TypeEntrada}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.blocks, tt.policy.Blocks(tt.have, tt.want))
		})
	}

	p, err := ParseDedupPolicy("")
	assert.NoError(t, err)
	assert.Equal(t, DedupTypeSubtype, p)

	_, err = ParseDedupPolicy("weekly")
	assert.Error(t, err)
}

func TestCalendar(t *testing.T) {
	cal := Calendar{Location: cdmx, LateAfter: 9*time.Hour + 10*time.Minute}

	t.Run("punctuality is late from the minute after the threshold", func(t *testing.T) {
		assert.Equal(t, PunctualityOnTime, cal.Punctuality(time.Date(2026, 10, 15, 9, 10, 0, 0, cdmx)))
		assert.Equal(t, PunctualityOnTime, cal.Punctuality(time.Date(2026, 10, 15, 9, 10, 30, 0, cdmx)))
		assert.Equal(t, PunctualityOnTime, cal.Punctuality(time.Date(2026, 10, 15, 9, 10, 59, 0, cdmx)))
		assert.Equal(t, PunctualityLate, cal.Punctuality(time.Date(2026, 10, 15, 9, 11, 0, 0, cdmx)))
		// 15:05 UTC is 09:05 local
		assert.Equal(t, PunctualityOnTime, cal.Punctuality(time.Date(2026, 10, 15, 15, 5, 0, 0, time.UTC)))
	})

	t.Run("day bounds follow the local calendar", func(t *testing.T) {
		// 03:00 UTC on the 16th is still the 15th locally
		from, to := cal.DayBounds(time.Date(2026, 10, 16, 3, 0, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, cdmx), from)
		assert.Equal(t, 24*time.Hour, to.Sub(from))
	})

	t.Run("range parsing", func(t *testing.T) {
		now := time.Date(2026, 10, 15, 12, 0, 0, 0, cdmx)

		from, to, err := cal.Range("", "2026-02", now)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, cdmx), from)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, cdmx), to)

		from, _, err = cal.Range("2026-10-01", "2026-02", now)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, cdmx), from)

		_, _, err = cal.Range("01/10/2026", "", now)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidRange)
	})

	t.Run("schedule windows", func(t *testing.T) {
		assert.NoError(t, cal.checkWindow(Kind{Type: TypeEntrada}, time.Date(2026, 10, 15, 9, 0, 0, 0, cdmx)))
		assert.ErrorIs(t, cal.checkWindow(Kind{Type: TypeEntrada}, time.Date(2026, 10, 15, 11, 0, 0, 0, cdmx)),
			attendanceerrors.ErrOutsideSchedule)
		assert.NoError(t, cal.checkWindow(Kind{Type: TypeSalida}, time.Date(2026, 10, 15, 22, 59, 0, 0, cdmx)))
	})

	clock, err := ParseClock("09:10")
	assert.NoError(t, err)
	assert.Equal(t, 9*time.Hour+10*time.Minute, clock)
}

func TestGroupReport(t *testing.T) {
	cal := Calendar{Location: cdmx, LateAfter: 9*time.Hour + 10*time.Minute}
	ana := uuid.New()
	ghost := uuid.New()
	centro := uuid.New()
	gone := uuid.New()

	at := func(d, h, m int) time.Time { return time.Date(2026, 10, d, h, m, 0, 0, cdmx) }
	records := []AttendanceRecord{
		{UserID: ana, LocationID: centro, Type: TypeSalida, RecordedAt: at(15, 18, 30)},
		{UserID: ana, LocationID: centro, Type: TypeEntrada, RecordedAt: at(15, 9, 25)},
		{UserID: ana, LocationID: centro, Type: TypeComida, Subtype: SubtypeInicio, RecordedAt: at(15, 14, 0)},
		{UserID: ana, LocationID: gone, Type: TypeComida, Subtype: SubtypeFin, RecordedAt: at(15, 15, 0)},
		{UserID: ana, LocationID: centro, Type: TypeEntrada, RecordedAt: at(16, 9, 0)},
		{UserID: ghost, LocationID: centro, Type: TypeEntrada, RecordedAt: at(15, 9, 1)},
	}

	rows := groupReport(records, cal,
		map[string]string{ana.String(): "Ana"},
		map[string]string{centro.String(): "Centro"},
	)

	assert.Len(t, rows, 3)

	// newest day first
	assert.Equal(t, "2026-10-16", rows[0].Date)
	assert.Equal(t, PunctualityOnTime, rows[0].Entrada.Punctuality)

	assert.Equal(t, "2026-10-15", rows[1].Date)
	assert.Equal(t, "Ana", rows[1].UserName)
	assert.Equal(t, PunctualityLate, rows[1].Entrada.Punctuality)
	assert.Equal(t, "09:25", rows[1].Entrada.LocalTime)
	assert.Equal(t, "Centro", rows[1].LocationName)
	assert.Equal(t, LocationNotFoundName, rows[1].ComidaFin.LocationName)
	assert.NotNil(t, rows[1].ComidaInicio)
	assert.NotNil(t, rows[1].Salida)

	assert.Equal(t, UserNotFoundName, rows[2].UserName)
	assert.Nil(t, rows[2].Salida)
}

type notes []notify.Notification

func (n *notes) Notify(_ context.Context, note notify.Notification) { *n = append(*n, note) }

func joinedSession(t *testing.T) *Session {
	t.Helper()
	sess := NewSession(uuid.NewString(), Kind{Type: TypeEntrada})
	assert.NoError(t, sess.To(StateLoadingLocations))
	assert.NoError(t, sess.To(StateLocationsReady))
	return sess
}

func TestJoinedCheckIn(t *testing.T) {
	t.Run("record written by the in-flight request is already verified", func(t *testing.T) {
		sent := &notes{}
		svc := &service{deps: Deps{Notifier: sent}}
		sess := joinedSession(t)
		rec := RecordResponse{ID: uuid.NewString(), Type: TypeEntrada}
		loc := LocationSummary{ID: uuid.NewString(), Name: "Centro"}

		resp, err := svc.joinedCheckIn(context.Background(), sess, CheckInResponse{State: StateVerified, Location: &loc, Record: &rec})

		assert.NoError(t, err)
		assert.Equal(t, StateAlreadyVerified, resp.State)
		assert.Equal(t, rec.ID, resp.Record.ID)
		assert.False(t, resp.Retriable)
		if assert.Len(t, *sent, 1) {
			assert.Equal(t, notify.KindInfo, (*sent)[0].Kind)
		}
	})

	t.Run("any other outcome is a submission in progress", func(t *testing.T) {
		for _, inFlight := range []CheckInResponse{
			{State: StateOutOfRange, Retriable: true},
			{State: StatePositionError, Retriable: true},
			{},
		} {
			sent := &notes{}
			svc := &service{deps: Deps{Notifier: sent}}

			resp, err := svc.joinedCheckIn(context.Background(), joinedSession(t), inFlight)

			assert.ErrorIs(t, err, attendanceerrors.ErrSubmissionInProgress)
			assert.True(t, resp.Retriable)
			assert.Nil(t, resp.Record)
			if assert.Len(t, *sent, 1) {
				assert.Equal(t, notify.KindError, (*sent)[0].Kind)
			}
		}
	})
}
