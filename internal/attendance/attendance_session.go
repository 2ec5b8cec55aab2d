package attendance

import (
	"fmt"

	attendanceerrors "go-colaboradores/internal/attendance/errors"
	"go-colaboradores/internal/geofence"
	"go-colaboradores/internal/location"
)

type State string

const (
	StateIdle                State = "idle"
	StateLoadingLocations    State = "loading_locations"
	StateNoAssignedLocations State = "no_assigned_locations"
	StateLocationsReady      State = "locations_ready"
	StateCheckingTodayRecord State = "checking_today_record"
	StateAlreadyVerified     State = "already_verified"
	StateAcquiringPosition   State = "acquiring_position"
	StatePositionError       State = "position_error"
	StateEvaluating          State = "evaluating"
	StateOutOfRange          State = "out_of_range"
	StateSubmitting          State = "submitting"
	StateVerified            State = "verified"
	StateSubmitError         State = "submit_error"
	StateStoreError          State = "store_error"
)

var transitions = map[State][]State{
	StateIdle:                {StateLoadingLocations},
	StateLoadingLocations:    {StateLocationsReady, StateNoAssignedLocations, StateStoreError},
	StateLocationsReady:      {StateCheckingTodayRecord},
	StateCheckingTodayRecord: {StateAlreadyVerified, StateAcquiringPosition, StateStoreError},
	StateAcquiringPosition:   {StateEvaluating, StatePositionError},
	StatePositionError:       {StateAcquiringPosition},
	StateEvaluating:          {StateOutOfRange, StateSubmitting},
	StateOutOfRange:          {StateAcquiringPosition},
	StateSubmitting:          {StateVerified, StateSubmitError},
	// a retried submit re-acquires the position first
	StateSubmitError: {StateAcquiringPosition},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// Retriable reports whether the attempt can resume from AcquiringPosition.
func (s State) Retriable() bool {
	return s.CanTransition(StateAcquiringPosition)
}

func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Session carries one check-in attempt through the state machine.
type Session struct {
	UserID    string
	Kind      Kind
	Locations []location.Location
	Selected  *location.Location
	Position  *geofence.GeoPoint
	Eval      *geofence.Evaluation
	Record    *AttendanceRecord

	state   State
	history []State
}

func NewSession(userID string, kind Kind) *Session {
	return &Session{UserID: userID, Kind: kind, state: StateIdle, history: []State{StateIdle}}
}

func (s *Session) State() State { return s.state }

func (s *Session) History() []State {
	out := make([]State, len(s.history))
	copy(out, s.history)
	return out
}

// To moves the session to next or fails without changing state.
func (s *Session) To(next State) error {
	if !s.state.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", attendanceerrors.ErrInvalidTransition, s.state, next)
	}
	s.state = next
	s.history = append(s.history, next)
	return nil
}

// SelectLocation picks the location to check in against. With one location
// it is selected automatically; with several the caller has to name one.
func (s *Session) SelectLocation(locationID string) error {
	if locationID == "" {
		if len(s.Locations) == 1 {
			s.Selected = &s.Locations[0]
			return nil
		}
		return attendanceerrors.ErrLocationSelectionRequired.WithDetails(locationChoices(s.Locations))
	}
	for i := range s.Locations {
		if s.Locations[i].ID.String() == locationID {
			s.Selected = &s.Locations[i]
			return nil
		}
	}
	return attendanceerrors.ErrLocationNotAssigned
}

type locationChoice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func locationChoices(locs []location.Location) []locationChoice {
	out := make([]locationChoice, len(locs))
	for i, l := range locs {
		out[i] = locationChoice{ID: l.ID.String(), Name: l.Name}
	}
	return out
}
