package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/lecturelab/lectura-backend/internal/platform/apierr"
	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/realtime"
	"github.com/lecturelab/lectura-backend/internal/study"
)

// AppStateService holds the per-user view state the client polls. It is the
// only writer of study.AppState values; session events arrive through the
// realtime bus and everything else through explicit transitions.
type AppStateService interface {
	Start(ctx context.Context) error
	State(userID uuid.UUID) study.AppState
	BeginProcessing(userID uuid.UUID) (uint64, error)
	CompleteProcessing(userID uuid.UUID, token uint64, lectureID uuid.UUID) bool
	FailProcessing(userID uuid.UUID, token uint64, errMsg string) bool
	Reset(userID uuid.UUID) study.AppState
}

// State lives in process memory only. After a restart every user is back on
// the auth view and must log in again, even if their JWT is still valid.
type appStateService struct {
	log    *logger.Logger
	bus    realtime.Bus
	mu     sync.Mutex
	states map[uuid.UUID]study.AppState
}

func NewAppStateService(log *logger.Logger, bus realtime.Bus) AppStateService {
	return &appStateService{
		log:    log.With("service", "AppStateService"),
		bus:    bus,
		states: make(map[uuid.UUID]study.AppState),
	}
}

func (s *appStateService) Start(ctx context.Context) error {
	return s.bus.StartForwarder(ctx, s.onSessionEvent)
}

func (s *appStateService) onSessionEvent(evt realtime.SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateLocked(evt.UserID)
	switch evt.Kind {
	case realtime.SessionSignedIn:
		s.states[evt.UserID] = state.SignedIn()
	case realtime.SessionSignedOut:
		s.states[evt.UserID] = state.SignOut()
	default:
		s.log.Warn("unknown session event kind", "kind", evt.Kind)
	}
}

func (s *appStateService) stateLocked(userID uuid.UUID) study.AppState {
	if state, ok := s.states[userID]; ok {
		return state
	}
	return study.NewAppState()
}

func (s *appStateService) State(userID uuid.UUID) study.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(userID)
}

// BeginProcessing moves the user from the upload screen into processing and
// hands back the generation token the eventual completion must present.
func (s *appStateService) BeginProcessing(userID uuid.UUID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateLocked(userID)
	next, token, ok := state.SubmitTranscript()
	if !ok {
		return 0, apierr.New(http.StatusConflict, "invalid_view",
			fmt.Errorf("cannot start processing from the %s view", state.View))
	}
	s.states[userID] = next
	return token, nil
}

// CompleteProcessing applies a successful generation. It returns false when
// the token is stale (the user reset or signed out mid-flight), in which case
// the caller must discard the generated results.
func (s *appStateService) CompleteProcessing(userID uuid.UUID, token uint64, lectureID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.stateLocked(userID).GenerationSucceeded(token, lectureID)
	if !ok {
		s.log.Warn("discarding stale generation result", "user_id", userID, "token", token)
		return false
	}
	s.states[userID] = next
	return true
}

func (s *appStateService) FailProcessing(userID uuid.UUID, token uint64, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.stateLocked(userID).GenerationFailed(token, errMsg)
	if !ok {
		s.log.Warn("discarding stale generation failure", "user_id", userID, "token", token)
		return false
	}
	s.states[userID] = next
	return true
}

func (s *appStateService) Reset(userID uuid.UUID) study.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.stateLocked(userID).Reset()
	s.states[userID] = next
	return next
}
