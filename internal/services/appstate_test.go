package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lecturelab/lectura-backend/internal/realtime"
	"github.com/lecturelab/lectura-backend/internal/study"
)

func newTestAppState(t *testing.T) (AppStateService, realtime.Bus) {
	t.Helper()
	t.Setenv("REDIS_ADDR", "")
	bus, err := realtime.NewBus(testLogger(t))
	if err != nil {
		t.Fatalf("realtime.NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	svc := NewAppStateService(testLogger(t), bus)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return svc, bus
}

func signIn(t *testing.T, svc AppStateService, bus realtime.Bus, userID uuid.UUID) {
	t.Helper()
	if err := bus.Publish(context.Background(), realtime.SessionEvent{
		UserID: userID,
		Kind:   realtime.SessionSignedIn,
		At:     time.Now(),
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	waitForView(t, svc, userID, study.ViewUpload)
}

// waitForView polls until the forwarder goroutine has applied the event.
func waitForView(t *testing.T, svc AppStateService, userID uuid.UUID, want study.View) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svc.State(userID).View == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("view = %q, want %q", svc.State(userID).View, want)
}

func TestAppStateServiceProcessingLifecycle(t *testing.T) {
	svc, bus := newTestAppState(t)
	userID := uuid.New()
	signIn(t, svc, bus, userID)

	token, err := svc.BeginProcessing(userID)
	if err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	if svc.State(userID).View != study.ViewProcessing {
		t.Fatalf("view = %q after begin", svc.State(userID).View)
	}

	lectureID := uuid.New()
	if !svc.CompleteProcessing(userID, token, lectureID) {
		t.Fatalf("CompleteProcessing rejected the live token")
	}
	state := svc.State(userID)
	if state.View != study.ViewDashboard || state.LectureID == nil || *state.LectureID != lectureID {
		t.Fatalf("unexpected post-completion state: %+v", state)
	}
}

func TestAppStateServiceRejectsStaleCompletion(t *testing.T) {
	svc, bus := newTestAppState(t)
	userID := uuid.New()
	signIn(t, svc, bus, userID)

	token, err := svc.BeginProcessing(userID)
	if err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	svc.Reset(userID)

	if svc.CompleteProcessing(userID, token, uuid.New()) {
		t.Fatalf("stale completion accepted after reset")
	}
	if svc.FailProcessing(userID, token, "late failure") {
		t.Fatalf("stale failure accepted after reset")
	}
	if svc.State(userID).View != study.ViewUpload {
		t.Fatalf("view = %q after reset", svc.State(userID).View)
	}
}

func TestAppStateServiceBeginRequiresUploadView(t *testing.T) {
	svc, _ := newTestAppState(t)
	userID := uuid.New()

	// Still on the auth view: no transcript may be submitted.
	if _, err := svc.BeginProcessing(userID); err == nil {
		t.Fatalf("BeginProcessing succeeded before sign-in")
	}
}

func TestAppStateServiceSignOutEvent(t *testing.T) {
	svc, bus := newTestAppState(t)
	userID := uuid.New()
	signIn(t, svc, bus, userID)

	if err := bus.Publish(context.Background(), realtime.SessionEvent{
		UserID: userID,
		Kind:   realtime.SessionSignedOut,
		At:     time.Now(),
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	waitForView(t, svc, userID, study.ViewAuth)
}
