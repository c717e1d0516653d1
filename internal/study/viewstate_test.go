package study

import (
	"testing"

	"github.com/google/uuid"
)

func TestAppStateHappyPath(t *testing.T) {
	state := NewAppState()
	if state.View != ViewAuth {
		t.Fatalf("initial view = %q, want %q", state.View, ViewAuth)
	}

	state = state.SignedIn()
	if state.View != ViewUpload {
		t.Fatalf("after sign-in view = %q, want %q", state.View, ViewUpload)
	}

	state, token, ok := state.SubmitTranscript()
	if !ok || state.View != ViewProcessing {
		t.Fatalf("submit: ok=%v view=%q, want true %q", ok, state.View, ViewProcessing)
	}

	lectureID := uuid.New()
	state, ok = state.GenerationSucceeded(token, lectureID)
	if !ok || state.View != ViewDashboard {
		t.Fatalf("success: ok=%v view=%q, want true %q", ok, state.View, ViewDashboard)
	}
	if state.LectureID == nil || *state.LectureID != lectureID {
		t.Fatalf("LectureID not recorded on dashboard transition")
	}
}

func TestAppStateGenerationFailureReturnsToUpload(t *testing.T) {
	state := NewAppState().SignedIn()
	state, token, _ := state.SubmitTranscript()
	state, ok := state.GenerationFailed(token, "model unavailable")
	if !ok || state.View != ViewUpload {
		t.Fatalf("failure: ok=%v view=%q, want true %q", ok, state.View, ViewUpload)
	}
	if state.Err != "model unavailable" {
		t.Fatalf("Err = %q, want the failure message", state.Err)
	}

	// Submitting again clears the prior error.
	state, _, _ = state.SubmitTranscript()
	if state.Err != "" {
		t.Fatalf("Err survived a new submission")
	}
}

func TestAppStateStaleTokenRejected(t *testing.T) {
	state := NewAppState().SignedIn()
	state, oldToken, _ := state.SubmitTranscript()

	// Reset invalidates the in-flight token and returns to upload.
	state = state.Reset()
	if state.View != ViewUpload {
		t.Fatalf("after reset view = %q, want %q", state.View, ViewUpload)
	}
	state, _, _ = state.SubmitTranscript()

	if _, ok := state.GenerationSucceeded(oldToken, uuid.New()); ok {
		t.Fatalf("stale success was accepted")
	}
	if _, ok := state.GenerationFailed(oldToken, "late"); ok {
		t.Fatalf("stale failure was accepted")
	}
}

func TestAppStateInvalidTransitionsAreNoops(t *testing.T) {
	state := NewAppState()

	if _, _, ok := state.SubmitTranscript(); ok {
		t.Fatalf("submit allowed from auth view")
	}
	if next := state.Reset(); next.View != ViewAuth {
		t.Fatalf("reset from auth changed the view to %q", next.View)
	}

	dashboard := NewAppState().SignedIn()
	dashboard, token, _ := dashboard.SubmitTranscript()
	dashboard, _ = dashboard.GenerationSucceeded(token, uuid.New())
	if next := dashboard.SignedIn(); next.View != ViewDashboard {
		t.Fatalf("sign-in from dashboard changed the view to %q", next.View)
	}
	if _, ok := dashboard.GenerationSucceeded(token, uuid.New()); ok {
		t.Fatalf("completion accepted outside the processing view")
	}
}

func TestAppStateSignOutFromAnyView(t *testing.T) {
	state := NewAppState().SignedIn()
	state, token, _ := state.SubmitTranscript()
	signedOut := state.SignOut()
	if signedOut.View != ViewAuth {
		t.Fatalf("after sign-out view = %q, want %q", signedOut.View, ViewAuth)
	}
	if signedOut.LectureID != nil {
		t.Fatalf("LectureID survived sign-out")
	}
	// The old token must be dead after sign-out plus re-sign-in.
	next := signedOut.SignedIn()
	next, _, _ = next.SubmitTranscript()
	if _, ok := next.GenerationSucceeded(token, uuid.New()); ok {
		t.Fatalf("pre-sign-out token accepted after a new session")
	}
}
