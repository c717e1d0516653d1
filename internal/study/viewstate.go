package study

import "github.com/google/uuid"

// View is the active screen. Exactly one view is active at a time.
type View string

const (
	ViewAuth       View = "auth"
	ViewUpload     View = "upload"
	ViewProcessing View = "processing"
	ViewDashboard  View = "dashboard"
)

// AppState is the per-user view state. It is a value type: transitions return
// a new state instead of mutating in place, so the owning controller is the
// single writer.
type AppState struct {
	View View
	// Err annotates the Upload view after a failed generation; it is not a
	// separate state.
	Err string
	// GenerationToken increments per transcript submission. A fan-out issued
	// under an older token must have its result discarded.
	GenerationToken uint64
	LectureID       *uuid.UUID
}

func NewAppState() AppState {
	return AppState{View: ViewAuth}
}

// SignedIn moves Auth -> Upload. Signing in from any other view is a no-op.
func (s AppState) SignedIn() AppState {
	if s.View != ViewAuth {
		return s
	}
	s.View = ViewUpload
	s.Err = ""
	return s
}

// SubmitTranscript moves Upload -> Processing and issues a fresh generation
// token. The returned token identifies the fan-out this submission owns.
func (s AppState) SubmitTranscript() (AppState, uint64, bool) {
	if s.View != ViewUpload {
		return s, 0, false
	}
	s.View = ViewProcessing
	s.Err = ""
	s.GenerationToken++
	s.LectureID = nil
	return s, s.GenerationToken, true
}

// GenerationSucceeded moves Processing -> Dashboard, but only for the fan-out
// holding the current token; stale completions are rejected.
func (s AppState) GenerationSucceeded(token uint64, lectureID uuid.UUID) (AppState, bool) {
	if s.View != ViewProcessing || token != s.GenerationToken {
		return s, false
	}
	s.View = ViewDashboard
	s.Err = ""
	s.LectureID = &lectureID
	return s, true
}

// GenerationFailed moves Processing -> Upload with an error annotation, again
// only for the current token.
func (s AppState) GenerationFailed(token uint64, errMsg string) (AppState, bool) {
	if s.View != ViewProcessing || token != s.GenerationToken {
		return s, false
	}
	s.View = ViewUpload
	s.Err = errMsg
	s.LectureID = nil
	return s, true
}

// Reset discards the current lecture and returns to Upload. It also bumps the
// token so any still-running fan-out lands stale.
func (s AppState) Reset() AppState {
	if s.View == ViewAuth {
		return s
	}
	s.View = ViewUpload
	s.Err = ""
	s.GenerationToken++
	s.LectureID = nil
	return s
}

// SignOut discards everything and returns to Auth from any view.
func (s AppState) SignOut() AppState {
	return AppState{View: ViewAuth, GenerationToken: s.GenerationToken + 1}
}
