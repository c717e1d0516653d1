package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lecturelab/lectura-backend/internal/repos"
	"github.com/lecturelab/lectura-backend/internal/study"
	"github.com/lecturelab/lectura-backend/internal/types"
)

// gatedGeneration blocks Generate until release is closed, so a test can
// change the user's state while a run is still in flight.
type gatedGeneration struct {
	release chan struct{}
}

func (g *gatedGeneration) Generate(ctx context.Context, lecture *types.Lecture) (*types.StudyArtifacts, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &types.StudyArtifacts{
		Summary:    "A short summary of " + lecture.Title,
		CheatSheet: "Key points",
	}, nil
}

// stubTutor persists the greeting through the real repo so discard paths can
// be checked against actual rows.
type stubTutor struct {
	chatRepo repos.ChatMessageRepo
}

func (st *stubTutor) SeedGreeting(ctx context.Context, lecture *types.Lecture) (*types.ChatMessage, error) {
	greeting := &types.ChatMessage{
		ID:        uuid.New(),
		LectureID: lecture.ID,
		Sender:    types.SenderAssistant,
		Text:      "Hi!",
		CreatedAt: time.Now(),
	}
	if _, err := st.chatRepo.Create(ctx, nil, []*types.ChatMessage{greeting}); err != nil {
		return nil, err
	}
	return greeting, nil
}

func (st *stubTutor) ListMessages(ctx context.Context, lectureID uuid.UUID) ([]*types.ChatMessage, error) {
	return st.chatRepo.ListByLectureID(ctx, nil, lectureID)
}

func (st *stubTutor) SendMessage(ctx context.Context, lecture *types.Lecture, text string) (*types.ChatMessage, *types.ChatMessage, error) {
	return nil, nil, nil
}

type lectureFixture struct {
	service  LectureService
	appState AppStateService
	gen      *gatedGeneration
	lectures repos.LectureRepo
	bundles  repos.StudyBundleRepo
	chats    repos.ChatMessageRepo
}

func newLectureFixture(t *testing.T) (*lectureFixture, uuid.UUID) {
	t.Helper()
	gdb := newTestStore(t)
	log := testLogger(t)

	lectureRepo := repos.NewLectureRepo(gdb, log)
	bundleRepo := repos.NewStudyBundleRepo(gdb, log)
	chatRepo := repos.NewChatMessageRepo(gdb, log)

	appState, bus := newTestAppState(t)
	userID := uuid.New()
	signIn(t, appState, bus, userID)

	gen := &gatedGeneration{release: make(chan struct{})}
	service := NewLectureService(gdb, log, lectureRepo, bundleRepo, chatRepo, gen, &stubTutor{chatRepo: chatRepo}, appState)
	return &lectureFixture{
		service:  service,
		appState: appState,
		gen:      gen,
		lectures: lectureRepo,
		bundles:  bundleRepo,
		chats:    chatRepo,
	}, userID
}

func testResolvedLecture() *ResolvedLecture {
	return &ResolvedLecture{
		Title:      "Thermodynamics II",
		Transcript: strings.Repeat("entropy and enthalpy in closed systems. ", 5),
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestLectureServiceProcessPersistsBundle(t *testing.T) {
	fx, userID := newLectureFixture(t)
	ctx := context.Background()

	lecture, err := fx.service.Process(ctx, userID, testResolvedLecture(), types.ExamUniversityFinal, types.TimeFrameOneWeek)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	close(fx.gen.release)

	waitFor(t, "dashboard state", func() bool {
		state := fx.appState.State(userID)
		return state.LectureID != nil && *state.LectureID == lecture.ID
	})

	got, artifacts, err := fx.service.Current(ctx, userID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.ID != lecture.ID {
		t.Fatalf("current lecture = %s, want %s", got.ID, lecture.ID)
	}
	if artifacts.Summary == "" || artifacts.CheatSheet == "" {
		t.Fatalf("artifacts missing required fields: %+v", artifacts)
	}
	messages, mErr := fx.chats.ListByLectureID(ctx, nil, lecture.ID)
	if mErr != nil || len(messages) == 0 {
		t.Fatalf("expected seeded greeting, got %d messages (err %v)", len(messages), mErr)
	}
}

func TestLectureServiceDiscardsStaleGenerationRows(t *testing.T) {
	fx, userID := newLectureFixture(t)
	ctx := context.Background()

	lecture, err := fx.service.Process(ctx, userID, testResolvedLecture(), types.ExamSchoolTest, types.TimeFrameOneDay)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// The user resets while generation is still running, so the run's token
	// goes stale before it completes.
	fx.appState.Reset(userID)
	close(fx.gen.release)

	waitFor(t, "lecture row discard", func() bool {
		rows, gErr := fx.lectures.GetByIDs(ctx, nil, []uuid.UUID{lecture.ID})
		return gErr == nil && len(rows) == 0
	})

	bundles, bErr := fx.bundles.GetByLectureIDs(ctx, nil, []uuid.UUID{lecture.ID})
	if bErr != nil || len(bundles) != 0 {
		t.Fatalf("expected no surviving bundle, got %d (err %v)", len(bundles), bErr)
	}
	messages, mErr := fx.chats.ListByLectureID(ctx, nil, lecture.ID)
	if mErr != nil || len(messages) != 0 {
		t.Fatalf("expected no surviving chat messages, got %d (err %v)", len(messages), mErr)
	}
	if view := fx.appState.State(userID).View; view != study.ViewUpload {
		t.Fatalf("view = %q after reset", view)
	}
}
