package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lecturelab/lectura-backend/internal/platform/apierr"
	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/repos"
	"github.com/lecturelab/lectura-backend/internal/types"
	"github.com/lecturelab/lectura-backend/internal/utils"
)

func errNoBundle() error {
	return apierr.New(http.StatusConflict, "no_bundle", fmt.Errorf("no study materials ready"))
}

// LectureService owns the lecture lifecycle: kicking off generation after
// intake, exposing the current lecture's artifacts, and tearing everything
// down on reset.
type LectureService interface {
	Process(ctx context.Context, userID uuid.UUID, resolved *ResolvedLecture, examType types.ExamType, timeFrame types.TimeFrame) (*types.Lecture, error)
	Current(ctx context.Context, userID uuid.UUID) (*types.Lecture, *types.StudyArtifacts, error)
	Reset(ctx context.Context, userID uuid.UUID) error
}

type lectureService struct {
	db                *gorm.DB
	log               *logger.Logger
	lectureRepo       repos.LectureRepo
	bundleRepo        repos.StudyBundleRepo
	chatRepo          repos.ChatMessageRepo
	generation        GenerationService
	tutor             TutorService
	appState          AppStateService
	processingTimeout time.Duration
}

func NewLectureService(
	db *gorm.DB,
	log *logger.Logger,
	lectureRepo repos.LectureRepo,
	bundleRepo repos.StudyBundleRepo,
	chatRepo repos.ChatMessageRepo,
	generation GenerationService,
	tutor TutorService,
	appState AppStateService,
) LectureService {
	serviceLog := log.With("service", "LectureService")
	timeoutSec := utils.GetEnvAsInt("PROCESSING_TIMEOUT_SECONDS", 600, serviceLog)
	return &lectureService{
		db:                db,
		log:               serviceLog,
		lectureRepo:       lectureRepo,
		bundleRepo:        bundleRepo,
		chatRepo:          chatRepo,
		generation:        generation,
		tutor:             tutor,
		appState:          appState,
		processingTimeout: time.Duration(timeoutSec) * time.Second,
	}
}

// Process records the lecture, flips the user into the processing view, and
// runs the generation fan-out in the background. The background run carries
// the generation token it was started with; by the time it finishes the user
// may have reset or signed out, and a stale token means every produced row
// gets discarded.
func (ls *lectureService) Process(ctx context.Context, userID uuid.UUID, resolved *ResolvedLecture, examType types.ExamType, timeFrame types.TimeFrame) (*types.Lecture, error) {
	if resolved == nil || len(resolved.Transcript) < minTranscriptChars {
		return nil, ErrTranscriptTooShort
	}

	token, err := ls.appState.BeginProcessing(userID)
	if err != nil {
		return nil, err
	}

	lecture := &types.Lecture{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      resolved.Title,
		Transcript: resolved.Transcript,
		VideoID:    resolved.VideoID,
		ExamType:   examType,
		TimeFrame:  timeFrame,
	}
	if _, cErr := ls.lectureRepo.Create(ctx, nil, []*types.Lecture{lecture}); cErr != nil {
		ls.appState.FailProcessing(userID, token, "failed to save lecture")
		return nil, fmt.Errorf("failed to save lecture: %w", cErr)
	}

	go ls.runGeneration(userID, token, lecture)
	return lecture, nil
}

// runGeneration executes on a detached context so the HTTP request that
// started it can return immediately.
func (ls *lectureService) runGeneration(userID uuid.UUID, token uint64, lecture *types.Lecture) {
	ctx, cancel := context.WithTimeout(context.Background(), ls.processingTimeout)
	defer cancel()

	artifacts, err := ls.generation.Generate(ctx, lecture)
	if err != nil {
		ls.log.Warn("generation failed", "lecture_id", lecture.ID, "error", err)
		ls.discardLecture(ctx, lecture.ID)
		ls.appState.FailProcessing(userID, token, err.Error())
		return
	}

	bundle, bErr := types.NewStudyBundle(lecture.ID, artifacts)
	if bErr == nil {
		_, bErr = ls.bundleRepo.Create(ctx, nil, []*types.StudyBundle{bundle})
	}
	if bErr != nil {
		ls.log.Warn("failed to persist study bundle", "lecture_id", lecture.ID, "error", bErr)
		ls.discardLecture(ctx, lecture.ID)
		ls.appState.FailProcessing(userID, token, "failed to save study materials")
		return
	}

	if _, gErr := ls.tutor.SeedGreeting(ctx, lecture); gErr != nil {
		ls.log.Warn("failed to seed tutor greeting", "lecture_id", lecture.ID, "error", gErr)
	}

	if !ls.appState.CompleteProcessing(userID, token, lecture.ID) {
		// The user moved on while we were generating; nothing produced for
		// this run may survive.
		ls.discardLecture(ctx, lecture.ID)
		return
	}
	ls.log.Info("lecture processed", "lecture_id", lecture.ID, "user_id", userID)
}

func (ls *lectureService) discardLecture(ctx context.Context, lectureID uuid.UUID) {
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uuid.UUID{lectureID}
		if dErr := ls.chatRepo.DeleteByLectureIDs(ctx, tx, ids); dErr != nil {
			return dErr
		}
		if dErr := ls.bundleRepo.DeleteByLectureIDs(ctx, tx, ids); dErr != nil {
			return dErr
		}
		return ls.lectureRepo.DeleteByIDs(ctx, tx, ids)
	})
	if err != nil {
		ls.log.Warn("failed to discard lecture", "lecture_id", lectureID, "error", err)
	}
}

// Current returns the lecture and decoded artifacts behind the dashboard.
// It requires the user's view state to actually be on the dashboard.
func (ls *lectureService) Current(ctx context.Context, userID uuid.UUID) (*types.Lecture, *types.StudyArtifacts, error) {
	state := ls.appState.State(userID)
	if state.LectureID == nil {
		return nil, nil, errNoBundle()
	}
	lectures, lErr := ls.lectureRepo.GetByIDs(ctx, nil, []uuid.UUID{*state.LectureID})
	if lErr != nil {
		return nil, nil, fmt.Errorf("failed to load lecture: %w", lErr)
	}
	if len(lectures) == 0 || lectures[0].UserID != userID {
		return nil, nil, errNoBundle()
	}
	lecture := lectures[0]
	bundles, bErr := ls.bundleRepo.GetByLectureIDs(ctx, nil, []uuid.UUID{lecture.ID})
	if bErr != nil {
		return nil, nil, fmt.Errorf("failed to load study bundle: %w", bErr)
	}
	if len(bundles) == 0 {
		return nil, nil, errNoBundle()
	}
	artifacts, aErr := bundles[0].Artifacts()
	if aErr != nil {
		return nil, nil, fmt.Errorf("failed to decode study bundle: %w", aErr)
	}
	return lecture, artifacts, nil
}

// Reset clears the user's study data and returns them to the upload screen.
// Bumping the state first invalidates any in-flight generation token.
func (ls *lectureService) Reset(ctx context.Context, userID uuid.UUID) error {
	ls.appState.Reset(userID)
	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userLectures, err := ls.userLectureIDs(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(userLectures) == 0 {
			return nil
		}
		if dErr := ls.chatRepo.DeleteByLectureIDs(ctx, tx, userLectures); dErr != nil {
			return fmt.Errorf("failed to delete chat messages: %w", dErr)
		}
		if dErr := ls.bundleRepo.DeleteByLectureIDs(ctx, tx, userLectures); dErr != nil {
			return fmt.Errorf("failed to delete study bundles: %w", dErr)
		}
		if dErr := ls.lectureRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{userID}); dErr != nil {
			return fmt.Errorf("failed to delete lectures: %w", dErr)
		}
		return nil
	})
}

func (ls *lectureService) userLectureIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	transaction := tx
	if transaction == nil {
		transaction = ls.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Lecture{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list lecture ids: %w", err)
	}
	return ids, nil
}
