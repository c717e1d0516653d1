package services

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/platform/openai"
	"github.com/lecturelab/lectura-backend/internal/types"
)

// errorPolicy decides what a generator failure does to the whole fan-out.
// Core artifacts propagate and fail processing; auxiliary ones degrade to an
// empty value so one flaky generator cannot sink the bundle.
type errorPolicy int

const (
	policyPropagate errorPolicy = iota
	policyDefaultEmpty
)

// GenerationService runs the full study-artifact fan-out for one lecture.
type GenerationService interface {
	Generate(ctx context.Context, lecture *types.Lecture) (*types.StudyArtifacts, error)
}

type generationService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewGenerationService(log *logger.Logger, ai openai.Client) GenerationService {
	return &generationService{log: log.With("service", "generation"), ai: ai}
}

// Generate launches all seven artifact generators concurrently and joins
// them. Summary and cheat sheet are load-bearing: their failure aborts the
// group and the partial results are discarded. The other generators fall back
// to empty values on failure.
func (s *generationService) Generate(ctx context.Context, lecture *types.Lecture) (*types.StudyArtifacts, error) {
	out := &types.StudyArtifacts{
		Chapters:   []types.Chapter{},
		Formulas:   []types.Formula{},
		Quiz:       []types.QuizQuestion{},
		Flashcards: []types.Flashcard{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := s.generateSummary(gctx, lecture.Transcript)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		out.Summary = text
		return nil
	})
	g.Go(func() error {
		text, err := s.generateCheatSheet(gctx, lecture.Transcript)
		if err != nil {
			return fmt.Errorf("cheat sheet: %w", err)
		}
		out.CheatSheet = text
		return nil
	})
	g.Go(func() error {
		out.Chapters = s.generateChapters(gctx, lecture.Transcript)
		return nil
	})
	g.Go(func() error {
		out.Formulas = s.generateFormulas(gctx, lecture.Transcript)
		return nil
	})
	g.Go(func() error {
		out.Strategy = s.generateStrategy(gctx, lecture)
		return nil
	})
	g.Go(func() error {
		out.Quiz = s.generateQuiz(gctx, lecture.Transcript)
		return nil
	})
	g.Go(func() error {
		out.Flashcards = s.generateFlashcards(gctx, lecture.Transcript)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.log.Info("study artifacts generated",
		"lecture_id", lecture.ID,
		"chapters", len(out.Chapters),
		"formulas", len(out.Formulas),
		"quiz_questions", len(out.Quiz),
		"flashcards", len(out.Flashcards))
	return out, nil
}

func (s *generationService) generateSummary(ctx context.Context, transcript string) (string, error) {
	return s.ai.GenerateText(ctx, summarySystemPrompt(), truncateTranscript(transcript, summaryTranscriptLimit))
}

func (s *generationService) generateCheatSheet(ctx context.Context, transcript string) (string, error) {
	return s.ai.GenerateText(ctx, cheatSheetSystemPrompt(), truncateTranscript(transcript, cheatSheetTranscriptLimit))
}

// structuredList runs a json_schema generation and decodes obj[key] into dst.
// All callers use policyDefaultEmpty, so decoding problems are logged and
// swallowed; dst is left untouched on failure.
func (s *generationService) structuredList(ctx context.Context, name string, policy errorPolicy, system, user, key string, schema map[string]any, dst any) error {
	obj, err := s.ai.GenerateJSON(ctx, system, user, name, schema)
	if err == nil {
		err = decodeField(obj, key, dst)
	}
	if err == nil {
		return nil
	}
	if policy == policyDefaultEmpty {
		s.log.Warn("artifact generator degraded to empty", "artifact", name, "error", err)
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func decodeField(obj map[string]any, key string, dst any) error {
	raw, ok := obj[key]
	if !ok {
		return fmt.Errorf("response missing %q", key)
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}

func (s *generationService) generateChapters(ctx context.Context, transcript string) []types.Chapter {
	var chapters []types.Chapter
	_ = s.structuredList(ctx, "lecture_chapters", policyDefaultEmpty,
		chaptersSystemPrompt(),
		truncateTranscript(transcript, chaptersTranscriptLimit),
		"chapters", chaptersSchema(), &chapters)
	if chapters == nil {
		chapters = []types.Chapter{}
	}
	return chapters
}

func (s *generationService) generateFormulas(ctx context.Context, transcript string) []types.Formula {
	var formulas []types.Formula
	_ = s.structuredList(ctx, "lecture_formulas", policyDefaultEmpty,
		formulasSystemPrompt(),
		truncateTranscript(transcript, formulasTranscriptLimit),
		"formulas", formulasSchema(), &formulas)
	if formulas == nil {
		formulas = []types.Formula{}
	}
	return formulas
}

// generateStrategy degrades to the zero Strategy on any failure; the
// dashboard treats an empty strategy as "not available".
func (s *generationService) generateStrategy(ctx context.Context, lecture *types.Lecture) types.Strategy {
	var strategy types.Strategy
	obj, err := s.ai.GenerateJSON(ctx,
		strategySystemPrompt(lecture.ExamType, lecture.TimeFrame),
		truncateTranscript(lecture.Transcript, strategyTranscriptLimit),
		"exam_strategy", strategySchema())
	if err == nil {
		var buf []byte
		if buf, err = json.Marshal(obj); err == nil {
			err = json.Unmarshal(buf, &strategy)
		}
	}
	if err != nil {
		s.log.Warn("artifact generator degraded to empty", "artifact", "exam_strategy", "error", err)
		return types.Strategy{}
	}
	if strategy.PriorityTopics == nil {
		strategy.PriorityTopics = []string{}
	}
	if strategy.DeprioritizeTopics == nil {
		strategy.DeprioritizeTopics = []string{}
	}
	return strategy
}

// generateQuiz validates the model output hard: every kept question has
// exactly four options and an in-range answer index, and a bundle that does
// not come back with the full question count is discarded entirely rather
// than shipped short.
func (s *generationService) generateQuiz(ctx context.Context, transcript string) []types.QuizQuestion {
	var questions []types.QuizQuestion
	_ = s.structuredList(ctx, "practice_quiz", policyDefaultEmpty,
		quizSystemPrompt(),
		truncateTranscript(transcript, quizTranscriptLimit),
		"questions", quizSchema(), &questions)

	valid := make([]types.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if len(q.Options) != quizOptionCount {
			continue
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= quizOptionCount {
			continue
		}
		if q.Question == "" {
			continue
		}
		q.ID = len(valid) + 1
		valid = append(valid, q)
	}
	if len(valid) != quizQuestionCount {
		if len(questions) > 0 {
			s.log.Warn("quiz discarded", "generated", len(questions), "valid", len(valid), "want", quizQuestionCount)
		}
		return []types.QuizQuestion{}
	}
	return valid
}

func (s *generationService) generateFlashcards(ctx context.Context, transcript string) []types.Flashcard {
	var cards []types.Flashcard
	_ = s.structuredList(ctx, "flashcards", policyDefaultEmpty,
		flashcardsSystemPrompt(),
		truncateTranscript(transcript, flashcardsTranscriptLimit),
		"flashcards", flashcardsSchema(), &cards)

	valid := make([]types.Flashcard, 0, len(cards))
	for _, c := range cards {
		if c.Front == "" || c.Back == "" {
			continue
		}
		c.ID = len(valid) + 1
		valid = append(valid, c)
	}
	return valid
}
