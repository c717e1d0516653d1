package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/lecturelab/lectura-backend/internal/types"
)

func testLecture() *types.Lecture {
	return &types.Lecture{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Title:      "Thermodynamics, Lecture 7",
		Transcript: strings.Repeat("entropy and enthalpy ", 20),
		ExamType:   types.ExamUniversityFinal,
		TimeFrame:  types.TimeFrameOneWeek,
	}
}

func validQuizPayload() map[string]any {
	questions := make([]any, 0, 10)
	for i := 0; i < 10; i++ {
		questions = append(questions, map[string]any{
			"id":                   i + 1,
			"question":             fmt.Sprintf("question %d", i+1),
			"options":              []any{"a", "b", "c", "d"},
			"correct_answer_index": i % 4,
			"explanation":          "because",
		})
	}
	return map[string]any{"questions": questions}
}

func happyJSON(t *testing.T) func(system, user, schemaName string) (map[string]any, error) {
	t.Helper()
	return func(_, _, schemaName string) (map[string]any, error) {
		switch schemaName {
		case "lecture_chapters":
			return map[string]any{"chapters": []any{
				map[string]any{"timestamp": "00:00:00", "title": "Intro", "summary": "Setup."},
				map[string]any{"timestamp": "00:12:30", "title": "Second law", "summary": "Entropy."},
			}}, nil
		case "lecture_formulas":
			return map[string]any{"formulas": []any{
				map[string]any{"expression": "dS >= dQ/T", "description": "Clausius inequality"},
			}}, nil
		case "exam_strategy":
			return map[string]any{
				"priority_topics":     []any{"entropy"},
				"deprioritize_topics": []any{"history of thermodynamics"},
				"advice":              "Work the derivations by hand.",
			}, nil
		case "practice_quiz":
			return validQuizPayload(), nil
		case "flashcards":
			return map[string]any{"flashcards": []any{
				map[string]any{"id": 1, "front": "Entropy", "back": "Measure of disorder"},
				map[string]any{"id": 2, "front": "Enthalpy", "back": "Heat content"},
			}}, nil
		default:
			return nil, fmt.Errorf("unexpected schema %q", schemaName)
		}
	}
}

func TestGenerateProducesFullBundle(t *testing.T) {
	ai := &fakeAI{
		textFn: func(system, _ string) (string, error) {
			if strings.Contains(system, "cheat sheet") {
				return "# Cheat Sheet", nil
			}
			return "A thorough summary.", nil
		},
		jsonFn: happyJSON(t),
	}
	svc := NewGenerationService(testLogger(t), ai)

	artifacts, err := svc.Generate(context.Background(), testLecture())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if artifacts.Summary != "A thorough summary." {
		t.Fatalf("Summary = %q", artifacts.Summary)
	}
	if artifacts.CheatSheet != "# Cheat Sheet" {
		t.Fatalf("CheatSheet = %q", artifacts.CheatSheet)
	}
	if len(artifacts.Chapters) != 2 {
		t.Fatalf("Chapters = %d, want 2", len(artifacts.Chapters))
	}
	if len(artifacts.Quiz) != 10 {
		t.Fatalf("Quiz = %d questions, want 10", len(artifacts.Quiz))
	}
	for i, q := range artifacts.Quiz {
		if q.ID != i+1 {
			t.Fatalf("quiz ids not sequential: got %d at position %d", q.ID, i)
		}
		if len(q.Options) != 4 {
			t.Fatalf("question %d has %d options", q.ID, len(q.Options))
		}
	}
	if len(artifacts.Flashcards) != 2 {
		t.Fatalf("Flashcards = %d, want 2", len(artifacts.Flashcards))
	}
	if artifacts.Strategy.Advice == "" {
		t.Fatalf("Strategy missing advice")
	}
}

func TestGenerateFailsWhenSummaryFails(t *testing.T) {
	ai := &fakeAI{
		textFn: func(system, _ string) (string, error) {
			if strings.Contains(system, "cheat sheet") {
				return "# Cheat Sheet", nil
			}
			return "", fmt.Errorf("model unavailable")
		},
		jsonFn: happyJSON(t),
	}
	svc := NewGenerationService(testLogger(t), ai)

	if _, err := svc.Generate(context.Background(), testLecture()); err == nil {
		t.Fatalf("Generate succeeded despite summary failure")
	}
}

func TestGenerateToleratesAuxiliaryFailures(t *testing.T) {
	ai := &fakeAI{
		textFn: func(_, _ string) (string, error) { return "text artifact", nil },
		jsonFn: func(_, _, schemaName string) (map[string]any, error) {
			return nil, fmt.Errorf("schema %s failed", schemaName)
		},
	}
	svc := NewGenerationService(testLogger(t), ai)

	artifacts, err := svc.Generate(context.Background(), testLecture())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(artifacts.Chapters) != 0 || len(artifacts.Formulas) != 0 ||
		len(artifacts.Quiz) != 0 || len(artifacts.Flashcards) != 0 {
		t.Fatalf("auxiliary artifacts not empty after failures: %+v", artifacts)
	}
	if artifacts.Chapters == nil || artifacts.Quiz == nil {
		t.Fatalf("auxiliary artifacts are nil instead of empty")
	}
}

func TestGenerateDiscardsMalformedQuiz(t *testing.T) {
	payload := validQuizPayload()
	questions := payload["questions"].([]any)
	// One question with a bad option count poisons the batch: 9 valid of 10.
	questions[3] = map[string]any{
		"id":                   4,
		"question":             "broken",
		"options":              []any{"a", "b"},
		"correct_answer_index": 0,
		"explanation":          "",
	}

	ai := &fakeAI{
		textFn: func(_, _ string) (string, error) { return "text artifact", nil },
		jsonFn: func(_, _, schemaName string) (map[string]any, error) {
			if schemaName == "practice_quiz" {
				return payload, nil
			}
			return happyJSON(t)("", "", schemaName)
		},
	}
	svc := NewGenerationService(testLogger(t), ai)

	artifacts, err := svc.Generate(context.Background(), testLecture())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(artifacts.Quiz) != 0 {
		t.Fatalf("short quiz was not discarded: %d questions", len(artifacts.Quiz))
	}
}


func TestGenerateDiscardsOutOfRangeAnswerIndex(t *testing.T) {
	payload := validQuizPayload()
	questions := payload["questions"].([]any)
	questions[0] = map[string]any{
		"id":                   1,
		"question":             "broken",
		"options":              []any{"a", "b", "c", "d"},
		"correct_answer_index": 4,
		"explanation":          "",
	}

	ai := &fakeAI{
		textFn: func(_, _ string) (string, error) { return "text artifact", nil },
		jsonFn: func(_, _, schemaName string) (map[string]any, error) {
			if schemaName == "practice_quiz" {
				return payload, nil
			}
			return happyJSON(t)("", "", schemaName)
		},
	}
	svc := NewGenerationService(testLogger(t), ai)

	artifacts, err := svc.Generate(context.Background(), testLecture())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(artifacts.Quiz) != 0 {
		t.Fatalf("quiz with out-of-range answer index was not discarded")
	}
}
