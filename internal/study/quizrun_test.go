package study

import (
	"testing"

	"github.com/lecturelab/lectura-backend/internal/types"
)

func makeQuestions(n int) []types.QuizQuestion {
	qs := make([]types.QuizQuestion, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, types.QuizQuestion{
			ID:                 i + 1,
			Question:           "q",
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: i % 4,
		})
	}
	return qs
}

func TestPerformanceBandBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		correct int
		total   int
		want    string
	}{
		{"all correct", 10, 10, BandOutstanding},
		{"exactly 90", 9, 10, BandOutstanding},
		{"just under 90", 899, 1000, BandGreat},
		{"exactly 70", 7, 10, BandGreat},
		{"just under 70", 699, 1000, BandGood},
		{"exactly 50", 5, 10, BandGood},
		{"just under 50", 499, 1000, BandNeedsReview},
		{"zero correct", 0, 10, BandNeedsReview},
		{"empty quiz", 0, 0, BandNeedsReview},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PerformanceBand(tc.correct, tc.total); got != tc.want {
				t.Fatalf("PerformanceBand(%d, %d) = %q, want %q", tc.correct, tc.total, got, tc.want)
			}
		})
	}
}

func TestScoreQuizCountsOnlyMatchingAnswers(t *testing.T) {
	qs := makeQuestions(4)
	answers := map[int]int{
		1: qs[0].CorrectAnswerIndex,
		2: (qs[1].CorrectAnswerIndex + 1) % 4,
		3: qs[2].CorrectAnswerIndex,
		// question 4 unanswered counts as incorrect
	}
	result := ScoreQuiz(qs, answers)
	if result.Correct != 2 {
		t.Fatalf("Correct = %d, want 2", result.Correct)
	}
	if result.Total != 4 {
		t.Fatalf("Total = %d, want 4", result.Total)
	}
	if result.Percent != 50 {
		t.Fatalf("Percent = %v, want 50", result.Percent)
	}
	if result.Band != BandGood {
		t.Fatalf("Band = %q, want %q", result.Band, BandGood)
	}
}

func TestQuizRunSubmitRequiresAllAnswers(t *testing.T) {
	run := NewQuizRun(makeQuestions(10))
	for id := 1; id <= 9; id++ {
		run.Select(id, 0)
	}
	if run.CanSubmit() {
		t.Fatalf("CanSubmit() = true with 9 of 10 answered")
	}
	if _, err := run.Submit(); err == nil {
		t.Fatalf("Submit() succeeded with an unanswered question")
	}
	run.Select(10, 1)
	if !run.CanSubmit() {
		t.Fatalf("CanSubmit() = false with all questions answered")
	}
	if _, err := run.Submit(); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
}

func TestQuizRunSelectValidation(t *testing.T) {
	run := NewQuizRun(makeQuestions(2))

	run.Select(1, -1)
	run.Select(1, 4)
	if _, ok := run.Answer(1); ok {
		t.Fatalf("out-of-range option index was recorded")
	}

	run.Select(99, 0)
	if _, ok := run.Answer(99); ok {
		t.Fatalf("answer recorded for unknown question id")
	}

	run.Select(1, 2)
	if got, ok := run.Answer(1); !ok || got != 2 {
		t.Fatalf("Answer(1) = %d, %v; want 2, true", got, ok)
	}
}

func TestQuizRunSelectIsNoopAfterResults(t *testing.T) {
	run := NewQuizRun(makeQuestions(2))
	run.Select(1, run.questions[0].CorrectAnswerIndex)
	run.Select(2, run.questions[1].CorrectAnswerIndex)
	if _, err := run.Submit(); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	run.Select(1, 3)
	if got, _ := run.Answer(1); got != run.questions[0].CorrectAnswerIndex {
		t.Fatalf("answer changed after results were shown")
	}
	if run.CanSubmit() {
		t.Fatalf("CanSubmit() = true after results were shown")
	}
}

func TestQuizRunRetakeClearsState(t *testing.T) {
	run := NewQuizRun(makeQuestions(2))
	run.Select(1, 0)
	run.Select(2, 1)
	if _, err := run.Submit(); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	run.Retake()
	if run.ResultsShown() {
		t.Fatalf("ResultsShown() = true after Retake()")
	}
	if _, ok := run.Answer(1); ok {
		t.Fatalf("answers survive Retake()")
	}
}
