package study

import (
	"fmt"

	"github.com/lecturelab/lectura-backend/internal/types"
)

// Performance bands. Thresholds are inclusive at the lower bound of each band.
const (
	BandOutstanding = "Outstanding Mastery"
	BandGreat       = "Great Progress"
	BandGood        = "Good Start"
	BandNeedsReview = "Needs Review"
)

// PerformanceBand maps a score fraction to its band. Boundaries are closed at
// exactly 90/70/50 percent.
func PerformanceBand(correct, total int) string {
	if total <= 0 {
		return BandNeedsReview
	}
	pct := float64(correct) / float64(total) * 100
	switch {
	case pct >= 90:
		return BandOutstanding
	case pct >= 70:
		return BandGreat
	case pct >= 50:
		return BandGood
	default:
		return BandNeedsReview
	}
}

type QuizResult struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Band    string  `json:"band"`
}

// ScoreQuiz counts questions whose recorded answer equals the authoritative
// correct index. Questions without a recorded answer count as incorrect.
func ScoreQuiz(questions []types.QuizQuestion, answers map[int]int) QuizResult {
	correct := 0
	for _, q := range questions {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectAnswerIndex {
			correct++
		}
	}
	total := len(questions)
	pct := 0.0
	if total > 0 {
		pct = float64(correct) / float64(total) * 100
	}
	return QuizResult{
		Correct: correct,
		Total:   total,
		Percent: pct,
		Band:    PerformanceBand(correct, total),
	}
}

// QuizRun is the interactive quiz state machine: an answers map plus a
// results flag. Selection is a no-op once results are shown; submission is
// enabled only when every question has a recorded answer.
type QuizRun struct {
	questions    []types.QuizQuestion
	answers      map[int]int
	resultsShown bool
}

func NewQuizRun(questions []types.QuizQuestion) *QuizRun {
	return &QuizRun{
		questions: questions,
		answers:   map[int]int{},
	}
}

func (r *QuizRun) ResultsShown() bool { return r.resultsShown }

func (r *QuizRun) Answer(questionID int) (int, bool) {
	v, ok := r.answers[questionID]
	return v, ok
}

func (r *QuizRun) Select(questionID, optionIndex int) {
	if r.resultsShown {
		return
	}
	if optionIndex < 0 || optionIndex >= 4 {
		return
	}
	for _, q := range r.questions {
		if q.ID == questionID {
			r.answers[questionID] = optionIndex
			return
		}
	}
}

func (r *QuizRun) CanSubmit() bool {
	if r.resultsShown || len(r.questions) == 0 {
		return false
	}
	for _, q := range r.questions {
		if _, ok := r.answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

func (r *QuizRun) Submit() (QuizResult, error) {
	if !r.CanSubmit() {
		return QuizResult{}, fmt.Errorf("quiz incomplete: every question needs an answer")
	}
	r.resultsShown = true
	return ScoreQuiz(r.questions, r.answers), nil
}

// Retake clears both the answer mapping and the results flag.
func (r *QuizRun) Retake() {
	r.answers = map[int]int{}
	r.resultsShown = false
}
