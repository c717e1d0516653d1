package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Chapter is one timestamped chapter in narrative order (not necessarily
// chronological-sorted by the source).
type Chapter struct {
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
}

type Formula struct {
	Expression  string `json:"expression"`
	Description string `json:"description"`
}

type Strategy struct {
	PriorityTopics     []string `json:"priority_topics"`
	DeprioritizeTopics []string `json:"deprioritize_topics"`
	Advice             string   `json:"advice"`
}

// QuizQuestion carries exactly 4 options; CorrectAnswerIndex is in [0,4).
type QuizQuestion struct {
	ID                 int      `json:"id"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation"`
}

type Flashcard struct {
	ID    int    `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// StudyArtifacts is the decoded aggregate of everything generated for one
// lecture. List fields may be empty; Summary and CheatSheet are never empty
// in a bundle that was persisted, since their generators fail the fan-out.
type StudyArtifacts struct {
	Summary    string         `json:"summary"`
	Chapters   []Chapter      `json:"chapters"`
	Formulas   []Formula      `json:"formulas"`
	Strategy   Strategy       `json:"strategy"`
	Quiz       []QuizQuestion `json:"quiz"`
	Flashcards []Flashcard    `json:"flashcards"`
	CheatSheet string         `json:"cheat_sheet"`
}

// StudyBundle is the persisted row form of StudyArtifacts, keyed off one
// lecture and written exactly once after the generation fan-out resolves.
type StudyBundle struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LectureID  uuid.UUID      `gorm:"uniqueIndex;not null" json:"lecture_id"`
	Lecture    *Lecture       `gorm:"constraint:OnDelete:CASCADE;foreignKey:LectureID;references:ID" json:"-"`
	Summary    string         `gorm:"column:summary" json:"summary"`
	Chapters   datatypes.JSON `gorm:"column:chapters" json:"chapters"`
	Formulas   datatypes.JSON `gorm:"column:formulas" json:"formulas"`
	Strategy   datatypes.JSON `gorm:"column:strategy" json:"strategy"`
	Quiz       datatypes.JSON `gorm:"column:quiz" json:"quiz"`
	Flashcards datatypes.JSON `gorm:"column:flashcards" json:"flashcards"`
	CheatSheet string         `gorm:"column:cheat_sheet" json:"cheat_sheet"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (StudyBundle) TableName() string {
	return "study_bundle"
}

func NewStudyBundle(lectureID uuid.UUID, a *StudyArtifacts) (*StudyBundle, error) {
	if a == nil {
		return nil, fmt.Errorf("artifacts required")
	}
	chapters, err := json.Marshal(orEmptyChapters(a.Chapters))
	if err != nil {
		return nil, fmt.Errorf("encode chapters: %w", err)
	}
	formulas, err := json.Marshal(orEmptyFormulas(a.Formulas))
	if err != nil {
		return nil, fmt.Errorf("encode formulas: %w", err)
	}
	strategy, err := json.Marshal(a.Strategy)
	if err != nil {
		return nil, fmt.Errorf("encode strategy: %w", err)
	}
	quiz, err := json.Marshal(orEmptyQuiz(a.Quiz))
	if err != nil {
		return nil, fmt.Errorf("encode quiz: %w", err)
	}
	flashcards, err := json.Marshal(orEmptyFlashcards(a.Flashcards))
	if err != nil {
		return nil, fmt.Errorf("encode flashcards: %w", err)
	}
	now := time.Now()
	return &StudyBundle{
		ID:         uuid.New(),
		LectureID:  lectureID,
		Summary:    a.Summary,
		Chapters:   datatypes.JSON(chapters),
		Formulas:   datatypes.JSON(formulas),
		Strategy:   datatypes.JSON(strategy),
		Quiz:       datatypes.JSON(quiz),
		Flashcards: datatypes.JSON(flashcards),
		CheatSheet: a.CheatSheet,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (b *StudyBundle) Artifacts() (*StudyArtifacts, error) {
	if b == nil {
		return nil, fmt.Errorf("bundle is nil")
	}
	out := &StudyArtifacts{
		Summary:    b.Summary,
		CheatSheet: b.CheatSheet,
		Chapters:   []Chapter{},
		Formulas:   []Formula{},
		Quiz:       []QuizQuestion{},
		Flashcards: []Flashcard{},
	}
	if len(b.Chapters) > 0 {
		if err := json.Unmarshal(b.Chapters, &out.Chapters); err != nil {
			return nil, fmt.Errorf("decode chapters: %w", err)
		}
	}
	if len(b.Formulas) > 0 {
		if err := json.Unmarshal(b.Formulas, &out.Formulas); err != nil {
			return nil, fmt.Errorf("decode formulas: %w", err)
		}
	}
	if len(b.Strategy) > 0 {
		if err := json.Unmarshal(b.Strategy, &out.Strategy); err != nil {
			return nil, fmt.Errorf("decode strategy: %w", err)
		}
	}
	if len(b.Quiz) > 0 {
		if err := json.Unmarshal(b.Quiz, &out.Quiz); err != nil {
			return nil, fmt.Errorf("decode quiz: %w", err)
		}
	}
	if len(b.Flashcards) > 0 {
		if err := json.Unmarshal(b.Flashcards, &out.Flashcards); err != nil {
			return nil, fmt.Errorf("decode flashcards: %w", err)
		}
	}
	return out, nil
}

func orEmptyChapters(v []Chapter) []Chapter {
	if v == nil {
		return []Chapter{}
	}
	return v
}

func orEmptyFormulas(v []Formula) []Formula {
	if v == nil {
		return []Formula{}
	}
	return v
}

func orEmptyQuiz(v []QuizQuestion) []QuizQuestion {
	if v == nil {
		return []QuizQuestion{}
	}
	return v
}

func orEmptyFlashcards(v []Flashcard) []Flashcard {
	if v == nil {
		return []Flashcard{}
	}
	return v
}
