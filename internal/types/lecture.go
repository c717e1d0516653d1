package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExamType and TimeFrame are chosen by the user before processing and passed
// through to the strategy prompt; generation never mutates them.
type ExamType string

const (
	ExamUniversityFinal  ExamType = "university_final"
	ExamCompetitiveMCQ   ExamType = "competitive_mcq"
	ExamSchoolTest       ExamType = "school_test"
	ExamGeneralKnowledge ExamType = "general_knowledge"
)

func ParseExamType(raw string) (ExamType, error) {
	switch ExamType(strings.TrimSpace(strings.ToLower(raw))) {
	case ExamUniversityFinal:
		return ExamUniversityFinal, nil
	case ExamCompetitiveMCQ:
		return ExamCompetitiveMCQ, nil
	case ExamSchoolTest:
		return ExamSchoolTest, nil
	case ExamGeneralKnowledge:
		return ExamGeneralKnowledge, nil
	default:
		return "", fmt.Errorf("unknown exam type %q", raw)
	}
}

func (e ExamType) Label() string {
	switch e {
	case ExamUniversityFinal:
		return "University Final"
	case ExamCompetitiveMCQ:
		return "Competitive/MCQ"
	case ExamSchoolTest:
		return "School Test"
	case ExamGeneralKnowledge:
		return "General Knowledge"
	default:
		return string(e)
	}
}

type TimeFrame string

const (
	TimeFrameOneDay   TimeFrame = "1_day"
	TimeFrameOneWeek  TimeFrame = "1_week"
	TimeFrameOneMonth TimeFrame = "1_month"
)

func ParseTimeFrame(raw string) (TimeFrame, error) {
	switch TimeFrame(strings.TrimSpace(strings.ToLower(raw))) {
	case TimeFrameOneDay:
		return TimeFrameOneDay, nil
	case TimeFrameOneWeek:
		return TimeFrameOneWeek, nil
	case TimeFrameOneMonth:
		return TimeFrameOneMonth, nil
	default:
		return "", fmt.Errorf("unknown time frame %q", raw)
	}
}

func (t TimeFrame) Label() string {
	switch t {
	case TimeFrameOneDay:
		return "1 Day"
	case TimeFrameOneWeek:
		return "1 Week"
	case TimeFrameOneMonth:
		return "1 Month"
	default:
		return string(t)
	}
}

// Lecture is immutable once created; a reset replaces it wholesale.
type Lecture struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"index;not null" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title      string    `gorm:"not null;column:title" json:"title"`
	Transcript string    `gorm:"not null;column:transcript" json:"transcript"`
	VideoID    string    `gorm:"column:video_id" json:"video_id,omitempty"`
	ExamType   ExamType  `gorm:"column:exam_type" json:"exam_type"`
	TimeFrame  TimeFrame `gorm:"column:time_frame" json:"time_frame"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Lecture) TableName() string {
	return "lecture"
}
