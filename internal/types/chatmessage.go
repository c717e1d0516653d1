package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatMessage is one turn in a tutor session. The sequence is append-only
// and ordered by creation time.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LectureID uuid.UUID `gorm:"index;not null" json:"lecture_id"`
	Lecture   *Lecture  `gorm:"constraint:OnDelete:CASCADE;foreignKey:LectureID;references:ID" json:"-"`
	Sender    string    `gorm:"not null;column:sender" json:"sender"`
	Text      string    `gorm:"not null;column:text" json:"text"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_message"
}
