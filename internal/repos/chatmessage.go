package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/types"
)

type ChatMessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, messages []*types.ChatMessage) ([]*types.ChatMessage, error)
	ListByLectureID(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) ([]*types.ChatMessage, error)
	DeleteByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) error
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (cmr *chatMessageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.ChatMessage) ([]*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = cmr.db
	}
	if len(messages) == 0 {
		return []*types.ChatMessage{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (cmr *chatMessageRepo) ListByLectureID(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) ([]*types.ChatMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = cmr.db
	}
	var results []*types.ChatMessage
	if err := transaction.WithContext(ctx).
		Where("lecture_id = ?", lectureID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cmr *chatMessageRepo) DeleteByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cmr.db
	}
	if len(lectureIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("lecture_id IN ?", lectureIDs).
		Delete(&types.ChatMessage{}).Error
}
