package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/types"
)

type LectureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lectures []*types.Lecture) ([]*types.Lecture, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) ([]*types.Lecture, error)
	GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Lecture, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) error
	DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type lectureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLectureRepo(db *gorm.DB, baseLog *logger.Logger) LectureRepo {
	return &lectureRepo{db: db, log: baseLog.With("repo", "LectureRepo")}
}

func (lr *lectureRepo) Create(ctx context.Context, tx *gorm.DB, lectures []*types.Lecture) ([]*types.Lecture, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(lectures) == 0 {
		return []*types.Lecture{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lectures).Error; err != nil {
		return nil, err
	}
	return lectures, nil
}

func (lr *lectureRepo) GetByIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) ([]*types.Lecture, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.Lecture
	if len(lectureIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", lectureIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *lectureRepo) GetLatestByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Lecture, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.Lecture
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (lr *lectureRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(lectureIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", lectureIDs).
		Delete(&types.Lecture{}).Error
}

func (lr *lectureRepo) DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(userIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.Lecture{}).Error
}
