package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
	"github.com/lecturelab/lectura-backend/internal/types"
)

type StudyBundleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bundles []*types.StudyBundle) ([]*types.StudyBundle, error)
	GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) ([]*types.StudyBundle, error)
	DeleteByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) error
}

type studyBundleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyBundleRepo(db *gorm.DB, baseLog *logger.Logger) StudyBundleRepo {
	return &studyBundleRepo{db: db, log: baseLog.With("repo", "StudyBundleRepo")}
}

func (sbr *studyBundleRepo) Create(ctx context.Context, tx *gorm.DB, bundles []*types.StudyBundle) ([]*types.StudyBundle, error) {
	transaction := tx
	if transaction == nil {
		transaction = sbr.db
	}
	if len(bundles) == 0 {
		return []*types.StudyBundle{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&bundles).Error; err != nil {
		return nil, err
	}
	return bundles, nil
}

func (sbr *studyBundleRepo) GetByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) ([]*types.StudyBundle, error) {
	transaction := tx
	if transaction == nil {
		transaction = sbr.db
	}
	var results []*types.StudyBundle
	if len(lectureIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("lecture_id IN ?", lectureIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sbr *studyBundleRepo) DeleteByLectureIDs(ctx context.Context, tx *gorm.DB, lectureIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sbr.db
	}
	if len(lectureIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("lecture_id IN ?", lectureIDs).
		Delete(&types.StudyBundle{}).Error
}
