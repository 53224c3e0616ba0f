package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/types"
)

type SubmissionFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, files []*types.SubmissionFile) ([]*types.SubmissionFile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) ([]*types.SubmissionFile, error)
	GetBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.SubmissionFile, error)
	MarkUploaded(ctx context.Context, tx *gorm.DB, fileID uuid.UUID, sizeBytes int64) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) error
}

type submissionFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionFileRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionFileRepo {
	repoLog := baseLog.With("repo", "SubmissionFileRepo")
	return &submissionFileRepo{db: db, log: repoLog}
}

func (sfr *submissionFileRepo) Create(ctx context.Context, tx *gorm.DB, files []*types.SubmissionFile) ([]*types.SubmissionFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sfr.db
	}
	if len(files) == 0 {
		return []*types.SubmissionFile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (sfr *submissionFileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) ([]*types.SubmissionFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sfr.db
	}
	var results []*types.SubmissionFile
	if len(fileIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", fileIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sfr *submissionFileRepo) GetBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.SubmissionFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sfr.db
	}
	var results []*types.SubmissionFile
	if len(submissionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("submission_id IN ?", submissionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sfr *submissionFileRepo) MarkUploaded(ctx context.Context, tx *gorm.DB, fileID uuid.UUID, sizeBytes int64) error {
	transaction := tx
	if transaction == nil {
		transaction = sfr.db
	}
	updates := map[string]interface{}{
		"status": types.SubmissionFileStatusUploaded,
	}
	if sizeBytes > 0 {
		updates["size_bytes"] = sizeBytes
	}
	result := transaction.WithContext(ctx).
		Model(&types.SubmissionFile{}).
		Where("id = ?", fileID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (sfr *submissionFileRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, fileIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sfr.db
	}
	if len(fileIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", fileIDs).
		Delete(&types.SubmissionFile{}).Error
}
