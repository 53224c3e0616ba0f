package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/types"
)

// SubmissionFilter narrows admin listings. Zero values mean "no constraint".
type SubmissionFilter struct {
	Status   string
	PlanTier int
	Search   string
	Limit    int
	Offset   int
}

type SubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, submissions []*types.Submission) ([]*types.Submission, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.Submission, error)
	GetByStripeSessionID(ctx context.Context, tx *gorm.DB, stripeSessionID string) (*types.Submission, error)
	List(ctx context.Context, tx *gorm.DB, filter SubmissionFilter) ([]*types.Submission, int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, status string) error
	UpdateStripeRefs(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, stripeSessionID, stripeCustomerID string) error
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	repoLog := baseLog.With("repo", "SubmissionRepo")
	return &submissionRepo{db: db, log: repoLog}
}

func (sr *submissionRepo) Create(ctx context.Context, tx *gorm.DB, submissions []*types.Submission) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(submissions) == 0 {
		return []*types.Submission{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (sr *submissionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Submission
	if len(submissionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Files").
		Where("id IN ?", submissionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *submissionRepo) GetByStripeSessionID(ctx context.Context, tx *gorm.DB, stripeSessionID string) (*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Submission
	err := transaction.WithContext(ctx).
		Where("stripe_session_id = ?", stripeSessionID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *submissionRepo) List(ctx context.Context, tx *gorm.DB, filter SubmissionFilter) ([]*types.Submission, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Submission{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PlanTier > 0 {
		query = query.Where("plan_tier = ?", filter.PlanTier)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(business_name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var results []*types.Submission
	if err := query.
		Preload("Files").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (sr *submissionRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Where("id = ?", submissionID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (sr *submissionRepo) UpdateStripeRefs(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, stripeSessionID, stripeCustomerID string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	updates := map[string]interface{}{
		"stripe_session_id": stripeSessionID,
	}
	if stripeCustomerID != "" {
		updates["stripe_customer_id"] = stripeCustomerID
	}
	return transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Where("id = ?", submissionID).
		Updates(updates).Error
}
