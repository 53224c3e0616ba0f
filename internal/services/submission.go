package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/repos"
	"github.com/spendsense/spendsense-backend/internal/types"
)

var submissionStatuses = map[string]bool{
	types.SubmissionStatusSubmitted: true,
	types.SubmissionStatusPaid:      true,
	types.SubmissionStatusInReview:  true,
	types.SubmissionStatusComplete:  true,
}

// SubmissionPage is one page of the admin listing.
type SubmissionPage struct {
	Submissions []*types.Submission `json:"submissions"`
	Total       int64               `json:"total"`
}

type SubmissionService interface {
	List(ctx context.Context, filter repos.SubmissionFilter) (*SubmissionPage, error)
	GetByID(ctx context.Context, submissionID uuid.UUID) (*types.Submission, error)
	UpdateStatus(ctx context.Context, submissionID uuid.UUID, status string) (*types.Submission, error)
	ExportCSV(ctx context.Context, filter repos.SubmissionFilter) ([]byte, error)
}

type submissionService struct {
	db             *gorm.DB
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
}

func NewSubmissionService(db *gorm.DB, log *logger.Logger, submissionRepo repos.SubmissionRepo) SubmissionService {
	serviceLog := log.With("service", "SubmissionService")
	return &submissionService{
		db:             db,
		log:            serviceLog,
		submissionRepo: submissionRepo,
	}
}

func (ss *submissionService) List(ctx context.Context, filter repos.SubmissionFilter) (*SubmissionPage, error) {
	if filter.Status != "" && !submissionStatuses[filter.Status] {
		return nil, fmt.Errorf("Unknown status %q", filter.Status)
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	submissions, total, lErr := ss.submissionRepo.List(ctx, nil, filter)
	if lErr != nil {
		return nil, fmt.Errorf("Failed to list submissions: %w", lErr)
	}
	return &SubmissionPage{Submissions: submissions, Total: total}, nil
}

func (ss *submissionService) GetByID(ctx context.Context, submissionID uuid.UUID) (*types.Submission, error) {
	submissions, gErr := ss.submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{submissionID})
	if gErr != nil {
		return nil, fmt.Errorf("Failed to load submission: %w", gErr)
	}
	if len(submissions) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return submissions[0], nil
}

func (ss *submissionService) UpdateStatus(ctx context.Context, submissionID uuid.UUID, status string) (*types.Submission, error) {
	if !submissionStatuses[status] {
		return nil, fmt.Errorf("Unknown status %q", status)
	}
	if uErr := ss.submissionRepo.UpdateStatus(ctx, nil, submissionID, status); uErr != nil {
		if uErr == gorm.ErrRecordNotFound {
			return nil, uErr
		}
		return nil, fmt.Errorf("Failed to update submission status: %w", uErr)
	}
	ss.log.Info("Updated submission status", "submission_id", submissionID, "status", status)
	return ss.GetByID(ctx, submissionID)
}

var submissionCSVHeader = []string{
	"id", "created_at", "status", "plan_tier",
	"business_name", "contact_name", "email", "phone",
	"cuisine_type", "locations_count", "monthly_spend", "monthly_sales",
	"food_cost_pct", "inventory_frequency", "systems_used",
	"biggest_challenge", "assessment_score", "file_count",
}

// ExportCSV renders the filtered submissions as a flat CSV for the ops
// spreadsheet workflow. Pagination is ignored; the export is the full
// filtered set.
func (ss *submissionService) ExportCSV(ctx context.Context, filter repos.SubmissionFilter) ([]byte, error) {
	if filter.Status != "" && !submissionStatuses[filter.Status] {
		return nil, fmt.Errorf("Unknown status %q", filter.Status)
	}
	filter.Limit = 0
	filter.Offset = 0
	submissions, _, lErr := ss.submissionRepo.List(ctx, nil, filter)
	if lErr != nil {
		return nil, fmt.Errorf("Failed to list submissions for export: %w", lErr)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if hErr := w.Write(submissionCSVHeader); hErr != nil {
		return nil, fmt.Errorf("Failed to write CSV header: %w", hErr)
	}
	for _, sub := range submissions {
		score := ""
		if sub.AssessmentScore != nil {
			score = strconv.Itoa(*sub.AssessmentScore)
		}
		row := []string{
			sub.ID.String(),
			sub.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			sub.Status,
			strconv.Itoa(sub.PlanTier),
			sub.BusinessName,
			sub.ContactName,
			sub.Email,
			sub.Phone,
			sub.CuisineType,
			sub.LocationsCount,
			sub.MonthlySpend,
			sub.MonthlySales,
			sub.FoodCostPct,
			sub.InventoryFrequency,
			sub.SystemsUsed,
			sub.BiggestChallenge,
			score,
			strconv.Itoa(len(sub.Files)),
		}
		if rErr := w.Write(row); rErr != nil {
			return nil, fmt.Errorf("Failed to write CSV row: %w", rErr)
		}
	}
	w.Flush()
	if fErr := w.Error(); fErr != nil {
		return nil, fmt.Errorf("Failed to flush CSV: %w", fErr)
	}
	return buf.Bytes(), nil
}
