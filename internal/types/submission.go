package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission statuses, in funnel order.
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusPaid      = "paid"
	SubmissionStatusInReview  = "in_review"
	SubmissionStatusComplete  = "complete"
)

// Submission is a lead record captured at checkout: the onboarding field set
// plus an optional snapshot of the lead's completed assessment.
type Submission struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	BusinessName   string `gorm:"column:business_name" json:"business_name"`
	Website        string `gorm:"column:website" json:"website"`
	CuisineType    string `gorm:"column:cuisine_type" json:"cuisine_type"`
	LocationsCount string `gorm:"column:locations_count" json:"locations_count"`

	ContactName string `gorm:"column:contact_name" json:"contact_name"`
	Phone       string `gorm:"column:phone" json:"phone"`
	Email       string `gorm:"index;column:email" json:"email"`
	Address     string `gorm:"column:address" json:"address"`

	Vendors            string `gorm:"column:vendors" json:"vendors"`
	MonthlySpend       string `gorm:"column:monthly_spend" json:"monthly_spend"`
	MonthlySales       string `gorm:"column:monthly_sales" json:"monthly_sales"`
	FoodCostPct        string `gorm:"column:food_cost_pct" json:"food_cost_pct"`
	InventoryFrequency string `gorm:"column:inventory_frequency" json:"inventory_frequency"`
	InventoryMethod    string `gorm:"column:inventory_method" json:"inventory_method"`
	SystemsUsed        string `gorm:"column:systems_used" json:"systems_used"`
	PrimeVendorPct     string `gorm:"column:prime_vendor_pct" json:"prime_vendor_pct"`
	Goals              string `gorm:"column:goals" json:"goals"`
	BiggestChallenge   string `gorm:"column:biggest_challenge" json:"biggest_challenge"`

	PlanTier int    `gorm:"not null;column:plan_tier" json:"plan_tier"`
	Status   string `gorm:"not null;default:'submitted';index;column:status" json:"status"`

	StripeSessionID  string `gorm:"column:stripe_session_id" json:"stripe_session_id,omitempty"`
	StripeCustomerID string `gorm:"column:stripe_customer_id" json:"stripe_customer_id,omitempty"`

	AssessmentScore   *int           `gorm:"column:assessment_score" json:"assessment_score,omitempty"`
	AssessmentAnswers datatypes.JSON `gorm:"column:assessment_answers;type:jsonb" json:"assessment_answers,omitempty"`
	Recommendations   datatypes.JSON `gorm:"column:recommendations;type:jsonb" json:"recommendations,omitempty"`

	Files []*SubmissionFile `gorm:"foreignKey:SubmissionID;references:ID" json:"files,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Submission) TableName() string {
	return "submission"
}
