package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/spendsense/spendsense-backend/internal/logger"
	"github.com/spendsense/spendsense-backend/internal/repos"
	"github.com/spendsense/spendsense-backend/internal/types"
)

// CheckoutConfig carries the Stripe wiring resolved from env at boot. PriceIDs
// maps plan tier to a Stripe price id; tiers without one fall back to inline
// price data built from the plan catalog.
type CheckoutConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	PriceIDs      map[int]string
}

// CheckoutSession is the handle returned to the client to redirect into
// Stripe-hosted checkout.
type CheckoutSession struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	SessionID    string    `json:"session_id"`
	URL          string    `json:"url"`
}

type CheckoutService interface {
	CreateSession(ctx context.Context, funnelSessionID string, planTier int) (*CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type checkoutService struct {
	db                *gorm.DB
	log               *logger.Logger
	cfg               CheckoutConfig
	planService       PlanService
	assessmentService AssessmentService
	onboardingService OnboardingService
	submissionRepo    repos.SubmissionRepo
}

func NewCheckoutService(
	db *gorm.DB,
	log *logger.Logger,
	cfg CheckoutConfig,
	planService PlanService,
	assessmentService AssessmentService,
	onboardingService OnboardingService,
	submissionRepo repos.SubmissionRepo,
) CheckoutService {
	serviceLog := log.With("service", "CheckoutService")
	stripe.Key = cfg.SecretKey
	return &checkoutService{
		db:                db,
		log:               serviceLog,
		cfg:               cfg,
		planService:       planService,
		assessmentService: assessmentService,
		onboardingService: onboardingService,
		submissionRepo:    submissionRepo,
	}
}

// CreateSession snapshots everything the visitor entered into a Submission
// row, then opens a Stripe Checkout session for the chosen tier. The row is
// written before Stripe is called so a webhook can never race an absent
// submission.
func (cs *checkoutService) CreateSession(ctx context.Context, funnelSessionID string, planTier int) (*CheckoutSession, error) {
	plan, pErr := cs.planService.GetByTier(planTier)
	if pErr != nil {
		return nil, pErr
	}

	data, dErr := cs.onboardingService.Export(ctx, funnelSessionID)
	if dErr != nil {
		return nil, fmt.Errorf("Failed to export onboarding data: %w", dErr)
	}
	assessmentState, assessmentResult, aErr := cs.assessmentService.Export(ctx, funnelSessionID)
	if aErr != nil {
		return nil, fmt.Errorf("Failed to export assessment state: %w", aErr)
	}

	// Assessment answers double as intake fields; onboarding entries win
	// where the visitor filled both.
	field := func(key string) string {
		if v, ok := data[key]; ok && strings.TrimSpace(v) != "" {
			return v
		}
		for _, a := range assessmentState.Answers {
			if a.QuestionID == key {
				return a.Value.String()
			}
		}
		return ""
	}

	submission := &types.Submission{
		ID:                 uuid.New(),
		BusinessName:       field("business_name"),
		Website:            field("website"),
		CuisineType:        field("cuisine_type"),
		LocationsCount:     field("locations_count"),
		ContactName:        field("contact_name"),
		Phone:              field("phone"),
		Email:              strings.ToLower(strings.TrimSpace(field("email"))),
		Address:            field("address"),
		Vendors:            field("vendors"),
		MonthlySpend:       field("monthly_spend"),
		MonthlySales:       field("monthly_sales"),
		FoodCostPct:        field("food_cost_pct"),
		InventoryFrequency: field("inventory_frequency"),
		InventoryMethod:    field("inventory_method"),
		SystemsUsed:        field("systems_used"),
		PrimeVendorPct:     field("prime_vendor_pct"),
		Goals:              field("goals"),
		BiggestChallenge:   field("biggest_challenge"),
		PlanTier:           plan.Tier,
		Status:             types.SubmissionStatusSubmitted,
	}

	if len(assessmentState.Answers) > 0 {
		answersJSON, mErr := json.Marshal(assessmentState.Answers)
		if mErr != nil {
			return nil, fmt.Errorf("Failed to serialize assessment answers: %w", mErr)
		}
		submission.AssessmentAnswers = datatypes.JSON(answersJSON)
	}
	if assessmentResult != nil {
		score := assessmentResult.Score
		submission.AssessmentScore = &score
		recsJSON, mErr := json.Marshal(assessmentResult.Recommendations)
		if mErr != nil {
			return nil, fmt.Errorf("Failed to serialize recommendations: %w", mErr)
		}
		submission.Recommendations = datatypes.JSON(recsJSON)
	}

	if _, cErr := cs.submissionRepo.Create(ctx, nil, []*types.Submission{submission}); cErr != nil {
		return nil, fmt.Errorf("Failed to create submission: %w", cErr)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(cs.cfg.SuccessURL),
		CancelURL:  stripe.String(cs.cfg.CancelURL),
		LineItems:  []*stripe.CheckoutSessionLineItemParams{cs.lineItem(plan)},
	}
	if submission.Email != "" {
		params.CustomerEmail = stripe.String(submission.Email)
	}
	params.AddMetadata("submission_id", submission.ID.String())
	params.AddMetadata("plan_tier", fmt.Sprintf("%d", plan.Tier))

	stripeSession, sErr := checkoutsession.New(params)
	if sErr != nil {
		return nil, fmt.Errorf("Failed to create Stripe checkout session: %w", sErr)
	}

	if uErr := cs.submissionRepo.UpdateStripeRefs(ctx, nil, submission.ID, stripeSession.ID, ""); uErr != nil {
		cs.log.Warn("Failed to store Stripe session id on submission",
			"submission_id", submission.ID, "error", uErr)
	}

	cs.log.Info("Created checkout session",
		"submission_id", submission.ID, "plan_tier", plan.Tier)
	return &CheckoutSession{
		SubmissionID: submission.ID,
		SessionID:    stripeSession.ID,
		URL:          stripeSession.URL,
	}, nil
}

func (cs *checkoutService) lineItem(plan Plan) *stripe.CheckoutSessionLineItemParams {
	if priceID, ok := cs.cfg.PriceIDs[plan.Tier]; ok && priceID != "" {
		return &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(priceID),
			Quantity: stripe.Int64(1),
		}
	}
	return &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String("usd"),
			UnitAmount: stripe.Int64(plan.PriceUSD * 100),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name:        stripe.String(plan.Name),
				Description: stripe.String(plan.Description),
			},
		},
		Quantity: stripe.Int64(1),
	}
}

// HandleWebhook verifies the signature, then advances the referenced
// submission to paid on a completed, paid checkout. Other event types are
// acknowledged and ignored.
func (cs *checkoutService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, vErr := webhook.ConstructEvent(payload, sigHeader, cs.cfg.WebhookSecret)
	if vErr != nil {
		return fmt.Errorf("Webhook signature verification failed: %w", vErr)
	}
	if event.Type != "checkout.session.completed" {
		cs.log.Debug("Ignoring webhook event", "type", event.Type)
		return nil
	}

	var stripeSession stripe.CheckoutSession
	if uErr := json.Unmarshal(event.Data.Raw, &stripeSession); uErr != nil {
		return fmt.Errorf("Failed to parse checkout session from webhook: %w", uErr)
	}
	if stripeSession.PaymentStatus != "paid" {
		cs.log.Info("Checkout completed but not paid",
			"stripe_session", stripeSession.ID, "payment_status", stripeSession.PaymentStatus)
		return nil
	}

	submission, fErr := cs.findSubmission(ctx, &stripeSession)
	if fErr != nil {
		return fErr
	}
	if submission == nil {
		return fmt.Errorf("No submission found for Stripe session %s", stripeSession.ID)
	}

	if sErr := cs.submissionRepo.UpdateStatus(ctx, nil, submission.ID, types.SubmissionStatusPaid); sErr != nil {
		return fmt.Errorf("Failed to mark submission paid: %w", sErr)
	}
	customerID := ""
	if stripeSession.Customer != nil {
		customerID = stripeSession.Customer.ID
	}
	if uErr := cs.submissionRepo.UpdateStripeRefs(ctx, nil, submission.ID, stripeSession.ID, customerID); uErr != nil {
		cs.log.Warn("Failed to store Stripe customer id",
			"submission_id", submission.ID, "error", uErr)
	}

	cs.log.Info("Submission paid", "submission_id", submission.ID)
	return nil
}

func (cs *checkoutService) findSubmission(ctx context.Context, stripeSession *stripe.CheckoutSession) (*types.Submission, error) {
	if idStr, ok := stripeSession.Metadata["submission_id"]; ok {
		if submissionID, pErr := uuid.Parse(idStr); pErr == nil {
			submissions, gErr := cs.submissionRepo.GetByIDs(ctx, nil, []uuid.UUID{submissionID})
			if gErr != nil {
				return nil, fmt.Errorf("Failed to load submission by metadata id: %w", gErr)
			}
			if len(submissions) > 0 {
				return submissions[0], nil
			}
		}
	}
	submission, gErr := cs.submissionRepo.GetByStripeSessionID(ctx, nil, stripeSession.ID)
	if gErr != nil {
		return nil, fmt.Errorf("Failed to load submission by Stripe session id: %w", gErr)
	}
	return submission, nil
}
