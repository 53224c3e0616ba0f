package services

import (
	"fmt"

	"github.com/spendsense/spendsense-backend/internal/logger"
)

// Plan is one of the fixed consulting tiers offered at checkout. Prices are
// whole dollars; Stripe gets them in cents.
type Plan struct {
	Tier        int      `json:"tier"`
	Name        string   `json:"name"`
	PriceUSD    int64    `json:"price_usd"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular"`
}

type PlanService interface {
	List() []Plan
	GetByTier(tier int) (Plan, error)
}

type planService struct {
	log   *logger.Logger
	plans []Plan
}

func NewPlanService(log *logger.Logger) PlanService {
	serviceLog := log.With("service", "PlanService")
	return &planService{
		log: serviceLog,
		plans: []Plan{
			{
				Tier:        1,
				Name:        "Purchase Review",
				PriceUSD:    299,
				Description: "A line-by-line review of your recent purchases with savings flagged per item.",
				Features: []string{
					"Invoice and order guide analysis",
					"Top 20 item price benchmarking",
					"Savings report with quick wins",
				},
			},
			{
				Tier:        2,
				Name:        "Vendor Negotiation",
				PriceUSD:    599,
				Description: "Everything in Purchase Review, plus we renegotiate pricing with your vendors on your behalf.",
				Features: []string{
					"Everything in Purchase Review",
					"Prime vendor contract review",
					"Direct vendor renegotiation",
					"Locked-in pricing follow-up",
				},
				Popular: true,
			},
			{
				Tier:        3,
				Name:        "Month-End Inventory Audit",
				PriceUSD:    999,
				Description: "Full cost program: purchasing, negotiation and a month-end inventory and COGS audit.",
				Features: []string{
					"Everything in Vendor Negotiation",
					"On-site or remote inventory count review",
					"COGS and variance reporting",
					"Ongoing monthly check-ins",
				},
			},
		},
	}
}

func (ps *planService) List() []Plan {
	out := make([]Plan, len(ps.plans))
	copy(out, ps.plans)
	return out
}

func (ps *planService) GetByTier(tier int) (Plan, error) {
	for _, p := range ps.plans {
		if p.Tier == tier {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("Unknown plan tier %d", tier)
}
