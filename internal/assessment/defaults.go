package assessment

// Default content for the restaurant cost-optimization assessment. The same
// tables ship as config/assessment.yaml; this copy keeps the service working
// with no config file present. Wording is load-bearing: reported scores and
// recommendations are compared against historical submissions.

func DefaultQuestions() []Question {
	return []Question{
		// Business basics
		{ID: "business_name", Text: "What is your restaurant name?", Kind: KindText, Category: "business", Weight: 1},
		{ID: "cuisine_type", Text: "What type of cuisine/concept do you operate?", Kind: KindMultipleChoice,
			Options: []string{"Fast Casual", "Fine Dining", "Casual Dining", "Fast Food", "Cafe/Bakery", "Food Truck", "Other"},
			Category: "business", Weight: 1},
		{ID: "locations_count", Text: "How many locations do you operate?", Kind: KindMultipleChoice,
			Options: []string{"1", "2-3", "4-10", "11-25", "25+"}, Category: "business", Weight: 1},
		{ID: "website", Text: "What is your website? (optional)", Kind: KindText, Category: "business", Weight: 0.5},

		// Contact
		{ID: "contact_name", Text: "What is your name?", Kind: KindText, Category: "contact", Weight: 1},
		{ID: "phone", Text: "What is your phone number?", Kind: KindText, Category: "contact", Weight: 1},
		{ID: "email", Text: "What is your email address?", Kind: KindText, Category: "contact", Weight: 1},
		{ID: "address", Text: "What is your restaurant address?", Kind: KindText, Category: "contact", Weight: 1},

		// Operations snapshot
		{ID: "vendors", Text: "Who are your main food vendors? (list 3-5)", Kind: KindText, Category: "operations", Weight: 1},
		{ID: "monthly_spend", Text: "What is your approximate monthly food spend?", Kind: KindMultipleChoice,
			Options: []string{"Under $5,000", "$5,000-$15,000", "$15,000-$50,000", "$50,000-$100,000", "$100,000+"},
			Category: "operations", Weight: 1},
		{ID: "food_cost_pct", Text: "What is your current food cost percentage?", Kind: KindMultipleChoice,
			Options: []string{"Under 25%", "25-30%", "30-35%", "35-40%", "Over 40%", "Not sure"},
			Category: "operations", Weight: 1},
		{ID: "inventory_frequency", Text: "How often do you do inventory?", Kind: KindMultipleChoice,
			Options: []string{"Daily", "Weekly", "Biweekly", "Monthly", "Inconsistent", "Never"},
			Category: "operations", Weight: 1},
		{ID: "inventory_method", Text: "What inventory method do you use?", Kind: KindMultipleChoice,
			Options: []string{"By area (walk-in, dry storage, etc.)", "By category (proteins, produce, etc.)", "Recipe-level tracking", "Simple counting", "No formal method"},
			Category: "operations", Weight: 1},
		{ID: "systems_used", Text: "What systems do you currently use? (select all that apply)", Kind: KindMultipleChoice,
			Options: []string{"POS System", "Inventory Management", "Accounting Software", "Recipe Management", "None/Manual"},
			Category: "operations", Weight: 1},
		{ID: "prime_vendor_pct", Text: "What percentage of your spend goes to your #1 vendor? (optional)", Kind: KindMultipleChoice,
			Options: []string{"Under 25%", "25-40%", "40-60%", "60-80%", "Over 80%", "Not sure"},
			Category: "operations", Weight: 0.5},
		{ID: "monthly_sales", Text: "What are your approximate monthly sales? (optional)", Kind: KindMultipleChoice,
			Options: []string{"Under $25,000", "$25,000-$75,000", "$75,000-$150,000", "$150,000-$300,000", "$300,000+", "Prefer not to say"},
			Category: "operations", Weight: 0.5},

		// Goals and pain points
		{ID: "goals", Text: "What would make this cost optimization a win for you?", Kind: KindMultipleChoice,
			Options: []string{"Reduce food costs by 15-25%", "Better vendor relationships", "Improved inventory accuracy", "Streamlined operations", "All of the above"},
			Category: "goals", Weight: 1},
		{ID: "biggest_challenge", Text: "What is your biggest challenge with food costs?", Kind: KindMultipleChoice,
			Options: []string{"Waste/spoilage", "Vendor pricing", "Portion control", "Menu costing", "Inventory tracking", "Time management"},
			Category: "goals", Weight: 1},
		{ID: "readiness", Text: "How ready are you to implement changes?", Kind: KindScale,
			Min: 1, Max: 10, Step: 1, Category: "goals", Weight: 1},
	}
}

func DefaultBands() []Band {
	return []Band{
		{Min: 0, Max: 30, Advice: []string{
			"Start with basic inventory tracking and vendor analysis",
			"Consider Tier 1 service for immediate quick wins",
			"Focus on building foundational systems first",
		}},
		{Min: 30, Max: 60, Advice: []string{
			"You have good operational foundation - ready for optimization",
			"Consider Tier 2 service for vendor negotiations and price comparisons",
			"Focus on inventory accuracy and waste reduction",
		}},
		{Min: 60, Max: 80, Advice: []string{
			"Strong operational setup - ready for advanced optimization",
			"Consider Tier 3 service for comprehensive inventory audit",
			"Focus on theoretical vs actual COGS analysis",
		}},
		{Min: 80, Max: 101, Advice: []string{
			"Excellent operational foundation - ready for maximum optimization",
			"Consider Tier 3 service for complete cost optimization",
			"Focus on advanced analytics and continuous improvement",
		}},
	}
}

func DefaultRules() []Rule {
	return []Rule{
		{QuestionID: "food_cost_pct", AnyOf: []string{"35-40%", "Over 40%"},
			Advice: "High food costs detected - prioritize vendor negotiations and portion control"},
		{QuestionID: "inventory_frequency", AnyOf: []string{"Inconsistent", "Never", "Monthly"},
			Advice: "Inventory tracking needs improvement - consider weekly/biweekly counts"},
		{QuestionID: "systems_used", AnyOf: []string{"None/Manual"},
			Advice: "Consider implementing POS and inventory management systems"},
		{QuestionID: "biggest_challenge", AnyOf: []string{"Waste/spoilage"},
			Advice: "Focus on inventory rotation and waste tracking systems"},
		{QuestionID: "biggest_challenge", AnyOf: []string{"Vendor pricing"},
			Advice: "Prioritize vendor negotiations and competitive pricing analysis"},
	}
}

// DefaultFlow is the assessment flow as shipped: no lead-in step, weighted
// scoring, default content tables.
func DefaultFlow() (*Flow, error) {
	catalog, err := NewCatalog(DefaultQuestions())
	if err != nil {
		return nil, err
	}
	return &Flow{
		Name:    "assessment",
		Catalog: catalog,
		Score:   WeightedScore,
		Recommender: Recommender{
			Bands: DefaultBands(),
			Rules: DefaultRules(),
		},
	}, nil
}
