package assessment

import "testing"

func TestParseFlowConfig_FullDocument(t *testing.T) {
	doc := `
name: mini
lead_in: 1
questions:
  - id: freq
    text: How often?
    type: multiple_choice
    options: [Daily, Weekly]
    category: ops
    weight: 1
  - id: readiness
    text: How ready?
    type: scale
    min: 1
    max: 10
    category: goals
bands:
  - min: 0
    max: 50
    advice: [low]
  - min: 50
    max: 101
    advice: [high]
rules:
  - question: freq
    any_of: [Weekly]
    advice: keep it weekly
`
	cfg, err := ParseFlowConfig([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	flow, err := cfg.Flow()
	if err != nil {
		t.Fatalf("flow: %v", err)
	}
	if flow.Name != "mini" {
		t.Fatalf("name: %q", flow.Name)
	}
	if flow.TotalSteps() != 3 {
		t.Fatalf("expected 2 questions + 1 lead-in = 3 steps, got %d", flow.TotalSteps())
	}
	q, ok := flow.Catalog.ByID("readiness")
	if !ok || q.Weight != 1 {
		t.Fatalf("weight default not applied through yaml: %+v", q)
	}
	recs := flow.Recommender.Recommend(70, answerMap(
		Answer{QuestionID: "freq", Value: StringValue("Weekly")},
	))
	if len(recs) != 2 || recs[0] != "high" || recs[1] != "keep it weekly" {
		t.Fatalf("unexpected recommendations: %v", recs)
	}
}

func TestFlowConfig_EmptySectionsFallBackToDefaults(t *testing.T) {
	cfg, err := ParseFlowConfig([]byte("name: assessment\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	flow, err := cfg.Flow()
	if err != nil {
		t.Fatalf("flow: %v", err)
	}
	if flow.Catalog.Len() != 19 {
		t.Fatalf("expected default catalog, got %d questions", flow.Catalog.Len())
	}
	if len(flow.Recommender.Bands) != 4 {
		t.Fatalf("expected default bands, got %d", len(flow.Recommender.Bands))
	}
}

func TestFlowConfig_RejectsBandGaps(t *testing.T) {
	doc := `
bands:
  - min: 0
    max: 30
    advice: [a]
  - min: 40
    max: 101
    advice: [b]
`
	cfg, err := ParseFlowConfig([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cfg.Flow(); err == nil {
		t.Fatalf("expected gap error")
	}
}

func TestFlowConfig_RejectsUncoveredTop(t *testing.T) {
	doc := `
bands:
  - min: 0
    max: 100
    advice: [a]
`
	cfg, err := ParseFlowConfig([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cfg.Flow(); err == nil {
		t.Fatalf("a band set ending at 100 leaves score 100 unmapped")
	}
}

func TestFlowConfig_RejectsRuleForUnknownQuestion(t *testing.T) {
	doc := `
rules:
  - question: not_there
    any_of: [x]
    advice: y
`
	cfg, err := ParseFlowConfig([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cfg.Flow(); err == nil {
		t.Fatalf("expected unknown question error")
	}
}
