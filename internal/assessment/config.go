package assessment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FlowConfig is the on-disk shape of a flow's content: questions, score
// bands and targeted rules. Everything product-editable lives here so copy
// changes never touch code.
type FlowConfig struct {
	Name      string     `yaml:"name"`
	LeadIn    int        `yaml:"lead_in"`
	Questions []Question `yaml:"questions"`
	Bands     []Band     `yaml:"bands"`
	Rules     []Rule     `yaml:"rules"`
}

func ParseFlowConfig(data []byte) (*FlowConfig, error) {
	var cfg FlowConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flow config: %w", err)
	}
	return &cfg, nil
}

func LoadFlowConfig(path string) (*FlowConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow config %q: %w", path, err)
	}
	return ParseFlowConfig(data)
}

// Flow builds a runnable flow from the config. Sections left empty fall back
// to the shipped defaults, so a config file can override just the copy.
func (cfg *FlowConfig) Flow() (*Flow, error) {
	name := cfg.Name
	if name == "" {
		name = "assessment"
	}
	questions := cfg.Questions
	if len(questions) == 0 {
		questions = DefaultQuestions()
	}
	catalog, err := NewCatalog(questions)
	if err != nil {
		return nil, err
	}
	bands := cfg.Bands
	if len(bands) == 0 {
		bands = DefaultBands()
	}
	if err := validateBands(bands); err != nil {
		return nil, err
	}
	rules := cfg.Rules
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	for _, r := range rules {
		if _, ok := catalog.ByID(r.QuestionID); !ok {
			return nil, fmt.Errorf("rule references unknown question %q", r.QuestionID)
		}
	}
	if cfg.LeadIn < 0 {
		return nil, fmt.Errorf("lead_in must not be negative")
	}
	return &Flow{
		Name:        name,
		Catalog:     catalog,
		LeadIn:      cfg.LeadIn,
		Score:       WeightedScore,
		Recommender: Recommender{Bands: bands, Rules: rules},
	}, nil
}

// Bands must tile [0,101) in ascending order with no gaps or overlaps, so
// every reachable score selects exactly one band.
func validateBands(bands []Band) error {
	if len(bands) == 0 {
		return fmt.Errorf("at least one band required")
	}
	next := 0
	for i, b := range bands {
		if b.Min != next {
			return fmt.Errorf("band %d starts at %d, expected %d", i, b.Min, next)
		}
		if b.Max <= b.Min {
			return fmt.Errorf("band %d is empty (min %d, max %d)", i, b.Min, b.Max)
		}
		if len(b.Advice) == 0 {
			return fmt.Errorf("band %d has no advice", i)
		}
		next = b.Max
	}
	if next < 101 {
		return fmt.Errorf("bands end at %d, scores up to 100 must be covered", next)
	}
	return nil
}
