package assessment

import "fmt"

type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindScale          QuestionKind = "scale"
	KindYesNo          QuestionKind = "yes_no"
	KindText           QuestionKind = "text"
)

// Question is one catalog entry. Min/Max/Step apply to scale questions only;
// Options to multiple-choice only. Weight scales the question's contribution
// to the readiness score.
type Question struct {
	ID       string       `json:"id" yaml:"id"`
	Text     string       `json:"text" yaml:"text"`
	Kind     QuestionKind `json:"type" yaml:"type"`
	Options  []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Min      int          `json:"min,omitempty" yaml:"min,omitempty"`
	Max      int          `json:"max,omitempty" yaml:"max,omitempty"`
	Step     int          `json:"step,omitempty" yaml:"step,omitempty"`
	Category string       `json:"category" yaml:"category"`
	Weight   float64      `json:"weight" yaml:"weight"`
}

// Ceiling is the maximum raw point value the question can contribute before
// weighting: the scale max, the option count, 2 for yes/no and 1 for text.
// The first multiple-choice option still scores 1, so a floor answer is not
// worth 0. Historical scores depend on that quirk.
func (q Question) Ceiling() float64 {
	switch q.Kind {
	case KindScale:
		return float64(q.Max)
	case KindMultipleChoice:
		return float64(len(q.Options))
	case KindYesNo:
		return 2
	default:
		return 1
	}
}

// Catalog is the ordered, immutable question list a flow runs over. It is
// built once at startup and shared read-only between sessions.
type Catalog struct {
	questions []Question
	index     map[string]int
}

func NewCatalog(questions []Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog must not be empty")
	}
	index := make(map[string]int, len(questions))
	out := make([]Question, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question at position %d has an empty id", i)
		}
		if _, dup := index[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		switch q.Kind {
		case KindMultipleChoice:
			if len(q.Options) == 0 {
				return nil, fmt.Errorf("question %q: multiple-choice needs at least one option", q.ID)
			}
		case KindScale:
			if q.Min >= q.Max {
				return nil, fmt.Errorf("question %q: scale needs min < max", q.ID)
			}
			if q.Step == 0 {
				q.Step = 1
			}
		case KindYesNo, KindText:
		default:
			return nil, fmt.Errorf("question %q: unknown kind %q", q.ID, q.Kind)
		}
		if q.Weight == 0 {
			q.Weight = 1
		}
		if q.Weight < 0 {
			return nil, fmt.Errorf("question %q: weight must be positive", q.ID)
		}
		index[q.ID] = i
		out[i] = q
	}
	return &Catalog{questions: out, index: index}, nil
}

// All returns the questions in catalog order. Callers must not mutate the
// returned slice.
func (c *Catalog) All() []Question {
	return c.questions
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

// At returns the question at 0-based position i.
func (c *Catalog) At(i int) (Question, bool) {
	if i < 0 || i >= len(c.questions) {
		return Question{}, false
	}
	return c.questions[i], true
}

func (c *Catalog) ByID(id string) (Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}
