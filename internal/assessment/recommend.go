package assessment

// Band maps a score range [Min,Max) to a fixed set of advice lines. The top
// band's Max is exclusive like the rest, so a catalog covering scores up to
// and including 100 ends with Max 101.
type Band struct {
	Min    int      `json:"min" yaml:"min"`
	Max    int      `json:"max" yaml:"max"`
	Advice []string `json:"advice" yaml:"advice"`
}

// Rule appends one advice line when the answer to QuestionID is any of the
// listed values. Rules are checked in declaration order and every match
// appends; there is no early exit.
type Rule struct {
	QuestionID string   `json:"question" yaml:"question"`
	AnyOf      []string `json:"any_of" yaml:"any_of"`
	Advice     string   `json:"advice" yaml:"advice"`
}

// Recommender turns a score plus specific answers into an ordered list of
// recommendation strings: band advice first, targeted rule advice after.
// Content is data, not code, so the tables are editable via flow config.
type Recommender struct {
	Bands []Band `json:"bands" yaml:"bands"`
	Rules []Rule `json:"rules" yaml:"rules"`
}

func (r Recommender) Recommend(score int, get func(questionID string) (Answer, bool)) []string {
	var out []string
	for _, band := range r.Bands {
		if score >= band.Min && score < band.Max {
			out = append(out, band.Advice...)
			break
		}
	}
	for _, rule := range r.Rules {
		a, ok := get(rule.QuestionID)
		if !ok {
			continue
		}
		if containsString(rule.AnyOf, a.Value.String()) {
			out = append(out, rule.Advice)
		}
	}
	return out
}
