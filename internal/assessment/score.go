package assessment

import "math"

// ScoreFunc maps a catalog and the recorded answers to an integer readiness
// score in [0,100]. The formula is injected per flow so a future reconciled
// variant can replace the default without touching the state machine.
type ScoreFunc func(c *Catalog, get func(questionID string) (Answer, bool)) int

// WeightedScore is the production formula: each answered question contributes
// a raw point value (scale answers count as themselves, multiple-choice as
// the 1-based option index, yes as 1, any text as 1) times its weight, against
// a maximum of the question ceiling times its weight. Unanswered questions
// contribute to neither sum.
func WeightedScore(c *Catalog, get func(questionID string) (Answer, bool)) int {
	var totalScore, maxPossible float64
	for _, q := range c.All() {
		a, ok := get(q.ID)
		if !ok {
			continue
		}
		var raw float64
		switch q.Kind {
		case KindScale:
			raw = a.Value.Number
		case KindMultipleChoice:
			idx := 0
			for i, opt := range q.Options {
				if opt == a.Value.Text {
					idx = i
					break
				}
			}
			raw = float64(idx + 1)
		case KindYesNo:
			if a.Value.Text == "yes" {
				raw = 1
			}
		case KindText:
			raw = 1
		}
		totalScore += raw * q.Weight
		maxPossible += q.Ceiling() * q.Weight
	}
	if maxPossible <= 0 {
		return 0
	}
	return int(math.Round(100 * totalScore / maxPossible))
}
