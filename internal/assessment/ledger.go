package assessment

import (
	"fmt"
	"strings"
	"time"
)

// Answer is one recorded answer. At most one exists per question; later
// writes replace earlier ones and refresh the timestamp.
type Answer struct {
	QuestionID string    `json:"questionId" yaml:"question_id"`
	Value      Value     `json:"value" yaml:"value"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// ledger holds the current answer per question id. It is owned by a Session
// and only mutated through it.
type ledger struct {
	answers map[string]Answer
}

func newLedger() *ledger {
	return &ledger{answers: make(map[string]Answer)}
}

// record upserts the answer after validating it against the catalog entry.
func (l *ledger) record(q Question, v Value, now time.Time) error {
	if v.IsZero() {
		return fmt.Errorf("%w: question %q: empty value", ErrInvalidAnswer, q.ID)
	}
	switch q.Kind {
	case KindScale:
		if !v.Numeric {
			return fmt.Errorf("%w: question %q expects a number", ErrInvalidAnswer, q.ID)
		}
		if v.Number < float64(q.Min) || v.Number > float64(q.Max) {
			return fmt.Errorf("%w: question %q: %v outside [%d,%d]", ErrInvalidAnswer, q.ID, v.Number, q.Min, q.Max)
		}
	case KindMultipleChoice:
		if v.Numeric {
			return fmt.Errorf("%w: question %q expects an option string", ErrInvalidAnswer, q.ID)
		}
		if !containsString(q.Options, v.Text) {
			return fmt.Errorf("%w: question %q: %q is not an option", ErrInvalidAnswer, q.ID, v.Text)
		}
	case KindYesNo:
		if v.Numeric {
			return fmt.Errorf("%w: question %q expects yes or no", ErrInvalidAnswer, q.ID)
		}
		switch strings.ToLower(strings.TrimSpace(v.Text)) {
		case "yes", "no":
		default:
			return fmt.Errorf("%w: question %q expects yes or no, got %q", ErrInvalidAnswer, q.ID, v.Text)
		}
	case KindText:
		if v.Numeric {
			return fmt.Errorf("%w: question %q expects text", ErrInvalidAnswer, q.ID)
		}
	}
	l.answers[q.ID] = Answer{QuestionID: q.ID, Value: v, Timestamp: now}
	return nil
}

func (l *ledger) get(questionID string) (Answer, bool) {
	a, ok := l.answers[questionID]
	return a, ok
}

func (l *ledger) len() int {
	return len(l.answers)
}

// ordered returns the recorded answers in catalog order, skipping unanswered
// questions.
func (l *ledger) ordered(c *Catalog) []Answer {
	out := make([]Answer, 0, len(l.answers))
	for _, q := range c.All() {
		if a, ok := l.answers[q.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
