package assessment

import "time"

// Flow is the injected configuration for one questionnaire: its catalog,
// scoring formula, recommendation tables and any leading non-question steps
// (an intro page occupies step 1 but gates nothing).
type Flow struct {
	Name        string
	Catalog     *Catalog
	LeadIn      int
	Score       ScoreFunc
	Recommender Recommender
}

// TotalSteps is the number of question-bearing plus lead-in steps. The
// results state sits one past it.
func (f *Flow) TotalSteps() int {
	return f.LeadIn + f.Catalog.Len()
}

// QuestionAt returns the question shown at 1-indexed step, if the step bears
// one.
func (f *Flow) QuestionAt(step int) (Question, bool) {
	return f.Catalog.At(step - 1 - f.LeadIn)
}

// Result is the computed outcome of a completed session.
type Result struct {
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations"`
}

// State is the durable snapshot of a session, written after every mutating
// operation and read back on resume.
type State struct {
	CurrentStep     int      `json:"currentStep"`
	Answers         []Answer `json:"answers"`
	Score           *int     `json:"score,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	IsCompleted     bool     `json:"isCompleted"`
}

// Session is the step-sequenced state machine for one visitor working through
// a flow. It is not safe for concurrent use; callers serialize access per
// session key.
type Session struct {
	flow      *Flow
	step      int
	ledger    *ledger
	result    *Result
	completed bool
	now       func() time.Time
}

func NewSession(f *Flow) *Session {
	return &Session{flow: f, step: 1, ledger: newLedger(), now: time.Now}
}

// Restore rebuilds a session from a persisted state. Out-of-range steps and
// answers that no longer fit the catalog are normalized away rather than
// erroring, so a stale snapshot degrades to a partial restart.
func Restore(f *Flow, st State) *Session {
	s := NewSession(f)
	for _, a := range st.Answers {
		q, ok := f.Catalog.ByID(a.QuestionID)
		if !ok {
			continue
		}
		if err := s.ledger.record(q, a.Value, a.Timestamp); err != nil {
			continue
		}
		// record stamps now; keep the persisted timestamp
		s.ledger.answers[a.QuestionID] = a
	}
	s.JumpTo(st.CurrentStep)
	if st.IsCompleted {
		s.completed = true
		if st.Score != nil {
			s.result = &Result{Score: *st.Score, Recommendations: st.Recommendations}
		}
	}
	return s
}

func (s *Session) Flow() *Flow {
	return s.flow
}

// Step is the current 1-indexed step. When the session has advanced past the
// last question it equals TotalSteps()+1, the results state.
func (s *Session) Step() int {
	return s.step
}

func (s *Session) Completed() bool {
	return s.completed
}

func (s *Session) AtResults() bool {
	return s.step > s.flow.TotalSteps()
}

// CurrentQuestion returns the question for the current step; ok is false on
// lead-in steps and at results.
func (s *Session) CurrentQuestion() (Question, bool) {
	return s.flow.QuestionAt(s.step)
}

// Record upserts an answer without navigating. Unknown ids and unfit values
// are rejected and leave the session unchanged. A successful write drops any
// cached result.
func (s *Session) Record(questionID string, v Value) error {
	q, ok := s.flow.Catalog.ByID(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if err := s.ledger.record(q, v, s.now()); err != nil {
		return err
	}
	s.result = nil
	return nil
}

// SubmitAnswer records the answer and then tries to advance. A rejected
// advance (answer was for a different step's question) is not an error; the
// step simply does not move.
func (s *Session) SubmitAnswer(questionID string, v Value) error {
	if err := s.Record(questionID, v); err != nil {
		return err
	}
	_ = s.Advance()
	return nil
}

// Advance moves to the next step, or to results past the last one. It
// requires the current step's question (if any) to be answered.
func (s *Session) Advance() error {
	if s.AtResults() {
		return ErrInvalidTransition
	}
	if q, ok := s.CurrentQuestion(); ok {
		if a, answered := s.ledger.get(q.ID); !answered || a.Value.IsZero() {
			return ErrInvalidTransition
		}
	}
	s.step++
	if s.AtResults() {
		s.completed = true
	}
	return nil
}

// Retreat moves one step back; a no-op at step 1.
func (s *Session) Retreat() {
	if s.step > 1 {
		s.step--
	}
}

// JumpTo navigates directly to 1-indexed step n. Anything outside
// [1, TotalSteps()+1] normalizes to step 1 instead of erroring.
func (s *Session) JumpTo(n int) {
	if n < 1 || n > s.flow.TotalSteps()+1 {
		n = 1
	}
	s.step = n
	if s.AtResults() {
		s.completed = true
	}
}

// Reset returns to the exact initial state: step 1, empty ledger, no result.
// It always succeeds, from any state.
func (s *Session) Reset() {
	s.step = 1
	s.ledger = newLedger()
	s.result = nil
	s.completed = false
}

// Results computes the score and recommendations on first call and returns
// the cached result on subsequent calls until the ledger changes. It is only
// valid in the results state.
func (s *Session) Results() (Result, error) {
	if !s.AtResults() {
		return Result{}, ErrNotCompleted
	}
	if s.result == nil {
		score := s.flow.Score(s.flow.Catalog, s.ledger.get)
		recs := s.flow.Recommender.Recommend(score, s.ledger.get)
		s.result = &Result{Score: score, Recommendations: recs}
	}
	return *s.result, nil
}

func (s *Session) Answer(questionID string) (Answer, bool) {
	return s.ledger.get(questionID)
}

// Answers returns recorded answers in catalog order.
func (s *Session) Answers() []Answer {
	return s.ledger.ordered(s.flow.Catalog)
}

// State snapshots the session for persistence.
func (s *Session) State() State {
	st := State{
		CurrentStep: s.step,
		Answers:     s.Answers(),
		IsCompleted: s.completed,
	}
	if s.result != nil {
		score := s.result.Score
		st.Score = &score
		st.Recommendations = s.result.Recommendations
	}
	return st
}
