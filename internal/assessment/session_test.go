package assessment

import (
	"errors"
	"testing"
	"time"
)

func testFlow(t *testing.T) *Flow {
	t.Helper()
	catalog := mustCatalog(t, []Question{
		{ID: "freq", Kind: KindMultipleChoice, Options: []string{"Daily", "Weekly", "Monthly"}, Weight: 1},
		{ID: "readiness", Kind: KindScale, Min: 1, Max: 10, Weight: 1},
		{ID: "notes", Kind: KindText, Weight: 1},
	})
	return &Flow{
		Name:    "test",
		Catalog: catalog,
		Score:   WeightedScore,
		Recommender: Recommender{
			Bands: DefaultBands(),
		},
	}
}

func completeSession(t *testing.T, f *Flow) *Session {
	t.Helper()
	s := NewSession(f)
	if err := s.SubmitAnswer("freq", StringValue("Weekly")); err != nil {
		t.Fatalf("submit freq: %v", err)
	}
	if err := s.SubmitAnswer("readiness", NumberValue(10)); err != nil {
		t.Fatalf("submit readiness: %v", err)
	}
	if err := s.SubmitAnswer("notes", StringValue("ready to go")); err != nil {
		t.Fatalf("submit notes: %v", err)
	}
	return s
}

func TestSession_StartsAtStepOne(t *testing.T) {
	s := NewSession(testFlow(t))
	if s.Step() != 1 {
		t.Fatalf("expected step 1, got %d", s.Step())
	}
	if s.Completed() {
		t.Fatalf("new session must not be completed")
	}
	q, ok := s.CurrentQuestion()
	if !ok || q.ID != "freq" {
		t.Fatalf("expected first question freq, got %q ok=%v", q.ID, ok)
	}
}

func TestSession_AdvanceRequiresAnswer(t *testing.T) {
	s := NewSession(testFlow(t))
	if err := s.Advance(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if s.Step() != 1 {
		t.Fatalf("rejected advance must not move the step, got %d", s.Step())
	}
}

func TestSession_SubmitAdvancesThroughToResults(t *testing.T) {
	f := testFlow(t)
	s := completeSession(t, f)
	if !s.AtResults() {
		t.Fatalf("expected results state at step %d", s.Step())
	}
	if s.Step() != f.TotalSteps()+1 {
		t.Fatalf("expected step %d, got %d", f.TotalSteps()+1, s.Step())
	}
	if !s.Completed() {
		t.Fatalf("expected completion flag")
	}
}

func TestSession_BogusQuestionIDLeavesStateUnchanged(t *testing.T) {
	s := NewSession(testFlow(t))
	err := s.SubmitAnswer("bogus_id", StringValue("x"))
	if !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	if s.Step() != 1 {
		t.Fatalf("step moved on bogus submit: %d", s.Step())
	}
	if len(s.Answers()) != 0 {
		t.Fatalf("answers recorded on bogus submit: %v", s.Answers())
	}
}

func TestSession_InvalidOptionRejected(t *testing.T) {
	s := NewSession(testFlow(t))
	err := s.SubmitAnswer("freq", StringValue("Hourly"))
	if !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
	if len(s.Answers()) != 0 {
		t.Fatalf("invalid answer was recorded")
	}
}

func TestSession_ScaleOutOfBoundsRejected(t *testing.T) {
	s := NewSession(testFlow(t))
	if err := s.Record("readiness", NumberValue(11)); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer for 11, got %v", err)
	}
	if err := s.Record("readiness", NumberValue(0)); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer for 0, got %v", err)
	}
}

func TestSession_AnswerUpsertReplaces(t *testing.T) {
	s := NewSession(testFlow(t))
	if err := s.Record("freq", StringValue("Daily")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Record("freq", StringValue("Monthly")); err != nil {
		t.Fatalf("re-record: %v", err)
	}
	answers := s.Answers()
	if len(answers) != 1 {
		t.Fatalf("expected 1 answer after upsert, got %d", len(answers))
	}
	if answers[0].Value.Text != "Monthly" {
		t.Fatalf("expected later write to win, got %q", answers[0].Value.Text)
	}
}

func TestSession_RetreatAtStepOneIsNoop(t *testing.T) {
	s := NewSession(testFlow(t))
	s.Retreat()
	if s.Step() != 1 {
		t.Fatalf("retreat at step 1 moved to %d", s.Step())
	}
}

func TestSession_RetreatFromResults(t *testing.T) {
	f := testFlow(t)
	s := completeSession(t, f)
	s.Retreat()
	if s.Step() != f.TotalSteps() {
		t.Fatalf("expected step %d after retreat from results, got %d", f.TotalSteps(), s.Step())
	}
}

func TestSession_JumpNormalizesOutOfRange(t *testing.T) {
	f := testFlow(t)
	s := completeSession(t, f)
	s.JumpTo(0)
	if s.Step() != 1 {
		t.Fatalf("jumpTo(0) should land on step 1, got %d", s.Step())
	}
	s.JumpTo(f.TotalSteps() + 2)
	if s.Step() != 1 {
		t.Fatalf("jumpTo(N+2) should land on step 1, got %d", s.Step())
	}
	s.JumpTo(2)
	if s.Step() != 2 {
		t.Fatalf("in-range jump failed, got %d", s.Step())
	}
}

func TestSession_ResultsBeforeCompletionErrors(t *testing.T) {
	s := NewSession(testFlow(t))
	if _, err := s.Results(); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
}

func TestSession_ResultsIdempotent(t *testing.T) {
	s := completeSession(t, testFlow(t))
	first, err := s.Results()
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	second, err := s.Results()
	if err != nil {
		t.Fatalf("results again: %v", err)
	}
	if first.Score != second.Score {
		t.Fatalf("score changed between calls: %d vs %d", first.Score, second.Score)
	}
	if len(first.Recommendations) != len(second.Recommendations) {
		t.Fatalf("recommendation count changed: %d vs %d", len(first.Recommendations), len(second.Recommendations))
	}
	for i := range first.Recommendations {
		if first.Recommendations[i] != second.Recommendations[i] {
			t.Fatalf("recommendation %d changed: %q vs %q", i, first.Recommendations[i], second.Recommendations[i])
		}
	}
}

func TestSession_ResetRestoresInitialState(t *testing.T) {
	s := completeSession(t, testFlow(t))
	if _, err := s.Results(); err != nil {
		t.Fatalf("results: %v", err)
	}
	s.Reset()
	if s.Step() != 1 {
		t.Fatalf("expected step 1 after reset, got %d", s.Step())
	}
	if s.Completed() {
		t.Fatalf("completion flag survived reset")
	}
	if len(s.Answers()) != 0 {
		t.Fatalf("ledger survived reset: %v", s.Answers())
	}
	if _, err := s.Results(); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("results reachable right after reset: %v", err)
	}
}

func TestSession_StateRoundTrip(t *testing.T) {
	f := testFlow(t)
	s := completeSession(t, f)
	want, err := s.Results()
	if err != nil {
		t.Fatalf("results: %v", err)
	}

	st := s.State()
	if !st.IsCompleted {
		t.Fatalf("snapshot missing completion flag")
	}
	if st.Score == nil || *st.Score != want.Score {
		t.Fatalf("snapshot score mismatch: %v", st.Score)
	}

	restored := Restore(f, st)
	if restored.Step() != s.Step() {
		t.Fatalf("restored step %d, want %d", restored.Step(), s.Step())
	}
	got, err := restored.Results()
	if err != nil {
		t.Fatalf("restored results: %v", err)
	}
	if got.Score != want.Score {
		t.Fatalf("restored score %d, want %d", got.Score, want.Score)
	}
}

func TestSession_RestoreNormalizesStaleState(t *testing.T) {
	f := testFlow(t)
	st := State{
		CurrentStep: 99,
		Answers: []Answer{
			{QuestionID: "gone", Value: StringValue("x"), Timestamp: time.Now()},
			{QuestionID: "freq", Value: StringValue("Daily"), Timestamp: time.Now()},
		},
	}
	s := Restore(f, st)
	if s.Step() != 1 {
		t.Fatalf("out-of-range persisted step should normalize to 1, got %d", s.Step())
	}
	if len(s.Answers()) != 1 {
		t.Fatalf("expected only the catalog-backed answer to survive, got %d", len(s.Answers()))
	}
}

func TestFlow_LeadInStepBearsNoQuestion(t *testing.T) {
	f := testFlow(t)
	f.LeadIn = 1
	s := NewSession(f)
	if _, ok := s.CurrentQuestion(); ok {
		t.Fatalf("intro step should bear no question")
	}
	// Intro gates nothing.
	if err := s.Advance(); err != nil {
		t.Fatalf("advance over intro: %v", err)
	}
	q, ok := s.CurrentQuestion()
	if !ok || q.ID != "freq" {
		t.Fatalf("expected freq at step 2, got %q ok=%v", q.ID, ok)
	}
	if f.TotalSteps() != 4 {
		t.Fatalf("expected 4 total steps with lead-in, got %d", f.TotalSteps())
	}
}
