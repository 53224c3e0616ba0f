package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spendsense/spendsense-backend/internal/assessment"
	"github.com/spendsense/spendsense-backend/internal/cache"
	"github.com/spendsense/spendsense-backend/internal/logger"
)

// AssessmentView is the client-facing snapshot of one visitor's progress
// through the questionnaire.
type AssessmentView struct {
	CurrentStep int                  `json:"currentStep"`
	TotalSteps  int                  `json:"totalSteps"`
	AtResults   bool                 `json:"atResults"`
	IsCompleted bool                 `json:"isCompleted"`
	Question    *assessment.Question `json:"question,omitempty"`
	Answers     []assessment.Answer  `json:"answers"`
}

type AssessmentService interface {
	Snapshot(ctx context.Context, sessionID string) (*AssessmentView, error)
	SubmitAnswer(ctx context.Context, sessionID, questionID string, value assessment.Value) (*AssessmentView, error)
	GoBack(ctx context.Context, sessionID string) (*AssessmentView, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*AssessmentView, error)
	Reset(ctx context.Context, sessionID string) (*AssessmentView, error)
	Results(ctx context.Context, sessionID string) (assessment.Result, error)
	Export(ctx context.Context, sessionID string) (assessment.State, *assessment.Result, error)
}

type assessmentService struct {
	log       *logger.Logger
	flow      *assessment.Flow
	store     cache.SessionStore
	namespace string

	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	sessions map[string]*assessment.Session
}

// NewAssessmentService hosts questionnaire sessions keyed by the visitor's
// session cookie. Sessions live in memory and are written through to the
// store after every mutation; the in-memory copy is authoritative while the
// process runs, the store covers restarts.
func NewAssessmentService(log *logger.Logger, flow *assessment.Flow, store cache.SessionStore) AssessmentService {
	serviceLog := log.With("service", "AssessmentService")
	return &assessmentService{
		log:       serviceLog,
		flow:      flow,
		store:     store,
		namespace: flow.Name,
		locks:     make(map[string]*sync.Mutex),
		sessions:  make(map[string]*assessment.Session),
	}
}

// sessionLock hands out one mutex per session id so different visitors never
// contend while one visitor's requests serialize.
func (s *assessmentService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

func (s *assessmentService) getSession(ctx context.Context, sessionID string) (*assessment.Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	payload, lErr := s.store.Load(ctx, s.namespace, sessionID)
	if lErr != nil {
		s.log.Warn("Failed to load persisted session", "session_id", sessionID, "error", lErr)
	}
	if payload != nil {
		var st assessment.State
		if uErr := json.Unmarshal(payload, &st); uErr != nil {
			s.log.Warn("Discarding unreadable persisted session", "session_id", sessionID, "error", uErr)
			sess = assessment.NewSession(s.flow)
		} else {
			sess = assessment.Restore(s.flow, st)
		}
	} else {
		sess = assessment.NewSession(s.flow)
	}

	s.mu.Lock()
	if existing, raced := s.sessions[sessionID]; raced {
		sess = existing
	} else {
		s.sessions[sessionID] = sess
	}
	s.mu.Unlock()
	return sess, nil
}

func (s *assessmentService) persist(ctx context.Context, sessionID string, sess *assessment.Session) error {
	payload, mErr := json.Marshal(sess.State())
	if mErr != nil {
		return fmt.Errorf("Failed to serialize session: %w", mErr)
	}
	if sErr := s.store.Save(ctx, s.namespace, sessionID, payload); sErr != nil {
		s.log.Warn("Failed to persist session", "session_id", sessionID, "error", sErr)
		return fmt.Errorf("Failed to persist session: %w", sErr)
	}
	return nil
}

func (s *assessmentService) view(sess *assessment.Session) *AssessmentView {
	v := &AssessmentView{
		CurrentStep: sess.Step(),
		TotalSteps:  s.flow.TotalSteps(),
		AtResults:   sess.AtResults(),
		IsCompleted: sess.Completed(),
		Answers:     sess.Answers(),
	}
	if q, ok := sess.CurrentQuestion(); ok {
		question := q
		v.Question = &question
	}
	return v
}

func (s *assessmentService) Snapshot(ctx context.Context, sessionID string) (*AssessmentView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *assessmentService) SubmitAnswer(ctx context.Context, sessionID, questionID string, value assessment.Value) (*AssessmentView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if aErr := sess.SubmitAnswer(questionID, value); aErr != nil {
		return nil, aErr
	}
	if pErr := s.persist(ctx, sessionID, sess); pErr != nil {
		return nil, pErr
	}
	return s.view(sess), nil
}

func (s *assessmentService) GoBack(ctx context.Context, sessionID string) (*AssessmentView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Retreat()
	if pErr := s.persist(ctx, sessionID, sess); pErr != nil {
		return nil, pErr
	}
	return s.view(sess), nil
}

func (s *assessmentService) JumpTo(ctx context.Context, sessionID string, step int) (*AssessmentView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.JumpTo(step)
	if pErr := s.persist(ctx, sessionID, sess); pErr != nil {
		return nil, pErr
	}
	return s.view(sess), nil
}

func (s *assessmentService) Reset(ctx context.Context, sessionID string) (*AssessmentView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	if pErr := s.persist(ctx, sessionID, sess); pErr != nil {
		return nil, pErr
	}
	return s.view(sess), nil
}

func (s *assessmentService) Results(ctx context.Context, sessionID string) (assessment.Result, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return assessment.Result{}, err
	}
	result, rErr := sess.Results()
	if rErr != nil {
		return assessment.Result{}, rErr
	}
	if pErr := s.persist(ctx, sessionID, sess); pErr != nil {
		return assessment.Result{}, pErr
	}
	return result, nil
}

// Export hands the checkout flow a copy of the session state plus the result
// when the visitor finished. The result is nil for an unfinished session.
func (s *assessmentService) Export(ctx context.Context, sessionID string) (assessment.State, *assessment.Result, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	sess, err := s.getSession(ctx, sessionID)
	if err != nil {
		return assessment.State{}, nil, err
	}
	st := sess.State()
	if sess.AtResults() {
		result, rErr := sess.Results()
		if rErr == nil {
			return st, &result, nil
		}
	}
	return st, nil, nil
}
