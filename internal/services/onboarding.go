package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/spendsense/spendsense-backend/internal/cache"
	"github.com/spendsense/spendsense-backend/internal/logger"
)

const onboardingNamespace = "onboarding"

// onboardingSteps are the wizard's fixed screens, 1-indexed in step order.
var onboardingSteps = []string{
	"intro",
	"business",
	"contact",
	"operations",
	"value",
	"plan",
	"upload",
	"checkout",
}

// OnboardingState is the durable snapshot of one visitor's wizard progress:
// the current screen plus a flat field map filled in as screens are completed.
type OnboardingState struct {
	CurrentStep int               `json:"currentStep"`
	Data        map[string]string `json:"data"`
}

// OnboardingView is the state plus derived fields the client renders from.
type OnboardingView struct {
	CurrentStep int               `json:"currentStep"`
	TotalSteps  int               `json:"totalSteps"`
	StepName    string            `json:"stepName"`
	Data        map[string]string `json:"data"`
}

type OnboardingService interface {
	Snapshot(ctx context.Context, sessionID string) (*OnboardingView, error)
	SetData(ctx context.Context, sessionID string, fields map[string]string) (*OnboardingView, error)
	Next(ctx context.Context, sessionID string) (*OnboardingView, error)
	Back(ctx context.Context, sessionID string) (*OnboardingView, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*OnboardingView, error)
	Reset(ctx context.Context, sessionID string) (*OnboardingView, error)
	Export(ctx context.Context, sessionID string) (map[string]string, error)
}

type onboardingService struct {
	log   *logger.Logger
	store cache.SessionStore

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	states map[string]*OnboardingState
}

// NewOnboardingService hosts wizard sessions the same way the assessment
// service hosts questionnaire sessions: memory authoritative, written through
// to the store under its own namespace after every mutation.
func NewOnboardingService(log *logger.Logger, store cache.SessionStore) OnboardingService {
	serviceLog := log.With("service", "OnboardingService")
	return &onboardingService{
		log:    serviceLog,
		store:  store,
		locks:  make(map[string]*sync.Mutex),
		states: make(map[string]*OnboardingState),
	}
}

func (s *onboardingService) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

func (s *onboardingService) getState(ctx context.Context, sessionID string) *OnboardingState {
	s.mu.Lock()
	st, ok := s.states[sessionID]
	s.mu.Unlock()
	if ok {
		return st
	}

	st = &OnboardingState{CurrentStep: 1, Data: map[string]string{}}
	payload, lErr := s.store.Load(ctx, onboardingNamespace, sessionID)
	if lErr != nil {
		s.log.Warn("Failed to load persisted onboarding state", "session_id", sessionID, "error", lErr)
	}
	if payload != nil {
		var persisted OnboardingState
		if uErr := json.Unmarshal(payload, &persisted); uErr != nil {
			s.log.Warn("Discarding unreadable onboarding state", "session_id", sessionID, "error", uErr)
		} else {
			st = &persisted
			if st.Data == nil {
				st.Data = map[string]string{}
			}
			if st.CurrentStep < 1 || st.CurrentStep > len(onboardingSteps) {
				st.CurrentStep = 1
			}
		}
	}

	s.mu.Lock()
	if existing, raced := s.states[sessionID]; raced {
		st = existing
	} else {
		s.states[sessionID] = st
	}
	s.mu.Unlock()
	return st
}

func (s *onboardingService) persist(ctx context.Context, sessionID string, st *OnboardingState) error {
	payload, mErr := json.Marshal(st)
	if mErr != nil {
		return fmt.Errorf("Failed to serialize onboarding state: %w", mErr)
	}
	if sErr := s.store.Save(ctx, onboardingNamespace, sessionID, payload); sErr != nil {
		s.log.Warn("Failed to persist onboarding state", "session_id", sessionID, "error", sErr)
		return fmt.Errorf("Failed to persist onboarding state: %w", sErr)
	}
	return nil
}

func (s *onboardingService) view(st *OnboardingState) *OnboardingView {
	data := make(map[string]string, len(st.Data))
	for k, v := range st.Data {
		data[k] = v
	}
	return &OnboardingView{
		CurrentStep: st.CurrentStep,
		TotalSteps:  len(onboardingSteps),
		StepName:    onboardingSteps[st.CurrentStep-1],
		Data:        data,
	}
}

func (s *onboardingService) Snapshot(ctx context.Context, sessionID string) (*OnboardingView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	return s.view(s.getState(ctx, sessionID)), nil
}

// SetData merges the given fields into the session's flat map. Keys with
// blank values clear the field.
func (s *onboardingService) SetData(ctx context.Context, sessionID string, fields map[string]string) (*OnboardingView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	st := s.getState(ctx, sessionID)
	for k, v := range fields {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if strings.TrimSpace(v) == "" {
			delete(st.Data, key)
			continue
		}
		st.Data[key] = v
	}
	if pErr := s.persist(ctx, sessionID, st); pErr != nil {
		return nil, pErr
	}
	return s.view(st), nil
}

func (s *onboardingService) Next(ctx context.Context, sessionID string) (*OnboardingView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	st := s.getState(ctx, sessionID)
	if st.CurrentStep < len(onboardingSteps) {
		st.CurrentStep++
	}
	if pErr := s.persist(ctx, sessionID, st); pErr != nil {
		return nil, pErr
	}
	return s.view(st), nil
}

func (s *onboardingService) Back(ctx context.Context, sessionID string) (*OnboardingView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	st := s.getState(ctx, sessionID)
	if st.CurrentStep > 1 {
		st.CurrentStep--
	}
	if pErr := s.persist(ctx, sessionID, st); pErr != nil {
		return nil, pErr
	}
	return s.view(st), nil
}

// JumpTo navigates to 1-indexed step n; anything out of range normalizes to
// step 1, matching the questionnaire's rule.
func (s *onboardingService) JumpTo(ctx context.Context, sessionID string, step int) (*OnboardingView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	st := s.getState(ctx, sessionID)
	if step < 1 || step > len(onboardingSteps) {
		step = 1
	}
	st.CurrentStep = step
	if pErr := s.persist(ctx, sessionID, st); pErr != nil {
		return nil, pErr
	}
	return s.view(st), nil
}

func (s *onboardingService) Reset(ctx context.Context, sessionID string) (*OnboardingView, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	st := s.getState(ctx, sessionID)
	st.CurrentStep = 1
	st.Data = map[string]string{}
	if pErr := s.persist(ctx, sessionID, st); pErr != nil {
		return nil, pErr
	}
	return s.view(st), nil
}

// Export hands the checkout flow a copy of everything collected so far.
func (s *onboardingService) Export(ctx context.Context, sessionID string) (map[string]string, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	st := s.getState(ctx, sessionID)
	data := make(map[string]string, len(st.Data))
	for k, v := range st.Data {
		data[k] = v
	}
	return data, nil
}
