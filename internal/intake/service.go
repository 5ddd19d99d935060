package intake

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/metrics"
	"loan-advisor/internal/models"
)

// Turn outcomes reported to metrics and callers.
const (
	OutcomeAdvanced   = "advanced"
	OutcomeReprompted = "reprompted"
	OutcomeCompleted  = "completed"
	OutcomeRestarted  = "restarted"
	OutcomeReset      = "reset"
)

// TurnResult is what a caller shows the user after a turn.
type TurnResult struct {
	Session *models.Session
	Reply   string
	Outcome string
}

// Service stores conversation sessions around the pure Machine.
type Service struct {
	machine *Machine
	store   SessionStore
	logger  logger.Logger
	now     func() time.Time
	newID   func() string
	locks   *sessionLocks
}

func NewService(machine *Machine, store SessionStore, log logger.Logger) *Service {
	return &Service{
		machine: machine,
		store:   store,
		logger:  log.WithFields(map[string]interface{}{"component": "intake"}),
		now:     time.Now,
		newID:   uuid.NewString,
		locks:   newSessionLocks(),
	}
}

func (s *Service) Machine() *Machine {
	return s.machine
}

// Start opens a new session. An empty flow uses the machine default.
func (s *Service) Start(ctx context.Context, flow models.Flow) (*TurnResult, error) {
	if flow == "" {
		flow = s.machine.Flow()
	}
	if !flow.IsValid() {
		return nil, apperrors.NewInvalidArgumentError("unknown flow " + string(flow))
	}

	state, greeting := s.machine.StartFlow(flow)
	now := s.now().UTC()
	session := &models.Session{
		ID:        s.newID(),
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	metrics.IntakeSessionsStarted.WithLabelValues(string(flow)).Inc()
	s.logger.Info("session started", map[string]interface{}{
		"sessionId": session.ID,
		"flow":      flow,
	})

	return &TurnResult{Session: session, Reply: greeting, Outcome: OutcomeAdvanced}, nil
}

// Turn feeds one user message into a stored session. Turns on the same
// session are applied one after another; the store's Update guards against
// writers in other processes.
func (s *Service) Turn(ctx context.Context, sessionID, text string) (*TurnResult, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	var (
		prev, next models.ConversationState
		reply      string
	)
	session, err := s.store.Update(ctx, sessionID, func(session *models.Session) error {
		prev = session.State
		next, reply = s.machine.ProcessTurn(prev, text)
		session.State = next
		session.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	outcome := s.classifyOutcome(prev, next)

	metrics.RecordIntakeTurn(string(next.Flow), outcome)
	s.logger.Debug("turn processed", map[string]interface{}{
		"sessionId": sessionID,
		"flow":      next.Flow,
		"fromStep":  prev.Step,
		"toStep":    next.Step,
		"outcome":   outcome,
	})

	return &TurnResult{Session: session, Reply: reply, Outcome: outcome}, nil
}

// Get returns the stored session.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	return s.store.Get(ctx, sessionID)
}

// End drops the session.
func (s *Service) End(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) classifyOutcome(prev, next models.ConversationState) string {
	switch {
	case !s.machine.isKnown(prev):
		return OutcomeReset
	case prev.Step == next.Step:
		return OutcomeReprompted
	case next.Step == models.StepComplete:
		return OutcomeCompleted
	case prev.Step == models.StepComplete:
		return OutcomeRestarted
	default:
		return OutcomeAdvanced
	}
}
