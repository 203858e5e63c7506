// Package session runs one play-through of one challenge: it owns the
// player state, drives the countdown and reports the result once.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/evaluator"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrNotActive        = errors.New("session is not active")
	ErrAlreadyStarted   = errors.New("session already started")
	ErrAlreadyResolved  = errors.New("session already resolved")
	ErrIncomplete       = errors.New("challenge is not complete")
	ErrClosed           = errors.New("session is closed")
	ErrInvalidTimeLimit = errors.New("challenge time limit must be positive")
)

const (
	TickInterval       = time.Second
	DefaultResultDelay = 2 * time.Second
)

// ResultFunc receives the outcome of a session after the result delay.
type ResultFunc func(models.SessionResult)

type Option func(*Session)

func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithTestID tags results with the test the challenge was played from.
func WithTestID(id string) Option {
	return func(s *Session) { s.testID = id }
}

func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithLogger(l utils.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithResultFunc(f ResultFunc) Option {
	return func(s *Session) { s.onResult = f }
}

func WithResultDelay(d time.Duration) Option {
	return func(s *Session) { s.resultDelay = d }
}

func WithEvaluatorOptions(opts ...evaluator.Option) Option {
	return func(s *Session) { s.evalOpts = append(s.evalOpts, opts...) }
}

// Session is safe for concurrent use. Timer callbacks and caller actions are
// serialized on one mutex, so actions apply strictly in arrival order.
type Session struct {
	mu sync.Mutex

	id          string
	testID      string
	challenge   models.Challenge
	eval        evaluator.Evaluator
	evalOpts    []evaluator.Option
	clock       Clock
	logger      utils.Logger
	onResult    ResultFunc
	resultDelay time.Duration

	status      models.SessionStatus
	state       evaluator.State
	remaining   int
	ticker      Timer
	resultTimer Timer
	result      *models.SessionResult
	reported    bool
	closed      bool
}

// Snapshot is a point-in-time copy of a session for rendering.
type Snapshot struct {
	ID          string                `json:"id"`
	TestID      string                `json:"test_id,omitempty"`
	ChallengeID string                `json:"challenge_id"`
	Type        models.ChallengeType  `json:"type"`
	Status      models.SessionStatus  `json:"status"`
	Remaining   int                   `json:"remaining_seconds"`
	Complete    bool                  `json:"complete"`
	State       evaluator.State       `json:"state"`
	Result      *models.SessionResult `json:"result,omitempty"`
}

// New builds an idle session for ch. The challenge is copied, so later edits
// to the caller's value do not leak into play.
func New(ch models.Challenge, opts ...Option) (*Session, error) {
	s := &Session{
		challenge:   ch.Clone(),
		clock:       RealClock(),
		logger:      utils.NewNopLogger(),
		resultDelay: DefaultResultDelay,
		status:      models.SessionIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}

	ev, err := evaluator.ForChallenge(s.challenge, s.evalOpts...)
	if err != nil {
		return nil, err
	}
	if s.challenge.TimeLimit() <= 0 {
		return nil, fmt.Errorf("%w: challenge %s", ErrInvalidTimeLimit, ch.ID)
	}
	s.eval = ev
	s.logger = s.logger.With("session_id", s.id, "challenge_id", ch.ID, "challenge_type", ch.Type)
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Challenge() models.Challenge { return s.challenge }

// Start presents the challenge: it builds the player state and starts the
// countdown.
func (s *Session) Start() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, ErrClosed
	}
	if s.status != models.SessionIdle {
		return Snapshot{}, ErrAlreadyStarted
	}
	st, err := s.eval.Initialize(s.challenge, evaluator.ModePlay)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to initialize player state: %w", err)
	}

	s.state = st
	s.status = models.SessionActive
	s.remaining = s.challenge.TimeLimit()
	s.ticker = s.clock.AfterFunc(TickInterval, s.tick)
	s.logger.Debug("Session started", "time_limit", s.remaining)
	return s.snapshotLocked(), nil
}

// Apply feeds one player action into the evaluator. Challenges that resolve
// on selection resolve here as soon as the state is complete.
func (s *Session) Apply(action evaluator.Action) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActive(); err != nil {
		return Snapshot{}, err
	}
	next, err := s.eval.Apply(s.challenge, s.state, action)
	if err != nil {
		return Snapshot{}, err
	}
	s.state = next

	if evaluator.AutoResolves(s.eval, s.challenge) && s.eval.IsComplete(s.challenge, s.state) {
		s.resolveLocked(models.ReasonAuto)
	}
	return s.snapshotLocked(), nil
}

// Check resolves the session on the player's request. It is refused while
// the challenge is incomplete.
func (s *Session) Check() (models.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActive(); err != nil {
		return models.SessionResult{}, err
	}
	if !s.eval.IsComplete(s.challenge, s.state) {
		return models.SessionResult{}, ErrIncomplete
	}
	s.resolveLocked(models.ReasonCheck)
	return *s.result, nil
}

// Close tears the session down and cancels every pending timer. No result is
// reported after Close returns. Calling it twice is harmless.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.stopTimers()
	s.logger.Debug("Session closed", "status", s.status)
}

func (s *Session) Status() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Result returns the outcome once the session is resolved.
func (s *Session) Result() (models.SessionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return models.SessionResult{}, false
	}
	return *s.result, true
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) requireActive() error {
	switch {
	case s.closed:
		return ErrClosed
	case s.status.Resolved():
		return ErrAlreadyResolved
	case s.status != models.SessionActive:
		return ErrNotActive
	}
	return nil
}

// tick runs once per second while active. A tick that lost the race against
// a resolution finds the session resolved and does nothing.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.status != models.SessionActive {
		return
	}
	s.remaining--
	if s.remaining > 0 {
		s.ticker = s.clock.AfterFunc(TickInterval, s.tick)
		return
	}
	s.resolveLocked(models.ReasonTimeout)
}

// resolveLocked evaluates the current state and schedules the result report.
// It is a no-op once the session is resolved.
func (s *Session) resolveLocked(reason models.ResolutionReason) {
	if s.status.Resolved() {
		return
	}
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}

	complete := s.eval.IsComplete(s.challenge, s.state)
	status := models.SessionFailure
	if complete && s.eval.Evaluate(s.challenge, s.state) {
		status = models.SessionSuccess
	}
	s.status = status
	s.result = &models.SessionResult{
		SessionID:     s.id,
		TestID:        s.testID,
		ChallengeID:   s.challenge.ID,
		ChallengeType: s.challenge.Type,
		Status:        status,
		Reason:        reason,
		Complete:      complete,
		Remaining:     s.remaining,
		ResolvedAt:    s.clock.Now(),
	}
	s.logger.Info("Session resolved", "status", status, "reason", reason, "remaining", s.remaining)

	s.resultTimer = s.clock.AfterFunc(s.resultDelay, s.report)
}

func (s *Session) report() {
	s.mu.Lock()
	if s.closed || s.reported || s.result == nil {
		s.mu.Unlock()
		return
	}
	s.reported = true
	s.resultTimer = nil
	result := *s.result
	cb := s.onResult
	s.mu.Unlock()

	if cb != nil {
		cb(result)
	}
}

func (s *Session) stopTimers() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.resultTimer != nil {
		s.resultTimer.Stop()
		s.resultTimer = nil
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:          s.id,
		TestID:      s.testID,
		ChallengeID: s.challenge.ID,
		Type:        s.challenge.Type,
		Status:      s.status,
		Remaining:   s.remaining,
		State:       s.state,
	}
	if s.state != nil {
		snap.Complete = s.eval.IsComplete(s.challenge, s.state)
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
