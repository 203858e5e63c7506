package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/cache"
	"github.com/SAP-F-2025/challenge-service/internal/evaluator"
	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/session"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
)

const resultWriteTimeout = 5 * time.Second

// PlayService owns the live play sessions. A session stays addressable until
// its result has been reported or it is closed; after that its result is
// served from the cache.
type PlayService interface {
	StartSession(ctx context.Context, req *models.StartSessionRequest) (session.Snapshot, error)
	ApplyAction(ctx context.Context, sessionID string, action evaluator.Action) (session.Snapshot, error)
	Check(ctx context.Context, sessionID string) (*models.SessionResult, error)
	GetSession(ctx context.Context, sessionID string) (session.Snapshot, error)
	CloseSession(ctx context.Context, sessionID string) error
	GetResult(ctx context.Context, sessionID string) (*models.SessionResult, error)
	GetTestResult(ctx context.Context, testID string) (*models.TestResult, error)
	Shutdown()
}

type PlayOption func(*playService)

func WithPlayClock(c session.Clock) PlayOption {
	return func(s *playService) { s.clock = c }
}

func WithPlayResultDelay(d time.Duration) PlayOption {
	return func(s *playService) { s.resultDelay = d }
}

func WithPlayShuffler(sh evaluator.Shuffler) PlayOption {
	return func(s *playService) { s.evalOpts = append(s.evalOpts, evaluator.WithShuffler(sh)) }
}

type playService struct {
	projects  ProjectService
	results   cache.ResultCache
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	log       *ServiceLogger

	clock       session.Clock
	resultDelay time.Duration
	evalOpts    []evaluator.Option

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func NewPlayService(projects ProjectService, results cache.ResultCache, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, opts ...PlayOption) PlayService {
	s := &playService{
		projects:    projects,
		results:     results,
		publisher:   publisher,
		logger:      logger,
		validator:   validator,
		log:         NewServiceLogger(logger, "play"),
		clock:       session.RealClock(),
		resultDelay: session.DefaultResultDelay,
		sessions:    make(map[string]*session.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ===== SESSION LIFECYCLE =====

func (s *playService) StartSession(ctx context.Context, req *models.StartSessionRequest) (session.Snapshot, error) {
	op := s.log.WithOperation(ctx, "start_session")
	if err := s.validator.ValidateStruct(req); err != nil {
		if errs := validator.ToValidationErrors(err); len(errs) > 0 {
			op.LogResult("", "session", errs)
			return session.Snapshot{}, errs
		}
		return session.Snapshot{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	test, err := s.projects.FindTest(ctx, req.TestID)
	if err != nil {
		op.LogResult(req.TestID, "test", err)
		return session.Snapshot{}, err
	}
	i := test.ChallengeIndex(req.ChallengeID)
	if i < 0 {
		err := fmt.Errorf("%w: %s", ErrChallengeNotFound, req.ChallengeID)
		op.LogResult(req.ChallengeID, "challenge", err)
		return session.Snapshot{}, err
	}
	ch := test.Challenges[i]

	sess, err := session.New(ch,
		session.WithTestID(test.ID),
		session.WithClock(s.clock),
		session.WithResultDelay(s.resultDelay),
		session.WithLogger(utils.NewSlogLogger(s.logger)),
		session.WithEvaluatorOptions(s.evalOpts...),
		session.WithResultFunc(s.onResult),
	)
	if err != nil {
		op.LogResult(ch.ID, "challenge", err)
		return session.Snapshot{}, err
	}

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	snap, err := sess.Start()
	if err != nil {
		s.drop(sess.ID())
		op.LogResult(sess.ID(), "session", err)
		return session.Snapshot{}, err
	}

	s.publish(ctx, events.NewSessionStartedEvent(sess.ID(), test.ID, ch, s.clock.Now()))
	op.LogResult(sess.ID(), "session", nil)
	return snap, nil
}

func (s *playService) ApplyAction(ctx context.Context, sessionID string, action evaluator.Action) (session.Snapshot, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	snap, err := sess.Apply(action)
	if err != nil {
		s.logger.Debug("Action rejected", "session_id", sessionID, "action", action.ActionType(), "error", err)
		return session.Snapshot{}, err
	}
	return snap, nil
}

func (s *playService) Check(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	op := s.log.WithOperation(ctx, "check_session")
	sess, err := s.get(sessionID)
	if err != nil {
		op.LogResult(sessionID, "session", err)
		return nil, err
	}
	result, err := sess.Check()
	op.LogResult(sessionID, "session", err)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *playService) GetSession(ctx context.Context, sessionID string) (session.Snapshot, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// CloseSession tears a live session down. Closing an unresolved session
// abandons it: no result is reported.
func (s *playService) CloseSession(ctx context.Context, sessionID string) error {
	op := s.log.WithOperation(ctx, "close_session")
	sess, err := s.get(sessionID)
	if err != nil {
		op.LogResult(sessionID, "session", err)
		return err
	}
	sess.Close()
	s.drop(sessionID)

	if status := sess.Status(); !status.Resolved() {
		s.publish(ctx, events.NewSessionAbandonedEvent(sessionID, sess.Challenge().ID, status))
	} else if result, ok := sess.Result(); ok {
		// resolved but closed before the report fired
		s.store(ctx, result)
	}
	op.LogResult(sessionID, "session", nil)
	return nil
}

// Shutdown closes every live session.
func (s *playService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session.Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
	s.logger.Info("Play sessions closed", "count", len(sessions))
}

// ===== RESULTS =====

func (s *playService) GetResult(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	if sess, err := s.get(sessionID); err == nil {
		if result, ok := sess.Result(); ok {
			return &result, nil
		}
		return nil, ErrResultNotReady
	}

	result, err := s.results.Get(ctx, sessionID)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}
	return result, nil
}

// GetTestResult scores a test from the cached results of its sessions. Each
// challenge counts once, with its most recent result.
func (s *playService) GetTestResult(ctx context.Context, testID string) (*models.TestResult, error) {
	test, err := s.projects.FindTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	results, err := s.results.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return Score(test, results), nil
}

// Score aggregates session results against the challenges of test. Results
// for challenges no longer in the test are ignored.
func Score(test *models.Test, results []models.SessionResult) *models.TestResult {
	latest := make(map[string]models.SessionResult, len(test.Challenges))
	for _, r := range results {
		if test.ChallengeIndex(r.ChallengeID) < 0 {
			continue
		}
		if prev, ok := latest[r.ChallengeID]; !ok || r.ResolvedAt.After(prev.ResolvedAt) {
			latest[r.ChallengeID] = r
		}
	}

	out := &models.TestResult{
		TestID:  test.ID,
		Total:   len(test.Challenges),
		Played:  len(latest),
		Results: make([]models.SessionResult, 0, len(latest)),
	}
	for _, ch := range test.Challenges {
		r, ok := latest[ch.ID]
		if !ok {
			continue
		}
		if r.Success() {
			out.Correct++
		}
		out.Results = append(out.Results, r)
	}
	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].ResolvedAt.Before(out.Results[j].ResolvedAt)
	})
	if out.Total > 0 {
		out.Percentage = float64(out.Correct) / float64(out.Total) * 100
	}
	return out
}

// ===== HELPERS =====

// onResult runs on the session's timer once the result delay has passed.
func (s *playService) onResult(result models.SessionResult) {
	ctx, cancel := context.WithTimeout(context.Background(), resultWriteTimeout)
	defer cancel()

	s.store(ctx, result)
	s.publish(ctx, events.NewChallengeResolvedEvent(result))

	s.mu.Lock()
	sess, ok := s.sessions[result.SessionID]
	delete(s.sessions, result.SessionID)
	s.mu.Unlock()
	if ok {
		sess.Close()
	}
}

func (s *playService) store(ctx context.Context, result models.SessionResult) {
	if err := s.results.Set(ctx, result); err != nil {
		s.logger.Error("Failed to cache session result", "session_id", result.SessionID, "error", err)
	}
}

func (s *playService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

func (s *playService) get(sessionID string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

func (s *playService) drop(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}
