// Package evaluator implements the per-challenge-type rules that build the
// player state, apply player actions to it and judge it against the authored
// answer key.
//
// Every operation is pure: states are never mutated in place. A malformed
// challenge never panics; it simply can never be completed.
package evaluator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

var (
	ErrInvalidAction      = errors.New("action not supported by challenge type")
	ErrInvalidState       = errors.New("state does not belong to challenge type")
	ErrOutOfRange         = errors.New("action target out of range")
	ErrNotEditable        = errors.New("cell is not editable")
	ErrMalformedChallenge = errors.New("challenge content does not match its type")
	ErrUnknownType        = errors.New("unknown challenge type")
)

// Mode selects how the initial state is laid out. Play shuffles word banks and
// draggable items; Design keeps authoring order.
type Mode int

const (
	ModePlay Mode = iota
	ModeDesign
)

func (m Mode) String() string {
	if m == ModeDesign {
		return "design"
	}
	return "play"
}

// State is the transient player state of one challenge.
type State interface {
	ChallengeType() models.ChallengeType
	clone() State
}

type Evaluator interface {
	Initialize(ch models.Challenge, mode Mode) (State, error)
	Apply(ch models.Challenge, state State, action Action) (State, error)
	IsComplete(ch models.Challenge, state State) bool
	Evaluate(ch models.Challenge, state State) bool
}

// AutoResolver is implemented by evaluators whose challenges resolve as soon
// as the player makes a complete selection, without an explicit check.
type AutoResolver interface {
	AutoResolves(ch models.Challenge) bool
}

// Shuffler reorders n elements through swap.
type Shuffler func(n int, swap func(i, j int))

type options struct {
	shuffle Shuffler
}

type Option func(*options)

// WithShuffler replaces the random shuffle used in play mode.
func WithShuffler(s Shuffler) Option {
	return func(o *options) { o.shuffle = s }
}

// For returns the evaluator for challenge type t.
func For(t models.ChallengeType, opts ...Option) (Evaluator, error) {
	o := &options{shuffle: rand.Shuffle}
	for _, opt := range opts {
		opt(o)
	}

	switch t {
	case models.TypeSelectAnswer:
		return selectAnswerEvaluator{}, nil
	case models.TypeTrueOrFalse:
		return trueOrFalseEvaluator{}, nil
	case models.TypeFillGaps:
		return fillGapsEvaluator{shuffle: o.shuffle}, nil
	case models.TypeMatch:
		return matchEvaluator{shuffle: o.shuffle}, nil
	case models.TypeSort:
		return sortEvaluator{shuffle: o.shuffle}, nil
	case models.TypeClassify:
		return classifyEvaluator{shuffle: o.shuffle}, nil
	case models.TypeFillTable:
		return fillTableEvaluator{}, nil
	case models.TypeTheOddOne:
		return theOddOneEvaluator{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
}

// ForChallenge returns the evaluator matching ch and checks that its content
// carries the right variant.
func ForChallenge(ch models.Challenge, opts ...Option) (Evaluator, error) {
	if ch.Content == nil || ch.Content.ChallengeType() != ch.Type {
		return nil, fmt.Errorf("%w: challenge %s", ErrMalformedChallenge, ch.ID)
	}
	return For(ch.Type, opts...)
}

// AutoResolves reports whether ev resolves ch on selection.
func AutoResolves(ev Evaluator, ch models.Challenge) bool {
	ar, ok := ev.(AutoResolver)
	return ok && ar.AutoResolves(ch)
}

func shuffled(items []string, mode Mode, shuffle Shuffler) []string {
	out := make([]string, len(items))
	copy(out, items)
	if mode == ModePlay && len(out) > 1 {
		shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

func contentMismatch(ch models.Challenge) error {
	return fmt.Errorf("%w: challenge %s has %T content", ErrMalformedChallenge, ch.ID, ch.Content)
}

func actionMismatch(t models.ChallengeType, a Action) error {
	return fmt.Errorf("%w: %s cannot apply %T", ErrInvalidAction, t, a)
}

func stateMismatch(t models.ChallengeType, s State) error {
	return fmt.Errorf("%w: %s got %T", ErrInvalidState, t, s)
}
