package evaluator

import (
	"slices"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

// MatchState lists the draggable endpoints and the links drawn so far. Each
// source and each destination takes part in at most one link.
type MatchState struct {
	Sources      []string           `json:"sources"`
	Destinations []string           `json:"destinations"`
	Associations []models.MatchPair `json:"associations"`
}

func (MatchState) ChallengeType() models.ChallengeType { return models.TypeMatch }
func (s MatchState) clone() State {
	s.Sources = slices.Clone(s.Sources)
	s.Destinations = slices.Clone(s.Destinations)
	s.Associations = slices.Clone(s.Associations)
	return s
}

type matchEvaluator struct {
	shuffle Shuffler
}

func (e matchEvaluator) Initialize(ch models.Challenge, mode Mode) (State, error) {
	content, ok := ch.Content.(models.MatchContent)
	if !ok {
		return nil, contentMismatch(ch)
	}

	sources := make([]string, len(content.Pairs))
	destinations := make([]string, len(content.Pairs))
	for i, p := range content.Pairs {
		sources[i] = p.Source
		destinations[i] = p.Destination
	}
	return MatchState{
		Sources:      sources,
		Destinations: shuffled(destinations, mode, e.shuffle),
		Associations: []models.MatchPair{},
	}, nil
}

func (matchEvaluator) Apply(ch models.Challenge, state State, action Action) (State, error) {
	if _, ok := ch.Content.(models.MatchContent); !ok {
		return nil, contentMismatch(ch)
	}
	st, ok := state.(MatchState)
	if !ok {
		return nil, stateMismatch(models.TypeMatch, state)
	}
	a, ok := action.(Associate)
	if !ok {
		return nil, actionMismatch(models.TypeMatch, action)
	}
	if !slices.Contains(st.Sources, a.Source) {
		return nil, ErrOutOfRange
	}
	if a.Destination != "" && !slices.Contains(st.Destinations, a.Destination) {
		return nil, ErrOutOfRange
	}

	next := st.clone().(MatchState)
	next.Associations = slices.DeleteFunc(next.Associations, func(p models.MatchPair) bool {
		return p.Source == a.Source || (a.Destination != "" && p.Destination == a.Destination)
	})
	if a.Destination != "" {
		next.Associations = append(next.Associations, models.MatchPair{Source: a.Source, Destination: a.Destination})
	}
	return next, nil
}

func (matchEvaluator) IsComplete(ch models.Challenge, state State) bool {
	content, ok := ch.Content.(models.MatchContent)
	if !ok || len(content.Pairs) == 0 {
		return false
	}
	st, ok := state.(MatchState)
	return ok && len(st.Associations) == len(content.Pairs)
}

// Evaluate compares the drawn links with the authored pairs as multisets of
// text pairs.
func (e matchEvaluator) Evaluate(ch models.Challenge, state State) bool {
	if !e.IsComplete(ch, state) {
		return false
	}
	content := ch.Content.(models.MatchContent)
	st := state.(MatchState)

	remaining := make(map[models.MatchPair]int, len(content.Pairs))
	for _, p := range content.Pairs {
		remaining[p]++
	}
	for _, p := range st.Associations {
		if remaining[p] == 0 {
			return false
		}
		remaining[p]--
	}
	return true
}
