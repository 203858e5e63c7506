package evaluator

import (
	"slices"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

// SortState is the current player order of the items.
type SortState struct {
	Items []string `json:"items"`
}

func (SortState) ChallengeType() models.ChallengeType { return models.TypeSort }
func (s SortState) clone() State {
	s.Items = slices.Clone(s.Items)
	return s
}

// sortEvaluator lets the player reorder items but never completes, so a Sort
// challenge only resolves when its countdown runs out.
//
// TODO: score against the authored order once Sort gets a completion rule.
type sortEvaluator struct {
	shuffle Shuffler
}

func (e sortEvaluator) Initialize(ch models.Challenge, mode Mode) (State, error) {
	content, ok := ch.Content.(models.SortContent)
	if !ok {
		return nil, contentMismatch(ch)
	}
	return SortState{Items: shuffled(content.Items, mode, e.shuffle)}, nil
}

func (sortEvaluator) Apply(ch models.Challenge, state State, action Action) (State, error) {
	if _, ok := ch.Content.(models.SortContent); !ok {
		return nil, contentMismatch(ch)
	}
	st, ok := state.(SortState)
	if !ok {
		return nil, stateMismatch(models.TypeSort, state)
	}
	a, ok := action.(MoveItem)
	if !ok {
		return nil, actionMismatch(models.TypeSort, action)
	}
	n := len(st.Items)
	if a.From < 0 || a.From >= n || a.To < 0 || a.To >= n {
		return nil, ErrOutOfRange
	}

	next := st.clone().(SortState)
	item := next.Items[a.From]
	next.Items = slices.Delete(next.Items, a.From, a.From+1)
	next.Items = slices.Insert(next.Items, a.To, item)
	return next, nil
}

func (sortEvaluator) IsComplete(models.Challenge, State) bool { return false }

func (sortEvaluator) Evaluate(models.Challenge, State) bool { return false }
