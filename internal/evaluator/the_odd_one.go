package evaluator

import (
	"slices"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

const noPick = -1

// TheOddOneState holds the picked element index per series, or -1 while the
// series has no pick.
type TheOddOneState struct {
	Picks []int `json:"picks"`
}

func (TheOddOneState) ChallengeType() models.ChallengeType { return models.TypeTheOddOne }
func (s TheOddOneState) clone() State {
	s.Picks = slices.Clone(s.Picks)
	return s
}

type theOddOneEvaluator struct{}

func (theOddOneEvaluator) Initialize(ch models.Challenge, _ Mode) (State, error) {
	content, ok := ch.Content.(models.TheOddOneContent)
	if !ok {
		return nil, contentMismatch(ch)
	}
	picks := make([]int, len(content.Series))
	for i := range picks {
		picks[i] = noPick
	}
	return TheOddOneState{Picks: picks}, nil
}

func (theOddOneEvaluator) Apply(ch models.Challenge, state State, action Action) (State, error) {
	content, ok := ch.Content.(models.TheOddOneContent)
	if !ok {
		return nil, contentMismatch(ch)
	}
	st, ok := state.(TheOddOneState)
	if !ok {
		return nil, stateMismatch(models.TypeTheOddOne, state)
	}
	a, ok := action.(PickOdd)
	if !ok {
		return nil, actionMismatch(models.TypeTheOddOne, action)
	}
	if a.Series < 0 || a.Series >= len(st.Picks) || a.Series >= len(content.Series) {
		return nil, ErrOutOfRange
	}
	if a.Index < 0 || a.Index >= len(content.Series[a.Series].Elements) {
		return nil, ErrOutOfRange
	}

	next := st.clone().(TheOddOneState)
	next.Picks[a.Series] = a.Index
	return next, nil
}

func (theOddOneEvaluator) IsComplete(ch models.Challenge, state State) bool {
	content, ok := ch.Content.(models.TheOddOneContent)
	if !ok || len(content.Series) == 0 {
		return false
	}
	st, ok := state.(TheOddOneState)
	if !ok || len(st.Picks) != len(content.Series) {
		return false
	}
	return !slices.Contains(st.Picks, noPick)
}

func (e theOddOneEvaluator) Evaluate(ch models.Challenge, state State) bool {
	if !e.IsComplete(ch, state) {
		return false
	}
	content := ch.Content.(models.TheOddOneContent)
	st := state.(TheOddOneState)
	for i, s := range content.Series {
		if st.Picks[i] != s.TheOddOneIndex {
			return false
		}
	}
	return true
}
