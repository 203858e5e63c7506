package evaluator

import (
	"slices"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

type SelectAnswerState struct {
	Selected []int `json:"selected"`
}

func (SelectAnswerState) ChallengeType() models.ChallengeType { return models.TypeSelectAnswer }
func (s SelectAnswerState) clone() State {
	s.Selected = slices.Clone(s.Selected)
	return s
}

type selectAnswerEvaluator struct{}

func (selectAnswerEvaluator) Initialize(ch models.Challenge, _ Mode) (State, error) {
	if _, ok := ch.Content.(models.SelectAnswerContent); !ok {
		return nil, contentMismatch(ch)
	}
	return SelectAnswerState{Selected: []int{}}, nil
}

func (selectAnswerEvaluator) Apply(ch models.Challenge, state State, action Action) (State, error) {
	content, ok := ch.Content.(models.SelectAnswerContent)
	if !ok {
		return nil, contentMismatch(ch)
	}
	st, ok := state.(SelectAnswerState)
	if !ok {
		return nil, stateMismatch(models.TypeSelectAnswer, state)
	}
	a, ok := action.(SelectOption)
	if !ok {
		return nil, actionMismatch(models.TypeSelectAnswer, action)
	}
	if a.Index < 0 || a.Index >= len(content.Answers) {
		return nil, ErrOutOfRange
	}

	next := st.clone().(SelectAnswerState)
	if !content.Config.Multiselect {
		next.Selected = []int{a.Index}
		return next, nil
	}
	if i := slices.Index(next.Selected, a.Index); i >= 0 {
		next.Selected = slices.Delete(next.Selected, i, i+1)
	} else {
		next.Selected = append(next.Selected, a.Index)
		slices.Sort(next.Selected)
	}
	return next, nil
}

func (selectAnswerEvaluator) IsComplete(ch models.Challenge, state State) bool {
	content, ok := ch.Content.(models.SelectAnswerContent)
	if !ok || len(content.Answers) != models.SelectAnswerOptionCount {
		return false
	}
	st, ok := state.(SelectAnswerState)
	if !ok || len(st.Selected) == 0 {
		return false
	}
	for _, i := range st.Selected {
		if i < 0 || i >= len(content.Answers) {
			return false
		}
	}
	return content.Config.Multiselect || len(st.Selected) == 1
}

// Evaluate accepts a single selection when that answer is valid, and a
// multiselection when it equals the authored valid set exactly.
func (e selectAnswerEvaluator) Evaluate(ch models.Challenge, state State) bool {
	if !e.IsComplete(ch, state) {
		return false
	}
	content := ch.Content.(models.SelectAnswerContent)
	st := state.(SelectAnswerState)

	if !content.Config.Multiselect {
		return content.Answers[st.Selected[0]].Valid
	}
	selected := slices.Clone(st.Selected)
	slices.Sort(selected)
	selected = slices.Compact(selected)
	return slices.Equal(selected, content.ValidIndices())
}

func (selectAnswerEvaluator) AutoResolves(ch models.Challenge) bool {
	content, ok := ch.Content.(models.SelectAnswerContent)
	return ok && !content.Config.Multiselect
}
