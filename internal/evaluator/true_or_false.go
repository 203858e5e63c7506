package evaluator

import "github.com/SAP-F-2025/challenge-service/internal/models"

type TrueOrFalseState struct {
	Choice *bool `json:"choice"`
}

func (TrueOrFalseState) ChallengeType() models.ChallengeType { return models.TypeTrueOrFalse }
func (s TrueOrFalseState) clone() State {
	if s.Choice != nil {
		v := *s.Choice
		s.Choice = &v
	}
	return s
}

type trueOrFalseEvaluator struct{}

func (trueOrFalseEvaluator) Initialize(ch models.Challenge, _ Mode) (State, error) {
	if _, ok := ch.Content.(models.TrueOrFalseContent); !ok {
		return nil, contentMismatch(ch)
	}
	return TrueOrFalseState{}, nil
}

func (trueOrFalseEvaluator) Apply(ch models.Challenge, state State, action Action) (State, error) {
	if _, ok := ch.Content.(models.TrueOrFalseContent); !ok {
		return nil, contentMismatch(ch)
	}
	if _, ok := state.(TrueOrFalseState); !ok {
		return nil, stateMismatch(models.TypeTrueOrFalse, state)
	}
	a, ok := action.(ChooseBoolean)
	if !ok {
		return nil, actionMismatch(models.TypeTrueOrFalse, action)
	}
	v := a.Value
	return TrueOrFalseState{Choice: &v}, nil
}

func (trueOrFalseEvaluator) IsComplete(ch models.Challenge, state State) bool {
	if _, ok := ch.Content.(models.TrueOrFalseContent); !ok {
		return false
	}
	st, ok := state.(TrueOrFalseState)
	return ok && st.Choice != nil
}

func (e trueOrFalseEvaluator) Evaluate(ch models.Challenge, state State) bool {
	if !e.IsComplete(ch, state) {
		return false
	}
	return *state.(TrueOrFalseState).Choice == ch.Content.(models.TrueOrFalseContent).Answer
}

func (trueOrFalseEvaluator) AutoResolves(models.Challenge) bool { return true }
