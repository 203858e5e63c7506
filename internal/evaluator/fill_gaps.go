package evaluator

import (
	"slices"

	"github.com/SAP-F-2025/challenge-service/internal/designer"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
)

type GapValue struct {
	HiddenIdx int    `json:"hiddenIdx"`
	Value     string `json:"value"`
}

// FillGapsState holds one value per hidden expression, grouped by sentence,
// plus the word bank offered for dragging.
type FillGapsState struct {
	Sentences [][]GapValue `json:"sentences"`
	WordBank  []string     `json:"wordBank"`
}

func (FillGapsState) ChallengeType() models.ChallengeType { return models.TypeFillGaps }
func (s FillGapsState) clone() State {
	sentences := make([][]GapValue, len(s.Sentences))
	for i, values := range s.Sentences {
		sentences[i] = slices.Clone(values)
	}
	s.Sentences = sentences
	s.WordBank = slices.Clone(s.WordBank)
	return s
}

type fillGapsEvaluator struct {
	shuffle Shuffler
}

func (e fillGapsEvaluator) Initialize(ch models.Challenge, mode Mode) (State, error) {
	content, ok := ch.Content.(models.FillGapsContent)
	if !ok {
		return nil, contentMismatch(ch)
	}

	st := FillGapsState{
		Sentences: make([][]GapValue, len(content.Sentences)),
		WordBank:  []string{},
	}
	for i, sentence := range content.Sentences {
		words := utils.SplitSentence(sentence.Text)
		values := make([]GapValue, len(sentence.HiddenExpressions))
		for j, expr := range sentence.HiddenExpressions {
			values[j] = GapValue{HiddenIdx: j}
			if text, ok := designer.HiddenText(words, expr); ok {
				st.WordBank = append(st.WordBank, text)
			}
		}
		st.Sentences[i] = values
	}
	st.WordBank = shuffled(st.WordBank, mode, e.shuffle)
	return st, nil
}

func (fillGapsEvaluator) Apply(ch models.Challenge, state State, action Action) (State, error) {
	if _, ok := ch.Content.(models.FillGapsContent); !ok {
		return nil, contentMismatch(ch)
	}
	st, ok := state.(FillGapsState)
	if !ok {
		return nil, stateMismatch(models.TypeFillGaps, state)
	}
	a, ok := action.(FillGap)
	if !ok {
		return nil, actionMismatch(models.TypeFillGaps, action)
	}
	if a.Sentence < 0 || a.Sentence >= len(st.Sentences) {
		return nil, ErrOutOfRange
	}
	values := st.Sentences[a.Sentence]
	idx := slices.IndexFunc(values, func(v GapValue) bool { return v.HiddenIdx == a.Hidden })
	if idx < 0 {
		return nil, ErrOutOfRange
	}

	next := st.clone().(FillGapsState)
	next.Sentences[a.Sentence][idx].Value = a.Value
	return next, nil
}

func (e fillGapsEvaluator) IsComplete(ch models.Challenge, state State) bool {
	_, ok := e.expected(ch, state)
	return ok
}

// Evaluate accepts a value that equals the hidden text or one of its
// alternatives under the configured case and accent rules.
func (e fillGapsEvaluator) Evaluate(ch models.Challenge, state State) bool {
	expected, ok := e.expected(ch, state)
	if !ok {
		return false
	}
	cfg := ch.Content.(models.FillGapsContent).Config
	st := state.(FillGapsState)

	for i, sentence := range expected {
		for _, value := range st.Sentences[i] {
			want := sentence[value.HiddenIdx]
			if !matchesAny(value.Value, want, cfg.CheckCapitalLetters, cfg.CheckAccentMarks) {
				return false
			}
		}
	}
	return true
}

type acceptedAnswers struct {
	text         string
	alternatives []string
}

// expected resolves the accepted answers of every hidden expression. ok is
// false when the challenge is malformed, the state does not mirror it, or a
// value is still empty.
func (fillGapsEvaluator) expected(ch models.Challenge, state State) ([][]acceptedAnswers, bool) {
	content, ok := ch.Content.(models.FillGapsContent)
	if !ok {
		return nil, false
	}
	st, ok := state.(FillGapsState)
	if !ok || len(st.Sentences) != len(content.Sentences) {
		return nil, false
	}

	total := 0
	out := make([][]acceptedAnswers, len(content.Sentences))
	for i, sentence := range content.Sentences {
		words := utils.SplitSentence(sentence.Text)
		if !designer.WellFormed(sentence.HiddenExpressions, len(words)) {
			return nil, false
		}
		values := st.Sentences[i]
		if len(values) != len(sentence.HiddenExpressions) {
			return nil, false
		}

		accepted := make([]acceptedAnswers, len(sentence.HiddenExpressions))
		for j, expr := range sentence.HiddenExpressions {
			text, _ := designer.HiddenText(words, expr)
			accepted[j] = acceptedAnswers{text: text, alternatives: expr.Alternatives}
		}
		seen := make([]bool, len(accepted))
		for _, v := range values {
			if v.HiddenIdx < 0 || v.HiddenIdx >= len(accepted) || seen[v.HiddenIdx] || v.Value == "" {
				return nil, false
			}
			seen[v.HiddenIdx] = true
		}
		total += len(accepted)
		out[i] = accepted
	}
	if total == 0 {
		return nil, false
	}
	return out, true
}

func matchesAny(value string, want acceptedAnswers, checkCase, checkAccents bool) bool {
	if utils.CheckEqual(value, want.text, checkCase, checkAccents) {
		return true
	}
	for _, alt := range want.alternatives {
		if utils.CheckEqual(value, alt, checkCase, checkAccents) {
			return true
		}
	}
	return false
}
