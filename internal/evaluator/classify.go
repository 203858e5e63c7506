package evaluator

import (
	"slices"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

type GroupState struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// ClassifyState keeps the items not yet dropped in Pool and, in authoring
// order, the items the player dropped into each group.
type ClassifyState struct {
	Pool   []string     `json:"pool"`
	Groups []GroupState `json:"groups"`
}

func (ClassifyState) ChallengeType() models.ChallengeType { return models.TypeClassify }
func (s ClassifyState) clone() State {
	groups := make([]GroupState, len(s.Groups))
	for i, g := range s.Groups {
		g.Items = slices.Clone(g.Items)
		groups[i] = g
	}
	s.Groups = groups
	s.Pool = slices.Clone(s.Pool)
	return s
}

func (s ClassifyState) dropped() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Items)
	}
	return n
}

type classifyEvaluator struct {
	shuffle Shuffler
}

func (e classifyEvaluator) Initialize(ch models.Challenge, mode Mode) (State, error) {
	content, ok := ch.Content.(models.ClassifyContent)
	if !ok {
		return nil, contentMismatch(ch)
	}

	pool := make([]string, 0, content.ItemCount())
	groups := make([]GroupState, len(content.Groups))
	for i, g := range content.Groups {
		pool = append(pool, g.Items...)
		groups[i] = GroupState{Name: g.Name, Items: []string{}}
	}
	return ClassifyState{
		Pool:   shuffled(pool, mode, e.shuffle),
		Groups: groups,
	}, nil
}

func (classifyEvaluator) Apply(ch models.Challenge, state State, action Action) (State, error) {
	if _, ok := ch.Content.(models.ClassifyContent); !ok {
		return nil, contentMismatch(ch)
	}
	st, ok := state.(ClassifyState)
	if !ok {
		return nil, stateMismatch(models.TypeClassify, state)
	}
	a, ok := action.(DropItem)
	if !ok {
		return nil, actionMismatch(models.TypeClassify, action)
	}

	target := -1
	if a.Group != "" {
		target = slices.IndexFunc(st.Groups, func(g GroupState) bool { return g.Name == a.Group })
		if target < 0 {
			return nil, ErrOutOfRange
		}
	}

	next := st.clone().(ClassifyState)
	if i := slices.Index(next.Pool, a.Item); i >= 0 {
		next.Pool = slices.Delete(next.Pool, i, i+1)
	} else {
		found := false
		for gi := range next.Groups {
			if i := slices.Index(next.Groups[gi].Items, a.Item); i >= 0 {
				next.Groups[gi].Items = slices.Delete(next.Groups[gi].Items, i, i+1)
				found = true
				break
			}
		}
		if !found {
			return nil, ErrOutOfRange
		}
	}

	if target < 0 {
		next.Pool = append(next.Pool, a.Item)
	} else {
		next.Groups[target].Items = append(next.Groups[target].Items, a.Item)
	}
	return next, nil
}

func (classifyEvaluator) IsComplete(ch models.Challenge, state State) bool {
	content, ok := ch.Content.(models.ClassifyContent)
	if !ok {
		return false
	}
	st, ok := state.(ClassifyState)
	if !ok || len(st.Groups) != len(content.Groups) {
		return false
	}
	total := content.ItemCount()
	return total > 0 && st.dropped() == total
}

// Evaluate checks only that every authored item is present in its authored
// group. Extra or repeated items in a group do not fail the check.
func (e classifyEvaluator) Evaluate(ch models.Challenge, state State) bool {
	if !e.IsComplete(ch, state) {
		return false
	}
	content := ch.Content.(models.ClassifyContent)
	st := state.(ClassifyState)

	for i, g := range content.Groups {
		for _, item := range g.Items {
			if !slices.Contains(st.Groups[i].Items, item) {
				return false
			}
		}
	}
	return true
}
