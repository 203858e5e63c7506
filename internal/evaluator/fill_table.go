package evaluator

import (
	"slices"

	"github.com/SAP-F-2025/challenge-service/internal/models"
)

type CellState struct {
	Text     string `json:"text"`
	Editable bool   `json:"editable"`
	Fixed    bool   `json:"fixed"`
}

type FillTableState struct {
	Cells [][]CellState `json:"cells"`
}

func (FillTableState) ChallengeType() models.ChallengeType { return models.TypeFillTable }
func (s FillTableState) clone() State {
	rows := make([][]CellState, len(s.Cells))
	for i, row := range s.Cells {
		rows[i] = slices.Clone(row)
	}
	s.Cells = rows
	return s
}

type fillTableEvaluator struct{}

// Initialize prefills visible and fixed cells with their authored text and
// leaves hidden cells empty for the player.
func (fillTableEvaluator) Initialize(ch models.Challenge, _ Mode) (State, error) {
	content, ok := ch.Content.(models.FillTableContent)
	if !ok {
		return nil, contentMismatch(ch)
	}

	cells := make([][]CellState, len(content.Items))
	for r, row := range content.Items {
		cells[r] = make([]CellState, len(row))
		for c, cell := range row {
			fixed := content.Config.IsFixed(r, c)
			editable := cell.Hidden && !fixed
			text := cell.Text
			if editable {
				text = ""
			}
			cells[r][c] = CellState{Text: text, Editable: editable, Fixed: fixed}
		}
	}
	return FillTableState{Cells: cells}, nil
}

func (fillTableEvaluator) Apply(ch models.Challenge, state State, action Action) (State, error) {
	if _, ok := ch.Content.(models.FillTableContent); !ok {
		return nil, contentMismatch(ch)
	}
	st, ok := state.(FillTableState)
	if !ok {
		return nil, stateMismatch(models.TypeFillTable, state)
	}
	a, ok := action.(EditCell)
	if !ok {
		return nil, actionMismatch(models.TypeFillTable, action)
	}
	if a.Row < 0 || a.Row >= len(st.Cells) || a.Column < 0 || a.Column >= len(st.Cells[a.Row]) {
		return nil, ErrOutOfRange
	}
	if !st.Cells[a.Row][a.Column].Editable {
		return nil, ErrNotEditable
	}

	next := st.clone().(FillTableState)
	next.Cells[a.Row][a.Column].Text = a.Text
	return next, nil
}

func (e fillTableEvaluator) IsComplete(ch models.Challenge, state State) bool {
	_, ok := e.scored(ch, state, func(cell models.TableCell, played CellState) bool {
		return played.Text != ""
	})
	return ok
}

func (e fillTableEvaluator) Evaluate(ch models.Challenge, state State) bool {
	if !e.IsComplete(ch, state) {
		return false
	}
	_, ok := e.scored(ch, state, func(cell models.TableCell, played CellState) bool {
		return played.Text == cell.Text
	})
	return ok
}

// scored applies check to every non-fixed cell and returns the number of
// cells visited. It fails if the state grid does not match the authored one
// or if there is nothing to score.
func (fillTableEvaluator) scored(ch models.Challenge, state State, check func(models.TableCell, CellState) bool) (int, bool) {
	content, ok := ch.Content.(models.FillTableContent)
	if !ok {
		return 0, false
	}
	st, ok := state.(FillTableState)
	if !ok || len(st.Cells) != len(content.Items) {
		return 0, false
	}

	n := 0
	for r, row := range content.Items {
		if len(st.Cells[r]) != len(row) {
			return 0, false
		}
		for c, cell := range row {
			if content.Config.IsFixed(r, c) {
				continue
			}
			if !check(cell, st.Cells[r][c]) {
				return n, false
			}
			n++
		}
	}
	return n, n > 0
}
