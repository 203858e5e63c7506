package evaluator

import (
	"encoding/json"
	"fmt"
)

// Action is a discrete player input delivered by the UI.
type Action interface {
	ActionType() string
}

// SelectOption clicks an answer of a SelectAnswer challenge. In multiselect
// mode a second click on the same index deselects it.
type SelectOption struct {
	Index int `json:"index"`
}

// ChooseBoolean clicks True or False.
type ChooseBoolean struct {
	Value bool `json:"value"`
}

// FillGap types, or drops from the word bank, a value into one hidden
// expression of one sentence.
type FillGap struct {
	Sentence int    `json:"sentence"`
	Hidden   int    `json:"hidden"`
	Value    string `json:"value"`
}

// Associate links a Match source to a destination. An empty destination
// removes the source's link.
type Associate struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// DropItem moves a Classify item into the named group. An empty group
// returns the item to the free pool.
type DropItem struct {
	Item  string `json:"item"`
	Group string `json:"group"`
}

type EditCell struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Text   string `json:"text"`
}

type PickOdd struct {
	Series int `json:"series"`
	Index  int `json:"index"`
}

// MoveItem moves the Sort item at From to position To.
type MoveItem struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (SelectOption) ActionType() string  { return "selectOption" }
func (ChooseBoolean) ActionType() string { return "chooseBoolean" }
func (FillGap) ActionType() string       { return "fillGap" }
func (Associate) ActionType() string     { return "associate" }
func (DropItem) ActionType() string      { return "dropItem" }
func (EditCell) ActionType() string      { return "editCell" }
func (PickOdd) ActionType() string       { return "pickOdd" }
func (MoveItem) ActionType() string      { return "moveItem" }

// DecodeAction parses {"type": "...", ...fields} into the matching action.
func DecodeAction(data []byte) (Action, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid action: %w", err)
	}

	switch head.Type {
	case "selectOption":
		return decodeAs[SelectOption](data)
	case "chooseBoolean":
		return decodeAs[ChooseBoolean](data)
	case "fillGap":
		return decodeAs[FillGap](data)
	case "associate":
		return decodeAs[Associate](data)
	case "dropItem":
		return decodeAs[DropItem](data)
	case "editCell":
		return decodeAs[EditCell](data)
	case "pickOdd":
		return decodeAs[PickOdd](data)
	case "moveItem":
		return decodeAs[MoveItem](data)
	default:
		return nil, fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, head.Type)
	}
}

func decodeAs[T Action](data []byte) (Action, error) {
	var a T
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("invalid %s action: %w", a.ActionType(), err)
	}
	return a, nil
}
