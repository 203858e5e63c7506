package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		data string
		want Action
	}{
		{`{"type":"selectOption","index":2}`, SelectOption{Index: 2}},
		{`{"type":"chooseBoolean","value":true}`, ChooseBoolean{Value: true}},
		{`{"type":"fillGap","sentence":1,"hidden":0,"value":"cat"}`, FillGap{Sentence: 1, Value: "cat"}},
		{`{"type":"associate","source":"a","destination":"b"}`, Associate{Source: "a", Destination: "b"}},
		{`{"type":"dropItem","item":"x","group":"g"}`, DropItem{Item: "x", Group: "g"}},
		{`{"type":"editCell","row":1,"column":2,"text":"t"}`, EditCell{Row: 1, Column: 2, Text: "t"}},
		{`{"type":"pickOdd","series":0,"index":3}`, PickOdd{Index: 3}},
		{`{"type":"moveItem","from":2,"to":0}`, MoveItem{From: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.want.ActionType(), func(t *testing.T) {
			got, err := DecodeAction([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAction_Errors(t *testing.T) {
	_, err := DecodeAction([]byte(`{"type":"teleport"}`))
	assert.ErrorIs(t, err, ErrInvalidAction)

	_, err = DecodeAction([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeAction([]byte(`{"type":"selectOption","index":"two"}`))
	assert.Error(t, err)
}
