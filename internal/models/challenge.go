package models

import (
	"encoding/json"
	"fmt"
)

type ChallengeType string

const (
	TypeSelectAnswer ChallengeType = "selectAnswer"
	TypeTrueOrFalse  ChallengeType = "trueOrFalse"
	TypeFillGaps     ChallengeType = "fillGaps"
	TypeMatch        ChallengeType = "match"
	TypeSort         ChallengeType = "sort"
	TypeClassify     ChallengeType = "classify"
	TypeFillTable    ChallengeType = "fillTable"
	TypeTheOddOne    ChallengeType = "theOddOne"
)

// ChallengeTypes lists every supported tag in authoring order.
var ChallengeTypes = []ChallengeType{
	TypeSelectAnswer,
	TypeTrueOrFalse,
	TypeFillGaps,
	TypeMatch,
	TypeSort,
	TypeClassify,
	TypeFillTable,
	TypeTheOddOne,
}

func (t ChallengeType) Valid() bool {
	for _, known := range ChallengeTypes {
		if t == known {
			return true
		}
	}
	return false
}

const (
	DefaultTimeLimit        = 30
	DefaultQuestionFontSize = 24
	SelectAnswerOptionCount = 4
)

// BaseConfig holds the settings every challenge variant carries.
type BaseConfig struct {
	TimeLimit        int `json:"timeLimit" validate:"required,min=1"`
	QuestionFontSize int `json:"questionFontSize" validate:"required,min=1"`
}

func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		TimeLimit:        DefaultTimeLimit,
		QuestionFontSize: DefaultQuestionFontSize,
	}
}

// Content is the variant-specific part of a challenge. The set of
// implementations is closed: only the types in this package satisfy it.
type Content interface {
	ChallengeType() ChallengeType
	Base() BaseConfig
	clone() Content
}

// Challenge is one exercise unit. ID and Type never change after creation;
// Content always matches Type.
type Challenge struct {
	ID       string        `json:"id" validate:"required"`
	Type     ChallengeType `json:"type" validate:"required,challenge_type"`
	Question string        `json:"question"`
	Content  Content       `json:"-" validate:"-"`
}

// Clone returns a deep copy so callers can derive new records without
// touching the original.
func (c Challenge) Clone() Challenge {
	out := c
	if c.Content != nil {
		out.Content = c.Content.clone()
	}
	return out
}

// TimeLimit returns the configured countdown in seconds, or 0 if the
// challenge has no content.
func (c Challenge) TimeLimit() int {
	if c.Content == nil {
		return 0
	}
	return c.Content.Base().TimeLimit
}

type challengeEnvelope struct {
	ID       string          `json:"id"`
	Type     ChallengeType   `json:"type"`
	Question string          `json:"question"`
	Content  json.RawMessage `json:"content"`
}

func (c Challenge) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	if c.Content != nil {
		if c.Content.ChallengeType() != c.Type {
			return nil, fmt.Errorf("challenge %s: content type %s does not match tag %s", c.ID, c.Content.ChallengeType(), c.Type)
		}
		data, err := json.Marshal(c.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal challenge content: %w", err)
		}
		raw = data
	}
	return json.Marshal(challengeEnvelope{
		ID:       c.ID,
		Type:     c.Type,
		Question: c.Question,
		Content:  raw,
	})
}

func (c *Challenge) UnmarshalJSON(data []byte) error {
	var env challengeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	content, err := emptyContent(env.Type)
	if err != nil {
		return err
	}
	if len(env.Content) > 0 && string(env.Content) != "null" {
		if err := json.Unmarshal(env.Content, content); err != nil {
			return fmt.Errorf("invalid %s content: %w", env.Type, err)
		}
	}

	c.ID = env.ID
	c.Type = env.Type
	c.Question = env.Question
	c.Content = derefContent(content)
	return nil
}

// emptyContent returns a pointer to a zero value of the variant for t.
func emptyContent(t ChallengeType) (any, error) {
	switch t {
	case TypeSelectAnswer:
		return &SelectAnswerContent{}, nil
	case TypeTrueOrFalse:
		return &TrueOrFalseContent{}, nil
	case TypeFillGaps:
		return &FillGapsContent{}, nil
	case TypeMatch:
		return &MatchContent{}, nil
	case TypeSort:
		return &SortContent{}, nil
	case TypeClassify:
		return &ClassifyContent{}, nil
	case TypeFillTable:
		return &FillTableContent{}, nil
	case TypeTheOddOne:
		return &TheOddOneContent{}, nil
	default:
		return nil, fmt.Errorf("unknown challenge type %q", t)
	}
}

func derefContent(v any) Content {
	switch c := v.(type) {
	case *SelectAnswerContent:
		return *c
	case *TrueOrFalseContent:
		return *c
	case *FillGapsContent:
		return *c
	case *MatchContent:
		return *c
	case *SortContent:
		return *c
	case *ClassifyContent:
		return *c
	case *FillTableContent:
		return *c
	case *TheOddOneContent:
		return *c
	}
	return nil
}

// NewChallenge builds a challenge of type t with default config and empty
// content sized to that config.
func NewChallenge(id string, t ChallengeType) (Challenge, error) {
	base := DefaultBaseConfig()
	var content Content
	switch t {
	case TypeSelectAnswer:
		content = SelectAnswerContent{
			Config:  SelectAnswerConfig{BaseConfig: base},
			Picture: ChallengePicture{Type: PictureNone},
			Answers: make([]Answer, SelectAnswerOptionCount),
		}
	case TypeTrueOrFalse:
		content = TrueOrFalseContent{
			Config:  TrueOrFalseConfig{BaseConfig: base},
			Picture: ChallengePicture{Type: PictureNone},
			Answer:  true,
		}
	case TypeFillGaps:
		content = FillGapsContent{
			Config:    FillGapsConfig{BaseConfig: base, SentenceCount: 1},
			Sentences: []Sentence{{HiddenExpressions: []HiddenExpression{}}},
		}
	case TypeMatch:
		content = MatchContent{
			Config: MatchConfig{BaseConfig: base, PairCount: 3},
			Pairs:  make([]MatchPair, 3),
		}
	case TypeSort:
		content = SortContent{
			Config: SortConfig{BaseConfig: base, ItemCount: 3},
			Items:  make([]string, 3),
		}
	case TypeClassify:
		content = ClassifyContent{
			Config: ClassifyConfig{BaseConfig: base, GroupCount: 2},
			Groups: []ClassifyGroup{{Items: []string{}}, {Items: []string{}}},
		}
	case TypeFillTable:
		items := make([][]TableCell, 2)
		for i := range items {
			items[i] = make([]TableCell, 2)
		}
		content = FillTableContent{
			Config: FillTableConfig{BaseConfig: base, RowCount: 2, ColumnCount: 2},
			Items:  items,
		}
	case TypeTheOddOne:
		content = TheOddOneContent{
			Config: TheOddOneConfig{BaseConfig: base, SeriesCount: 1, ElementCount: 4},
			Series: []OddSeries{{Elements: make([]string, 4)}},
		}
	default:
		return Challenge{}, fmt.Errorf("unknown challenge type %q", t)
	}

	return Challenge{ID: id, Type: t, Content: content}, nil
}
