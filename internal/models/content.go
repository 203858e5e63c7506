package models

type PictureType string

const (
	PictureNone PictureType = "none"
	PictureURL  PictureType = "url"
)

type ChallengePicture struct {
	Type PictureType `json:"type" validate:"omitempty,picture_type"`
	Data string      `json:"data" validate:"required_if=Type url,omitempty,url"`
}

// ===== SELECT ANSWER =====

type SelectAnswerConfig struct {
	BaseConfig
	Multiselect bool `json:"multiselect"`
}

type Answer struct {
	Text  string `json:"text"`
	Valid bool   `json:"valid"`
}

type SelectAnswerContent struct {
	Config  SelectAnswerConfig `json:"config"`
	Picture ChallengePicture   `json:"picture"`
	Answers []Answer           `json:"answers" validate:"len=4"`
}

func (SelectAnswerContent) ChallengeType() ChallengeType { return TypeSelectAnswer }
func (c SelectAnswerContent) Base() BaseConfig           { return c.Config.BaseConfig }
func (c SelectAnswerContent) clone() Content {
	c.Answers = cloneSlice(c.Answers)
	return c
}

// ValidIndices returns the indices of authored-correct answers.
func (c SelectAnswerContent) ValidIndices() []int {
	var out []int
	for i, a := range c.Answers {
		if a.Valid {
			out = append(out, i)
		}
	}
	return out
}

// ===== TRUE OR FALSE =====

type TrueOrFalseConfig struct {
	BaseConfig
}

type TrueOrFalseContent struct {
	Config  TrueOrFalseConfig `json:"config"`
	Picture ChallengePicture  `json:"picture"`
	Answer  bool              `json:"answer"`
}

func (TrueOrFalseContent) ChallengeType() ChallengeType { return TypeTrueOrFalse }
func (c TrueOrFalseContent) Base() BaseConfig           { return c.Config.BaseConfig }
func (c TrueOrFalseContent) clone() Content             { return c }

// ===== FILL GAPS =====

type FillGapsConfig struct {
	BaseConfig
	CheckCapitalLetters bool `json:"checkCapitalLetters"`
	CheckAccentMarks    bool `json:"checkAccentMarks"`
	SentenceCount       int  `json:"sentenceCount" validate:"min=1"`
}

// HiddenExpression marks a contiguous span of words, starting at word index
// InitPosition, that the player has to fill in.
type HiddenExpression struct {
	InitPosition int      `json:"initPosition" validate:"min=0"`
	WordCount    int      `json:"wordCount" validate:"min=1"`
	Alternatives []string `json:"alternatives"`
}

// End returns the index of the last hidden word.
func (h HiddenExpression) End() int {
	return h.InitPosition + h.WordCount - 1
}

type Sentence struct {
	Text              string             `json:"text"`
	HiddenExpressions []HiddenExpression `json:"hiddenExpressions"`
}

type FillGapsContent struct {
	Config    FillGapsConfig `json:"config"`
	Sentences []Sentence     `json:"sentences"`
}

func (FillGapsContent) ChallengeType() ChallengeType { return TypeFillGaps }
func (c FillGapsContent) Base() BaseConfig           { return c.Config.BaseConfig }
func (c FillGapsContent) clone() Content {
	sentences := make([]Sentence, len(c.Sentences))
	for i, s := range c.Sentences {
		sentences[i] = s.Clone()
	}
	c.Sentences = sentences
	return c
}

func (s Sentence) Clone() Sentence {
	hidden := make([]HiddenExpression, len(s.HiddenExpressions))
	for i, h := range s.HiddenExpressions {
		h.Alternatives = cloneSlice(h.Alternatives)
		hidden[i] = h
	}
	s.HiddenExpressions = hidden
	return s
}

// ===== MATCH =====

type MatchConfig struct {
	BaseConfig
	PairCount int `json:"pairCount" validate:"min=1"`
}

type MatchPair struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

type MatchContent struct {
	Config MatchConfig `json:"config"`
	Pairs  []MatchPair `json:"pairs"`
}

func (MatchContent) ChallengeType() ChallengeType { return TypeMatch }
func (c MatchContent) Base() BaseConfig           { return c.Config.BaseConfig }
func (c MatchContent) clone() Content {
	c.Pairs = cloneSlice(c.Pairs)
	return c
}

// ===== SORT =====

type SortConfig struct {
	BaseConfig
	ItemCount int `json:"itemCount" validate:"min=1"`
}

type SortContent struct {
	Config SortConfig `json:"config"`
	Items  []string   `json:"items"`
}

func (SortContent) ChallengeType() ChallengeType { return TypeSort }
func (c SortContent) Base() BaseConfig           { return c.Config.BaseConfig }
func (c SortContent) clone() Content {
	c.Items = cloneSlice(c.Items)
	return c
}

// ===== CLASSIFY =====

type ClassifyConfig struct {
	BaseConfig
	GroupCount int `json:"groupCount" validate:"min=1"`
}

type ClassifyGroup struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type ClassifyContent struct {
	Config ClassifyConfig  `json:"config"`
	Groups []ClassifyGroup `json:"groups"`
}

func (ClassifyContent) ChallengeType() ChallengeType { return TypeClassify }
func (c ClassifyContent) Base() BaseConfig           { return c.Config.BaseConfig }
func (c ClassifyContent) clone() Content {
	groups := make([]ClassifyGroup, len(c.Groups))
	for i, g := range c.Groups {
		g.Items = cloneSlice(g.Items)
		groups[i] = g
	}
	c.Groups = groups
	return c
}

// ItemCount is the number of authored items across all groups.
func (c ClassifyContent) ItemCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Items)
	}
	return n
}

// ===== FILL TABLE =====

type FillTableConfig struct {
	BaseConfig
	RowCount         int  `json:"rowCount" validate:"min=1"`
	ColumnCount      int  `json:"columnCount" validate:"min=1"`
	FirstRowFixed    bool `json:"firstRowFixed"`
	FirstColumnFixed bool `json:"firstColumnFixed"`
}

// IsFixed reports whether the cell at (row, col) is a header cell that is
// excluded from play and scoring.
func (c FillTableConfig) IsFixed(row, col int) bool {
	return (c.FirstRowFixed && row == 0) || (c.FirstColumnFixed && col == 0)
}

type TableCell struct {
	Text   string `json:"text"`
	Hidden bool   `json:"hidden"`
}

type FillTableContent struct {
	Config FillTableConfig `json:"config"`
	Items  [][]TableCell   `json:"items"`
}

func (FillTableContent) ChallengeType() ChallengeType { return TypeFillTable }
func (c FillTableContent) Base() BaseConfig           { return c.Config.BaseConfig }
func (c FillTableContent) clone() Content {
	rows := make([][]TableCell, len(c.Items))
	for i, row := range c.Items {
		rows[i] = cloneSlice(row)
	}
	c.Items = rows
	return c
}

// ===== THE ODD ONE =====

type TheOddOneConfig struct {
	BaseConfig
	SeriesCount  int `json:"seriesCount" validate:"min=1"`
	ElementCount int `json:"elementCount" validate:"min=2"`
}

type OddSeries struct {
	Elements       []string `json:"elements"`
	TheOddOneIndex int      `json:"theOddOneIndex" validate:"min=0"`
}

type TheOddOneContent struct {
	Config TheOddOneConfig `json:"config"`
	Series []OddSeries     `json:"series"`
}

func (TheOddOneContent) ChallengeType() ChallengeType { return TypeTheOddOne }
func (c TheOddOneContent) Base() BaseConfig           { return c.Config.BaseConfig }
func (c TheOddOneContent) clone() Content {
	series := make([]OddSeries, len(c.Series))
	for i, s := range c.Series {
		s.Elements = cloneSlice(s.Elements)
		series[i] = s
	}
	c.Series = series
	return c
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
