package designer

import (
	"testing"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReshape_Classify(t *testing.T) {
	ch := models.Challenge{
		ID:   "c1",
		Type: models.TypeClassify,
		Content: models.ClassifyContent{
			Config: models.ClassifyConfig{BaseConfig: models.DefaultBaseConfig(), GroupCount: 3},
			Groups: []models.ClassifyGroup{{Name: "fruit", Items: []string{"apple"}}},
		},
	}

	grown, err := Reshape(ch)
	require.NoError(t, err)
	groups := grown.Content.(models.ClassifyContent).Groups
	require.Len(t, groups, 3)
	assert.Equal(t, "fruit", groups[0].Name)
	assert.Equal(t, []string{}, groups[2].Items)

	// The original keeps its single group.
	assert.Len(t, ch.Content.(models.ClassifyContent).Groups, 1)

	content := grown.Content.(models.ClassifyContent)
	content.Config.GroupCount = 1
	grown.Content = content
	shrunk, err := Reshape(grown)
	require.NoError(t, err)
	assert.Equal(t, []models.ClassifyGroup{{Name: "fruit", Items: []string{"apple"}}}, shrunk.Content.(models.ClassifyContent).Groups)
}

func TestReshape_FillTable(t *testing.T) {
	ch := models.Challenge{
		ID:   "t1",
		Type: models.TypeFillTable,
		Content: models.FillTableContent{
			Config: models.FillTableConfig{BaseConfig: models.DefaultBaseConfig(), RowCount: 3, ColumnCount: 1},
			Items: [][]models.TableCell{
				{{Text: "a"}, {Text: "b"}},
				{{Text: "c"}, {Text: "d"}},
			},
		},
	}

	out, err := Reshape(ch)
	require.NoError(t, err)
	items := out.Content.(models.FillTableContent).Items
	assert.Equal(t, [][]models.TableCell{
		{{Text: "a"}},
		{{Text: "c"}},
		{{}},
	}, items)
}

func TestReshape_TheOddOne(t *testing.T) {
	ch := models.Challenge{
		ID:   "o1",
		Type: models.TypeTheOddOne,
		Content: models.TheOddOneContent{
			Config: models.TheOddOneConfig{BaseConfig: models.DefaultBaseConfig(), SeriesCount: 2, ElementCount: 3},
			Series: []models.OddSeries{{Elements: []string{"a", "b", "c", "d"}, TheOddOneIndex: 3}},
		},
	}

	out, err := Reshape(ch)
	require.NoError(t, err)
	series := out.Content.(models.TheOddOneContent).Series
	require.Len(t, series, 2)
	assert.Equal(t, []string{"a", "b", "c"}, series[0].Elements)
	assert.Equal(t, 0, series[0].TheOddOneIndex)
	assert.Equal(t, []string{"", "", ""}, series[1].Elements)
}

func TestReshape_SelectAnswer(t *testing.T) {
	ch := models.Challenge{
		ID:   "s1",
		Type: models.TypeSelectAnswer,
		Content: models.SelectAnswerContent{
			Config:  models.SelectAnswerConfig{BaseConfig: models.DefaultBaseConfig()},
			Answers: []models.Answer{{Text: "a", Valid: true}, {Text: "b", Valid: true}},
		},
	}

	out, err := Reshape(ch)
	require.NoError(t, err)
	content := out.Content.(models.SelectAnswerContent)
	require.Len(t, content.Answers, 4)
	assert.Equal(t, []int{0}, content.ValidIndices())
	assert.Equal(t, models.PictureNone, content.Picture.Type)
}

func TestReshape_FillGapsPrunesStaleExpressions(t *testing.T) {
	ch := models.Challenge{
		ID:   "f1",
		Type: models.TypeFillGaps,
		Content: models.FillGapsContent{
			Config: models.FillGapsConfig{BaseConfig: models.DefaultBaseConfig(), SentenceCount: 2},
			Sentences: []models.Sentence{{
				Text:              "The cat sat",
				HiddenExpressions: []models.HiddenExpression{{InitPosition: 1, WordCount: 1}, {InitPosition: 2, WordCount: 3}},
			}},
		},
	}

	out, err := Reshape(ch)
	require.NoError(t, err)
	sentences := out.Content.(models.FillGapsContent).Sentences
	require.Len(t, sentences, 2)
	assert.Equal(t, []models.HiddenExpression{{InitPosition: 1, WordCount: 1, Alternatives: []string{}}}, sentences[0].HiddenExpressions)
	assert.Empty(t, sentences[1].HiddenExpressions)
}

func TestReshape_MatchAndSort(t *testing.T) {
	match, err := models.NewChallenge("m1", models.TypeMatch)
	require.NoError(t, err)
	content := match.Content.(models.MatchContent)
	content.Config.PairCount = 5
	match.Content = content

	out, err := Reshape(match)
	require.NoError(t, err)
	assert.Len(t, out.Content.(models.MatchContent).Pairs, 5)

	sortCh, err := models.NewChallenge("s1", models.TypeSort)
	require.NoError(t, err)
	sortContent := sortCh.Content.(models.SortContent)
	sortContent.Config.ItemCount = 1
	sortCh.Content = sortContent

	out, err = Reshape(sortCh)
	require.NoError(t, err)
	assert.Len(t, out.Content.(models.SortContent).Items, 1)
}

func TestReshape_NoContent(t *testing.T) {
	_, err := Reshape(models.Challenge{ID: "x", Type: models.TypeMatch})
	assert.Error(t, err)
}
