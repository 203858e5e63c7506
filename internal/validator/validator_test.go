package validator

import (
	"testing"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(errs ValidationErrors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func validSelectAnswer() models.Challenge {
	return models.Challenge{ID: "sa", Type: models.TypeSelectAnswer, Content: models.SelectAnswerContent{
		Config:  models.SelectAnswerConfig{BaseConfig: models.DefaultBaseConfig()},
		Picture: models.ChallengePicture{Type: models.PictureNone},
		Answers: []models.Answer{{Text: "a", Valid: true}, {Text: "b"}, {Text: "c"}, {Text: "d"}},
	}}
}

func validFillGaps() models.Challenge {
	return models.Challenge{ID: "fg", Type: models.TypeFillGaps, Content: models.FillGapsContent{
		Config: models.FillGapsConfig{BaseConfig: models.DefaultBaseConfig(), SentenceCount: 1},
		Sentences: []models.Sentence{{
			Text:              "The cat sat.",
			HiddenExpressions: []models.HiddenExpression{{InitPosition: 1, WordCount: 1, Alternatives: []string{"kitten"}}},
		}},
	}}
}

func TestValidate_ValidChallenges(t *testing.T) {
	v := New()
	for _, ch := range []models.Challenge{validSelectAnswer(), validFillGaps()} {
		assert.NoError(t, v.Validate(ch), ch.ID)
	}
}

func TestValidate_StructTags(t *testing.T) {
	v := New()

	ch := validSelectAnswer()
	ch.Type = "crossword"
	err := v.Validate(ch)
	require.Error(t, err)
	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "challenge_type", errs[0].Rule)
	assert.Equal(t, "type", errs[0].Field)
}

func TestChallengeValidator_SelectAnswer(t *testing.T) {
	v := New().Challenge()

	ch := validSelectAnswer()
	content := ch.Content.(models.SelectAnswerContent)
	content.Answers[1].Valid = true
	ch.Content = content
	assert.Contains(t, fields(v.Validate(ch)), "content.answers")

	content.Config.Multiselect = true
	ch.Content = content
	assert.Empty(t, v.Validate(ch))

	content.Picture = models.ChallengePicture{Type: models.PictureURL, Data: "not a url"}
	ch.Content = content
	assert.Contains(t, fields(v.Validate(ch)), "content.picture.data")

	empty, err := models.NewChallenge("new", models.TypeSelectAnswer)
	require.NoError(t, err)
	assert.NotEmpty(t, v.Validate(empty))
}

func TestChallengeValidator_ContentMismatch(t *testing.T) {
	v := New().Challenge()

	errs := v.Validate(models.Challenge{ID: "x", Type: models.TypeMatch, Content: models.SortContent{}})
	require.Len(t, errs, 1)
	assert.Equal(t, "content_type", errs[0].Rule)

	errs = v.Validate(models.Challenge{ID: "x", Type: models.TypeMatch})
	require.Len(t, errs, 1)
	assert.Equal(t, "content", errs[0].Field)
}

func TestChallengeValidator_FillGaps(t *testing.T) {
	v := New().Challenge()

	ch := validFillGaps()
	content := ch.Content.(models.FillGapsContent)
	content.Sentences[0].HiddenExpressions = append(content.Sentences[0].HiddenExpressions,
		models.HiddenExpression{InitPosition: 1, WordCount: 2})
	ch.Content = content
	assert.Contains(t, fields(v.Validate(ch)), "content.sentences[0].hiddenExpressions")

	content = validFillGaps().Content.(models.FillGapsContent)
	content.Sentences[0].HiddenExpressions = nil
	ch.Content = content
	assert.Contains(t, fields(v.Validate(ch)), "content.sentences")
}

func TestChallengeValidator_Classify(t *testing.T) {
	v := New().Challenge()
	ch := models.Challenge{ID: "c", Type: models.TypeClassify, Content: models.ClassifyContent{
		Config: models.ClassifyConfig{BaseConfig: models.DefaultBaseConfig(), GroupCount: 2},
		Groups: []models.ClassifyGroup{
			{Name: "fruit", Items: []string{"apple", "tomato"}},
			{Name: "veg", Items: []string{"tomato"}},
		},
	}}

	errs := v.Validate(ch)
	require.Len(t, errs, 1)
	assert.Equal(t, "content.groups[1].items", errs[0].Field)
	assert.Equal(t, "unique", errs[0].Rule)
}

func TestChallengeValidator_FillTable(t *testing.T) {
	v := New().Challenge()
	ch := models.Challenge{ID: "t", Type: models.TypeFillTable, Content: models.FillTableContent{
		Config: models.FillTableConfig{BaseConfig: models.DefaultBaseConfig(), RowCount: 2, ColumnCount: 2, FirstRowFixed: true},
		Items: [][]models.TableCell{
			{{Text: ""}, {Text: ""}},
			{{Text: "France"}, {Text: "Paris"}},
		},
	}}
	assert.Equal(t, []string{"content.items"}, fields(v.Validate(ch)))

	content := ch.Content.(models.FillTableContent)
	content.Items[1][1].Hidden = true
	ch.Content = content
	assert.Empty(t, v.Validate(ch))

	content.Items = content.Items[:1]
	ch.Content = content
	assert.Contains(t, fields(v.Validate(ch)), "content.items")
}

func TestChallengeValidator_TheOddOne(t *testing.T) {
	v := New().Challenge()
	ch := models.Challenge{ID: "o", Type: models.TypeTheOddOne, Content: models.TheOddOneContent{
		Config: models.TheOddOneConfig{BaseConfig: models.DefaultBaseConfig(), SeriesCount: 1, ElementCount: 3},
		Series: []models.OddSeries{{Elements: []string{"1", "2", "x"}, TheOddOneIndex: 3}},
	}}
	assert.Equal(t, []string{"content.series[0].theOddOneIndex"}, fields(v.Validate(ch)))
}

func TestChallengeValidator_ValidateProject(t *testing.T) {
	v := New().Challenge()
	project := &models.Project{ID: "p", Name: "P", Tests: []models.Test{
		{ID: "t1", Name: "one", Challenges: []models.Challenge{validSelectAnswer(), validSelectAnswer()}},
		{ID: "t1", Name: "two"},
	}}

	assert.ElementsMatch(t, []string{"tests[0].challenges[1].id", "tests[1].id"}, fields(v.ValidateProject(project)))
}
