package designer

import (
	"fmt"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
)

// Reshape resizes the content of ch to the counts in its config. Lists grow
// by appending default elements and shrink by truncating; existing elements
// keep their positions. The input challenge is not modified.
func Reshape(ch models.Challenge) (models.Challenge, error) {
	out := ch.Clone()

	switch c := out.Content.(type) {
	case models.SelectAnswerContent:
		c.Answers = resize(c.Answers, models.SelectAnswerOptionCount, func() models.Answer { return models.Answer{} })
		if !c.Config.Multiselect {
			c.Answers = keepFirstValid(c.Answers)
		}
		if c.Picture.Type == "" {
			c.Picture.Type = models.PictureNone
		}
		out.Content = c
	case models.TrueOrFalseContent:
		if c.Picture.Type == "" {
			c.Picture.Type = models.PictureNone
		}
		out.Content = c
	case models.FillGapsContent:
		c.Sentences = resize(c.Sentences, c.Config.SentenceCount, func() models.Sentence {
			return models.Sentence{HiddenExpressions: []models.HiddenExpression{}}
		})
		for i, s := range c.Sentences {
			c.Sentences[i] = pruneHidden(s)
		}
		out.Content = c
	case models.MatchContent:
		c.Pairs = resize(c.Pairs, c.Config.PairCount, func() models.MatchPair { return models.MatchPair{} })
		out.Content = c
	case models.SortContent:
		c.Items = resize(c.Items, c.Config.ItemCount, func() string { return "" })
		out.Content = c
	case models.ClassifyContent:
		c.Groups = resize(c.Groups, c.Config.GroupCount, func() models.ClassifyGroup {
			return models.ClassifyGroup{Items: []string{}}
		})
		out.Content = c
	case models.FillTableContent:
		c.Items = resize(c.Items, c.Config.RowCount, func() []models.TableCell { return nil })
		for i, row := range c.Items {
			c.Items[i] = resize(row, c.Config.ColumnCount, func() models.TableCell { return models.TableCell{} })
		}
		out.Content = c
	case models.TheOddOneContent:
		c.Series = resize(c.Series, c.Config.SeriesCount, func() models.OddSeries { return models.OddSeries{} })
		for i, s := range c.Series {
			s.Elements = resize(s.Elements, c.Config.ElementCount, func() string { return "" })
			if s.TheOddOneIndex < 0 || s.TheOddOneIndex >= len(s.Elements) {
				s.TheOddOneIndex = 0
			}
			c.Series[i] = s
		}
		out.Content = c
	case nil:
		return models.Challenge{}, fmt.Errorf("challenge %s has no content", ch.ID)
	default:
		return models.Challenge{}, fmt.Errorf("unsupported challenge type %s", ch.Type)
	}

	return out, nil
}

// resize returns s with exactly n elements. Negative n is treated as 0.
func resize[T any](s []T, n int, fill func() T) []T {
	if n < 0 {
		n = 0
	}
	if len(s) >= n {
		return s[:n:n]
	}
	out := make([]T, n)
	copy(out, s)
	for i := len(s); i < n; i++ {
		out[i] = fill()
	}
	return out
}

func keepFirstValid(answers []models.Answer) []models.Answer {
	seen := false
	for i := range answers {
		if answers[i].Valid {
			if seen {
				answers[i].Valid = false
			}
			seen = true
		}
	}
	return answers
}

// pruneHidden drops hidden expressions that no longer fit the sentence text
// or overlap an earlier one.
func pruneHidden(s models.Sentence) models.Sentence {
	n := len(utils.SplitSentence(s.Text))
	kept := make([]models.HiddenExpression, 0, len(s.HiddenExpressions))
	prevEnd := -1
	for _, h := range s.HiddenExpressions {
		if h.WordCount < 1 || h.InitPosition <= prevEnd || h.End() >= n {
			continue
		}
		if h.Alternatives == nil {
			h.Alternatives = []string{}
		}
		kept = append(kept, h)
		prevEnd = h.End()
	}
	s.HiddenExpressions = kept
	return s
}
