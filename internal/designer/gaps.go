// Package designer holds the pure authoring transforms for challenges: the
// fill-gaps word toggling and the reshaping of content to config counts.
package designer

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
)

var ErrWordOutOfRange = errors.New("word index out of range")

// ToggleGap flips the hidden state of word within a sentence of sentenceLen
// words. hidden must be sorted and non-overlapping; so is the result.
// Growing an expression keeps its alternatives, any other change to an
// existing expression clears them.
func ToggleGap(hidden []models.HiddenExpression, word, sentenceLen int) ([]models.HiddenExpression, error) {
	if word < 0 || word >= sentenceLen {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrWordOutOfRange, word, sentenceLen)
	}

	hidden = cloneExpressions(hidden)
	if len(hidden) == 0 {
		return []models.HiddenExpression{singleton(word)}, nil
	}

	out := make([]models.HiddenExpression, 0, len(hidden)+1)
	for i, cur := range hidden {
		start, end := cur.InitPosition, cur.End()
		rest := hidden[i+1:]

		switch {
		case word < start-1:
			out = append(out, singleton(word), cur)
			return append(out, rest...), nil

		case word == start-1:
			cur.InitPosition = word
			cur.WordCount++
			out = append(out, cur)
			return append(out, rest...), nil

		case word == start:
			if cur.WordCount > 1 {
				cur.InitPosition++
				cur.WordCount--
				cur.Alternatives = []string{}
				out = append(out, cur)
			}
			return append(out, rest...), nil

		case word < end:
			left := models.HiddenExpression{InitPosition: start, WordCount: word - start, Alternatives: []string{}}
			right := models.HiddenExpression{InitPosition: word + 1, WordCount: end - word, Alternatives: []string{}}
			out = append(out, left, right)
			return append(out, rest...), nil

		case word == end:
			cur.WordCount--
			cur.Alternatives = []string{}
			out = append(out, cur)
			return append(out, rest...), nil

		case word == end+1:
			if len(rest) > 0 && rest[0].InitPosition == word+1 {
				out = append(out, models.HiddenExpression{
					InitPosition: start,
					WordCount:    rest[0].End() - start + 1,
					Alternatives: []string{},
				})
				return append(out, rest[1:]...), nil
			}
			cur.WordCount++
			out = append(out, cur)
			return append(out, rest...), nil

		default:
			out = append(out, cur)
		}
	}

	return append(out, singleton(word)), nil
}

// ToggleSentenceWord applies ToggleGap to a sentence, tokenizing its text to
// find the word count.
func ToggleSentenceWord(sentence models.Sentence, word int) (models.Sentence, error) {
	words := utils.SplitSentence(sentence.Text)
	hidden, err := ToggleGap(sentence.HiddenExpressions, word, len(words))
	if err != nil {
		return models.Sentence{}, err
	}
	out := sentence.Clone()
	out.HiddenExpressions = hidden
	return out, nil
}

// HiddenText returns the words covered by expr. ok is false when expr does not
// fit inside words.
func HiddenText(words []string, expr models.HiddenExpression) (text string, ok bool) {
	if expr.WordCount < 1 || expr.InitPosition < 0 || expr.InitPosition+expr.WordCount > len(words) {
		return "", false
	}
	return utils.JoinSentence(words[expr.InitPosition : expr.InitPosition+expr.WordCount]), true
}

// WellFormed reports whether the expressions fit a sentence of sentenceLen
// words, are sorted and do not overlap.
func WellFormed(hidden []models.HiddenExpression, sentenceLen int) bool {
	prevEnd := -1
	for _, h := range hidden {
		if h.WordCount < 1 || h.InitPosition <= prevEnd || h.End() >= sentenceLen {
			return false
		}
		prevEnd = h.End()
	}
	return true
}

func singleton(word int) models.HiddenExpression {
	return models.HiddenExpression{InitPosition: word, WordCount: 1, Alternatives: []string{}}
}

func cloneExpressions(in []models.HiddenExpression) []models.HiddenExpression {
	out := make([]models.HiddenExpression, len(in))
	for i, h := range in {
		alts := make([]string, len(h.Alternatives))
		copy(alts, h.Alternatives)
		h.Alternatives = alts
		out[i] = h
	}
	return out
}
