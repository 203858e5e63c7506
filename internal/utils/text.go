package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// sentencePunctuation are the marks that become standalone tokens.
const sentencePunctuation = ".,;:"

var (
	punctuationSplitter = strings.NewReplacer(".", " .", ",", " ,", ";", " ;", ":", " :")
	punctuationJoiner   = strings.NewReplacer(" .", ".", " ,", ",", " ;", ";", " :", ":")
	accentStripper      = strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
		"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U",
	)
)

// SplitSentence tokenizes text on whitespace, turning each of . , ; : into
// its own token.
func SplitSentence(text string) []string {
	return strings.Fields(punctuationSplitter.Replace(text))
}

// JoinSentence is the inverse of SplitSentence for text with standard spacing.
func JoinSentence(tokens []string) string {
	return punctuationJoiner.Replace(strings.Join(tokens, " "))
}

// IsPunctuation reports whether token is one of the standalone marks.
func IsPunctuation(token string) bool {
	return len(token) == 1 && strings.Contains(sentencePunctuation, token)
}

// CheckEqual compares a and b, ignoring letter case unless checkCase is set
// and ignoring the Spanish vowel accents unless checkAccents is set.
func CheckEqual(a, b string, checkCase, checkAccents bool) bool {
	return normalizeAnswer(a, checkCase, checkAccents) == normalizeAnswer(b, checkCase, checkAccents)
}

func normalizeAnswer(s string, checkCase, checkAccents bool) string {
	if !checkCase {
		// Casers keep internal state, so one is built per call.
		s = cases.Lower(language.Und).String(s)
	}
	if !checkAccents {
		s = accentStripper.Replace(s)
	}
	return s
}
