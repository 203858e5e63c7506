package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain words", "The cat sat", []string{"The", "cat", "sat"}},
		{"punctuation becomes tokens", "Hello, world.", []string{"Hello", ",", "world", "."}},
		{"all marks", "a; b: c, d.", []string{"a", ";", "b", ":", "c", ",", "d", "."}},
		{"collapses whitespace", "  one   two \t three ", []string{"one", "two", "three"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentence(tt.text))
		})
	}
}

func TestJoinSentence_RoundTrip(t *testing.T) {
	sentences := []string{
		"The cat sat on the mat.",
		"Hello, world.",
		"First: second; third, fourth.",
		"No punctuation here",
		"",
	}

	for _, s := range sentences {
		assert.Equal(t, s, JoinSentence(SplitSentence(s)), "round trip of %q", s)
	}
}

func TestJoinSentence(t *testing.T) {
	assert.Equal(t, "sat on.", JoinSentence([]string{"sat", "on", "."}))
	assert.Equal(t, "", JoinSentence(nil))
}

func TestIsPunctuation(t *testing.T) {
	for _, p := range []string{".", ",", ";", ":"} {
		assert.True(t, IsPunctuation(p), p)
	}
	for _, w := range []string{"a", "", "..", "!"} {
		assert.False(t, IsPunctuation(w), w)
	}
}

func TestCheckEqual(t *testing.T) {
	tests := []struct {
		name         string
		a, b         string
		checkCase    bool
		checkAccents bool
		want         bool
	}{
		{"ignore case and accents", "CAFÉ", "cafe", false, false, true},
		{"case checked", "CAFÉ", "cafe", true, false, false},
		{"accents checked", "café", "cafe", false, true, false},
		{"both checked exact", "Café", "Café", true, true, true},
		{"upper accents stripped", "ÁÉÍÓÚ", "aeiou", false, false, true},
		{"other diacritics kept", "niño", "nino", false, false, false},
		{"both empty", "", "", false, false, true},
		{"empty vs value", "", "a", false, false, false},
		{"different words", "dog", "cat", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckEqual(tt.a, tt.b, tt.checkCase, tt.checkAccents))
		})
	}
}

func TestCheckEqual_IsEquivalenceRelation(t *testing.T) {
	values := []string{"Canción", "cancion", "CANCIÓN", "canción", "Cancion", "otro", ""}
	flags := [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}}

	for _, f := range flags {
		for _, a := range values {
			assert.True(t, CheckEqual(a, a, f[0], f[1]), "reflexive %q", a)
			for _, b := range values {
				assert.Equal(t, CheckEqual(a, b, f[0], f[1]), CheckEqual(b, a, f[0], f[1]), "symmetric %q %q", a, b)
				for _, c := range values {
					if CheckEqual(a, b, f[0], f[1]) && CheckEqual(b, c, f[0], f[1]) {
						assert.True(t, CheckEqual(a, c, f[0], f[1]), "transitive %q %q %q", a, b, c)
					}
				}
			}
		}
	}
}
