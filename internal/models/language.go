// internal/models/language.go
package models

import "strings"

// Language selects the guessable alphabet for the secret word.
type Language string

const (
	LanguageEnglish Language = "ENGLISH"
	LanguageHebrew  Language = "HEBREW"
)

// ParseLanguage converts a stored string to a Language, defaulting to
// English for anything unrecognized.
func ParseLanguage(value string) Language {
	if strings.ToUpper(value) == string(LanguageHebrew) {
		return LanguageHebrew
	}
	return LanguageEnglish
}

// DisplayName returns the user-facing name of the language.
func (l Language) DisplayName() string {
	if l == LanguageHebrew {
		return "עברית"
	}
	return "English"
}

var hebrewAlphabet = []rune{
	'א', 'ב', 'ג', 'ד', 'ה', 'ו', 'ז', 'ח', 'ט',
	'י', 'כ', 'ל', 'מ', 'נ', 'ס', 'ע', 'פ', 'צ',
	'ק', 'ר', 'ש', 'ת',
}

// Alphabet returns the guessable letters: 26 Latin letters for English,
// 22 letters for Hebrew.
func (l Language) Alphabet() []rune {
	if l == LanguageHebrew {
		out := make([]rune, len(hebrewAlphabet))
		copy(out, hebrewAlphabet)
		return out
	}
	out := make([]rune, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, c)
	}
	return out
}

// Contains reports whether the rune belongs to this language's alphabet.
func (l Language) Contains(letter rune) bool {
	for _, c := range l.Alphabet() {
		if c == letter {
			return true
		}
	}
	return false
}
