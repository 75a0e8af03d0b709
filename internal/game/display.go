// internal/game/display.go
package game

import (
	"strings"
	"unicode"
)

// DisplayWord renders the secret word as seen by the guessing players:
// revealed letters shown uppercased, unrevealed letters as underscores,
// one token per character joined by single spaces. Word gaps fold into the
// joining space, e.g. "CAT DOG" with C,A,T revealed => "C A T _ _ _".
func DisplayWord(secret, revealed string) string {
	tokens := make([]string, 0, len(secret))
	for _, c := range strings.ToUpper(secret) {
		switch {
		case unicode.IsSpace(c):
			tokens = append(tokens, " ")
		case strings.ContainsRune(revealed, c):
			tokens = append(tokens, string(c))
		default:
			tokens = append(tokens, "_")
		}
	}
	joined := strings.Join(tokens, " ")
	return strings.Join(strings.Fields(joined), " ")
}
