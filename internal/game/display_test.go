// internal/game/display_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayWord(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		revealed string
		want     string
	}{
		{"nothing revealed", "CAT", "", "_ _ _"},
		{"partially revealed", "CAT", "CT", "C _ T"},
		{"fully revealed", "CAT", "CAT", "C A T"},
		{"word gap folds into spacing", "CAT DOG", "CAT", "C A T _ _ _"},
		{"lowercase secret", "cat", "CA", "C A _"},
		{"repeated letters reveal together", "BANANA", "A", "_ A _ A _ A"},
		{"empty secret", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayWord(tt.secret, tt.revealed))
		})
	}
}
