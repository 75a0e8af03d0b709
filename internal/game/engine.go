// internal/game/engine.go
package game

import (
	"math/rand"
	"strings"
	"unicode"

	"github.com/bramish/pasiva/internal/models"
)

// GameStateUpdate is a partial set of room fields produced by a decision
// function. Nil pointers leave a field untouched; ClearLastSlice drops the
// pending wheel outcome, which a nil LastSliceIndex alone cannot express.
type GameStateUpdate struct {
	IsSpinning      *bool
	NextTurnIndex   *int
	PlayerScores    map[string]int
	RevealedLetters *string
	LastSliceIndex  *int
	ClearLastSlice  bool
	HasExtraTurn    *bool
	IsGameOver      *bool
	WinnerID        *string
}

// Apply merges the update into a room snapshot and returns the result.
// The input room is not modified.
func (u GameStateUpdate) Apply(room models.Room) models.Room {
	if u.IsSpinning != nil {
		room.IsSpinning = *u.IsSpinning
	}
	if u.NextTurnIndex != nil {
		room.CurrentTurnIndex = *u.NextTurnIndex
	}
	if u.PlayerScores != nil {
		room.PlayerScores = u.PlayerScores
	}
	if u.RevealedLetters != nil {
		room.RevealedLetters = *u.RevealedLetters
	}
	if u.LastSliceIndex != nil {
		idx := *u.LastSliceIndex
		room.LastSliceIndex = &idx
	} else if u.ClearLastSlice {
		room.LastSliceIndex = nil
	}
	if u.HasExtraTurn != nil {
		room.HasExtraTurn = *u.HasExtraTurn
	}
	if u.IsGameOver != nil {
		room.IsGameOver = *u.IsGameOver
	}
	if u.WinnerID != nil {
		room.WinnerID = *u.WinnerID
	}
	return room
}

func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

// canAct reports whether playerID may take a turn-bound action on the
// current snapshot: game not over, not the host, and it is their turn.
func canAct(room *models.Room, playerID string) bool {
	if room.IsGameOver || playerID == room.HostID {
		return false
	}
	cur := room.CurrentTurnPlayer()
	return cur != nil && cur.ID == playerID
}

// NextTurnIndex returns the turn index after the current one, wrapping
// over the playing subset. With no playing players the index is returned
// unchanged; callers guard that case upstream.
func NextTurnIndex(room *models.Room) int {
	n := len(room.PlayingPlayers())
	if n == 0 {
		return room.CurrentTurnIndex
	}
	return (room.CurrentTurnIndex + 1) % n
}

// DrawSliceIndex draws a uniformly random wheel index 0-7.
func DrawSliceIndex(r *rand.Rand) int {
	return r.Intn(len(models.AllSlices))
}

// BeginSpin marks the wheel as spinning, clearing any prior outcome and
// extra-turn window. Returns ok=false (and an empty update) when the acting
// player may not spin; violated preconditions are silent no-ops.
func BeginSpin(room *models.Room, playerID string) (GameStateUpdate, bool) {
	if !canAct(room, playerID) || room.IsSpinning {
		return GameStateUpdate{}, false
	}
	return GameStateUpdate{
		IsSpinning:     boolPtr(true),
		ClearLastSlice: true,
		HasExtraTurn:   boolPtr(false),
	}, true
}

// ResolveSpin applies a drawn slice index to the room. The returned
// pendingPoints is the multiplier a Points slice grants for the next letter
// guess; it is session state for the caller, never part of the room
// document.
func ResolveSpin(room *models.Room, playerID string, sliceIndex int) (GameStateUpdate, int, bool) {
	if !canAct(room, playerID) {
		return GameStateUpdate{}, 0, false
	}

	slice := models.SliceAt(sliceIndex)
	switch slice.Kind {
	case models.SliceBankrupt:
		scores := copyScores(room.PlayerScores)
		scores[playerID] = 0
		return GameStateUpdate{
			IsSpinning:     boolPtr(false),
			LastSliceIndex: intPtr(sliceIndex),
			PlayerScores:   scores,
			NextTurnIndex:  intPtr(NextTurnIndex(room)),
			HasExtraTurn:   boolPtr(false),
		}, 0, true
	case models.SliceExtraTurn:
		return GameStateUpdate{
			IsSpinning:     boolPtr(false),
			LastSliceIndex: intPtr(sliceIndex),
			HasExtraTurn:   boolPtr(true),
		}, 0, true
	case models.SlicePoints:
		return GameStateUpdate{
			IsSpinning:     boolPtr(false),
			LastSliceIndex: intPtr(sliceIndex),
			HasExtraTurn:   boolPtr(false),
		}, slice.Value, true
	}
	return GameStateUpdate{}, 0, false
}

// GuessLetter resolves a letter guess against the secret word. A correct
// letter scores pendingPoints per occurrence; revealing the final letter
// ends the game without advancing the turn. Any other outcome advances the
// turn and clears the wheel outcome.
func GuessLetter(room *models.Room, playerID string, letter rune, pendingPoints int) (GameStateUpdate, bool) {
	if !canAct(room, playerID) || room.SecretWord == "" {
		return GameStateUpdate{}, false
	}

	guessed := unicode.ToUpper(letter)
	if !room.Language.Contains(guessed) || room.HasRevealed(guessed) {
		return GameStateUpdate{}, false
	}

	secret := strings.ToUpper(room.SecretWord)
	revealed := room.RevealedLetters + string(guessed)
	nextTurn := NextTurnIndex(room)

	occurrences := strings.Count(secret, string(guessed))
	if occurrences == 0 {
		return GameStateUpdate{
			RevealedLetters: strPtr(revealed),
			NextTurnIndex:   intPtr(nextTurn),
			ClearLastSlice:  true,
		}, true
	}

	scores := copyScores(room.PlayerScores)
	scores[playerID] += pendingPoints * occurrences

	if WordComplete(secret, revealed) {
		return GameStateUpdate{
			RevealedLetters: strPtr(revealed),
			PlayerScores:    scores,
			IsGameOver:      boolPtr(true),
			WinnerID:        strPtr(playerID),
		}, true
	}

	return GameStateUpdate{
		RevealedLetters: strPtr(revealed),
		PlayerScores:    scores,
		NextTurnIndex:   intPtr(nextTurn),
		ClearLastSlice:  true,
	}, true
}

// GuessWord resolves a whole-word guess. An exact match (case-insensitive,
// whitespace preserved) doubles the guesser's score, reveals every letter
// and ends the game; a miss advances the turn with no score change.
func GuessWord(room *models.Room, playerID string, guess string, pendingPoints int) (GameStateUpdate, bool) {
	if !canAct(room, playerID) || room.SecretWord == "" {
		return GameStateUpdate{}, false
	}

	secret := strings.ToUpper(room.SecretWord)
	guessed := strings.ToUpper(strings.TrimSpace(guess))

	if guessed != secret {
		return GameStateUpdate{
			NextTurnIndex:  intPtr(NextTurnIndex(room)),
			ClearLastSlice: true,
		}, true
	}

	scores := copyScores(room.PlayerScores)
	scores[playerID] = room.ScoreOf(playerID) * 2

	revealed := room.RevealedLetters
	for _, c := range secret {
		if unicode.IsSpace(c) || strings.ContainsRune(revealed, c) {
			continue
		}
		revealed += string(c)
	}

	return GameStateUpdate{
		RevealedLetters: strPtr(revealed),
		PlayerScores:    scores,
		IsGameOver:      boolPtr(true),
		WinnerID:        strPtr(playerID),
		ClearLastSlice:  true,
	}, true
}

// WordComplete reports whether every non-whitespace rune of the secret,
// uppercased, has been revealed.
func WordComplete(secret, revealed string) bool {
	for _, c := range strings.ToUpper(secret) {
		if unicode.IsSpace(c) {
			continue
		}
		if !strings.ContainsRune(revealed, c) {
			return false
		}
	}
	return true
}

func copyScores(scores map[string]int) map[string]int {
	out := make(map[string]int, len(scores))
	for id, s := range scores {
		out[id] = s
	}
	return out
}
