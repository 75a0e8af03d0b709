// internal/models/room.go
package models

import (
	"strings"
	"time"
)

// Player is a single participant in a room. Immutable once created; the
// room orders players by JoinedAt (insertion order), which drives the turn
// rotation.
type Player struct {
	ID       string    `json:"id"`
	Nickname string    `json:"nickname"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Room is the aggregate root for a game session. It mirrors the shared
// room document one-to-one; every client decides its next action from a
// snapshot of this struct.
type Room struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	HostID    string    `json:"hostId"`
	Players   []Player  `json:"players"`

	IsGameStarted    bool           `json:"isGameStarted"`
	CurrentTurnIndex int            `json:"currentTurnIndex"`
	IsSpinning       bool           `json:"isSpinning"`
	SecretWord       string         `json:"secretWord,omitempty"`
	Language         Language       `json:"language"`
	PlayerScores     map[string]int `json:"playerScores"`

	// RevealedLetters holds every correctly guessed (or word-revealed)
	// letter as a string of uppercase runes, matching the wire format.
	RevealedLetters string `json:"revealedLetters"`

	// LastSliceIndex is the most recent wheel outcome (0-7), nil when no
	// outcome is pending.
	LastSliceIndex *int `json:"lastSliceIndex,omitempty"`

	HasExtraTurn bool   `json:"hasExtraTurn"`
	IsGameOver   bool   `json:"isGameOver"`
	WinnerID     string `json:"winnerId,omitempty"`
}

// PlayingPlayers returns the players participating in the turn rotation:
// everyone except the host, in join order. The host only sets the secret
// word and never takes a turn.
func (r *Room) PlayingPlayers() []Player {
	playing := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.ID != r.HostID {
			playing = append(playing, p)
		}
	}
	return playing
}

// CurrentTurnPlayer returns the player whose turn it is, clamping the turn
// index into the playing subset. Returns nil if nobody is playing yet.
func (r *Room) CurrentTurnPlayer() *Player {
	playing := r.PlayingPlayers()
	if len(playing) == 0 {
		return nil
	}
	idx := r.CurrentTurnIndex
	if idx < 0 {
		idx = 0
	}
	if idx >= len(playing) {
		idx = len(playing) - 1
	}
	return &playing[idx]
}

// ScoreOf returns a player's score, defaulting to 0 for players that have
// not scored yet.
func (r *Room) ScoreOf(playerID string) int {
	if r.PlayerScores == nil {
		return 0
	}
	return r.PlayerScores[playerID]
}

// HasRevealed reports whether the (uppercase) letter has been guessed.
func (r *Room) HasRevealed(letter rune) bool {
	return strings.ContainsRune(r.RevealedLetters, letter)
}

// FindPlayer returns the player with the given id, or nil.
func (r *Room) FindPlayer(playerID string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == playerID {
			return &r.Players[i]
		}
	}
	return nil
}
