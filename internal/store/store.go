// internal/store/store.go
package store

import (
	"context"
	"time"

	"github.com/bramish/pasiva/internal/models"
)

// PlayerDoc is the wire form of a player inside a room document.
type PlayerDoc struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	JoinedAt int64  `json:"joinedAt"` // epoch milliseconds
}

// RoomDoc is the flat wire form of a room document, mirroring the shared
// document shape field for field. Timestamps travel as epoch milliseconds.
type RoomDoc struct {
	ID               string         `json:"id"`
	CreatedAt        int64          `json:"createdAt"`
	HostID           string         `json:"hostId"`
	Players          []PlayerDoc    `json:"players"`
	IsGameStarted    bool           `json:"isGameStarted"`
	CurrentTurnIndex int            `json:"currentTurnIndex"`
	IsSpinning       bool           `json:"isSpinning"`
	SecretWord       string         `json:"secretWord,omitempty"`
	Language         string         `json:"language,omitempty"`
	PlayerScores     map[string]int `json:"playerScores,omitempty"`
	RevealedLetters  string         `json:"revealedLetters,omitempty"`
	LastSliceIndex   *int           `json:"lastSliceIndex,omitempty"`
	HasExtraTurn     bool           `json:"hasExtraTurn"`
	IsGameOver       bool           `json:"isGameOver"`
	WinnerID         string         `json:"winnerId,omitempty"`
}

// Snapshot is one emission on a subscription stream: either a document or
// a not-found marker, plus a terminal error when the stream breaks.
type Snapshot struct {
	Doc    *RoomDoc
	Exists bool
	Err    error
}

// DocumentStore is the room-document collaborator. A Set is a full-document
// replace; atomicity of a single call is the store's concern, and no
// compare-and-swap is offered.
type DocumentStore interface {
	Create(ctx context.Context, id string, doc RoomDoc) error
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (RoomDoc, error)
	Set(ctx context.Context, id string, doc RoomDoc) error

	// Subscribe emits the current snapshot immediately, then every
	// subsequent write, until ctx is cancelled.
	Subscribe(ctx context.Context, id string) (<-chan Snapshot, error)
}

func notFoundErr(id string) error {
	return &models.RoomNotFoundError{RoomID: id}
}

// ToDomain converts the wire document into the domain aggregate.
func (d RoomDoc) ToDomain() models.Room {
	players := make([]models.Player, 0, len(d.Players))
	for _, p := range d.Players {
		players = append(players, models.Player{
			ID:       p.ID,
			Nickname: p.Nickname,
			JoinedAt: time.UnixMilli(p.JoinedAt),
		})
	}
	return models.Room{
		ID:               d.ID,
		CreatedAt:        time.UnixMilli(d.CreatedAt),
		HostID:           d.HostID,
		Players:          players,
		IsGameStarted:    d.IsGameStarted,
		CurrentTurnIndex: d.CurrentTurnIndex,
		IsSpinning:       d.IsSpinning,
		SecretWord:       d.SecretWord,
		Language:         models.ParseLanguage(d.Language),
		PlayerScores:     d.PlayerScores,
		RevealedLetters:  d.RevealedLetters,
		LastSliceIndex:   d.LastSliceIndex,
		HasExtraTurn:     d.HasExtraTurn,
		IsGameOver:       d.IsGameOver,
		WinnerID:         d.WinnerID,
	}
}

// FromDomain converts a domain room into its wire document.
func FromDomain(room models.Room) RoomDoc {
	players := make([]PlayerDoc, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, PlayerDoc{
			ID:       p.ID,
			Nickname: p.Nickname,
			JoinedAt: p.JoinedAt.UnixMilli(),
		})
	}
	return RoomDoc{
		ID:               room.ID,
		CreatedAt:        room.CreatedAt.UnixMilli(),
		HostID:           room.HostID,
		Players:          players,
		IsGameStarted:    room.IsGameStarted,
		CurrentTurnIndex: room.CurrentTurnIndex,
		IsSpinning:       room.IsSpinning,
		SecretWord:       room.SecretWord,
		Language:         string(room.Language),
		PlayerScores:     room.PlayerScores,
		RevealedLetters:  room.RevealedLetters,
		LastSliceIndex:   room.LastSliceIndex,
		HasExtraTurn:     room.HasExtraTurn,
		IsGameOver:       room.IsGameOver,
		WinnerID:         room.WinnerID,
	}
}
