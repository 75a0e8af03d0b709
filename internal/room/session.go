// internal/room/session.go
package room

import (
	"context"
	"sync"
	"time"

	"github.com/bramish/pasiva/internal/game"
	"github.com/bramish/pasiva/internal/models"
)

// DefaultSpinDelay paces the two-phase spin so every observer sees the
// wheel in its spinning state before the outcome lands. Pure UX pacing,
// not a correctness requirement; tests shorten it.
const DefaultSpinDelay = 2 * time.Second

// Session is one player's in-memory handle on a room. It carries the
// pending points multiplier between a spin and the following guess; that
// value never reaches the shared document, so reconnecting mid-turn loses
// it by design.
type Session struct {
	svc       *Service
	roomID    string
	playerID  string
	spinDelay time.Duration

	mu            sync.Mutex
	pendingPoints int
}

// NewSession builds a session for a player already present in the room.
func NewSession(svc *Service, roomID, playerID string) *Session {
	return &Session{
		svc:       svc,
		roomID:    roomID,
		playerID:  playerID,
		spinDelay: DefaultSpinDelay,
	}
}

// SetSpinDelay overrides the spin pacing delay.
func (s *Session) SetSpinDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spinDelay = d
}

// PlayerID returns the session's player id.
func (s *Session) PlayerID() string { return s.playerID }

// RoomID returns the session's room id.
func (s *Session) RoomID() string { return s.roomID }

// PendingPoints returns the multiplier held from the last Points spin.
func (s *Session) PendingPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingPoints
}

// Spin runs the two-phase spin: mark the wheel spinning, wait out the
// pacing delay, then draw and resolve a slice. Violated preconditions
// (not this player's turn, already spinning, game over) are silent no-ops.
func (s *Session) Spin(ctx context.Context) error {
	room, err := s.svc.GetRoom(ctx, s.roomID)
	if err != nil {
		return err
	}

	update, ok := game.BeginSpin(&room, s.playerID)
	if !ok {
		return nil
	}
	if err := s.svc.UpdateGameState(ctx, s.roomID, update); err != nil {
		return err
	}
	s.svc.recordAction(ctx, s.roomID, s.playerID, "action_spin", nil)

	delay := s.spinDelay
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	room, err = s.svc.GetRoom(ctx, s.roomID)
	if err != nil {
		return err
	}

	sliceIndex := s.svc.drawSliceIndex()
	update, pending, ok := game.ResolveSpin(&room, s.playerID, sliceIndex)
	if !ok {
		return nil
	}
	if err := s.svc.UpdateGameState(ctx, s.roomID, update); err != nil {
		return err
	}

	s.mu.Lock()
	s.pendingPoints = pending
	s.mu.Unlock()

	s.svc.recordAction(ctx, s.roomID, s.playerID, "action_spin_result", map[string]interface{}{
		"sliceIndex": sliceIndex,
		"slice":      models.SliceAt(sliceIndex).DisplayText(),
	})
	return nil
}

// GuessLetter resolves a letter guess using the held multiplier. The
// multiplier is consumed regardless of outcome.
func (s *Session) GuessLetter(ctx context.Context, letter rune) error {
	room, err := s.svc.GetRoom(ctx, s.roomID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	pending := s.pendingPoints
	s.mu.Unlock()

	update, ok := game.GuessLetter(&room, s.playerID, letter, pending)
	if !ok {
		return nil
	}
	if err := s.svc.UpdateGameState(ctx, s.roomID, update); err != nil {
		return err
	}

	s.mu.Lock()
	s.pendingPoints = 0
	s.mu.Unlock()

	s.svc.recordAction(ctx, s.roomID, s.playerID, "action_guess_letter", map[string]interface{}{
		"letter": string(letter),
	})
	return nil
}

// GuessWord resolves a whole-word guess. The multiplier is consumed
// regardless of outcome.
func (s *Session) GuessWord(ctx context.Context, word string) error {
	room, err := s.svc.GetRoom(ctx, s.roomID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	pending := s.pendingPoints
	s.mu.Unlock()

	update, ok := game.GuessWord(&room, s.playerID, word, pending)
	if !ok {
		return nil
	}
	if err := s.svc.UpdateGameState(ctx, s.roomID, update); err != nil {
		return err
	}

	s.mu.Lock()
	s.pendingPoints = 0
	s.mu.Unlock()

	s.svc.recordAction(ctx, s.roomID, s.playerID, "action_guess_word", nil)
	return nil
}

// RefreshPending re-derives the multiplier from an observed snapshot: a
// resolved Points outcome on this player's turn re-arms the pending value.
// Lets the observation loop keep the session in step with writes this
// client itself made.
func (s *Session) RefreshPending(room *models.Room) {
	if room.IsSpinning || room.IsGameOver || room.LastSliceIndex == nil || room.HasExtraTurn {
		return
	}
	cur := room.CurrentTurnPlayer()
	if cur == nil || cur.ID != s.playerID {
		return
	}
	slice := models.SliceAt(*room.LastSliceIndex)
	if slice.Kind != models.SlicePoints {
		return
	}
	s.mu.Lock()
	s.pendingPoints = slice.Value
	s.mu.Unlock()
}
