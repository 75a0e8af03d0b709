// internal/room/service.go
package room

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bramish/pasiva/internal/game"
	"github.com/bramish/pasiva/internal/models"
	"github.com/bramish/pasiva/internal/store"
)

// roomIDAttempts bounds the unique-id generation loop.
const roomIDAttempts = 5

// ActionRecorder receives game actions and finished games for archival.
// Implementations must not block game flow on failure.
type ActionRecorder interface {
	RecordAction(ctx context.Context, roomID, playerID, actionType string, payload map[string]interface{})
	RecordGameEnd(ctx context.Context, room models.Room)
}

// CreateRoomResult carries the identifiers a freshly created room hands
// back to its host.
type CreateRoomResult struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

// RoomEvent is one emission on an observation stream: a room snapshot or
// an error. Streams keep delivering after an error if the store recovers.
type RoomEvent struct {
	Room *models.Room
	Err  error
}

// Service is the room lifecycle manager. It owns every mutation of the
// shared room document: creation, joins, game start, secret word, and the
// read-merge-write application of engine updates. It holds no room state
// of its own between calls.
type Service struct {
	Store store.DocumentStore
	Log   *logrus.Logger

	// Now and Rand are injection points for tests; both default to the
	// real clock and a time-seeded source.
	Now  func() time.Time
	Rand *rand.Rand

	// Recorder, when set, receives actions and finished games.
	Recorder ActionRecorder

	randMu sync.Mutex
}

// NewService builds a lifecycle manager over the given store.
func NewService(st store.DocumentStore, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		Store: st,
		Log:   logger,
		Now:   time.Now,
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateRoom builds a room with the host as sole player. Up to 5 candidate
// 6-digit ids are drawn; a collision on all of them fails without writing.
func (s *Service) CreateRoom(ctx context.Context, hostNickname string) (CreateRoomResult, error) {
	if isBlank(hostNickname) {
		return CreateRoomResult{}, fmt.Errorf("nickname cannot be empty: %w", models.ErrInvalidInput)
	}

	for i := 0; i < roomIDAttempts; i++ {
		roomID := s.generateRoomID()

		exists, err := s.Store.Exists(ctx, roomID)
		if err != nil {
			return CreateRoomResult{}, err
		}
		if exists {
			s.Log.WithField("roomId", roomID).Debug("room id collision, retrying")
			continue
		}

		now := s.Now()
		playerID := s.generatePlayerID(now)
		room := models.Room{
			ID:        roomID,
			CreatedAt: now,
			HostID:    playerID,
			Players: []models.Player{{
				ID:       playerID,
				Nickname: hostNickname,
				JoinedAt: now,
			}},
			Language: models.LanguageEnglish,
		}

		if err := s.Store.Create(ctx, roomID, store.FromDomain(room)); err != nil {
			return CreateRoomResult{}, err
		}
		s.Log.WithFields(logrus.Fields{"roomId": roomID, "hostId": playerID}).Info("room created")
		return CreateRoomResult{RoomID: roomID, PlayerID: playerID}, nil
	}

	return CreateRoomResult{}, &models.RoomIDGenerationError{Attempts: roomIDAttempts}
}

// JoinRoom appends a new player to an existing room and returns the new
// player's id. Concurrent joins race on the document; the later write wins
// (the accepted consistency model).
func (s *Service) JoinRoom(ctx context.Context, roomID, nickname string) (string, error) {
	if !ValidRoomID(roomID) {
		return "", &models.InvalidRoomIDError{RoomID: roomID}
	}
	if isBlank(nickname) {
		return "", fmt.Errorf("nickname cannot be empty: %w", models.ErrInvalidInput)
	}

	exists, err := s.Store.Exists(ctx, roomID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &models.RoomNotFoundError{RoomID: roomID}
	}

	doc, err := s.Store.Get(ctx, roomID)
	if err != nil {
		return "", err
	}

	now := s.Now()
	playerID := s.generatePlayerID(now)
	doc.Players = append(doc.Players, store.PlayerDoc{
		ID:       playerID,
		Nickname: nickname,
		JoinedAt: now.UnixMilli(),
	})

	if err := s.Store.Set(ctx, roomID, doc); err != nil {
		return "", err
	}
	s.Log.WithFields(logrus.Fields{"roomId": roomID, "playerId": playerID}).Info("player joined")
	return playerID, nil
}

// StartGame flips isGameStarted; every observer transitions to the
// in-progress view on seeing the flag. Host-only enforcement is layered
// above this call.
func (s *Service) StartGame(ctx context.Context, roomID string) error {
	doc, err := s.Store.Get(ctx, roomID)
	if err != nil {
		return err
	}
	doc.IsGameStarted = true
	if err := s.Store.Set(ctx, roomID, doc); err != nil {
		return err
	}
	s.Log.WithField("roomId", roomID).Info("game started")
	return nil
}

// SetSecretWord stores the uppercased secret word and its language.
// Calling again overwrites; there is no idempotence guard.
func (s *Service) SetSecretWord(ctx context.Context, roomID, word string, language models.Language) error {
	if isBlank(word) {
		return fmt.Errorf("secret word cannot be empty: %w", models.ErrInvalidInput)
	}
	doc, err := s.Store.Get(ctx, roomID)
	if err != nil {
		return err
	}
	doc.SecretWord = upper(word)
	doc.Language = string(language)
	if err := s.Store.Set(ctx, roomID, doc); err != nil {
		return err
	}
	s.Log.WithFields(logrus.Fields{"roomId": roomID, "language": language}).Info("secret word set")
	return nil
}

// GetRoom is a one-shot fetch.
func (s *Service) GetRoom(ctx context.Context, roomID string) (models.Room, error) {
	doc, err := s.Store.Get(ctx, roomID)
	if err != nil {
		return models.Room{}, err
	}
	return doc.ToDomain(), nil
}

// ObserveRoom streams room snapshots until ctx is cancelled. A missing
// room is delivered as a RoomNotFound event on the stream, not a terminal
// failure; later recreations keep flowing.
func (s *Service) ObserveRoom(ctx context.Context, roomID string) (<-chan RoomEvent, error) {
	snaps, err := s.Store.Subscribe(ctx, roomID)
	if err != nil {
		return nil, err
	}

	events := make(chan RoomEvent, 16)
	go func() {
		defer close(events)
		for snap := range snaps {
			var ev RoomEvent
			switch {
			case snap.Err != nil:
				ev = RoomEvent{Err: snap.Err}
			case !snap.Exists:
				ev = RoomEvent{Err: &models.RoomNotFoundError{RoomID: roomID}}
			default:
				room := snap.Doc.ToDomain()
				ev = RoomEvent{Room: &room}
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// UpdateGameState applies an engine update through a read-merge-write of
// the room document. There is no compare-and-swap: two clients writing from
// the same stale snapshot race, and the later write wins.
func (s *Service) UpdateGameState(ctx context.Context, roomID string, update game.GameStateUpdate) error {
	doc, err := s.Store.Get(ctx, roomID)
	if err != nil {
		return err
	}

	before := doc.ToDomain()
	after := update.Apply(before)

	if err := s.Store.Set(ctx, roomID, store.FromDomain(after)); err != nil {
		return err
	}

	if !before.IsGameOver && after.IsGameOver && s.Recorder != nil {
		s.Recorder.RecordGameEnd(ctx, after)
	}
	return nil
}

func (s *Service) recordAction(ctx context.Context, roomID, playerID, actionType string, payload map[string]interface{}) {
	if s.Recorder != nil {
		s.Recorder.RecordAction(ctx, roomID, playerID, actionType, payload)
	}
}

// generateRoomID draws a uniform random id in [100000, 999999].
func (s *Service) generateRoomID() string {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return fmt.Sprintf("%d", 100000+s.Rand.Intn(900000))
}

// generatePlayerID combines the current time with a random suffix. Not
// cryptographically unique; collisions between concurrent joins are
// negligible, which is all the room contract asks for.
func (s *Service) generatePlayerID(now time.Time) string {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return fmt.Sprintf("%d_%d", now.UnixMilli(), 1000+s.Rand.Intn(9000))
}

func (s *Service) drawSliceIndex() int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return game.DrawSliceIndex(s.Rand)
}
