// internal/history/history.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/bramish/pasiva/internal/models"
)

// DefaultQueueName is the Redis list holding game action records for
// offline processing.
var DefaultQueueName = "pasiva_actions"

// ActionRecord is one archived game action.
type ActionRecord struct {
	ID         uuid.UUID              `json:"id"`
	RoomID     string                 `json:"room_id"`
	PlayerID   string                 `json:"player_id"`
	ActionType string                 `json:"action_type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	Timestamp  int64                  `json:"timestamp"`
}

// Recorder archives game actions to a Redis queue and finished games to
// Postgres. Either sink may be nil, in which case it is skipped; recording
// never blocks or fails game flow.
type Recorder struct {
	Redis *redis.Client
	DB    *pgxpool.Pool
	Queue string
}

// NewRecorder builds a recorder over the given sinks. The queue name comes
// from HISTORIAN_QUEUE_NAME, defaulting to DefaultQueueName.
func NewRecorder(rdb *redis.Client, db *pgxpool.Pool) *Recorder {
	queue := os.Getenv("HISTORIAN_QUEUE_NAME")
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Recorder{Redis: rdb, DB: db, Queue: queue}
}

// RecordAction serializes the action and pushes it onto the Redis queue.
func (r *Recorder) RecordAction(ctx context.Context, roomID, playerID, actionType string, payload map[string]interface{}) {
	if r == nil || r.Redis == nil {
		return
	}
	rec := ActionRecord{
		ID:         uuid.New(),
		RoomID:     roomID,
		PlayerID:   playerID,
		ActionType: actionType,
		Payload:    payload,
		Timestamp:  time.Now().UnixMilli(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		log.Warnf("history: failed to marshal action record: %v", err)
		return
	}
	if err := r.Redis.RPush(ctx, r.Queue, data).Err(); err != nil {
		log.Warnf("history: failed to RPush to %s: %v", r.Queue, err)
	}
}

// RecordGameEnd upserts the finished game and its per-player results.
func (r *Recorder) RecordGameEnd(ctx context.Context, room models.Room) {
	if r == nil || r.DB == nil {
		return
	}
	if err := r.persistGameEnd(ctx, room); err != nil {
		log.Warnf("history: failed to persist finished game %s: %v", room.ID, err)
	}
}

func (r *Recorder) persistGameEnd(ctx context.Context, room models.Room) error {
	return pgx.BeginTxFunc(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (room_id, host_id, secret_word, language, winner_id, finished_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (room_id) DO UPDATE
			SET winner_id = $5, finished_at = now()
		`
		if _, err := tx.Exec(ctx, upsertGame, room.ID, room.HostID, room.SecretWord, string(room.Language), room.WinnerID); err != nil {
			return err
		}

		for _, p := range room.PlayingPlayers() {
			q := `
				INSERT INTO game_results (room_id, player_id, nickname, score, did_win)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (room_id, player_id)
				DO UPDATE SET score = $4, did_win = $5
			`
			if _, err := tx.Exec(ctx, q, room.ID, p.ID, p.Nickname, room.ScoreOf(p.ID), p.ID == room.WinnerID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ConnectDB opens a pgx pool from the POSTGRES_USER / POSTGRES_PASSWORD /
// PG_HOST / PG_PORT / PG_DATABASE environment variables.
func ConnectDB(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("PG_HOST"),
		os.Getenv("PG_PORT"),
		os.Getenv("PG_DATABASE"),
	)

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return pool, nil
}
