// internal/handlers/room_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/bramish/pasiva/internal/auth"
	"github.com/bramish/pasiva/internal/middleware"
	"github.com/bramish/pasiva/internal/models"
	"github.com/bramish/pasiva/internal/room"
)

// wsMessage is the envelope for both directions of the room socket.
type wsMessage struct {
	Type    string       `json:"type"`
	Letter  string       `json:"letter,omitempty"`
	Word    string       `json:"word,omitempty"`
	Room    *models.Room `json:"room,omitempty"`
	Message string       `json:"message,omitempty"`
}

// RoomWSHandler serves /room/ws/{roomID}: an authenticated stream of room
// snapshots with spin/guess actions flowing the other way. One connection
// is one player session; the pending-points multiplier lives and dies with
// it.
func RoomWSHandler(logger *logrus.Logger, rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr
		roomID := strings.TrimPrefix(r.URL.Path, "/room/ws/")
		if idx := strings.Index(roomID, "/"); idx != -1 {
			roomID = roomID[:idx]
		}
		if !room.ValidRoomID(roomID) {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"pasiva"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "pasiva" {
			c.Close(BadSubprotocolError, "client must speak the pasiva subprotocol")
			return
		}

		token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
		playerID, tokenRoomID, err := auth.AuthenticateJWT(token)
		if err != nil {
			logger.Warnf("ws auth failed for room %s: %v", roomID, err)
			c.Close(InvalidAuthTokenError, "authentication failed")
			return
		}
		if tokenRoomID != "" && tokenRoomID != roomID {
			c.Close(websocket.StatusPolicyViolation, "token was minted for a different room")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		events, err := rs.Service.ObserveRoom(ctx, roomID)
		if err != nil {
			logger.Warnf("observe failed for room %s: %v", roomID, err)
			c.Close(InvalidRoomIDError, "room unavailable")
			return
		}

		sess := room.NewSession(rs.Service, roomID, playerID)
		outChan := make(chan wsMessage, 16)

		middleware.LogWebSocketConnect(logger, remoteAddr, r.URL.Path)
		logger.Infof("player %v (%s) observing room %v", playerID, remoteAddr, roomID)

		go writePump(ctx, c, outChan, logger)
		go observePump(ctx, events, sess, outChan, logger)

		readPump(ctx, c, sess, outChan, logger)

		middleware.LogWebSocketDisconnect(logger, remoteAddr, r.URL.Path, nil)
		c.Close(websocket.StatusNormalClosure, "session ended")
	}
}

// observePump forwards room snapshots to the socket, refreshing the
// session's pending multiplier from each one.
func observePump(ctx context.Context, events <-chan room.RoomEvent, sess *room.Session, out chan<- wsMessage, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			var msg wsMessage
			if ev.Err != nil {
				msg = wsMessage{Type: "error", Message: ev.Err.Error()}
			} else {
				sess.RefreshPending(ev.Room)
				msg = wsMessage{Type: "room_state", Room: ev.Room}
			}
			select {
			case out <- msg:
			default:
				logger.Warnf("room %s: observer channel full, dropped %s", sess.RoomID(), msg.Type)
			}
		}
	}
}

// writePump drains outChan onto the websocket.
func writePump(ctx context.Context, c *websocket.Conn, out <-chan wsMessage, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-out:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("failed to marshal ws message: %v", err)
				continue
			}
			if err := c.Write(ctx, websocket.MessageText, data); err != nil {
				return
			}
		}
	}
}

// readPump routes inbound player actions to the session. Blocks until the
// connection or context ends. Actions run in their own goroutine because a
// spin blocks for its pacing delay.
func readPump(ctx context.Context, c *websocket.Conn, sess *room.Session, out chan<- wsMessage, logger *logrus.Logger) {
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				logger.Infof("room %s: websocket closed normally for player %v", sess.RoomID(), sess.PlayerID())
			} else if !strings.Contains(err.Error(), "context canceled") {
				logger.Warnf("room %s: websocket read error for player %v: %v", sess.RoomID(), sess.PlayerID(), err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendError(ctx, out, "malformed message")
			continue
		}

		go dispatchAction(ctx, sess, msg, out, logger)
	}
}

func dispatchAction(ctx context.Context, sess *room.Session, msg wsMessage, out chan<- wsMessage, logger *logrus.Logger) {
	var err error
	switch msg.Type {
	case "action_spin":
		err = sess.Spin(ctx)
	case "action_guess_letter":
		letter, size := utf8.DecodeRuneInString(msg.Letter)
		if size == 0 || letter == utf8.RuneError {
			sendError(ctx, out, "missing letter")
			return
		}
		err = sess.GuessLetter(ctx, letter)
	case "action_guess_word":
		if strings.TrimSpace(msg.Word) == "" {
			sendError(ctx, out, "missing word")
			return
		}
		err = sess.GuessWord(ctx, msg.Word)
	default:
		sendError(ctx, out, "unknown action type")
		return
	}

	if err != nil && ctx.Err() == nil {
		logger.Warnf("room %s: action %s failed for player %v: %v", sess.RoomID(), msg.Type, sess.PlayerID(), err)
		sendError(ctx, out, err.Error())
	}
}

// sendError queues an error reply without ever blocking past the
// connection's lifetime; once the write pump is gone nobody drains out.
func sendError(ctx context.Context, out chan<- wsMessage, message string) {
	select {
	case out <- wsMessage{Type: "error", Message: message}:
	case <-ctx.Done():
	}
}
