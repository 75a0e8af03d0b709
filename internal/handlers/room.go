// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bramish/pasiva/internal/auth"
	"github.com/bramish/pasiva/internal/models"
	"github.com/bramish/pasiva/internal/room"
)

// RoomServer bundles the room lifecycle service for the HTTP/WS surface.
type RoomServer struct {
	Service *room.Service
}

// NewRoomServer builds the handler bundle over a lifecycle service.
func NewRoomServer(svc *room.Service) *RoomServer {
	return &RoomServer{Service: svc}
}

type createRoomRequest struct {
	Nickname string `json:"nickname"`
}

type joinRoomRequest struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
}

type roomActionRequest struct {
	RoomID   string `json:"roomId"`
	Word     string `json:"word,omitempty"`
	Language string `json:"language,omitempty"`
}

// CreateRoomHandler creates a room and mints a session token for the host.
func CreateRoomHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		res, err := rs.Service.CreateRoom(r.Context(), req.Nickname)
		if err != nil {
			writeError(w, err)
			return
		}

		setSessionCookie(w, res.PlayerID, res.RoomID)
		writeJSON(w, http.StatusOK, res)
	}
}

// JoinRoomHandler validates the code, appends the player and mints their
// session token. On failure the caller keeps its input dialog open, so the
// error body carries the reason verbatim.
func JoinRoomHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req joinRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		playerID, err := rs.Service.JoinRoom(r.Context(), req.RoomID, req.Nickname)
		if err != nil {
			writeError(w, err)
			return
		}

		setSessionCookie(w, playerID, req.RoomID)
		writeJSON(w, http.StatusOK, map[string]string{"playerId": playerID})
	}
}

// StartGameHandler flips the room into its in-progress state. Host only;
// the lifecycle operation itself is unconditional, so the host check lives
// here.
func StartGameHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roomActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		if !rs.requireHost(w, r, req.RoomID) {
			return
		}

		if err := rs.Service.StartGame(r.Context(), req.RoomID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// SetSecretWordHandler stores the secret word and language. Host only.
func SetSecretWordHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roomActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request payload", http.StatusBadRequest)
			return
		}

		if !rs.requireHost(w, r, req.RoomID) {
			return
		}

		lang := models.ParseLanguage(req.Language)
		if err := rs.Service.SetSecretWord(r.Context(), req.RoomID, req.Word, lang); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// GetRoomHandler is the one-shot fetch for /room/{id}.
func GetRoomHandler(rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := strings.TrimPrefix(r.URL.Path, "/room/")
		if !room.ValidRoomID(roomID) {
			writeError(w, &models.InvalidRoomIDError{RoomID: roomID})
			return
		}

		snapshot, err := rs.Service.GetRoom(r.Context(), roomID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

// requireHost authenticates the caller and checks they are the room's
// host. Writes the HTTP error response itself when the check fails.
func (rs *RoomServer) requireHost(w http.ResponseWriter, r *http.Request, roomID string) bool {
	playerID, ok := rs.authenticate(w, r)
	if !ok {
		return false
	}

	snapshot, err := rs.Service.GetRoom(r.Context(), roomID)
	if err != nil {
		writeError(w, err)
		return false
	}
	if snapshot.HostID != playerID {
		http.Error(w, "only the host may do that", http.StatusForbidden)
		return false
	}
	return true
}

// authenticate resolves the caller's player id from the auth cookie.
func (rs *RoomServer) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	cookie := r.Header.Get("Cookie")
	if !strings.Contains(cookie, "auth_token=") {
		http.Error(w, "missing auth_token", http.StatusUnauthorized)
		return "", false
	}
	token := extractCookieToken(cookie, "auth_token")
	playerID, _, err := auth.AuthenticateJWT(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return "", false
	}
	return playerID, true
}

func setSessionCookie(w http.ResponseWriter, playerID, roomID string) {
	token, err := auth.CreateJWT(playerID, roomID)
	if err != nil {
		// The caller still gets their ids; they just cannot open the WS.
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}
