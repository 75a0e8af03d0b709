// internal/handlers/room_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bramish/pasiva/internal/auth"
	"github.com/bramish/pasiva/internal/models"
	"github.com/bramish/pasiva/internal/room"
	"github.com/bramish/pasiva/internal/store"
)

var roomIDPattern = regexp.MustCompile(`^\d{6}$`)

func newTestRoomServer(t *testing.T) *RoomServer {
	t.Helper()
	if err := auth.Init(); err != nil { // ephemeral keys, no infra needed
		t.Fatalf("auth init failed: %v", err)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewRoomServer(room.NewService(store.NewMemoryStore(), logger))
}

// createTestRoom drives the create handler and returns the new room's ids
// plus the host's auth cookie.
func createTestRoom(t *testing.T, rs *RoomServer, nickname string) (room.CreateRoomResult, string) {
	t.Helper()
	body := `{"nickname":"` + nickname + `"}`
	req := httptest.NewRequest("POST", "/room/create", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	CreateRoomHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var res room.CreateRoomResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return res, authCookie(t, w)
}

func authCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" {
			return "auth_token=" + c.Value
		}
	}
	t.Fatal("response set no auth_token cookie")
	return ""
}

func TestCreateRoomHandler(t *testing.T) {
	rs := newTestRoomServer(t)
	res, cookie := createTestRoom(t, rs, "dana")

	if !roomIDPattern.MatchString(res.RoomID) {
		t.Fatalf("room id %q is not a 6-digit code", res.RoomID)
	}
	if res.PlayerID == "" {
		t.Fatal("create returned no player id")
	}
	if _, _, err := auth.AuthenticateJWT(cookie[len("auth_token="):]); err != nil {
		t.Fatalf("host session cookie does not verify: %v", err)
	}
}

func TestJoinRoomHandlerInvalidID(t *testing.T) {
	rs := newTestRoomServer(t)

	body := `{"roomId":"12345","nickname":"noa"}`
	req := httptest.NewRequest("POST", "/room/join", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	JoinRoomHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed code, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJoinRoomHandlerMissingRoom(t *testing.T) {
	rs := newTestRoomServer(t)

	body := `{"roomId":"123456","nickname":"noa"}`
	req := httptest.NewRequest("POST", "/room/join", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	JoinRoomHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown room, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJoinRoomHandler(t *testing.T) {
	rs := newTestRoomServer(t)
	res, _ := createTestRoom(t, rs, "dana")

	body := `{"roomId":"` + res.RoomID + `","nickname":"noa"}`
	req := httptest.NewRequest("POST", "/room/join", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	JoinRoomHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var out map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode join response: %v", err)
	}
	if out["playerId"] == "" {
		t.Fatal("join returned no player id")
	}
	authCookie(t, w) // the joiner must get a session cookie
}

func TestStartGameRequiresHost(t *testing.T) {
	rs := newTestRoomServer(t)
	res, hostCookie := createTestRoom(t, rs, "dana")

	// Join as a second player to get a non-host token.
	joinBody := `{"roomId":"` + res.RoomID + `","nickname":"noa"}`
	jw := httptest.NewRecorder()
	JoinRoomHandler(rs).ServeHTTP(jw, httptest.NewRequest("POST", "/room/join", bytes.NewBufferString(joinBody)))
	if jw.Code != http.StatusOK {
		t.Fatalf("join failed: %d: %s", jw.Code, jw.Body.String())
	}
	playerCookie := authCookie(t, jw)

	startBody := `{"roomId":"` + res.RoomID + `"}`

	req := httptest.NewRequest("POST", "/room/start", bytes.NewBufferString(startBody))
	req.Header.Set("Cookie", playerCookie)
	w := httptest.NewRecorder()
	StartGameHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-host, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("POST", "/room/start", bytes.NewBufferString(startBody))
	req.Header.Set("Cookie", hostCookie)
	w = httptest.NewRecorder()
	StartGameHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for the host, got %d: %s", w.Code, w.Body.String())
	}

	snapshot, err := rs.Service.GetRoom(req.Context(), res.RoomID)
	if err != nil {
		t.Fatalf("get room failed: %v", err)
	}
	if !snapshot.IsGameStarted {
		t.Fatal("game not marked started")
	}
}

func TestSetSecretWordHandler(t *testing.T) {
	rs := newTestRoomServer(t)
	res, hostCookie := createTestRoom(t, rs, "dana")

	body := `{"roomId":"` + res.RoomID + `","word":"apple","language":"HEBREW"}`
	req := httptest.NewRequest("POST", "/room/word", bytes.NewBufferString(body))
	req.Header.Set("Cookie", hostCookie)
	w := httptest.NewRecorder()

	SetSecretWordHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	snapshot, err := rs.Service.GetRoom(req.Context(), res.RoomID)
	if err != nil {
		t.Fatalf("get room failed: %v", err)
	}
	if snapshot.SecretWord != "APPLE" {
		t.Fatalf("secret word not uppercased: %q", snapshot.SecretWord)
	}
	if snapshot.Language != models.LanguageHebrew {
		t.Fatalf("language not stored: %q", snapshot.Language)
	}
}

func TestSetSecretWordRequiresAuth(t *testing.T) {
	rs := newTestRoomServer(t)
	res, _ := createTestRoom(t, rs, "dana")

	body := `{"roomId":"` + res.RoomID + `","word":"apple"}`
	req := httptest.NewRequest("POST", "/room/word", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	SetSecretWordHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d: %s", w.Code, w.Body.String())
	}

	// A present-but-invalid token is an authentication failure too, not a
	// permissions one.
	req = httptest.NewRequest("POST", "/room/word", bytes.NewBufferString(body))
	req.Header.Set("Cookie", "auth_token=not-a-valid-token")
	w = httptest.NewRecorder()

	SetSecretWordHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDispatchActionDoesNotBlockAfterDisconnect(t *testing.T) {
	rs := newTestRoomServer(t)
	res, _ := createTestRoom(t, rs, "dana")
	sess := room.NewSession(rs.Service, res.RoomID, res.PlayerID)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	// The connection is gone: context cancelled, nobody draining out.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := make(chan wsMessage)

	done := make(chan struct{})
	go func() {
		dispatchAction(ctx, sess, wsMessage{Type: "bogus"}, out, logger)
		dispatchAction(ctx, sess, wsMessage{Type: "action_guess_letter"}, out, logger)
		dispatchAction(ctx, sess, wsMessage{Type: "action_guess_word"}, out, logger)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on an undrained reply channel")
	}
}

func TestGetRoomHandler(t *testing.T) {
	rs := newTestRoomServer(t)
	res, _ := createTestRoom(t, rs, "dana")

	req := httptest.NewRequest("GET", "/room/"+res.RoomID, nil)
	w := httptest.NewRecorder()
	GetRoomHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var snapshot models.Room
	if err := json.Unmarshal(w.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("failed to decode room: %v", err)
	}
	if snapshot.ID != res.RoomID {
		t.Fatalf("room id mismatch: %q vs %q", snapshot.ID, res.RoomID)
	}
	if snapshot.HostID != res.PlayerID {
		t.Fatalf("host mismatch: %q vs %q", snapshot.HostID, res.PlayerID)
	}
}

func TestGetRoomHandlerBadID(t *testing.T) {
	rs := newTestRoomServer(t)

	req := httptest.NewRequest("GET", "/room/abcdef", nil)
	w := httptest.NewRecorder()
	GetRoomHandler(rs).ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed id, got %d: %s", w.Code, w.Body.String())
	}
}
