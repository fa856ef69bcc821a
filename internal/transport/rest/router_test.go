package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudokuarena/internal/model"
	"sudokuarena/internal/repository"
	"sudokuarena/internal/service"
	"sudokuarena/internal/store"
	"sudokuarena/internal/transport/ws"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	t.Cleanup(db.Close)

	userRepo := repository.NewUserRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	friendRepo := repository.NewFriendRequestRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	challengeRepo := repository.NewChallengeRepo(db)
	puzzleRepo := repository.NewPuzzleRepo(db)

	authSvc := service.NewAuthService(userRepo, []byte("test-secret"))
	userSvc := service.NewUserService(userRepo)
	roomSvc := service.NewRoomService(roomRepo, userRepo, userSvc)
	friendSvc := service.NewFriendService(friendRepo, userRepo)
	notificationSvc := service.NewNotificationService(notificationRepo)
	puzzleSvc := service.NewPuzzleService(puzzleRepo)
	challengeSvc := service.NewChallengeService(challengeRepo, notificationRepo, userRepo, roomSvc, puzzleSvc)

	return NewRouter(&Container{
		AuthService:         authSvc,
		UserService:         userSvc,
		RoomService:         roomSvc,
		FriendService:       friendSvc,
		ChallengeService:    challengeSvc,
		NotificationService: notificationSvc,
		PuzzleService:       puzzleSvc,
		WSHub:               ws.NewHub(),
		CORSAllowedOrigins:  []string{"*"},
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func registerUser(t *testing.T, router http.Handler, username string) *model.AuthResponse {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp model.AuthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return &resp
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rr := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	router := newTestRouter(t)

	resp := registerUser(t, router, "ana")
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.Password)

	rr := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ana", "password": "hunter2",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ana", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "ana", "password": "again",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/rooms", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/rooms", "garbage-token", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRoomLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	host := registerUser(t, router, "ana")
	guest := registerUser(t, router, "ben")

	// Fetch a generated board, then create a room with it.
	rr := doJSON(t, router, http.MethodGet, "/api/puzzles/generate?difficulty=Easy", host.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var gen struct {
		Puzzle   [][]int `json:"puzzle"`
		Solution [][]int `json:"solution"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&gen))

	rr = doJSON(t, router, http.MethodPost, "/api/rooms", host.Token, map[string]interface{}{
		"difficulty": "Easy",
		"puzzle":     gen.Puzzle,
		"solution":   gen.Solution,
		"maxPlayers": 2,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var room model.Room
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&room))
	assert.Equal(t, model.RoomWaiting, room.Status)

	rr = doJSON(t, router, http.MethodPost, "/api/rooms/join", guest.Token, map[string]string{"code": room.Code})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Only the host may start.
	rr = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/rooms/%s/start", room.ID), guest.Token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/rooms/%s/start", room.ID), host.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, router, http.MethodGet, "/api/rooms/"+room.ID, host.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got model.Room
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, model.RoomActive, got.Status)

	// Joining after start fails.
	rr = doJSON(t, router, http.MethodPost, "/api/rooms/join", guest.Token, map[string]string{"code": room.Code})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProgressReportRejectsImpersonation(t *testing.T) {
	router := newTestRouter(t)
	host := registerUser(t, router, "ana")

	rr := doJSON(t, router, http.MethodGet, "/api/puzzles/generate", host.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var gen struct {
		Puzzle   [][]int `json:"puzzle"`
		Solution [][]int `json:"solution"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&gen))

	rr = doJSON(t, router, http.MethodPost, "/api/rooms", host.Token, map[string]interface{}{
		"difficulty": "Medium", "puzzle": gen.Puzzle, "solution": gen.Solution,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var room model.Room
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&room))

	// Reporting progress for someone else is rejected.
	rr = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/rooms/%s/progress", room.ID), host.Token, map[string]interface{}{
		"userId": "someone-else", "progress": 50, "timeElapsed": 30,
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLeaderboardIsPublic(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "ana")

	rr := doJSON(t, router, http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var users []*model.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&users))
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}
