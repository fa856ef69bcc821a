package rest

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"sudokuarena/internal/metrics"
	"sudokuarena/internal/service"
	"sudokuarena/internal/transport/rest/handler"
	"sudokuarena/internal/transport/rest/middleware"
	"sudokuarena/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService         *service.AuthService
	UserService         *service.UserService
	RoomService         *service.RoomService
	FriendService       *service.FriendService
	ChallengeService    *service.ChallengeService
	NotificationService *service.NotificationService
	PuzzleService       *service.PuzzleService
	WSHub               *ws.Hub
	CORSAllowedOrigins  []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	userHandler := handler.NewUserHandler(c.UserService)
	roomHandler := handler.NewRoomHandler(c.RoomService)
	friendHandler := handler.NewFriendHandler(c.FriendService)
	challengeHandler := handler.NewChallengeHandler(c.ChallengeService)
	notificationHandler := handler.NewNotificationHandler(c.NotificationService)
	puzzleHandler := handler.NewPuzzleHandler(c.PuzzleService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.RoomService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	corsMW := cors.New(cors.Options{
		AllowedOrigins:   c.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(corsMW.Handler)
	r.Use(metrics.Middleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	// WebSocket route (token in query param)
	r.HandleFunc("/ws", wsHandler.ServeWS).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/users", userHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/leaderboard", userHandler.Leaderboard).Methods("GET", "OPTIONS")
	api.HandleFunc("/users/{userId}", userHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/friends/{userId}", friendHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/puzzles", puzzleHandler.List).Methods("GET", "OPTIONS")

	// Authenticated routes
	authed := api.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/users/{userId}", userHandler.Update).Methods("PUT", "OPTIONS")

	authed.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/join", roomHandler.Join).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}", roomHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}", roomHandler.Delete).Methods("DELETE", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/leave", roomHandler.Leave).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/kick", roomHandler.Kick).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/ready", roomHandler.Ready).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/start", roomHandler.Start).Methods("POST", "OPTIONS")
	authed.HandleFunc("/rooms/{roomId}/progress", roomHandler.Progress).Methods("POST", "OPTIONS")

	authed.HandleFunc("/friends/request", friendHandler.Request).Methods("POST", "OPTIONS")
	authed.HandleFunc("/friends/accept/{requestId}", friendHandler.Accept).Methods("POST", "OPTIONS")
	authed.HandleFunc("/friends/reject/{requestId}", friendHandler.Reject).Methods("POST", "OPTIONS")
	authed.HandleFunc("/friends/requests/{userId}", friendHandler.Requests).Methods("GET", "OPTIONS")
	authed.HandleFunc("/friends/{userId}/{friendId}", friendHandler.Unfriend).Methods("DELETE", "OPTIONS")

	authed.HandleFunc("/challenges", challengeHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/users/{userId}/challenges", challengeHandler.ListMine).Methods("GET", "OPTIONS")
	authed.HandleFunc("/challenges/{challengeId}/accept", challengeHandler.Accept).Methods("POST", "OPTIONS")
	authed.HandleFunc("/challenges/{challengeId}/decline", challengeHandler.Decline).Methods("POST", "OPTIONS")

	authed.HandleFunc("/notifications/{userId}", notificationHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/notifications/{notificationId}/read", notificationHandler.MarkRead).Methods("PUT", "OPTIONS")
	authed.HandleFunc("/notifications/{userId}/read-all", notificationHandler.MarkAllRead).Methods("PUT", "OPTIONS")

	authed.HandleFunc("/puzzles", puzzleHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/puzzles/generate", puzzleHandler.Generate).Methods("GET", "OPTIONS")

	return r
}
