package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sudokuarena/internal/config"
	"sudokuarena/internal/repository"
	"sudokuarena/internal/service"
	"sudokuarena/internal/store"
	"sudokuarena/internal/transport/rest"
	"sudokuarena/internal/transport/ws"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open store")
	}
	log.Info().Str("path", cfg.DBPath).Msg("store opened")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	friendRepo := repository.NewFriendRequestRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	challengeRepo := repository.NewChallengeRepo(db)
	puzzleRepo := repository.NewPuzzleRepo(db)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, []byte(cfg.JWTSecret))
	userSvc := service.NewUserService(userRepo)
	roomSvc := service.NewRoomService(roomRepo, userRepo, userSvc)
	friendSvc := service.NewFriendService(friendRepo, userRepo)
	notificationSvc := service.NewNotificationService(notificationRepo)
	puzzleSvc := service.NewPuzzleService(puzzleRepo)
	challengeSvc := service.NewChallengeService(challengeRepo, notificationRepo, userRepo, roomSvc, puzzleSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	roomSvc.SetBroadcaster(wsHub)

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	roomSvc.StartReaper(reaperCtx, 10*time.Minute, 24*time.Hour)

	container := &rest.Container{
		AuthService:         authSvc,
		UserService:         userSvc,
		RoomService:         roomSvc,
		FriendService:       friendSvc,
		ChallengeService:    challengeSvc,
		NotificationService: notificationSvc,
		PuzzleService:       puzzleSvc,
		WSHub:               wsHub,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	// Flush pending writes after the HTTP surface is down.
	db.Close()
	log.Info().Msg("server exited")
}
