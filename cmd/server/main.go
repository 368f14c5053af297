package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IApofeoz/diplom/internal/config"
	"github.com/IApofeoz/diplom/internal/database"
	postgresrepo "github.com/IApofeoz/diplom/internal/repository/postgres"
	"github.com/IApofeoz/diplom/internal/service"
	"github.com/IApofeoz/diplom/internal/transport/http/handlers"
	"github.com/IApofeoz/diplom/internal/transport/http/middleware"
	"github.com/IApofeoz/diplom/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	chatService := service.NewChatService(messageRepo)
	userService := service.NewUserService(userRepo, messageRepo)

	// WebSocket core: presence registry + fan-out hub
	registry := ws.NewRegistry()
	hub := ws.NewHub(registry)
	chatService.SetNotifier(ws.NewHubNotifier(hub))
	userService.SetPresence(registry)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	messageHandler := handlers.NewMessageHandler(chatService)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)

	// Auth middleware
	auth := middleware.Auth(authService.VerifyToken)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Real-time session entry point (token checked during the handshake)
	mux.Handle("GET /ws", ws.ServeWS(registry, hub, authService.VerifyToken, chatService))

	// Protected - Users
	mux.Handle("GET /api/v1/users/me", auth(http.HandlerFunc(userHandler.Me)))
	mux.Handle("PUT /api/v1/users/me", auth(http.HandlerFunc(userHandler.UpdateMe)))
	mux.Handle("GET /api/v1/users/search", auth(http.HandlerFunc(userHandler.Search)))
	mux.Handle("GET /api/v1/users", auth(http.HandlerFunc(userHandler.Contacts)))

	// Protected - Messages
	mux.Handle("GET /api/v1/messages/{id}", auth(http.HandlerFunc(messageHandler.History)))
	mux.Handle("GET /api/v1/messages/{id}/search", auth(http.HandlerFunc(messageHandler.Search)))

	// Protected - Uploads
	mux.Handle("POST /api/v1/upload", auth(http.HandlerFunc(uploadHandler.Upload)))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: middleware.CORS(mux),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
