package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/dkovac/feedline/internal/auth"
	"github.com/dkovac/feedline/internal/config"
	"github.com/dkovac/feedline/internal/database"
	postgresrepo "github.com/dkovac/feedline/internal/repository/postgres"
	"github.com/dkovac/feedline/internal/service"
	"github.com/dkovac/feedline/internal/storage"
	"github.com/dkovac/feedline/internal/transport/http/handlers"
	"github.com/dkovac/feedline/internal/transport/http/middleware"
	"github.com/dkovac/feedline/internal/transport/ws"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Database
	if err := database.Migrate(context.Background(), cfg); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	pool, err := database.Connect(cfg)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("connected to database")

	// Image storage
	images, err := storage.NewDiskStore(cfg.ImageDir)
	if err != nil {
		log.Error("image storage setup failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	postRepo := postgresrepo.NewPostRepo(pool)

	// Services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpiry)
	authService := service.NewAuthService(userRepo, tokens)
	feedService := service.NewFeedService(postRepo, userRepo, images, cfg.FeedPageSize, log)

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()
	feedService.SetNotifier(ws.NewHubNotifier(hub))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	feedHandler := handlers.NewFeedHandler(feedService, images, log)

	// Auth middleware
	authGate := middleware.Auth(tokens)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("PUT /auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /feed/posts", feedHandler.List)
	mux.HandleFunc("GET /feed/post/{postId}", feedHandler.Get)

	// Protected
	mux.Handle("GET /auth/status", authGate(http.HandlerFunc(authHandler.GetStatus)))
	mux.Handle("PATCH /auth/status", authGate(http.HandlerFunc(authHandler.UpdateStatus)))
	mux.Handle("POST /feed/post", authGate(http.HandlerFunc(feedHandler.Create)))
	mux.Handle("PUT /feed/post/{postId}", authGate(http.HandlerFunc(feedHandler.Update)))
	mux.Handle("DELETE /feed/post/{postId}", authGate(http.HandlerFunc(feedHandler.Delete)))

	// Live feed observers
	mux.Handle("GET /ws", ws.ServeWS(hub))

	// Uploaded images
	mux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.ImageDir))))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, middleware.CORS(mux)); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
