package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"ink-well/internal/config"
	"ink-well/internal/database"
	"ink-well/internal/engine"
	"ink-well/internal/handlers"
	"ink-well/internal/middleware"
	"ink-well/internal/utils"
	"ink-well/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	appEngine := engine.NewEngine(system, metrics, db)

	hub := websocket.NewHub()
	go hub.Run()

	server := handlers.NewServer(system, appEngine, metrics, db, hub)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ApplyCORS(middleware.WithRequestID(h), corsConfig)
	}

	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("/health", wrap(server.HandleHealth()))
	mux.HandleFunc("/health/live", server.HandleSimpleHealth())
	mux.HandleFunc("/posts", wrap(server.HandleListPosts()))
	mux.HandleFunc("/post", wrap(server.HandlePost()))
	mux.HandleFunc("/subscribe", wrap(server.HandleSubscribe()))
	mux.HandleFunc("/unsubscribe", wrap(server.HandleUnsubscribe()))
	mux.HandleFunc("/user/register", wrap(server.HandleUserRegistration()))
	mux.HandleFunc("/user/login", wrap(server.HandleUserLogin()))
	mux.HandleFunc("/comments", wrap(server.HandleGetComments()))

	// Authenticated endpoints
	mux.HandleFunc("/user/profile", wrap(server.HandleProfile()))
	mux.HandleFunc("/comment", wrap(server.HandleComment()))

	// Admin endpoints
	mux.HandleFunc("/subscribers", wrap(server.HandleSubscribers()))
	mux.HandleFunc("/dashboard/stats", wrap(server.HandleDashboardStats()))
	mux.HandleFunc("/ws/dashboard", server.HandleDashboardSocket())

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s with database %q", serverAddr, cfg.Database.Name)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
