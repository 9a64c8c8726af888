package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wouldrather/internal/cache"
	"wouldrather/internal/config"
	"wouldrather/internal/repository"
	"wouldrather/internal/service"
	"wouldrather/internal/transport/rest"
	"wouldrather/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Repositories and caches
	gameRepo := repository.NewGameRepo(db)
	questionRepo := repository.NewQuestionRepo(db)
	leaderboard := cache.NewLeaderboardCache(rdb)

	if err := gameRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create game indexes:", err)
	}

	// Question source: loaded once per process lifetime, read-only afterwards
	questions, err := questionRepo.GetAll(ctx)
	if err != nil {
		log.Fatal("Failed to load questions:", err)
	}
	if len(questions) == 0 {
		log.Println("Warning: no questions found, run cmd/seed before starting games")
	} else {
		log.Printf("Loaded %d questions", len(questions))
	}

	// Core orchestrator
	registry := service.NewRegistry(service.DefaultRetention)
	games := service.NewGameService(registry, gameRepo, leaderboard, questions)
	games.EnforceHostControl = cfg.EnforceHostControl

	wsHub := ws.NewHub()
	games.SetBroadcaster(wsHub)
	wsHandler := ws.NewHandler(wsHub, games)
	log.Println("WebSocket hub started")

	router := rest.NewRouter(&rest.Container{
		GameRepo:    gameRepo,
		Leaderboard: leaderboard,
		WSHandler:   wsHandler,
	})

	// Session reaper, independent of client activity
	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go func() {
		ticker := time.NewTicker(cfg.ReapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := games.ExpireSessions(reaperCtx); n > 0 {
					log.Printf("Reaped %d expired sessions", n)
				}
			case <-reaperCtx.Done():
				return
			}
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  WS  /v1/ws")
		log.Println("  GET /v1/sessions/{pin}")
		log.Println("  GET /v1/sessions/{pin}/leaderboard")
		log.Println("  GET /health")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
