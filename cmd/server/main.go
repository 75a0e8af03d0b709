// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/bramish/pasiva/internal/auth"
	"github.com/bramish/pasiva/internal/handlers"
	"github.com/bramish/pasiva/internal/history"
	"github.com/bramish/pasiva/internal/middleware"
	"github.com/bramish/pasiva/internal/room"
	"github.com/bramish/pasiva/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := auth.Init(); err != nil {
		log.Fatalf("auth init failed: %v", err)
	}

	// Store selection: Redis when configured, in-memory otherwise.
	var docStore store.DocumentStore
	recorder := &history.Recorder{Queue: history.DefaultQueueName}
	if os.Getenv("REDIS_ADDR") != "" {
		client, err := store.ConnectRedis()
		if err != nil {
			log.Fatalf("redis connect failed: %v", err)
		}
		docStore = store.NewRedisStore(client)
		recorder.Redis = client
		logger.Info("using redis document store")
	} else {
		docStore = store.NewMemoryStore()
		logger.Info("using in-memory document store")
	}

	if os.Getenv("PG_HOST") != "" {
		pool, err := history.ConnectDB(context.Background())
		if err != nil {
			log.Fatalf("postgres connect failed: %v", err)
		}
		recorder.DB = pool
		logger.Info("finished games will be archived to postgres")
	}

	svc := room.NewService(docStore, logger)
	svc.Recorder = recorder

	rs := handlers.NewRoomServer(svc)

	mux := http.NewServeMux()

	// room lifecycle endpoints
	mux.Handle("/room/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateRoomHandler(rs),
	)))
	mux.Handle("/room/join", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.JoinRoomHandler(rs),
	)))
	mux.Handle("/room/start", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.StartGameHandler(rs),
	)))
	mux.Handle("/room/word", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.SetSecretWordHandler(rs),
	)))

	// room observation ws
	mux.Handle("/room/ws/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, rs),
	)))

	// one-shot fetch
	mux.Handle("/room/", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GetRoomHandler(rs),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
