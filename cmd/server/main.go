// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/kuduguette/bingo-creator/internal/auth"
	"github.com/kuduguette/bingo-creator/internal/cache"
	"github.com/kuduguette/bingo-creator/internal/database"
	"github.com/kuduguette/bingo-creator/internal/handlers"
	"github.com/kuduguette/bingo-creator/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		// Rooms run fine without the historian queue; wins just go to pg only.
		logger.Warnf("redis unavailable, history queue disabled: %v", err)
	}

	srv := handlers.NewGameServer(logger)

	mux := http.NewServeMux()

	// account endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)

	// saved card templates
	mux.Handle("/cards", middleware.LogMiddleware(logger)(http.HandlerFunc(handlers.ListCardsHandler)))
	mux.Handle("/cards/create", middleware.LogMiddleware(logger)(http.HandlerFunc(handlers.CreateCardHandler)))
	mux.Handle("/cards/", middleware.LogMiddleware(logger)(http.HandlerFunc(handlers.CardHandler)))

	// realtime room protocol
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
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
