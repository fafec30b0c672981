// internal/handlers/game_server.go
package handlers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kuduguette/bingo-creator/internal/cache"
	"github.com/kuduguette/bingo-creator/internal/database"
	"github.com/kuduguette/bingo-creator/internal/game"
)

// GameServer owns the room registry and the post-hoc persistence hook. It
// is built once at startup and shared by every websocket connection.
type GameServer struct {
	Rooms  *game.RoomStore
	Logger *logrus.Logger
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	return &GameServer{
		Rooms:  game.NewRoomStore(),
		Logger: logger,
	}
}

// recordWin persists a declared win's history record outside the room lock:
// one row in postgres and one entry on the historian queue. Both are best
// effort; the room engine never depends on either succeeding.
func (gs *GameServer) recordWin(rec game.HistoryRecord) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if database.DB != nil {
			if err := database.InsertGameHistory(ctx, rec); err != nil {
				gs.Logger.Warnf("failed to insert game history for room %s: %v", rec.RoomCode, err)
			}
		}
		if cache.Rdb != nil {
			if err := cache.PublishHistoryRecord(ctx, rec); err != nil {
				gs.Logger.Warnf("failed to enqueue history record for room %s: %v", rec.RoomCode, err)
			}
		}
	}()
}
