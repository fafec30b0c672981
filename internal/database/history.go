// internal/database/history.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kuduguette/bingo-creator/internal/game"
)

// InsertGameHistory appends one row per declared win: room code, card
// title, the player roster at the time, the winner, and the claimed win
// type. Written post-hoc; room logic never reads this table.
func InsertGameHistory(ctx context.Context, rec game.HistoryRecord) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("failed to generate history id: %w", err)
	}

	q := `
		INSERT INTO game_history
			(id, room_code, card_title, player_names, winner_name, win_type, round, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q,
			id, rec.RoomCode, rec.CardTitle, rec.PlayerNames,
			rec.WinnerName, rec.WinType, rec.Round,
		)
		return e
	})
	if err != nil {
		return fmt.Errorf("failed to insert game history: %w", err)
	}
	return nil
}
