// internal/database/card.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kuduguette/bingo-creator/internal/models"
)

func CreateSavedCard(ctx context.Context, card *models.SavedCard) error {
	if card.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate card id: %w", err)
		}
		card.ID = id
	}

	q := `
		INSERT INTO saved_cards
			(id, user_id, title, subtitle, title_font, body_font, all_caps, grid_size, entry_pool_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q,
			card.ID, card.UserID, card.Title, card.Subtitle,
			card.TitleFont, card.BodyFont, card.AllCaps,
			card.GridSize, card.EntryPoolText,
		)
		return e
	})
	if err != nil {
		return fmt.Errorf("failed to insert saved card: %w", err)
	}
	return nil
}

func GetSavedCard(ctx context.Context, id uuid.UUID) (*models.SavedCard, error) {
	var c models.SavedCard
	q := `
		SELECT id, user_id, title, subtitle, title_font, body_font, all_caps, grid_size, entry_pool_text
		FROM saved_cards
		WHERE id=$1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&c.ID, &c.UserID, &c.Title, &c.Subtitle,
		&c.TitleFont, &c.BodyFont, &c.AllCaps,
		&c.GridSize, &c.EntryPoolText,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func ListSavedCards(ctx context.Context, userID uuid.UUID) ([]models.SavedCard, error) {
	q := `
		SELECT id, user_id, title, subtitle, title_font, body_font, all_caps, grid_size, entry_pool_text
		FROM saved_cards
		WHERE user_id=$1
		ORDER BY title
	`
	rows, err := DB.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []models.SavedCard{}
	for rows.Next() {
		var c models.SavedCard
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Title, &c.Subtitle,
			&c.TitleFont, &c.BodyFont, &c.AllCaps,
			&c.GridSize, &c.EntryPoolText,
		); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func UpdateSavedCard(ctx context.Context, card *models.SavedCard) error {
	q := `
		UPDATE saved_cards
		SET title=$1, subtitle=$2, title_font=$3, body_font=$4,
		    all_caps=$5, grid_size=$6, entry_pool_text=$7
		WHERE id=$8 AND user_id=$9
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q,
			card.Title, card.Subtitle, card.TitleFont, card.BodyFont,
			card.AllCaps, card.GridSize, card.EntryPoolText,
			card.ID, card.UserID,
		)
		return e
	})
}

func DeleteSavedCard(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, `DELETE FROM saved_cards WHERE id=$1`, id)
		return e
	})
}
