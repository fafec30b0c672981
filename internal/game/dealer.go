// internal/game/dealer.go
package game

import (
	"strings"

	"github.com/google/uuid"
)

// ParseEntryPool splits the raw entry pool text a host typed into the
// settings form. Entries are comma- or newline-separated; surrounding
// whitespace is trimmed and empty results are dropped.
func ParseEntryPool(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	entries := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			entries = append(entries, f)
		}
	}
	return entries
}

// DealBoards deals each listed player an independently shuffled board of
// gridSize*gridSize entries drawn from pool. Each board is a random subset
// of the pool in random order, so two players generally see different
// entries in different cells.
//
// Returns nil when the pool is too small to fill a board; the round cannot
// start and the caller must treat that as a blocking condition.
func DealBoards(pool []string, gridSize int, playerIDs []uuid.UUID) map[uuid.UUID][]string {
	cells := gridSize * gridSize
	if gridSize <= 0 || len(pool) < cells {
		return nil
	}
	boards := make(map[uuid.UUID][]string, len(playerIDs))
	for _, id := range playerIDs {
		boards[id] = Shuffled(pool)[:cells]
	}
	return boards
}
