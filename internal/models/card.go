// internal/models/card.go
package models

import "github.com/google/uuid"

// SavedCard is a reusable card template stored per account: the design and
// entry pool a host can load into a room's settings instead of retyping it.
type SavedCard struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle"`
	TitleFont     string    `json:"titleFont"`
	BodyFont      string    `json:"bodyFont"`
	AllCaps       bool      `json:"allCaps"`
	GridSize      int       `json:"gridSize"`
	EntryPoolText string    `json:"entryPoolText"`
}
