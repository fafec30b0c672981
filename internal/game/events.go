// internal/game/events.go
package game

// Server -> client event types carried in the "type" field of every
// outbound message.
const (
	EventRoomCreated    = "room_created"
	EventRoomState      = "room_state"
	EventPlayerJoined   = "player_joined"
	EventPlayerLeft     = "player_left"
	EventSettingsUpdate = "room_settings_update"
	EventGameStarted    = "game_started"
	EventNewRound       = "new_round"
	EventShuffledCard   = "shuffled_card"
	EventEntryCalled    = "entry_called"
	EventCallsReset     = "calls_reset"
	EventPlayerScored   = "player_scored"
	EventGameOver       = "game_over"
	EventChatMessage    = "chat_message"
)

// HistoryRecord is the post-hoc summary of a declared win, handed to the
// persistence hook after scoring. The room engine never reads it back.
type HistoryRecord struct {
	RoomCode    string   `json:"room_code"`
	CardTitle   string   `json:"card_title"`
	PlayerNames []string `json:"player_names"`
	WinnerName  string   `json:"winner_name"`
	WinType     string   `json:"win_type"`
	Round       int      `json:"round"`
}
