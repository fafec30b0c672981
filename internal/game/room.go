// internal/game/room.go
package game

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Settings is the host-configured shape of a room's game. It is replaced
// wholesale on every update_room_settings and is nil until the host has
// configured the room at least once.
type Settings struct {
	GridSize      int    `json:"gridSize"`
	WinMode       string `json:"winMode"`
	CardTitle     string `json:"cardTitle"`
	Subtitle      string `json:"subtitle"`
	TitleFont     string `json:"titleFont"`
	BodyFont      string `json:"bodyFont"`
	AllCaps       bool   `json:"allCaps"`
	EntryPoolText string `json:"entryPoolText"`
	TotalRounds   int    `json:"totalRounds"`
	CallerEnabled bool   `json:"callerEnabled"`
}

// PlayerConn is a single participant's presence in a room: the ephemeral
// connection identity, display name, and the outbound message channel
// drained by that connection's write pump.
type PlayerConn struct {
	ID      uuid.UUID
	Name    string
	Cancel  func()
	OutChan chan map[string]interface{}
}

// Write pushes a message onto the connection's OutChan without blocking.
// A full or closed channel drops the message; the read side is already
// tearing the connection down in that case.
func (c *PlayerConn) Write(msg map[string]interface{}) {
	select {
	case c.OutChan <- msg:
	default:
		msgType, _ := msg["type"].(string)
		log.Printf("PlayerConn %s: OutChan closed or full, dropped '%s'", c.ID, msgType)
	}
}

// WriteError sends an error payload to this connection only.
func (c *PlayerConn) WriteError(msg string) {
	c.Write(map[string]interface{}{
		"type":    "error",
		"message": msg,
	})
}

// Room holds the authoritative state of one bingo session. All fields are
// guarded by Mu; exported methods acquire it, lowercase helpers assume it
// is held. Each inbound event mutates the room atomically under the lock,
// so no two handlers ever interleave partway on the same room.
type Room struct {
	Code   string
	HostID uuid.UUID

	// Players in join order. The host is always a member while the room
	// exists; a room whose player list empties is destroyed via OnEmpty.
	Players []*PlayerConn

	Settings *Settings

	Scores        map[uuid.UUID]int
	CurrentRound  int
	GameStarted   bool
	Finished      bool
	CalledEntries []string
	DealtCards    map[uuid.UUID][]string
	MarkedForCall map[uuid.UUID]bool

	// CallAdvanceDelay is the pause before an automatic next call once the
	// current call needs no further player action. WinAdvanceDelay is the
	// pause after a scored win before the next round (or game over) so
	// clients can show the celebration.
	CallAdvanceDelay time.Duration
	WinAdvanceDelay  time.Duration

	// advanceTimer is the single pending deferred action for this room.
	// Scheduling a new one always cancels the old one first.
	advanceTimer *time.Timer

	// OnEmpty is invoked after the last player leaves, typically wired to
	// RoomStore.DeleteRoom by whoever created the room.
	OnEmpty func(code string)

	// OnWinRecorded receives a history record for every declared win. The
	// hook must not block; persistence failures are its own problem.
	OnWinRecorded func(rec HistoryRecord)

	Mu sync.Mutex
}

// NewRoom builds an empty room hosted by the given connection. The host is
// the sole player; settings arrive later via update_room_settings.
func NewRoom(code string, host *PlayerConn) *Room {
	r := &Room{
		Code:             code,
		HostID:           host.ID,
		Players:          []*PlayerConn{host},
		Scores:           map[uuid.UUID]int{host.ID: 0},
		DealtCards:       make(map[uuid.UUID][]string),
		MarkedForCall:    make(map[uuid.UUID]bool),
		CallAdvanceDelay: time.Second,
		WinAdvanceDelay:  5 * time.Second,
	}
	return r
}

// Join adds a player to the room, initializes their score, notifies the
// existing members, and sends the joiner a full state snapshot. A mid-round
// joiner sees settings, scores, round number and the calls so far, but gets
// no board until the next deal.
func (r *Room) Join(conn *PlayerConn) {
	r.Mu.Lock()

	r.Players = append(r.Players, conn)
	r.Scores[conn.ID] = 0

	snapshot := r.snapshotPayloadUnsafe(conn.ID)
	joined := map[string]interface{}{
		"type":        EventPlayerJoined,
		"player_id":   conn.ID.String(),
		"player_name": conn.Name,
		"scores":      r.scoresPayloadUnsafe(),
	}
	for _, p := range r.Players {
		if p.ID != conn.ID {
			p.Write(joined)
		}
	}
	r.Mu.Unlock()

	conn.Write(snapshot)
}

// RemovePlayer drops a player from the room, deletes their score and board
// state, and destroys the room if it is now empty. There is no host
// transfer: a room whose host leaves keeps running without host privileges.
func (r *Room) RemovePlayer(playerID uuid.UUID) {
	r.Mu.Lock()

	var removed *PlayerConn
	for i, p := range r.Players {
		if p.ID == playerID {
			removed = p
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	if removed == nil {
		r.Mu.Unlock()
		return
	}

	delete(r.Scores, playerID)
	delete(r.DealtCards, playerID)
	delete(r.MarkedForCall, playerID)

	if len(r.Players) == 0 {
		r.cancelAdvanceUnsafe()
		onEmpty := r.OnEmpty
		code := r.Code
		r.Mu.Unlock()
		if onEmpty != nil {
			onEmpty(code)
		}
		return
	}

	r.broadcastUnsafe(map[string]interface{}{
		"type":        EventPlayerLeft,
		"player_id":   playerID.String(),
		"player_name": removed.Name,
		"scores":      r.scoresPayloadUnsafe(),
	})
	r.Mu.Unlock()
}

// HasPlayer reports whether the connection is currently a member.
func (r *Room) HasPlayer(playerID uuid.UUID) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.playerUnsafe(playerID) != nil
}

// Chat fans a message out to every member, tagged with the sender and the
// send time. Chat stays open in every room state, including after game over.
func (r *Room) Chat(playerID uuid.UUID, message string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	sender := r.playerUnsafe(playerID)
	if sender == nil || message == "" {
		return
	}
	r.broadcastUnsafe(map[string]interface{}{
		"type":        EventChatMessage,
		"player_id":   sender.ID.String(),
		"player_name": sender.Name,
		"message":     message,
		"ts":          time.Now().Unix(),
	})
}

// playerUnsafe finds a member by connection ID. Assumes lock is held.
func (r *Room) playerUnsafe(playerID uuid.UUID) *PlayerConn {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// broadcastUnsafe sends msg to every member. Writes are non-blocking, so
// holding the lock across the loop is safe.
func (r *Room) broadcastUnsafe(msg map[string]interface{}) {
	for _, p := range r.Players {
		p.Write(msg)
	}
}

// scoresPayloadUnsafe renders the score table keyed by connection ID.
// Assumes lock is held.
func (r *Room) scoresPayloadUnsafe() map[string]int {
	scores := make(map[string]int, len(r.Scores))
	for id, wins := range r.Scores {
		scores[id.String()] = wins
	}
	return scores
}

// playersPayloadUnsafe lists members in join order. Assumes lock is held.
func (r *Room) playersPayloadUnsafe() []map[string]interface{} {
	players := make([]map[string]interface{}, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, map[string]interface{}{
			"id":      p.ID.String(),
			"name":    p.Name,
			"is_host": p.ID == r.HostID,
		})
	}
	return players
}

// snapshotPayloadUnsafe builds the full room state sent to a joiner.
// Assumes lock is held.
func (r *Room) snapshotPayloadUnsafe(forPlayer uuid.UUID) map[string]interface{} {
	snap := map[string]interface{}{
		"type":           EventRoomState,
		"room_id":        r.Code,
		"your_id":        forPlayer.String(),
		"host_id":        r.HostID.String(),
		"players":        r.playersPayloadUnsafe(),
		"scores":         r.scoresPayloadUnsafe(),
		"current_round":  r.CurrentRound,
		"game_started":   r.GameStarted,
		"finished":       r.Finished,
		"called_entries": append([]string{}, r.CalledEntries...),
	}
	if r.Settings != nil {
		snap["settings"] = r.Settings
	}
	return snap
}

// scheduleAdvanceUnsafe arms the room's single deferred action, cancelling
// any previous one. When the timer fires it re-acquires the lock and runs fn
// only if it is still the current timer and the room still has players, so
// a stale timer racing a manual action or a mass disconnect is a no-op.
// Assumes lock is held.
func (r *Room) scheduleAdvanceUnsafe(delay time.Duration, fn func()) {
	r.cancelAdvanceUnsafe()

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		r.Mu.Lock()
		if r.advanceTimer != timer || len(r.Players) == 0 {
			r.Mu.Unlock()
			return
		}
		r.advanceTimer = nil
		fn()
		r.Mu.Unlock()
	})
	r.advanceTimer = timer
}

// cancelAdvanceUnsafe stops any pending deferred action. Assumes lock is held.
func (r *Room) cancelAdvanceUnsafe() {
	if r.advanceTimer != nil {
		r.advanceTimer.Stop()
		r.advanceTimer = nil
	}
}
