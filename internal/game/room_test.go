// internal/game/room_test.go
package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConn builds a PlayerConn whose OutChan is drained by the test
// instead of a write pump.
func newTestConn(name string) *PlayerConn {
	return &PlayerConn{
		ID:      uuid.New(),
		Name:    name,
		OutChan: make(chan map[string]interface{}, 64),
	}
}

// drainEvents empties a connection's OutChan without blocking.
func drainEvents(conn *PlayerConn) []map[string]interface{} {
	var events []map[string]interface{}
	for {
		select {
		case ev := <-conn.OutChan:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func eventsOfType(events []map[string]interface{}, typ string) []map[string]interface{} {
	var matched []map[string]interface{}
	for _, ev := range events {
		if ev["type"] == typ {
			matched = append(matched, ev)
		}
	}
	return matched
}

func lastEventOfType(events []map[string]interface{}, typ string) map[string]interface{} {
	matched := eventsOfType(events, typ)
	if len(matched) == 0 {
		return nil
	}
	return matched[len(matched)-1]
}

func testSettings(totalRounds int) Settings {
	return Settings{
		GridSize:      3,
		WinMode:       "any-line",
		CardTitle:     "Office Bingo",
		EntryPoolText: "A,B,C,D,E,F,G,H,I",
		TotalRounds:   totalRounds,
		CallerEnabled: true,
	}
}

// setupStartedRoom builds a two-player room with short timers, configured
// and started on round 1, with setup events drained.
func setupStartedRoom(t *testing.T, totalRounds int) (*RoomStore, *Room, *PlayerConn, *PlayerConn) {
	t.Helper()

	store := NewRoomStore()
	host := newTestConn("alice")
	room := store.CreateRoom(host)
	room.CallAdvanceDelay = 30 * time.Millisecond
	room.WinAdvanceDelay = 40 * time.Millisecond

	guest := newTestConn("bob")
	room.Join(guest)

	room.UpdateSettings(host.ID, testSettings(totalRounds))
	room.StartGame(host.ID)
	require.True(t, room.GameStarted, "game should have started")
	require.Equal(t, 1, room.CurrentRound)

	drainEvents(host)
	drainEvents(guest)
	return store, room, host, guest
}

func TestCreateRoomInitialState(t *testing.T) {
	store := NewRoomStore()
	host := newTestConn("alice")
	room := store.CreateRoom(host)

	assert.Len(t, room.Code, codeLength)
	assert.Equal(t, host.ID, room.HostID)
	require.Len(t, room.Players, 1)
	assert.Equal(t, 0, room.Scores[host.ID])
	assert.Nil(t, room.Settings)
	assert.Equal(t, 0, room.CurrentRound)
	assert.False(t, room.GameStarted)

	got, ok := store.GetRoom(room.Code)
	require.True(t, ok)
	assert.Same(t, room, got)
}

func TestJoinNotifiesAndSnapshots(t *testing.T) {
	store := NewRoomStore()
	host := newTestConn("alice")
	room := store.CreateRoom(host)

	guest := newTestConn("bob")
	room.Join(guest)

	hostEvents := drainEvents(host)
	joined := lastEventOfType(hostEvents, EventPlayerJoined)
	require.NotNil(t, joined, "existing members must see player_joined")
	assert.Equal(t, "bob", joined["player_name"])

	guestEvents := drainEvents(guest)
	snap := lastEventOfType(guestEvents, EventRoomState)
	require.NotNil(t, snap, "joiner must receive a full snapshot")
	assert.Equal(t, room.Code, snap["room_id"])
	assert.Equal(t, guest.ID.String(), snap["your_id"])
	assert.Nil(t, snap["settings"], "settings are nil before the host configures")
	// The joiner must not see their own player_joined echo.
	assert.Nil(t, lastEventOfType(guestEvents, EventPlayerJoined))

	assert.Equal(t, 0, room.Scores[guest.ID])
}

func TestJoinMidRoundGetsCallsButNoBoard(t *testing.T) {
	_, room, host, _ := setupStartedRoom(t, 2)
	room.NextCall(host.ID)

	late := newTestConn("carol")
	room.Join(late)

	snap := lastEventOfType(drainEvents(late), EventRoomState)
	require.NotNil(t, snap)
	assert.Equal(t, true, snap["game_started"])
	assert.Equal(t, 1, snap["current_round"])
	called := snap["called_entries"].([]string)
	assert.Len(t, called, 1)

	room.Mu.Lock()
	_, dealt := room.DealtCards[late.ID]
	room.Mu.Unlock()
	assert.False(t, dealt, "no board until the next round start")
}

func TestLeaveDropsScoreAndBroadcasts(t *testing.T) {
	store, room, host, guest := setupStartedRoom(t, 2)

	room.RemovePlayer(guest.ID)

	left := lastEventOfType(drainEvents(host), EventPlayerLeft)
	require.NotNil(t, left)
	assert.Equal(t, "bob", left["player_name"])
	scores := left["scores"].(map[string]int)
	_, present := scores[guest.ID.String()]
	assert.False(t, present, "departed player's score entry must be gone")

	_, ok := store.GetRoom(room.Code)
	assert.True(t, ok, "room survives while players remain")
}

func TestLastLeaverDestroysRoom(t *testing.T) {
	store := NewRoomStore()
	host := newTestConn("alice")
	room := store.CreateRoom(host)

	room.RemovePlayer(host.ID)

	_, ok := store.GetRoom(room.Code)
	assert.False(t, ok, "empty room must be destroyed immediately")
}

func TestHostLeaveDoesNotTransferHost(t *testing.T) {
	store, room, host, guest := setupStartedRoom(t, 2)

	room.RemovePlayer(host.ID)
	_, ok := store.GetRoom(room.Code)
	require.True(t, ok)

	// The remaining player never inherits host privileges.
	drainEvents(guest)
	room.NextCall(guest.ID)
	room.Mu.Lock()
	called := len(room.CalledEntries)
	room.Mu.Unlock()
	assert.Zero(t, called)
}

func TestChatFanOut(t *testing.T) {
	_, room, host, guest := setupStartedRoom(t, 2)

	room.Chat(guest.ID, "good luck!")

	for _, conn := range []*PlayerConn{host, guest} {
		msg := lastEventOfType(drainEvents(conn), EventChatMessage)
		require.NotNil(t, msg)
		assert.Equal(t, "bob", msg["player_name"])
		assert.Equal(t, "good luck!", msg["message"])
		assert.NotZero(t, msg["ts"])
	}

	// Non-members and empty messages are dropped.
	room.Chat(uuid.New(), "hi")
	room.Chat(host.ID, "")
	assert.Nil(t, lastEventOfType(drainEvents(host), EventChatMessage))
}
