// internal/handlers/ws_test.go
package handlers

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuduguette/bingo-creator/internal/game"
)

func newTestServer() *GameServer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewGameServer(logger)
}

func newTestConn() *game.PlayerConn {
	return &game.PlayerConn{
		ID:      uuid.New(),
		OutChan: make(chan map[string]interface{}, 64),
	}
}

func drain(conn *game.PlayerConn) []map[string]interface{} {
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

func lastOfType(events []map[string]interface{}, typ string) map[string]interface{} {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i]["type"] == typ {
			return events[i]
		}
	}
	return nil
}

func TestCreateRoomRepliesWithCode(t *testing.T) {
	gs := newTestServer()
	conn := newTestConn()

	gs.handleClientMessage(conn, ClientMessage{Type: "create_room", HostName: "alice"})

	created := lastOfType(drain(conn), game.EventRoomCreated)
	require.NotNil(t, created)
	code := created["room_id"].(string)
	assert.Len(t, code, 4)
	assert.Equal(t, conn.ID.String(), created["player_id"])
	assert.Equal(t, "alice", conn.Name)

	room, ok := gs.Rooms.GetRoom(code)
	require.True(t, ok)
	assert.Equal(t, conn.ID, room.HostID)
}

func TestJoinUnknownRoomReturnsError(t *testing.T) {
	gs := newTestServer()
	conn := newTestConn()

	gs.handleClientMessage(conn, ClientMessage{Type: "join_room", RoomID: "ZZZZ", PlayerName: "bob"})

	errEvent := lastOfType(drain(conn), "error")
	require.NotNil(t, errEvent)
	assert.Equal(t, "room not found", errEvent["message"])
}

func TestJoinRoomDeliversSnapshot(t *testing.T) {
	gs := newTestServer()
	host := newTestConn()
	gs.handleClientMessage(host, ClientMessage{Type: "create_room", HostName: "alice"})
	code := lastOfType(drain(host), game.EventRoomCreated)["room_id"].(string)

	guest := newTestConn()
	gs.handleClientMessage(guest, ClientMessage{Type: "join_room", RoomID: code, PlayerName: "bob"})

	snap := lastOfType(drain(guest), game.EventRoomState)
	require.NotNil(t, snap)
	assert.Equal(t, code, snap["room_id"])

	joined := lastOfType(drain(host), game.EventPlayerJoined)
	require.NotNil(t, joined)
	assert.Equal(t, "bob", joined["player_name"])
}

func TestNonHostSettingsSilentlyIgnored(t *testing.T) {
	gs := newTestServer()
	host := newTestConn()
	gs.handleClientMessage(host, ClientMessage{Type: "create_room", HostName: "alice"})
	code := lastOfType(drain(host), game.EventRoomCreated)["room_id"].(string)

	guest := newTestConn()
	gs.handleClientMessage(guest, ClientMessage{Type: "join_room", RoomID: code, PlayerName: "bob"})
	drain(guest)

	gs.handleClientMessage(guest, ClientMessage{
		Type:     "update_room_settings",
		RoomID:   code,
		Settings: &game.Settings{GridSize: 3, EntryPoolText: "a,b,c", TotalRounds: 1},
	})

	room, _ := gs.Rooms.GetRoom(code)
	room.Mu.Lock()
	assert.Nil(t, room.Settings)
	room.Mu.Unlock()
	assert.Empty(t, drain(guest), "no error payload for a rejected host-only op")
}

func TestOperationsAgainstUnknownRoomAreSilent(t *testing.T) {
	gs := newTestServer()
	conn := newTestConn()

	for _, typ := range []string{
		"start_game", "next_round", "declare_win", "next_call",
		"cell_marked", "reset_calls", "send_message", "update_room_settings",
	} {
		gs.handleClientMessage(conn, ClientMessage{Type: typ, RoomID: "QQQQ"})
	}
	assert.Empty(t, drain(conn))
}

func TestUnknownActionReturnsError(t *testing.T) {
	gs := newTestServer()
	conn := newTestConn()

	gs.handleClientMessage(conn, ClientMessage{Type: "dance"})

	errEvent := lastOfType(drain(conn), "error")
	require.NotNil(t, errEvent)
	assert.Contains(t, errEvent["message"], "Unknown action type")
}
