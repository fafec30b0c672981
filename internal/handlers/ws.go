// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kuduguette/bingo-creator/internal/game"
	"github.com/kuduguette/bingo-creator/internal/middleware"
)

// ClientMessage is the envelope every inbound realtime event is decoded
// into before dispatch. Unknown fields are dropped at the boundary instead
// of being trusted at point of use.
type ClientMessage struct {
	Type string `json:"type"`

	// RoomID targets an existing room for every event except create_room.
	RoomID string `json:"roomId,omitempty"`

	HostName   string `json:"hostName,omitempty"`
	PlayerName string `json:"playerName,omitempty"`

	// Settings carries the full replacement settings for
	// update_room_settings.
	Settings *game.Settings `json:"settings,omitempty"`

	// WinType is the claimed pattern for declare_win.
	WinType string `json:"winType,omitempty"`

	// EntryText is the entry being acknowledged by cell_marked.
	EntryText string `json:"entryText,omitempty"`

	Message string `json:"message,omitempty"`
}

// WSHandler upgrades the connection and runs the session for one ephemeral
// participant. The connection's uuid is the participant's identity for its
// whole lifetime; a dropped connection is a permanent departure from every
// room it joined.
func WSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"bingo"},
			OriginPatterns: []string{"*"}, // Adjust in production.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "bingo" {
			c.Close(BadSubprotocolError, "client must speak the bingo subprotocol")
			return
		}

		playerID := uuid.New()
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn := &game.PlayerConn{
			ID:      playerID,
			Cancel:  cancel,
			OutChan: make(chan map[string]interface{}, 32),
		}

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)
		logger.Infof("Player %s connected from %s", playerID, r.RemoteAddr)

		go writePump(ctx, c, conn, logger)
		readPump(ctx, c, gs, conn, logger)

		// Disconnect: leave every room this connection belonged to. Rooms
		// emptied by the departure destroy themselves.
		logger.Infof("Player %s disconnected, leaving all rooms", playerID)
		gs.Rooms.RemoveEverywhere(playerID)
	}
}

// readPump decodes inbound frames into ClientMessage envelopes and routes
// them until the connection closes or the context is cancelled.
func readPump(ctx context.Context, c *websocket.Conn, gs *GameServer, conn *game.PlayerConn, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("Player %s: websocket closed normally", conn.ID)
			} else if strings.Contains(err.Error(), "context canceled") {
				// Shutdown path, nothing to report.
			} else {
				logger.Warnf("Player %s: read error: %v", conn.ID, err)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Warnf("Player %s: ignoring non-text message type %d", conn.ID, typ)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Player %s: invalid json: %v", conn.ID, err)
			conn.WriteError("Invalid JSON format")
			continue
		}

		gs.handleClientMessage(conn, msg)
	}
}

// handleClientMessage routes one decoded event. Operations against unknown
// rooms, host-only operations from non-hosts, and unmet preconditions are
// silent no-ops; only join_room reports failure back to the sender.
func (gs *GameServer) handleClientMessage(conn *game.PlayerConn, msg ClientMessage) {
	switch msg.Type {
	case "create_room":
		if msg.HostName != "" {
			conn.Name = msg.HostName
		}
		room := gs.Rooms.CreateRoom(conn)
		room.OnWinRecorded = gs.recordWin
		conn.Write(map[string]interface{}{
			"type":      game.EventRoomCreated,
			"room_id":   room.Code,
			"player_id": conn.ID.String(),
		})

	case "join_room":
		room, ok := gs.Rooms.GetRoom(msg.RoomID)
		if !ok {
			conn.WriteError("room not found")
			return
		}
		if msg.PlayerName != "" {
			conn.Name = msg.PlayerName
		}
		room.Join(conn)

	case "update_room_settings":
		if room, ok := gs.Rooms.GetRoom(msg.RoomID); ok && msg.Settings != nil {
			room.UpdateSettings(conn.ID, *msg.Settings)
		}

	case "start_game":
		if room, ok := gs.Rooms.GetRoom(msg.RoomID); ok {
			room.StartGame(conn.ID)
		}

	case "next_round":
		if room, ok := gs.Rooms.GetRoom(msg.RoomID); ok {
			room.NextRound(conn.ID)
		}

	case "declare_win":
		if room, ok := gs.Rooms.GetRoom(msg.RoomID); ok {
			room.DeclareWin(conn.ID, msg.WinType)
		}

	case "next_call":
		if room, ok := gs.Rooms.GetRoom(msg.RoomID); ok {
			room.NextCall(conn.ID)
		}

	case "cell_marked":
		if room, ok := gs.Rooms.GetRoom(msg.RoomID); ok {
			room.MarkCell(conn.ID, msg.EntryText)
		}

	case "reset_calls":
		if room, ok := gs.Rooms.GetRoom(msg.RoomID); ok {
			room.ResetCalls(conn.ID)
		}

	case "send_message":
		if room, ok := gs.Rooms.GetRoom(msg.RoomID); ok {
			room.Chat(conn.ID, msg.Message)
		}

	default:
		conn.WriteError(fmt.Sprintf("Unknown action type: %s", msg.Type))
	}
}

// writePump drains the connection's OutChan onto the wire and keeps the
// connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, conn *game.PlayerConn, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-conn.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("Player %s: failed to marshal outgoing msg: %v", conn.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Player %s: write failed: %v", conn.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("Player %s: ping failed, assuming disconnect: %v", conn.ID, err)
				return
			}
		}
	}
}
