// internal/game/room_store.go
package game

import (
	"crypto/rand"
	"log"
	"math/big"
	"sync"

	"github.com/google/uuid"
)

// Room codes avoid 0/O/1/I so players can read them aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const codeLength = 4

// RoomStore is the process-wide registry of active rooms, keyed by their
// short shareable code. It is created once at startup and passed into the
// event-routing layer; there is no ambient global.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRoomStore initializes an empty registry.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
	}
}

// CreateRoom allocates a fresh code, builds a room with the given host as
// sole player, wires its OnEmpty callback to the store, and registers it.
// Codes are drawn until one is free, so no two live rooms share a code.
func (s *RoomStore) CreateRoom(host *PlayerConn) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for {
		code = generateRoomCode()
		if _, exists := s.rooms[code]; !exists {
			break
		}
	}

	room := NewRoom(code, host)
	room.OnEmpty = func(c string) {
		s.DeleteRoom(c)
	}
	s.rooms[code] = room
	log.Printf("RoomStore: created room %s hosted by %s", code, host.ID)
	return room
}

// GetRoom looks up a room by code.
func (s *RoomStore) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	return r, ok
}

// DeleteRoom drops a room from the registry. Typically reached through a
// room's OnEmpty callback when its last player leaves.
func (s *RoomStore) DeleteRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[code]; exists {
		delete(s.rooms, code)
		log.Printf("RoomStore: deleted room %s", code)
	}
}

// RemoveEverywhere removes a disconnecting player from every room they
// belong to. Rooms emptied by the removal destroy themselves via OnEmpty.
func (s *RoomStore) RemoveEverywhere(playerID uuid.UUID) {
	s.mu.Lock()
	member := make([]*Room, 0, 1)
	for _, r := range s.rooms {
		if r.HasPlayer(playerID) {
			member = append(member, r)
		}
	}
	s.mu.Unlock()

	// RemovePlayer may call back into DeleteRoom, so run it outside the
	// store lock.
	for _, r := range member {
		r.RemovePlayer(playerID)
	}
}

// Count returns the number of live rooms.
func (s *RoomStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// generateRoomCode draws a short random code from the unambiguous alphabet.
func generateRoomCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}
