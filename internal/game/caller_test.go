// internal/game/caller_test.go
package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calledCount(r *Room) int {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return len(r.CalledEntries)
}

func lastCalled(r *Room) string {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if len(r.CalledEntries) == 0 {
		return ""
	}
	return r.CalledEntries[len(r.CalledEntries)-1]
}

func TestNextCallDrawsWithoutRepeats(t *testing.T) {
	_, room, host, guest := setupStartedRoom(t, 1)

	// The 3x3 pool has nine entries; draw all of them.
	for i := 0; i < 9; i++ {
		room.NextCall(host.ID)
	}

	room.Mu.Lock()
	called := append([]string{}, room.CalledEntries...)
	room.Mu.Unlock()
	require.Len(t, called, 9)
	seen := make(map[string]bool)
	for _, e := range called {
		assert.False(t, seen[e], "entry %q called twice", e)
		seen[e] = true
	}

	// Exhausted pool refuses further draws.
	room.NextCall(host.ID)
	assert.Equal(t, 9, calledCount(room))

	events := eventsOfType(drainEvents(guest), EventEntryCalled)
	require.Len(t, events, 9)
	assert.Equal(t, 1, events[0]["called"])
	assert.Equal(t, 8, events[0]["remaining"])
	assert.Equal(t, 9, events[8]["called"])
	assert.Equal(t, 0, events[8]["remaining"])
}

func TestNextCallIgnoredOutsideGame(t *testing.T) {
	store := NewRoomStore()
	host := newTestConn("alice")
	room := store.CreateRoom(host)

	room.NextCall(host.ID)
	assert.Zero(t, calledCount(room), "no calls before the game starts")

	_, started, starter, guest := setupStartedRoom(t, 1)
	started.NextCall(guest.ID)
	assert.Zero(t, calledCount(started), "non-host callers are ignored")
	started.NextCall(starter.ID)
	assert.Equal(t, 1, calledCount(started))
}

func TestAutoAdvanceWhenNobodyHoldsEntry(t *testing.T) {
	_, room, host, _ := setupStartedRoom(t, 1)

	// Strip every board so no call has a holder; the caller should then
	// chain through the whole pool on its own.
	room.Mu.Lock()
	room.DealtCards = make(map[uuid.UUID][]string)
	room.Mu.Unlock()

	room.NextCall(host.ID)
	require.Eventually(t, func() bool {
		return calledCount(room) == 9
	}, 2*time.Second, 5*time.Millisecond, "caller should exhaust the pool unattended")
}

func TestMarkAdvancesOnlyWhenAllHoldersMarked(t *testing.T) {
	_, room, host, guest := setupStartedRoom(t, 1)

	room.NextCall(host.ID)
	entry := lastCalled(room)
	require.NotEmpty(t, entry)

	// Both players hold every pool entry on a 3x3 board, so one mark is
	// not enough.
	room.MarkCell(host.ID, entry)
	time.Sleep(3 * room.CallAdvanceDelay)
	assert.Equal(t, 1, calledCount(room))

	room.MarkCell(guest.ID, entry)
	require.Eventually(t, func() bool {
		return calledCount(room) == 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStaleMarkIsDropped(t *testing.T) {
	_, room, host, guest := setupStartedRoom(t, 1)

	room.NextCall(host.ID)
	current := lastCalled(room)

	stale := "A"
	if current == "A" {
		stale = "B"
	}
	room.MarkCell(guest.ID, stale)

	room.Mu.Lock()
	marked := len(room.MarkedForCall)
	room.Mu.Unlock()
	assert.Zero(t, marked, "mark for a non-current entry must not register")
}

func TestManualCallCancelsPendingAdvance(t *testing.T) {
	_, room, host, guest := setupStartedRoom(t, 1)
	room.Mu.Lock()
	room.CallAdvanceDelay = 60 * time.Millisecond
	room.Mu.Unlock()

	room.NextCall(host.ID)
	entry := lastCalled(room)
	room.MarkCell(host.ID, entry)
	room.MarkCell(guest.ID, entry)

	// Host jumps in before the scheduled advance fires.
	room.NextCall(host.ID)
	require.Equal(t, 2, calledCount(room))

	time.Sleep(3 * room.CallAdvanceDelay)
	assert.Equal(t, 2, calledCount(room), "stale advance timer must not double-draw")
}

func TestResetCallsKeepsScoresAndRound(t *testing.T) {
	_, room, host, guest := setupStartedRoom(t, 3)

	room.NextCall(host.ID)
	room.NextCall(host.ID)
	room.Mu.Lock()
	room.Scores[guest.ID] = 2
	room.Mu.Unlock()

	room.ResetCalls(guest.ID)
	assert.Equal(t, 2, calledCount(room), "reset is host-only")

	drainEvents(guest)
	room.ResetCalls(host.ID)

	room.Mu.Lock()
	assert.Empty(t, room.CalledEntries)
	assert.Empty(t, room.MarkedForCall)
	assert.Equal(t, 2, room.Scores[guest.ID])
	assert.Equal(t, 1, room.CurrentRound)
	room.Mu.Unlock()

	require.NotNil(t, lastEventOfType(drainEvents(guest), EventCallsReset))
}
