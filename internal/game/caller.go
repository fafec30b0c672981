// internal/game/caller.go
package game

import "github.com/google/uuid"

// NextCall draws the next entry on the host's behalf. Non-host callers and
// rooms that are not mid-game are silently ignored.
func (r *Room) NextCall(callerID uuid.UUID) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if callerID != r.HostID || !r.callableUnsafe() {
		return
	}
	r.drawNextUnsafe()
}

// MarkCell records a player's acknowledgment that they marked the current
// call. Acknowledgments for anything other than the most recent call are
// stale and dropped. Once every connected holder of the current entry has
// marked it, the next call is drawn automatically after a short delay.
func (r *Room) MarkCell(playerID uuid.UUID, entry string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.playerUnsafe(playerID) == nil || !r.callableUnsafe() {
		return
	}
	if len(r.CalledEntries) == 0 || r.CalledEntries[len(r.CalledEntries)-1] != entry {
		return
	}

	r.MarkedForCall[playerID] = true

	if r.advanceTimer != nil {
		return
	}
	for _, holder := range r.holdersOfUnsafe(entry) {
		if !r.MarkedForCall[holder] {
			return
		}
	}
	r.scheduleAdvanceUnsafe(r.CallAdvanceDelay, r.drawNextUnsafe)
}

// ResetCalls clears the call history and mark state for the current round
// without touching scores or the round number. Host-only.
func (r *Room) ResetCalls(callerID uuid.UUID) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if callerID != r.HostID || !r.callableUnsafe() {
		return
	}

	r.cancelAdvanceUnsafe()
	r.CalledEntries = nil
	r.MarkedForCall = make(map[uuid.UUID]bool)
	r.broadcastUnsafe(map[string]interface{}{
		"type": EventCallsReset,
	})
}

// callableUnsafe reports whether caller operations apply in the room's
// current state. Assumes lock is held.
func (r *Room) callableUnsafe() bool {
	return r.Settings != nil && r.GameStarted && !r.Finished
}

// drawNextUnsafe selects a uniformly random entry from the pool minus the
// calls so far, appends it, resets the per-call mark set, and broadcasts
// the call. An exhausted pool refuses the draw. When the entry appears on
// no connected player's board, nobody can act on it, so the next draw is
// scheduled automatically. Assumes lock is held.
func (r *Room) drawNextUnsafe() {
	remaining := r.remainingEntriesUnsafe()
	if len(remaining) == 0 {
		return
	}

	entry := pickOne(remaining)
	r.CalledEntries = append(r.CalledEntries, entry)
	r.MarkedForCall = make(map[uuid.UUID]bool)
	r.cancelAdvanceUnsafe()

	r.broadcastUnsafe(map[string]interface{}{
		"type":      EventEntryCalled,
		"entry":     entry,
		"called":    len(r.CalledEntries),
		"remaining": len(remaining) - 1,
	})

	if len(r.holdersOfUnsafe(entry)) == 0 {
		r.scheduleAdvanceUnsafe(r.CallAdvanceDelay, r.drawNextUnsafe)
	}
}

// remainingEntriesUnsafe computes pool minus called. Assumes lock is held.
func (r *Room) remainingEntriesUnsafe() []string {
	pool := ParseEntryPool(r.Settings.EntryPoolText)
	called := make(map[string]bool, len(r.CalledEntries))
	for _, e := range r.CalledEntries {
		called[e] = true
	}
	remaining := make([]string, 0, len(pool))
	for _, e := range pool {
		if !called[e] {
			remaining = append(remaining, e)
		}
	}
	return remaining
}

// holdersOfUnsafe lists the connected players whose dealt board contains
// the entry. Assumes lock is held.
func (r *Room) holdersOfUnsafe(entry string) []uuid.UUID {
	var holders []uuid.UUID
	for _, p := range r.Players {
		for _, cell := range r.DealtCards[p.ID] {
			if cell == entry {
				holders = append(holders, p.ID)
				break
			}
		}
	}
	return holders
}
