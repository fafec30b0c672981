// internal/game/rounds.go
package game

import "github.com/google/uuid"

// UpdateSettings replaces the room settings wholesale and broadcasts the
// change to every other member. Host-only; anyone else is silently ignored.
func (r *Room) UpdateSettings(callerID uuid.UUID, s Settings) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if callerID != r.HostID {
		return
	}
	r.Settings = &s

	update := map[string]interface{}{
		"type":     EventSettingsUpdate,
		"settings": r.Settings,
	}
	for _, p := range r.Players {
		if p.ID != callerID {
			p.Write(update)
		}
	}
}

// StartGame begins round 1. Host-only; requires settings and an entry pool
// big enough to fill a board, otherwise nothing happens.
func (r *Room) StartGame(callerID uuid.UUID) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if callerID != r.HostID || r.Settings == nil || r.GameStarted {
		return
	}
	pool := ParseEntryPool(r.Settings.EntryPoolText)
	if len(pool) < r.Settings.GridSize*r.Settings.GridSize {
		return
	}

	r.GameStarted = true
	r.broadcastUnsafe(map[string]interface{}{
		"type": EventGameStarted,
	})
	r.startRoundUnsafe()
}

// NextRound manually advances to the next round. Host-only; a no-op before
// the game starts or once the final round has been reached.
func (r *Room) NextRound(callerID uuid.UUID) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if callerID != r.HostID || !r.GameStarted || r.Finished {
		return
	}
	if r.CurrentRound >= r.Settings.TotalRounds {
		return
	}
	r.startRoundUnsafe()
}

// DeclareWin applies a player's win report: their score goes up by one and
// every member sees the scoring event. After a short celebration delay the
// room either advances to the next round with freshly dealt boards or, when
// the final round has been played, broadcasts game over and goes terminal.
//
// The claimed win type is trusted as reported; the server does not re-check
// the board against the mark state.
func (r *Room) DeclareWin(playerID uuid.UUID, winType string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	winner := r.playerUnsafe(playerID)
	if winner == nil || !r.GameStarted || r.Finished {
		return
	}

	r.Scores[playerID]++

	r.broadcastUnsafe(map[string]interface{}{
		"type":          EventPlayerScored,
		"player_id":     playerID.String(),
		"player_name":   winner.Name,
		"win_type":      winType,
		"scores":        r.scoresPayloadUnsafe(),
		"current_round": r.CurrentRound,
	})

	if r.OnWinRecorded != nil {
		names := make([]string, 0, len(r.Players))
		for _, p := range r.Players {
			names = append(names, p.Name)
		}
		r.OnWinRecorded(HistoryRecord{
			RoomCode:    r.Code,
			CardTitle:   r.Settings.CardTitle,
			PlayerNames: names,
			WinnerName:  winner.Name,
			WinType:     winType,
			Round:       r.CurrentRound,
		})
	}

	r.scheduleAdvanceUnsafe(r.WinAdvanceDelay, func() {
		if r.CurrentRound >= r.Settings.TotalRounds {
			r.Finished = true
			r.broadcastUnsafe(map[string]interface{}{
				"type":   EventGameOver,
				"scores": r.scoresPayloadUnsafe(),
			})
			return
		}
		r.startRoundUnsafe()
	})
}

// startRoundUnsafe advances to the next round: bumps the round counter,
// clears the call state, re-deals every player's board, and announces the
// round. Dealing fails when the entry pool cannot fill a board; the round
// does not start and no events fire. Assumes lock is held.
func (r *Room) startRoundUnsafe() bool {
	pool := ParseEntryPool(r.Settings.EntryPoolText)
	ids := make([]uuid.UUID, 0, len(r.Players))
	for _, p := range r.Players {
		ids = append(ids, p.ID)
	}
	boards := DealBoards(pool, r.Settings.GridSize, ids)
	if boards == nil {
		return false
	}

	r.cancelAdvanceUnsafe()
	r.CurrentRound++
	r.CalledEntries = nil
	r.MarkedForCall = make(map[uuid.UUID]bool)
	r.DealtCards = boards

	for _, p := range r.Players {
		if _, ok := r.Scores[p.ID]; !ok {
			r.Scores[p.ID] = 0
		}
	}

	r.broadcastUnsafe(map[string]interface{}{
		"type":          EventNewRound,
		"current_round": r.CurrentRound,
		"total_rounds":  r.Settings.TotalRounds,
		"scores":        r.scoresPayloadUnsafe(),
	})

	for _, p := range r.Players {
		p.Write(map[string]interface{}{
			"type":    EventShuffledCard,
			"entries": boards[p.ID],
		})
	}
	return true
}
