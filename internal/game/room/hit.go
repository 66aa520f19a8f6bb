package room

import (
	"strings"

	"github.com/udisondev/typeroyale/internal/protocol"
)

// handleHit validates a kill claim. Unknown enemy, already-dead enemy
// or a word mismatch is a silent drop: these are expected races between
// client input and the server tick, not faults. A valid claim kills the
// enemy, credits the claimer and broadcasts immediately rather than
// waiting for the next tick.
//
// Two players claiming the same enemy race through the inbox; the first
// claim flips Alive and the second sees a dead enemy, so at most one
// kill is ever credited per enemy.
func (r *Room) handleHit(playerID string, enemyID int, word string) {
	e, ok := r.byID[enemyID]
	if !ok || !e.Alive {
		return
	}
	if !strings.EqualFold(e.Word, word) {
		return
	}

	e.Alive = false
	if p, ok := r.players[playerID]; ok {
		p.Kills++
	}

	r.broadcast(protocol.EvtEnemyKilled, protocol.EnemyKilled{EnemyID: enemyID, By: playerID})
}
