package room

import (
	"time"

	"github.com/udisondev/typeroyale/internal/protocol"
)

// maxTickStep clamps the simulated step so a stall (GC pause, scheduler
// backlog) never teleports enemies across the field.
const maxTickStep = 0.12

// tick advances the simulation by one fixed step: move live enemies,
// collect arrivals, deduct hearts, broadcast the delta, maybe broadcast
// a reconciliation snapshot, then check for match end.
func (r *Room) tick(now time.Time) {
	if r.State() != StateLive {
		return
	}

	dt := now.Sub(r.lastTick).Seconds()
	if dt > maxTickStep {
		dt = maxTickStep
	}
	r.lastTick = now

	var reached []int
	for _, e := range r.enemies {
		if !e.Alive {
			continue
		}
		e.Advance(dt)
		if e.DistanceToCenter() <= r.cfg.ArrivalRadius {
			e.Alive = false
			reached = append(reached, e.ID)
		}
	}

	// Every enemy is included every tick; the client reconciles by id.
	updates := make([]protocol.EnemyState, 0, len(r.enemies))
	for _, e := range r.enemies {
		updates = append(updates, protocol.EnemyState{ID: e.ID, X: e.X, Y: e.Y, Alive: e.Alive})
	}
	r.broadcast(protocol.EvtEnemyUpdate, protocol.EnemyUpdate{Updates: updates, T: now.UnixMilli()})

	if len(reached) > 0 {
		// Shared battlefield: a breakthrough costs both players.
		for _, p := range r.players {
			p.LoseHearts(len(reached))
		}
		r.broadcast(protocol.EvtEnemyReached, protocol.EnemyReached{EnemyIDs: reached})
	}

	// Probabilistic self-healing snapshot against dropped deltas.
	if r.rng.Float64() < r.cfg.SnapshotChance {
		r.broadcast(protocol.EvtRoomState, r.snapshot())
	}

	r.checkMatchEnd()
	r.checkIdleTimeout(now)
}

// checkMatchEnd ends the match once any player runs out of hearts.
// Both hitting zero in the same tick is an explicit draw.
func (r *Room) checkMatchEnd() {
	a := r.players[r.order[0]]
	b := r.players[r.order[1]]

	switch {
	case a.Dead() && b.Dead():
		r.finish(Result{RoomID: r.id, Reason: protocol.ReasonDraw}, true)
	case a.Dead():
		r.finish(Result{RoomID: r.id, WinnerID: b.ID, LoserID: a.ID, Reason: protocol.ReasonHeartsDepleted}, true)
	case b.Dead():
		r.finish(Result{RoomID: r.id, WinnerID: a.ID, LoserID: b.ID, Reason: protocol.ReasonHeartsDepleted}, true)
	}
}

// checkIdleTimeout dissolves a room nobody is talking to, bounding
// resource usage when both clients silently vanish.
func (r *Room) checkIdleTimeout(now time.Time) {
	if r.cfg.IdleTimeout <= 0 || r.State() != StateLive {
		return
	}
	if now.Sub(r.lastActivity) >= r.cfg.IdleTimeout {
		r.finish(Result{RoomID: r.id, Reason: protocol.ReasonIdleTimeout}, true)
	}
}
