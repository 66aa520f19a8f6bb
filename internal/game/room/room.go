// Package room implements the authoritative match simulation: one Room
// per head-to-head match, a fixed-tick engine advancing the shared
// battlefield, server-side hit validation, and the spectator relay of
// each player's private field. All room state is mutated by the room's
// own goroutine only; everything external goes through the inbox.
package room

import (
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/typeroyale/internal/config"
	"github.com/udisondev/typeroyale/internal/game/battlefield"
	"github.com/udisondev/typeroyale/internal/model"
	"github.com/udisondev/typeroyale/internal/protocol"
)

// State represents the room lifecycle phase.
type State int32

const (
	StateCreated State = 0 // constructed, tick loop not yet running
	StateLive    State = 1 // tick loop running
	StateEnded   State = 2 // terminal, tick loop stopped
)

// Conn delivers encoded events to one participant. Implementations must
// be safe to call from the room goroutine.
type Conn interface {
	Send(b []byte) error
}

// Participant pairs a connection id with its transport.
type Participant struct {
	ID   string
	Conn Conn
}

// Result is the terminal outcome of a room, handed to the manager's
// result hook. On a draw both ids are empty.
type Result struct {
	RoomID   string
	WinnerID string
	LoserID  string
	Reason   string
	Kills    map[string]int
	EndedAt  time.Time
}

// Room owns one match's full state. Exactly one live Room exists per
// active match; the Manager enforces id uniqueness.
type Room struct {
	id  string
	cfg config.RoomConfig

	// order preserves A/B assignment for opponent lookup.
	order   [2]string
	players map[string]*model.Player
	conns   map[string]Conn

	// enemies keeps insertion (id) order for stable serialization;
	// byID backs O(1) hit lookup. Ids are never reused and dead
	// enemies are never removed while the room lives.
	enemies []*model.Enemy
	byID    map[int]*model.Enemy

	state atomic.Int32

	inbox chan command
	quit  chan struct{}

	rng          *rand.Rand
	now          func() time.Time
	lastTick     time.Time
	lastActivity time.Time

	onEnd func(Result)
}

type command interface{ isCommand() }

type hitCmd struct {
	playerID string
	enemyID  int
	word     string
}

type readyCmd struct{ playerID string }

type stateRequestCmd struct{ playerID string }

type fieldCmd struct {
	playerID string
	env      protocol.Envelope
}

type leaveCmd struct{ playerID string }

func (hitCmd) isCommand()          {}
func (readyCmd) isCommand()        {}
func (stateRequestCmd) isCommand() {}
func (fieldCmd) isCommand()        {}
func (leaveCmd) isCommand()        {}

// New constructs a room with a fresh battlefield. The rng drives both
// generation and the probabilistic snapshot broadcast; now is the clock
// source. Both are injectable for deterministic tests.
func New(cfg config.RoomConfig, a, b Participant, rng *rand.Rand, now func() time.Time) *Room {
	if now == nil {
		now = time.Now
	}
	enemies := battlefield.Generate(cfg.EnemyCount, rng)

	r := &Room{
		id:    uuid.NewString(),
		cfg:   cfg,
		order: [2]string{a.ID, b.ID},
		players: map[string]*model.Player{
			a.ID: model.NewPlayer(a.ID, cfg.Hearts),
			b.ID: model.NewPlayer(b.ID, cfg.Hearts),
		},
		conns:   map[string]Conn{a.ID: a.Conn, b.ID: b.Conn},
		enemies: enemies,
		byID:    make(map[int]*model.Enemy, len(enemies)),
		inbox:   make(chan command, 64),
		quit:    make(chan struct{}),
		rng:     rng,
		now:     now,
	}
	for _, e := range enemies {
		r.byID[e.ID] = e
	}
	r.lastTick = now()
	r.lastActivity = r.lastTick
	return r
}

// ID returns the room's UUID.
func (r *Room) ID() string { return r.id }

// State returns the current lifecycle phase.
func (r *Room) State() State { return State(r.state.Load()) }

// HasPlayer reports whether the given connection participates here.
func (r *Room) HasPlayer(playerID string) bool {
	_, ok := r.players[playerID]
	return ok
}

// PlayerIDs returns both participants in A/B order.
func (r *Room) PlayerIDs() [2]string { return r.order }

// Run drives the room: broadcasts the initial snapshot, transitions to
// Live, then ticks at the fixed interval until the match ends. Intended
// to run on its own goroutine; all commands are serialized here.
func (r *Room) Run() {
	if !r.state.CompareAndSwap(int32(StateCreated), int32(StateLive)) {
		return
	}
	r.broadcast(protocol.EvtMatchStart, protocol.MatchStart{
		RoomID:  r.id,
		Enemies: r.enemies,
		Players: r.serializePlayers(),
	})

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			return
		case cmd := <-r.inbox:
			r.handle(cmd)
		case <-ticker.C:
			r.tick(r.now())
		}
	}
}

// Stop terminates the tick loop without broadcasting anything. Used by
// the manager during shutdown; normal endings go through finish.
func (r *Room) Stop() {
	if r.state.Swap(int32(StateEnded)) == int32(StateEnded) {
		return
	}
	close(r.quit)
}

// Submit queues a command for the room goroutine. Commands to an ended
// room are dropped, matching the stale-message error taxonomy.
func (r *Room) submit(cmd command) {
	select {
	case r.inbox <- cmd:
	case <-r.quit:
	}
}

// SubmitHit queues a hit claim.
func (r *Room) SubmitHit(playerID string, enemyID int, word string) {
	r.submit(hitCmd{playerID: playerID, enemyID: enemyID, word: word})
}

// SubmitReady queues a ready signal, relayed to the opponent.
func (r *Room) SubmitReady(playerID string) {
	r.submit(readyCmd{playerID: playerID})
}

// SubmitStateRequest queues an explicit snapshot pull.
func (r *Room) SubmitStateRequest(playerID string) {
	r.submit(stateRequestCmd{playerID: playerID})
}

// SubmitFieldEvent queues a private-battlefield report for relay.
func (r *Room) SubmitFieldEvent(playerID string, env protocol.Envelope) {
	r.submit(fieldCmd{playerID: playerID, env: env})
}

// SubmitLeave queues a participant departure (disconnect or leaveQueue).
func (r *Room) SubmitLeave(playerID string) {
	r.submit(leaveCmd{playerID: playerID})
}

func (r *Room) handle(cmd command) {
	switch c := cmd.(type) {
	case hitCmd:
		r.touch()
		r.handleHit(c.playerID, c.enemyID, c.word)
	case readyCmd:
		r.touch()
		r.sendToOpponent(c.playerID, protocol.EvtPlayerReady, protocol.PlayerReady{ID: c.playerID})
	case stateRequestCmd:
		r.touch()
		r.sendTo(c.playerID, protocol.EvtRoomState, r.snapshot())
	case fieldCmd:
		r.touch()
		r.relayFieldEvent(c.playerID, c.env)
	case leaveCmd:
		r.handleLeave(c.playerID)
	}
}

func (r *Room) handleLeave(playerID string) {
	if !r.HasPlayer(playerID) {
		return
	}
	r.sendToOpponent(playerID, protocol.EvtOpponentLeft, protocol.OpponentLeft{
		RoomID: r.id,
		By:     playerID,
	})
	r.finish(Result{
		RoomID:   r.id,
		WinnerID: r.opponentOf(playerID),
		LoserID:  playerID,
		Reason:   protocol.ReasonOpponentLeft,
	}, false)
}

// finish transitions to Ended, optionally broadcasting matchEnd, and
// fires the manager's end hook. Idempotent.
func (r *Room) finish(res Result, announce bool) {
	if r.state.Swap(int32(StateEnded)) == int32(StateEnded) {
		return
	}
	res.Kills = map[string]int{}
	for id, p := range r.players {
		res.Kills[id] = p.Kills
	}
	res.EndedAt = r.now()

	if announce {
		r.broadcast(protocol.EvtMatchEnd, protocol.MatchEnd{
			WinnerID: res.WinnerID,
			LoserID:  res.LoserID,
			Reason:   res.Reason,
		})
	}
	close(r.quit)

	slog.Info("match ended",
		"room", r.id,
		"winner", res.WinnerID,
		"reason", res.Reason)

	if r.onEnd != nil {
		r.onEnd(res)
	}
}

func (r *Room) touch() {
	r.lastActivity = r.now()
}

func (r *Room) opponentOf(playerID string) string {
	if r.order[0] == playerID {
		return r.order[1]
	}
	return r.order[0]
}

func (r *Room) snapshot() protocol.RoomState {
	return protocol.RoomState{
		Enemies: r.enemies,
		Players: r.serializePlayers(),
	}
}

func (r *Room) serializePlayers() []*model.Player {
	out := make([]*model.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

func (r *Room) broadcast(event string, payload any) {
	b, err := protocol.Encode(event, payload)
	if err != nil {
		slog.Error("encoding broadcast", "room", r.id, "event", event, "err", err)
		return
	}
	for id, c := range r.conns {
		if err := c.Send(b); err != nil {
			slog.Debug("broadcast send failed", "room", r.id, "player", id, "event", event, "err", err)
		}
	}
}

func (r *Room) sendTo(playerID, event string, payload any) {
	c, ok := r.conns[playerID]
	if !ok {
		return
	}
	b, err := protocol.Encode(event, payload)
	if err != nil {
		slog.Error("encoding send", "room", r.id, "event", event, "err", err)
		return
	}
	if err := c.Send(b); err != nil {
		slog.Debug("send failed", "room", r.id, "player", playerID, "event", event, "err", err)
	}
}

func (r *Room) sendToOpponent(playerID, event string, payload any) {
	if !r.HasPlayer(playerID) {
		return
	}
	r.sendTo(r.opponentOf(playerID), event, payload)
}
