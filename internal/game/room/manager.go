package room

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/udisondev/typeroyale/internal/config"
)

// Manager is the process-wide room registry. It owns room lifecycle:
// creation on match, lookup for hit/state routing, and teardown on
// completion, disconnect or shutdown. Thread-safe.
type Manager struct {
	mu       sync.RWMutex
	rooms    map[string]*Room  // roomID → Room
	byPlayer map[string]string // playerID → roomID

	cfg config.RoomConfig

	// onResult, when set, receives every terminal outcome. Used to
	// persist natural match results; never blocks room teardown.
	onResult func(Result)

	// newRand supplies each room its own random source; replaced in
	// tests for deterministic battlefields.
	newRand func() *rand.Rand

	// now is the clock source handed to rooms.
	now func() time.Time
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithResultHook registers a callback for terminal match results.
func WithResultHook(fn func(Result)) ManagerOption {
	return func(m *Manager) { m.onResult = fn }
}

// WithRandSource replaces the per-room random source factory.
func WithRandSource(fn func() *rand.Rand) ManagerOption {
	return func(m *Manager) { m.newRand = fn }
}

// WithClock replaces the clock source handed to rooms.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty registry.
func NewManager(cfg config.RoomConfig, opts ...ManagerOption) *Manager {
	m := &Manager{
		rooms:    make(map[string]*Room, 16),
		byPlayer: make(map[string]string, 32),
		cfg:      cfg,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create builds a room for the matched pair, registers it and starts
// its tick loop. The loop begins immediately; the ready signal does not
// gate it.
func (m *Manager) Create(a, b Participant) *Room {
	r := New(m.cfg, a, b, m.newRand(), m.now)
	r.onEnd = func(res Result) {
		m.remove(r.id)
		if m.onResult != nil {
			m.onResult(res)
		}
	}

	m.mu.Lock()
	m.rooms[r.id] = r
	m.byPlayer[a.ID] = r.id
	m.byPlayer[b.ID] = r.id
	m.mu.Unlock()

	slog.Info("room created", "room", r.id, "playerA", a.ID, "playerB", b.ID)

	go r.Run()
	return r
}

// Get returns the room with the given id, or nil.
func (m *Manager) Get(roomID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomID]
}

// FindByPlayer returns the active room a player participates in, or nil.
func (m *Manager) FindByPlayer(playerID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roomID, ok := m.byPlayer[playerID]
	if !ok {
		return nil
	}
	return m.rooms[roomID]
}

// LeaveIfAny routes a departing player to their room, if any. The room
// notifies the opponent and tears itself down.
func (m *Manager) LeaveIfAny(playerID string) {
	if r := m.FindByPlayer(playerID); r != nil {
		r.SubmitLeave(playerID)
	}
}

// Count returns the number of active rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Shutdown stops every room's tick loop and empties the registry.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.rooms = make(map[string]*Room)
	m.byPlayer = make(map[string]string)
	m.mu.Unlock()

	for _, r := range rooms {
		r.Stop()
	}
	if len(rooms) > 0 {
		slog.Info("room registry drained", "rooms", len(rooms))
	}
}

// remove deletes the room and its player index entries. The room has
// already stopped its own tick loop by the time this runs, so no timer
// can mutate an unregistered room.
func (m *Manager) remove(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[roomID]; !ok {
		return
	}
	delete(m.rooms, roomID)
	for pid, rid := range m.byPlayer {
		if rid == roomID {
			delete(m.byPlayer, pid)
		}
	}
}
