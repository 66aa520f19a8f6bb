package room

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/typeroyale/internal/config"
	"github.com/udisondev/typeroyale/internal/protocol"
)

func newTestManager(opts ...ManagerOption) *Manager {
	cfg := config.DefaultRoom()
	cfg.SnapshotChance = 0
	opts = append(opts, WithRandSource(func() *rand.Rand {
		return rand.New(rand.NewPCG(1, 1))
	}))
	return NewManager(cfg, opts...)
}

func TestManager_CreateAndLookup(t *testing.T) {
	m := newTestManager()
	defer m.Shutdown()

	ca, cb := &recorder{}, &recorder{}
	r := m.Create(Participant{ID: "a", Conn: ca}, Participant{ID: "b", Conn: cb})

	require.NotNil(t, r)
	assert.Equal(t, 1, m.Count())
	assert.Same(t, r, m.Get(r.ID()))
	assert.Same(t, r, m.FindByPlayer("a"))
	assert.Same(t, r, m.FindByPlayer("b"))
	assert.Nil(t, m.FindByPlayer("ghost"))
	assert.Nil(t, m.Get("no-such-room"))

	// Participants must receive the initial snapshot.
	require.Eventually(t, func() bool {
		return ca.count(protocol.EvtMatchStart) == 1 && cb.count(protocol.EvtMatchStart) == 1
	}, time.Second, 10*time.Millisecond)

	var start protocol.MatchStart
	require.NoError(t, ca.events(protocol.EvtMatchStart)[0].DecodePayload(&start))
	assert.Equal(t, r.ID(), start.RoomID)
	assert.Len(t, start.Enemies, m.cfg.EnemyCount)
	assert.Len(t, start.Players, 2)
}

func TestManager_LeaveTearsDownRoom(t *testing.T) {
	m := newTestManager()
	defer m.Shutdown()

	ca, cb := &recorder{}, &recorder{}
	r := m.Create(Participant{ID: "a", Conn: ca}, Participant{ID: "b", Conn: cb})

	m.LeaveIfAny("b")

	require.Eventually(t, func() bool {
		return m.Count() == 0
	}, time.Second, 10*time.Millisecond)

	assert.Nil(t, m.Get(r.ID()))
	assert.Nil(t, m.FindByPlayer("a"))
	assert.Nil(t, m.FindByPlayer("b"))
	assert.Equal(t, StateEnded, r.State())
	assert.Equal(t, 1, ca.count(protocol.EvtOpponentLeft))
}

func TestManager_LeaveUnknownPlayerIsNoop(t *testing.T) {
	m := newTestManager()
	defer m.Shutdown()
	m.LeaveIfAny("nobody") // must not panic or create state
	assert.Equal(t, 0, m.Count())
}

func TestManager_ResultHook(t *testing.T) {
	results := make(chan Result, 1)
	m := newTestManager(WithResultHook(func(res Result) { results <- res }))
	defer m.Shutdown()

	ca, cb := &recorder{}, &recorder{}
	r := m.Create(Participant{ID: "a", Conn: ca}, Participant{ID: "b", Conn: cb})

	m.LeaveIfAny("a")

	select {
	case res := <-results:
		assert.Equal(t, r.ID(), res.RoomID)
		assert.Equal(t, "b", res.WinnerID)
		assert.Equal(t, "a", res.LoserID)
		assert.Equal(t, protocol.ReasonOpponentLeft, res.Reason)
		require.Contains(t, res.Kills, "a")
		require.Contains(t, res.Kills, "b")
		assert.False(t, res.EndedAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("result hook never fired")
	}
}

func TestManager_Shutdown(t *testing.T) {
	m := newTestManager()

	rooms := make([]*Room, 0, 3)
	for i := 0; i < 3; i++ {
		a := Participant{ID: string(rune('a' + 2*i)), Conn: &recorder{}}
		b := Participant{ID: string(rune('b' + 2*i)), Conn: &recorder{}}
		rooms = append(rooms, m.Create(a, b))
	}
	require.Equal(t, 3, m.Count())

	m.Shutdown()

	assert.Equal(t, 0, m.Count())
	for _, r := range rooms {
		assert.Equal(t, StateEnded, r.State())
	}
}

func TestManager_ConcurrentDuplicateClaims(t *testing.T) {
	// Both players claim the same enemy: exactly one enemyKilled, one
	// kill credited. Claims are serialized by the room inbox, so the
	// first one processed wins.
	m := newTestManager()
	defer m.Shutdown()

	ca, cb := &recorder{}, &recorder{}
	r := m.Create(Participant{ID: "a", Conn: ca}, Participant{ID: "b", Conn: cb})

	word := r.byID[5].Word
	r.SubmitHit("a", 5, word)
	r.SubmitHit("b", 5, word)

	require.Eventually(t, func() bool {
		return ca.count(protocol.EvtEnemyKilled) >= 1
	}, time.Second, 5*time.Millisecond)

	// Give the second claim time to (wrongly) produce a broadcast.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, ca.count(protocol.EvtEnemyKilled))
	assert.Equal(t, 1, cb.count(protocol.EvtEnemyKilled))

	var p protocol.EnemyKilled
	require.NoError(t, ca.events(protocol.EvtEnemyKilled)[0].DecodePayload(&p))
	assert.Equal(t, 5, p.EnemyID)
	assert.Contains(t, []string{"a", "b"}, p.By)
}
