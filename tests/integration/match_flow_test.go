package integration

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/typeroyale/internal/config"
	"github.com/udisondev/typeroyale/internal/game/match"
	"github.com/udisondev/typeroyale/internal/game/room"
	"github.com/udisondev/typeroyale/internal/gameserver"
	"github.com/udisondev/typeroyale/internal/protocol"
)

// testServer spins up the full websocket stack on an httptest listener.
func testServer(t *testing.T) (*httptest.Server, *room.Manager) {
	t.Helper()

	cfg := config.DefaultGameServer()
	rooms := room.NewManager(cfg.Room)
	queue := match.NewQueue()
	clients := gameserver.NewClientManager()
	handler := gameserver.NewHandler(queue, rooms, clients)
	srv := gameserver.NewServer(cfg, clients, handler)

	ts := httptest.NewServer(srv.HTTPHandler())
	t.Cleanup(func() {
		rooms.Shutdown()
		clients.CloseAll()
		ts.Close()
	})
	return ts, rooms
}

// wsClient is a test-side game client with a background reader.
type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
	msgs chan protocol.Envelope
}

func dial(t *testing.T, ts *httptest.Server) *wsClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	c := &wsClient{t: t, conn: conn, msgs: make(chan protocol.Envelope, 1024)}
	go func() {
		defer close(c.msgs)
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				return
			}
			env, err := protocol.Decode(b)
			if err != nil {
				continue
			}
			c.msgs <- env
		}
	}()
	t.Cleanup(func() { _ = conn.Close() })
	return c
}

func (c *wsClient) send(event string, payload any) {
	c.t.Helper()
	b, err := protocol.Encode(event, payload)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, b))
}

// waitFor discards interleaved traffic until an event of the wanted
// type arrives.
func (c *wsClient) waitFor(event string, timeout time.Duration) protocol.Envelope {
	c.t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case env, ok := <-c.msgs:
			if !ok {
				c.t.Fatalf("connection closed while waiting for %s", event)
			}
			if env.Type == event {
				return env
			}
		case <-deadline:
			c.t.Fatalf("timed out waiting for %s", event)
		}
	}
}

// expectNone asserts no event of the given type arrives within the window.
func (c *wsClient) expectNone(event string, window time.Duration) {
	c.t.Helper()
	deadline := time.After(window)
	for {
		select {
		case env, ok := <-c.msgs:
			if !ok {
				return
			}
			if env.Type == event {
				c.t.Fatalf("unexpected %s: %s", event, env.Data)
			}
		case <-deadline:
			return
		}
	}
}

func TestMatchFlow(t *testing.T) {
	ts, rooms := testServer(t)

	a := dial(t, ts)
	b := dial(t, ts)

	a.send(protocol.EvtJoinQueue, nil)
	b.send(protocol.EvtJoinQueue, nil)

	var foundA, foundB protocol.MatchFound
	require.NoError(t, a.waitFor(protocol.EvtMatchFound, 2*time.Second).DecodePayload(&foundA))
	require.NoError(t, b.waitFor(protocol.EvtMatchFound, 2*time.Second).DecodePayload(&foundB))

	assert.Equal(t, foundA.RoomID, foundB.RoomID)
	assert.Equal(t, foundA.PlayerID, foundB.OpponentID)
	assert.Equal(t, foundB.PlayerID, foundA.OpponentID)
	assert.Equal(t, 1, rooms.Count())

	var start protocol.MatchStart
	require.NoError(t, a.waitFor(protocol.EvtMatchStart, 2*time.Second).DecodePayload(&start))
	b.waitFor(protocol.EvtMatchStart, 2*time.Second)

	assert.Equal(t, foundA.RoomID, start.RoomID)
	require.Len(t, start.Enemies, 10)
	require.Len(t, start.Players, 2)
	for _, p := range start.Players {
		assert.Equal(t, 3, p.Heart)
		assert.Equal(t, 0, p.Kills)
	}

	// Tick broadcasts flow to both participants.
	var upd protocol.EnemyUpdate
	require.NoError(t, a.waitFor(protocol.EvtEnemyUpdate, 2*time.Second).DecodePayload(&upd))
	assert.Len(t, upd.Updates, 10)
	b.waitFor(protocol.EvtEnemyUpdate, 2*time.Second)

	// A valid hit claim kills exactly once and credits the claimer.
	// Target the enemy farthest from the center so it cannot arrive
	// before the claim lands.
	target := start.Enemies[0]
	for _, e := range start.Enemies {
		if e.DistanceToCenter() > target.DistanceToCenter() {
			target = e
		}
	}
	a.send(protocol.EvtHit, protocol.HitClaim{
		RoomID:  start.RoomID,
		EnemyID: target.ID,
		Word:    strings.ToUpper(target.Word), // server compares case-insensitively
	})

	var killed protocol.EnemyKilled
	require.NoError(t, a.waitFor(protocol.EvtEnemyKilled, 2*time.Second).DecodePayload(&killed))
	assert.Equal(t, target.ID, killed.EnemyID)
	assert.Equal(t, foundA.PlayerID, killed.By)
	b.waitFor(protocol.EvtEnemyKilled, 2*time.Second)

	// A stale claim for the same enemy changes nothing.
	b.send(protocol.EvtHit, protocol.HitClaim{RoomID: start.RoomID, EnemyID: target.ID, Word: target.Word})
	b.expectNone(protocol.EvtEnemyKilled, 300*time.Millisecond)

	// Explicit snapshot pull goes to the requester only.
	a.send(protocol.EvtRequestRoomState, protocol.RoomRef{RoomID: start.RoomID})
	var snap protocol.RoomState
	require.NoError(t, a.waitFor(protocol.EvtRoomState, 2*time.Second).DecodePayload(&snap))
	require.Len(t, snap.Enemies, 10)
	for _, e := range snap.Enemies {
		if e.ID == target.ID {
			assert.False(t, e.Alive, "killed enemy alive in snapshot")
		}
	}
	var claimerKills int
	for _, p := range snap.Players {
		if p.ID == foundA.PlayerID {
			claimerKills = p.Kills
		}
	}
	assert.Equal(t, 1, claimerKills)
}

func TestSpectatorRelay(t *testing.T) {
	ts, _ := testServer(t)

	a := dial(t, ts)
	b := dial(t, ts)
	a.send(protocol.EvtJoinQueue, nil)
	b.send(protocol.EvtJoinQueue, nil)

	var found protocol.MatchFound
	require.NoError(t, a.waitFor(protocol.EvtMatchFound, 2*time.Second).DecodePayload(&found))
	b.waitFor(protocol.EvtMatchFound, 2*time.Second)

	a.send(protocol.EvtFieldKilled, protocol.FieldKilled{RoomID: found.RoomID, EnemyID: 12})

	var killed protocol.SpectatorKilled
	require.NoError(t, b.waitFor(protocol.EvtSpectatorKilled, 2*time.Second).DecodePayload(&killed))
	assert.Equal(t, found.PlayerID, killed.OwnerID)
	assert.Equal(t, 12, killed.EnemyID)
}

func TestReadyRelay(t *testing.T) {
	ts, _ := testServer(t)

	a := dial(t, ts)
	b := dial(t, ts)
	a.send(protocol.EvtJoinQueue, nil)
	b.send(protocol.EvtJoinQueue, nil)

	var found protocol.MatchFound
	require.NoError(t, a.waitFor(protocol.EvtMatchFound, 2*time.Second).DecodePayload(&found))
	b.waitFor(protocol.EvtMatchFound, 2*time.Second)

	a.send(protocol.EvtReady, protocol.RoomRef{RoomID: found.RoomID})

	var ready protocol.PlayerReady
	require.NoError(t, b.waitFor(protocol.EvtPlayerReady, 2*time.Second).DecodePayload(&ready))
	assert.Equal(t, found.PlayerID, ready.ID)
}

func TestDisconnectTearsDownRoom(t *testing.T) {
	ts, rooms := testServer(t)

	a := dial(t, ts)
	b := dial(t, ts)
	a.send(protocol.EvtJoinQueue, nil)
	b.send(protocol.EvtJoinQueue, nil)

	var found protocol.MatchFound
	require.NoError(t, a.waitFor(protocol.EvtMatchFound, 2*time.Second).DecodePayload(&found))
	b.waitFor(protocol.EvtMatchFound, 2*time.Second)

	require.NoError(t, b.conn.Close())

	var left protocol.OpponentLeft
	require.NoError(t, a.waitFor(protocol.EvtOpponentLeft, 2*time.Second).DecodePayload(&left))
	assert.Equal(t, found.RoomID, left.RoomID)
	assert.Equal(t, found.OpponentID, left.By)

	require.Eventually(t, func() bool { return rooms.Count() == 0 }, 2*time.Second, 20*time.Millisecond)

	// Stray traffic for the dissolved room is a harmless no-op.
	a.send(protocol.EvtRequestRoomState, protocol.RoomRef{RoomID: found.RoomID})
	a.send(protocol.EvtHit, protocol.HitClaim{RoomID: found.RoomID, EnemyID: 1, Word: "stale"})
	a.expectNone(protocol.EvtRoomState, 300*time.Millisecond)

	// The connection is still serviceable: rejoining the queue works.
	a.send(protocol.EvtJoinQueue, nil)
	c := dial(t, ts)
	c.send(protocol.EvtJoinQueue, nil)
	a.waitFor(protocol.EvtMatchFound, 2*time.Second)
	c.waitFor(protocol.EvtMatchFound, 2*time.Second)
}

func TestLeaveQueue(t *testing.T) {
	ts, rooms := testServer(t)

	a := dial(t, ts)
	a.send(protocol.EvtJoinQueue, nil)
	a.send(protocol.EvtLeaveQueue, nil)
	a.send(protocol.EvtLeaveQueue, nil) // double leave is a no-op

	b := dial(t, ts)
	b.send(protocol.EvtJoinQueue, nil)

	// A left before B arrived, so no match forms.
	b.expectNone(protocol.EvtMatchFound, 400*time.Millisecond)
	assert.Equal(t, 0, rooms.Count())
}
