package gameserver

import (
	"log/slog"

	"github.com/udisondev/typeroyale/internal/game/match"
	"github.com/udisondev/typeroyale/internal/game/room"
	"github.com/udisondev/typeroyale/internal/protocol"
)

// Handler routes decoded client messages to matchmaking and rooms.
// Messages referencing unknown rooms are silent no-ops: a client that
// already saw matchEnd or opponentLeft may still have stray traffic in
// flight, and that is not a fault.
type Handler struct {
	queue   *match.Queue
	rooms   *room.Manager
	clients *ClientManager
}

// NewHandler wires the message dispatcher.
func NewHandler(queue *match.Queue, rooms *room.Manager, clients *ClientManager) *Handler {
	return &Handler{queue: queue, rooms: rooms, clients: clients}
}

// HandleMessage dispatches one inbound message.
func (h *Handler) HandleMessage(c *Client, raw []byte) {
	env, err := protocol.Decode(raw)
	if err != nil {
		slog.Debug("dropping malformed message", "client", c.ID(), "err", err)
		return
	}

	switch env.Type {
	case protocol.EvtJoinQueue:
		h.queue.Join(c.ID())
		h.attemptMatch()

	case protocol.EvtLeaveQueue:
		h.queue.Leave(c.ID())
		h.rooms.LeaveIfAny(c.ID())

	case protocol.EvtReady:
		var p protocol.RoomRef
		if err := env.DecodePayload(&p); err != nil {
			return
		}
		if r := h.roomFor(p.RoomID, c); r != nil {
			r.SubmitReady(c.ID())
		}

	case protocol.EvtHit:
		var p protocol.HitClaim
		if err := env.DecodePayload(&p); err != nil {
			return
		}
		if r := h.roomFor(p.RoomID, c); r != nil {
			r.SubmitHit(c.ID(), p.EnemyID, p.Word)
		}

	case protocol.EvtRequestRoomState:
		var p protocol.RoomRef
		if err := env.DecodePayload(&p); err != nil {
			return
		}
		if r := h.roomFor(p.RoomID, c); r != nil {
			r.SubmitStateRequest(c.ID())
		}

	case protocol.EvtFieldSpawn, protocol.EvtFieldUpdate, protocol.EvtFieldKilled, protocol.EvtFieldReached:
		var p protocol.RoomRef // every field payload carries roomId
		if err := env.DecodePayload(&p); err != nil {
			return
		}
		if r := h.roomFor(p.RoomID, c); r != nil {
			r.SubmitFieldEvent(c.ID(), env)
		}

	default:
		slog.Debug("unknown event", "client", c.ID(), "type", env.Type)
	}
}

// HandleDisconnect cleans up after a dropped connection: dequeue,
// tear down the active room (the opponent gets opponentLeft), and
// forget the client.
func (h *Handler) HandleDisconnect(c *Client) {
	h.clients.Unregister(c.ID())
	h.queue.Leave(c.ID())
	h.rooms.LeaveIfAny(c.ID())
	slog.Debug("client disconnected", "client", c.ID())
}

// roomFor resolves a room id and checks the sender participates in it.
func (h *Handler) roomFor(roomID string, c *Client) *room.Room {
	r := h.rooms.Get(roomID)
	if r == nil || !r.HasPlayer(c.ID()) {
		return nil
	}
	return r
}

// attemptMatch pairs waiting connections until fewer than two remain.
// A popped connection that vanished between queueing and pairing is
// skipped; its surviving partner goes back to the front of the queue.
func (h *Handler) attemptMatch() {
	for {
		aID, bID, ok := h.queue.PopPair()
		if !ok {
			return
		}

		ca := h.liveClient(aID)
		cb := h.liveClient(bID)
		if ca == nil || cb == nil {
			if ca != nil {
				h.queue.Requeue(aID)
			}
			if cb != nil {
				h.queue.Requeue(bID)
			}
			continue
		}

		r := h.rooms.Create(
			room.Participant{ID: aID, Conn: ca},
			room.Participant{ID: bID, Conn: cb},
		)

		h.sendMatchFound(ca, r.ID(), aID, bID)
		h.sendMatchFound(cb, r.ID(), bID, aID)
	}
}

func (h *Handler) liveClient(id string) *Client {
	c := h.clients.Get(id)
	if c == nil || c.Closed() {
		return nil
	}
	return c
}

func (h *Handler) sendMatchFound(c *Client, roomID, playerID, opponentID string) {
	b, err := protocol.Encode(protocol.EvtMatchFound, protocol.MatchFound{
		RoomID:     roomID,
		PlayerID:   playerID,
		OpponentID: opponentID,
	})
	if err != nil {
		slog.Error("encoding matchFound", "err", err)
		return
	}
	if err := c.Send(b); err != nil {
		slog.Debug("sending matchFound", "client", c.ID(), "err", err)
	}
}
