// Package protocol defines the websocket wire format: every message is
// a JSON envelope {type, data} where data is the event payload. Event
// names and payload shapes are shared with the browser client and must
// not change without a client release.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/udisondev/typeroyale/internal/model"
)

// Client → server events.
const (
	EvtJoinQueue        = "joinQueue"
	EvtLeaveQueue       = "leaveQueue"
	EvtReady            = "ready"
	EvtHit              = "hit"
	EvtRequestRoomState = "requestRoomState"

	// Private-battlefield reports, relayed to the opponent's spectator feed.
	EvtFieldSpawn   = "fieldSpawn"
	EvtFieldUpdate  = "fieldUpdate"
	EvtFieldKilled  = "fieldKilled"
	EvtFieldReached = "fieldReached"
)

// Server → client events.
const (
	EvtMatchFound   = "matchFound"
	EvtMatchStart   = "matchStart"
	EvtEnemyUpdate  = "enemyUpdate"
	EvtEnemyKilled  = "enemyKilled"
	EvtEnemyReached = "enemyReached"
	EvtRoomState    = "roomState"
	EvtMatchEnd     = "matchEnd"
	EvtOpponentLeft = "opponentLeft"
	EvtPlayerReady  = "playerReady"

	EvtEnemySpawned     = "enemySpawned"
	EvtSpectatorUpdate  = "spectatorUpdate"
	EvtSpectatorKilled  = "spectatorKilled"
	EvtSpectatorReached = "spectatorReached"
)

// Match end reasons.
const (
	ReasonHeartsDepleted = "hearts_depleted"
	ReasonDraw           = "draw"
	ReasonOpponentLeft   = "opponent_left"
	ReasonIdleTimeout    = "idle_timeout"
)

// Envelope frames every message on the wire.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode wraps payload into an envelope of the given event type.
func Encode(event string, payload any) ([]byte, error) {
	env := Envelope{Type: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s payload: %w", event, err)
		}
		env.Data = data
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s envelope: %w", event, err)
	}
	return b, nil
}

// Decode parses a raw message into an envelope.
func Decode(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return env, fmt.Errorf("parsing envelope: %w", err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("envelope missing type")
	}
	return env, nil
}

// DecodePayload parses the envelope's data into v.
func (e Envelope) DecodePayload(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s has no payload", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("parsing %s payload: %w", e.Type, err)
	}
	return nil
}

// RoomRef identifies a room in requests that carry nothing else.
type RoomRef struct {
	RoomID string `json:"roomId"`
}

// HitClaim is a client's assertion that it fully typed an enemy's word.
type HitClaim struct {
	RoomID  string `json:"roomId"`
	EnemyID int    `json:"enemyId"`
	Word    string `json:"word"`
}

// EnemyState is the per-enemy slice of a delta broadcast.
type EnemyState struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Alive bool    `json:"alive"`
}

// MatchFound is sent individually to each matched connection with
// connection-relative ids.
type MatchFound struct {
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId"`
	OpponentID string `json:"opponentId"`
}

// MatchStart carries the full initial snapshot for a new match.
type MatchStart struct {
	RoomID  string          `json:"roomId"`
	Enemies []*model.Enemy  `json:"enemies"`
	Players []*model.Player `json:"players"`
}

// EnemyUpdate is the per-tick batched delta broadcast. T is the server
// timestamp in unix milliseconds, used for client interpolation.
type EnemyUpdate struct {
	Updates []EnemyState `json:"updates"`
	T       int64        `json:"t"`
}

// EnemyKilled announces a validated hit.
type EnemyKilled struct {
	EnemyID int    `json:"enemyId"`
	By      string `json:"by"`
}

// EnemyReached names the enemies that hit the center this tick.
type EnemyReached struct {
	EnemyIDs []int `json:"enemyIds"`
}

// RoomState is the full reconciliation snapshot.
type RoomState struct {
	Enemies []*model.Enemy  `json:"enemies"`
	Players []*model.Player `json:"players"`
}

// MatchEnd reports the outcome. On a draw both ids are empty.
type MatchEnd struct {
	WinnerID string `json:"winnerId"`
	LoserID  string `json:"loserId"`
	Reason   string `json:"reason"`
}

// OpponentLeft notifies the surviving player of a disconnect.
type OpponentLeft struct {
	RoomID string `json:"roomId"`
	By     string `json:"by"`
}

// PlayerReady relays a participant's ready signal to the opponent.
type PlayerReady struct {
	ID string `json:"id"`
}

// FieldSpawn reports a spawn on the sender's private battlefield.
type FieldSpawn struct {
	RoomID string      `json:"roomId"`
	Enemy  model.Enemy `json:"enemy"`
}

// FieldUpdate reports movement on the sender's private battlefield.
type FieldUpdate struct {
	RoomID  string       `json:"roomId"`
	Updates []EnemyState `json:"updates"`
	T       int64        `json:"t"`
}

// FieldKilled reports a kill on the sender's private battlefield.
type FieldKilled struct {
	RoomID  string `json:"roomId"`
	EnemyID int    `json:"enemyId"`
}

// FieldReached reports arrivals on the sender's private battlefield.
type FieldReached struct {
	RoomID   string `json:"roomId"`
	EnemyIDs []int  `json:"enemyIds"`
}

// EnemySpawned mirrors FieldSpawn to the opponent, scoped by owner.
type EnemySpawned struct {
	OwnerID string      `json:"ownerId"`
	Enemy   model.Enemy `json:"enemy"`
}

// SpectatorUpdate mirrors FieldUpdate to the opponent.
type SpectatorUpdate struct {
	OwnerID string       `json:"ownerId"`
	Updates []EnemyState `json:"updates"`
	T       int64        `json:"t"`
}

// SpectatorKilled mirrors FieldKilled to the opponent.
type SpectatorKilled struct {
	OwnerID string `json:"ownerId"`
	EnemyID int    `json:"enemyId"`
}

// SpectatorReached mirrors FieldReached to the opponent.
type SpectatorReached struct {
	OwnerID string `json:"ownerId"`
	Enemies []int  `json:"enemies"`
}
