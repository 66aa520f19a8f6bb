package room

import (
	"log/slog"

	"github.com/udisondev/typeroyale/internal/protocol"
)

// relayFieldEvent mirrors a participant's private-battlefield report to
// the opponent as the matching spectator event. The relay is stateless:
// the server keeps no copy of private fields, it only rescopes the
// payload by owner id.
func (r *Room) relayFieldEvent(playerID string, env protocol.Envelope) {
	if !r.HasPlayer(playerID) {
		return
	}

	switch env.Type {
	case protocol.EvtFieldSpawn:
		var p protocol.FieldSpawn
		if err := env.DecodePayload(&p); err != nil {
			slog.Debug("bad field event", "room", r.id, "type", env.Type, "err", err)
			return
		}
		r.sendToOpponent(playerID, protocol.EvtEnemySpawned, protocol.EnemySpawned{
			OwnerID: playerID,
			Enemy:   p.Enemy,
		})

	case protocol.EvtFieldUpdate:
		var p protocol.FieldUpdate
		if err := env.DecodePayload(&p); err != nil {
			slog.Debug("bad field event", "room", r.id, "type", env.Type, "err", err)
			return
		}
		r.sendToOpponent(playerID, protocol.EvtSpectatorUpdate, protocol.SpectatorUpdate{
			OwnerID: playerID,
			Updates: p.Updates,
			T:       p.T,
		})

	case protocol.EvtFieldKilled:
		var p protocol.FieldKilled
		if err := env.DecodePayload(&p); err != nil {
			slog.Debug("bad field event", "room", r.id, "type", env.Type, "err", err)
			return
		}
		r.sendToOpponent(playerID, protocol.EvtSpectatorKilled, protocol.SpectatorKilled{
			OwnerID: playerID,
			EnemyID: p.EnemyID,
		})

	case protocol.EvtFieldReached:
		var p protocol.FieldReached
		if err := env.DecodePayload(&p); err != nil {
			slog.Debug("bad field event", "room", r.id, "type", env.Type, "err", err)
			return
		}
		r.sendToOpponent(playerID, protocol.EvtSpectatorReached, protocol.SpectatorReached{
			OwnerID: playerID,
			Enemies: p.EnemyIDs,
		})
	}
}
