// Package model holds the shared game entities for the Type Royale
// authoritative simulation. The structs are serialized as-is onto the
// wire, so the JSON tags are part of the client protocol.
package model

import "math"

// Battlefield coordinate space. Positions live in a fixed square; all
// enemies converge on the center.
const (
	FieldSize = 600.0
	CenterX   = 300.0
	CenterY   = 300.0

	// SpawnMargin keeps initial enemy positions away from the field edges.
	SpawnMargin = 20.0
)

// Enemy is one word-carrying attacker. Ids are assigned sequentially
// starting at 1 and stay stable for the room's lifetime: dead enemies
// remain in the collection so clients can look them up for death
// animations.
type Enemy struct {
	ID   int    `json:"id"`
	Word string `json:"word"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Unit direction toward the field center, computed once at spawn.
	UX float64 `json:"ux"`
	UY float64 `json:"uy"`

	// BaseSpeed is in units per tick at the nominal 60fps reference rate.
	BaseSpeed float64 `json:"baseSpeed"`

	Alive bool `json:"alive"`
}

// DistanceToCenter returns the euclidean distance from the enemy to the
// field center.
func (e *Enemy) DistanceToCenter() float64 {
	return math.Hypot(e.X-CenterX, e.Y-CenterY)
}

// Advance moves the enemy along its direction vector for dt seconds.
// The *60 factor rescales per-second movement to the 60fps reference
// speed unit shared with the client. Dead enemies never move.
func (e *Enemy) Advance(dt float64) {
	if !e.Alive {
		return
	}
	e.X += e.UX * e.BaseSpeed * dt * 60
	e.Y += e.UY * e.BaseSpeed * dt * 60
}

// Player is one participant's per-room combat record.
type Player struct {
	ID    string `json:"id"`
	Heart int    `json:"heart"`
	Kills int    `json:"kills"`
}

// NewPlayer creates a player record with the given starting health.
func NewPlayer(id string, hearts int) *Player {
	return &Player{ID: id, Heart: hearts}
}

// LoseHearts deducts n hearts, flooring at zero.
func (p *Player) LoseHearts(n int) {
	p.Heart -= n
	if p.Heart < 0 {
		p.Heart = 0
	}
}

// Dead reports whether the player has run out of hearts.
func (p *Player) Dead() bool {
	return p.Heart <= 0
}
