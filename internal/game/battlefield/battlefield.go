// Package battlefield produces the initial enemy wave for a new room.
// Generation is pure: all randomness comes from the injected source, so
// a seeded source yields a reproducible battlefield.
package battlefield

import (
	"math"
	"math/rand/v2"

	"github.com/udisondev/typeroyale/internal/data"
	"github.com/udisondev/typeroyale/internal/model"
)

// Base speed range in reference units per frame.
const (
	minBaseSpeed  = 0.8
	baseSpeedSpan = 1.2
)

// Generate creates count enemies with sequential ids starting at 1,
// positions uniform within the spawn margins, and unit direction
// vectors pointing at the field center.
func Generate(count int, rng *rand.Rand) []*model.Enemy {
	span := model.FieldSize - 2*model.SpawnMargin

	enemies := make([]*model.Enemy, 0, count)
	for i := 0; i < count; i++ {
		enemies = append(enemies, &model.Enemy{
			ID:    i + 1,
			Word:  data.RandomWord(rng),
			X:     model.SpawnMargin + rng.Float64()*span,
			Y:     model.SpawnMargin + rng.Float64()*span,
			Alive: true,
		})
	}

	// Second pass: aim everyone at the center and roll speed. The max
	// with 1 guards against a spawn exactly on the center point.
	for _, e := range enemies {
		dx := model.CenterX - e.X
		dy := model.CenterY - e.Y
		dist := math.Max(math.Hypot(dx, dy), 1)
		e.UX = dx / dist
		e.UY = dy / dist
		e.BaseSpeed = minBaseSpeed + rng.Float64()*baseSpeedSpan
	}

	return enemies
}
