// Package shooter is the arena shooter: waves of drones close in on the
// player, who wins by clearing the final wave.
package shooter

import (
	"github.com/vovakirdan/arcade-core/internal/games"
	"github.com/vovakirdan/arcade-core/internal/registry"
)

// ID is the registry id.
const ID = "shooter"

func init() {
	registry.Register(ID, func() registry.Game {
		return games.New(ID, "Arena Shooter", nil)
	})
}
