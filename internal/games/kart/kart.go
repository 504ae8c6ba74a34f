// Package kart is the kart racer. A lap counts when the kart crosses the
// finish line forward after passing the checkpoint on the far straight.
// Running out of level time loses the race.
package kart

import (
	"github.com/vovakirdan/arcade-core/internal/games"
	"github.com/vovakirdan/arcade-core/internal/registry"
)

const ID = "kart"

func init() {
	registry.Register(ID, func() registry.Game {
		return games.New(ID, "Kart Racer", nil)
	})
}
